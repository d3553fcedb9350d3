// Package wasmmem runs codecs directly against WebAssembly linear memory.
//
// Decoding views guest memory without copying, so decoded borrowed values
// (byte slices, strings) alias the guest and are only valid until the guest
// runs again or memory grows. Offsets in decode errors are guest addresses.
//
//	mem := mod.ExportedMemory("memory")
//	hdr, next, err := wasmmem.Decode(headerCodec, mem, ptr, size, nil)
//	end, err := wasmmem.Encode(headerCodec, mem, ptr, hdr, nil)
package wasmmem
