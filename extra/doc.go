// Package extra provides higher-level codecs built from the combinators in
// package codec: length-prefixed byte runs in three ownership flavors
// (VarBytes borrows, CowBytes copies on first write, OwnedBytes copies on
// decode), length-prefixed element sequences, a consume-to-end sequence, the
// undecodable Never type and zstd-compressed payloads.
//
// Length prefixes are decoded with a nil context. Values are built through
// constructors that derive the prefix from the contents, so the prefix and
// the payload can never disagree.
package extra
