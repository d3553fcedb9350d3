package compiler

import "reflect"

var (
	recordPtrType  = reflect.TypeFor[*Record]()
	variantPtrType = reflect.TypeFor[*Variant]()
)

// Record is the decoded form of a struct schema compiled without a Go type.
// Fields keep schema order.
type Record struct {
	Name   string
	Fields []string
	Values []any
}

// NewRecord returns an empty record for the named schema.
func NewRecord(name string) *Record {
	return &Record{Name: name}
}

// Get returns the value of a field.
func (r *Record) Get(name string) (any, bool) {
	for i, f := range r.Fields {
		if f == name && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Set replaces a field value or appends a new field.
func (r *Record) Set(name string, v any) *Record {
	for i, f := range r.Fields {
		if f == name {
			r.Values[i] = v
			return r
		}
	}
	r.Fields = append(r.Fields, name)
	r.Values = append(r.Values, v)
	return r
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.Fields) }

// Variant is the decoded form of a union schema compiled without a Go type.
type Variant struct {
	Union        string
	Name         string
	Discriminant any
	Fields       *Record
}
