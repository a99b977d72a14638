package model

import (
	"bytes"
	"sort"
)

// ValueKind tags the variant stored in a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindText
	KindBlob
	KindReference
)

// String returns the lowercase variant name.
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	case KindReference:
		return "reference"
	default:
		return "absent"
	}
}

// Blob is an uploaded binary payload. Name and ContentType are informational;
// size checks only look at len(Data).
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size reports the payload length in bytes.
func (b Blob) Size() int64 {
	return int64(len(b.Data))
}

// Value is a single field value. The zero Value is Absent.
type Value struct {
	kind ValueKind
	text string
	blob *Blob
}

// Absent returns the undefined value.
func Absent() Value {
	return Value{}
}

// Text wraps a plain string entered by the user.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Reference wraps a pre-existing reference such as an image URL on edit.
func Reference(ref string) Value {
	return Value{kind: KindReference, text: ref}
}

// BlobValue wraps an uploaded binary. The data slice is copied.
func BlobValue(name, contentType string, data []byte) Value {
	b := &Blob{
		Name:        name,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return Value{kind: KindBlob, blob: b}
}

// Kind reports the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether the value is undefined.
func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// String returns the text or reference payload; empty for blobs and absent
// values.
func (v Value) String() string {
	return v.text
}

// Blob returns the binary payload when the value is a blob.
func (v Value) Blob() (Blob, bool) {
	if v.kind != KindBlob || v.blob == nil {
		return Blob{}, false
	}
	return *v.blob, true
}

// Equal reports whether two values carry the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindAbsent:
		return true
	case KindBlob:
		a, _ := v.Blob()
		b, _ := other.Blob()
		return a.Name == b.Name && a.ContentType == b.ContentType && bytes.Equal(a.Data, b.Data)
	default:
		return v.text == other.text
	}
}

// Plain converts the value into a JSON/YAML friendly representation. Blobs are
// summarised rather than inlined.
func (v Value) Plain() any {
	switch v.kind {
	case KindText, KindReference:
		return v.text
	case KindBlob:
		b, _ := v.Blob()
		return map[string]any{
			"name":        b.Name,
			"contentType": b.ContentType,
			"size":        b.Size(),
		}
	default:
		return nil
	}
}

// FormValue maps field names to their current values.
type FormValue map[string]Value

// Clone returns a shallow copy. Values are immutable so sharing them is safe.
func (fv FormValue) Clone() FormValue {
	out := make(FormValue, len(fv))
	for name, value := range fv {
		out[name] = value
	}
	return out
}

// Names returns the field names in sorted order.
func (fv FormValue) Names() []string {
	names := make([]string, 0, len(fv))
	for name := range fv {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plain converts the record into a map suitable for serialization. Absent
// values are kept as nil so the key set mirrors the form.
func (fv FormValue) Plain() map[string]any {
	out := make(map[string]any, len(fv))
	for name, value := range fv {
		out[name] = value.Plain()
	}
	return out
}
