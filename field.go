package hpack

import "sync"

// entryOverhead is the fixed per-entry accounting overhead HPACK adds on
// top of the raw name+value bytes when sizing the dynamic table.
const entryOverhead = 32

// sourceTag records where a field's name or value came from, so re-encoding
// and observability can make the same choices a previous encoder made. It
// has no effect on equality.
type sourceTag uint8

const (
	sourceIndexedDynamic sourceTag = iota // came from the dynamic table
	sourceIndexedStatic                   // came from the static table
	sourceLiteral                         // literal, not huffman-encoded
	sourceLiteralHuffman                  // literal, huffman-encoded
)

// repKind records how a field was produced: one of the four field
// representations on the wire, supplied by a caller, or empty.
type repKind uint8

const (
	repEmpty repKind = iota
	repUserSupplied
	repIndexed
	repIncrementalIndexed
	repWithoutIndexing
	repNeverIndexed
)

// HeaderField is a single (name, value) header pair plus the bookkeeping
// that records how it was represented on the wire.
//
// Use AcquireHeaderField to obtain one from the pool; release it with
// ReleaseHeaderField when done.
type HeaderField struct {
	name, value []byte

	nameSource  sourceTag
	valueSource sourceTag
	rep         repKind

	sensitive bool
}

var fieldPool = sync.Pool{
	New: func() interface{} {
		return &HeaderField{}
	},
}

// AcquireHeaderField gets a HeaderField from the pool.
func AcquireHeaderField() *HeaderField {
	return fieldPool.Get().(*HeaderField)
}

// ReleaseHeaderField resets hf and returns it to the pool.
func ReleaseHeaderField(hf *HeaderField) {
	hf.Reset()
	fieldPool.Put(hf)
}

// Reset clears the field back to its zero value.
func (hf *HeaderField) Reset() {
	hf.name = hf.name[:0]
	hf.value = hf.value[:0]
	hf.nameSource = 0
	hf.valueSource = 0
	hf.rep = repEmpty
	hf.sensitive = false
}

// Empty reports whether hf carries neither a name nor a value.
func (hf *HeaderField) Empty() bool {
	return len(hf.name) == 0 && len(hf.value) == 0
}

// Name returns the field name as a string.
func (hf *HeaderField) Name() string { return string(hf.name) }

// Value returns the field value as a string.
func (hf *HeaderField) Value() string { return string(hf.value) }

// NameBytes returns the field name.
func (hf *HeaderField) NameBytes() []byte { return hf.name }

// ValueBytes returns the field value.
func (hf *HeaderField) ValueBytes() []byte { return hf.value }

// SetName sets the field's name.
func (hf *HeaderField) SetName(name string) {
	hf.name = append(hf.name[:0], name...)
}

// SetValue sets the field's value.
func (hf *HeaderField) SetValue(value string) {
	hf.value = append(hf.value[:0], value...)
}

// SetNameBytes sets the field's name.
func (hf *HeaderField) SetNameBytes(name []byte) {
	hf.name = append(hf.name[:0], name...)
}

// SetValueBytes sets the field's value.
func (hf *HeaderField) SetValueBytes(value []byte) {
	hf.value = append(hf.value[:0], value...)
}

// Set sets both name and value, as would a caller building a field to
// encode rather than one produced by decoding.
func (hf *HeaderField) Set(name, value string) {
	hf.SetName(name)
	hf.SetValue(value)
	hf.rep = repUserSupplied
}

// IsPseudo reports whether the field name is an HTTP/2 pseudo-header
// (starts with ':').
func (hf *HeaderField) IsPseudo() bool {
	return len(hf.name) > 0 && hf.name[0] == ':'
}

// SetSensitive marks the field so the encoder always chooses the
// never-indexed literal representation for it, regardless of whether an
// exact or name match exists in either table. Used for fields like
// Authorization or Cookie that a proxy must not let leak into the shared
// dynamic table.
func (hf *HeaderField) SetSensitive(sensitive bool) { hf.sensitive = sensitive }

// IsSensitive reports whether SetSensitive(true) was called on hf.
func (hf *HeaderField) IsSensitive() bool { return hf.sensitive }

// Size returns the field's accounting size in the dynamic table:
// len(name) + len(value) + entryOverhead, or 0 when both are empty.
func (hf *HeaderField) Size() int {
	if len(hf.name) == 0 && len(hf.value) == 0 {
		return 0
	}
	return len(hf.name) + len(hf.value) + entryOverhead
}

// CopyTo copies hf's contents into other, independent of hf's backing
// arrays.
func (hf *HeaderField) CopyTo(other *HeaderField) {
	other.name = append(other.name[:0], hf.name...)
	other.value = append(other.value[:0], hf.value...)
	other.nameSource = hf.nameSource
	other.valueSource = hf.valueSource
	other.rep = hf.rep
	other.sensitive = hf.sensitive
}

// Clone returns an independent copy of hf acquired from the field pool.
func (hf *HeaderField) Clone() *HeaderField {
	c := AcquireHeaderField()
	hf.CopyTo(c)
	return c
}

// String renders a debug representation:
// "name: value [representation | name: source | value: source]".
func (hf *HeaderField) String() string {
	return string(hf.appendRepr(nil))
}

func (hf *HeaderField) appendRepr(dst []byte) []byte {
	dst = append(dst, hf.name...)
	dst = append(dst, ':', ' ')
	dst = append(dst, hf.value...)
	dst = append(dst, " ["...)
	dst = append(dst, repName(hf.rep)...)
	dst = append(dst, " | name: "...)
	dst = append(dst, sourceName(hf.nameSource)...)
	dst = append(dst, " | value: "...)
	dst = append(dst, sourceName(hf.valueSource)...)
	dst = append(dst, ']')
	return dst
}

func repName(r repKind) string {
	switch r {
	case repUserSupplied:
		return "user-supplied"
	case repIndexed:
		return "indexed"
	case repIncrementalIndexed:
		return "incremental-indexing"
	case repWithoutIndexing:
		return "without-indexing"
	case repNeverIndexed:
		return "never-indexed"
	default:
		return "empty"
	}
}

func sourceName(s sourceTag) string {
	switch s {
	case sourceIndexedStatic:
		return "static-table"
	case sourceLiteral:
		return "literal"
	case sourceLiteralHuffman:
		return "literal-huffman"
	default:
		return "dynamic-table"
	}
}
