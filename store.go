package hpack

import "sync"

// Store is an ordered, append-only sink of header fields emitted while
// decoding a single header block. Fields pushed into a Store are owned
// clones; the Store releases them back to the field pool on Reset.
type Store struct {
	fields []*HeaderField
}

var storePool = sync.Pool{
	New: func() interface{} {
		return &Store{}
	},
}

// AcquireStore gets a Store from the pool.
func AcquireStore() *Store {
	return storePool.Get().(*Store)
}

// ReleaseStore resets s and returns it to the pool.
func ReleaseStore(s *Store) {
	s.Reset()
	storePool.Put(s)
}

// push appends a clone of field to the store.
func (s *Store) push(field *HeaderField) {
	s.fields = append(s.fields, field.Clone())
}

// Len returns the number of fields currently held.
func (s *Store) Len() int { return len(s.fields) }

// At returns the field at position i, in emission order.
func (s *Store) At(i int) *HeaderField { return s.fields[i] }

// Reset releases every held field back to the field pool and empties the
// store for reuse.
func (s *Store) Reset() {
	for _, f := range s.fields {
		ReleaseHeaderField(f)
	}
	s.fields = s.fields[:0]
}
