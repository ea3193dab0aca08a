// Package hpacksnap serializes a dynamic table's current contents for
// debugging: a JSON form for humans and tooling, and a compact msgpack
// form for shipping a snapshot between processes (e.g. a crash reporter
// attaching table state to a decode-failure report).
package hpacksnap

import (
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/dgrr/hpack"
)

// Entry is one dynamic table row in a snapshot.
type Entry struct {
	Index int    `json:"index" msgpack:"index"`
	Name  string `json:"name" msgpack:"name"`
	Value string `json:"value" msgpack:"value"`
	Size  int    `json:"size" msgpack:"size"`
}

// TableSnapshot is the full state of a dynamic table at a point in time.
type TableSnapshot struct {
	MaxSize int     `json:"max_size" msgpack:"max_size"`
	Size    int     `json:"size" msgpack:"size"`
	Entries []Entry `json:"entries" msgpack:"entries"`
}

// Snapshot captures t's current entries, newest first.
func Snapshot(t *hpack.DynamicTable) TableSnapshot {
	snap := TableSnapshot{
		MaxSize: t.MaxSize(),
		Size:    t.Size(),
		Entries: make([]Entry, 0, t.Len()),
	}
	for i := 1; i <= t.Len(); i++ {
		f, ok := t.EntryAt(i)
		if !ok {
			continue
		}
		snap.Entries = append(snap.Entries, Entry{
			Index: i,
			Name:  f.Name(),
			Value: f.Value(),
			Size:  f.Size(),
		})
	}
	return snap
}

// MarshalJSON encodes a snapshot as JSON via goccy/go-json.
func MarshalJSON(snap TableSnapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// UnmarshalJSON decodes a snapshot previously produced by MarshalJSON.
func UnmarshalJSON(b []byte) (TableSnapshot, error) {
	var snap TableSnapshot
	err := json.Unmarshal(b, &snap)
	return snap, err
}

// MarshalBinary encodes a snapshot as msgpack, for compact transport.
func MarshalBinary(snap TableSnapshot) ([]byte, error) {
	return msgpack.Marshal(snap)
}

// UnmarshalBinary decodes a snapshot previously produced by MarshalBinary.
func UnmarshalBinary(b []byte) (TableSnapshot, error) {
	var snap TableSnapshot
	err := msgpack.Unmarshal(b, &snap)
	return snap, err
}
