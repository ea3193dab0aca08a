package hpack

import (
	"fmt"
	"strings"
)

// maxTableSize is SETTINGS_HEADER_TABLE_SIZE: the largest max-size a peer
// may request for the dynamic table.
const maxTableSize = 4096

// maxTableEntries is the largest number of live entries the offsets ring
// can hold at once; one slot is always left free so a full table is never
// ambiguous with an empty one.
const maxTableEntries = setEntries - 1

// Logger is the diagnostics sink the dynamic table and codec accept. A nil
// Logger (the default) means no logging.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type dynEntry struct {
	field *HeaderField
	size  int
}

// DynamicTable is the per-connection header table: a FIFO of recently seen
// header fields, evicted oldest-first to stay within maxSize bytes of
// accounted size. Entries are addressed two ways: a "stable" slot index
// (0..setEntries-1, assigned at insertion and never renumbered while
// the entry lives) used internally by the reference-set bitmaps, and the
// wire's combined HPACK index (1 = most recently inserted, counting up
// through the dynamic table then into the static table) used on the wire.
type DynamicTable struct {
	offsets [setEntries]*dynEntry
	head    int // oldest occupied slot
	tail    int // next slot to write
	count   int

	usedData int
	maxData  int

	log Logger
}

// NewDynamicTable returns a table with the given initial max size.
func NewDynamicTable(maxSize int) *DynamicTable {
	return &DynamicTable{maxData: maxSize}
}

// SetLogger installs a diagnostics sink. Pass nil to disable logging.
func (t *DynamicTable) SetLogger(log Logger) { t.log = log }

// Len returns the number of live entries.
func (t *DynamicTable) Len() int { return t.count }

// Size returns the current accounted size in bytes.
func (t *DynamicTable) Size() int { return t.usedData }

// MaxSize returns the configured maximum accounted size.
func (t *DynamicTable) MaxSize() int { return t.maxData }

func (t *DynamicTable) evictOldest() (slot int, ok bool) {
	if t.count == 0 {
		return 0, false
	}
	slot = t.head
	e := t.offsets[slot]
	t.offsets[slot] = nil
	t.usedData -= e.size
	t.head = (t.head + 1) % setEntries
	t.count--
	if t.log != nil {
		t.log.Debugf("hpack: evicted %q (size %d)", e.field.Name(), e.size)
	}
	return slot, true
}

// clear empties the table, returning the set of stable slots that were
// occupied.
func (t *DynamicTable) clear() indexSet {
	var evicted indexSet
	for {
		slot, ok := t.evictOldest()
		if !ok {
			break
		}
		evicted.add(slot)
	}
	if t.log != nil {
		t.log.Debugf("hpack: table cleared")
	}
	return evicted
}

// insert adds field as a new, most-recent entry, evicting as many oldest
// entries as necessary. It returns the set of stable slots evicted in the
// process and whether field itself was actually added: per the
// specification, a field whose own size exceeds maxData clears the entire
// table instead of being added.
func (t *DynamicTable) insert(field *HeaderField) (evicted indexSet, added bool) {
	size := field.Size()
	if size > t.maxData {
		evicted = t.clear()
		return evicted, false
	}
	for t.usedData+size > t.maxData || t.count >= maxTableEntries {
		slot, ok := t.evictOldest()
		if !ok {
			break
		}
		evicted.add(slot)
	}
	slot := t.tail
	clone := field.Clone()
	t.offsets[slot] = &dynEntry{field: clone, size: size}
	t.tail = (t.tail + 1) % setEntries
	t.count++
	t.usedData += size
	return evicted, true
}

// setMax changes the configured maximum size, evicting as needed. It
// rejects a size above maxTableSize.
func (t *DynamicTable) setMax(max int) (evicted indexSet, err error) {
	if max > maxTableSize {
		return evicted, ErrTableSizeExceedsLimit
	}
	for t.usedData > max {
		slot, ok := t.evictOldest()
		if !ok {
			break
		}
		evicted.add(slot)
	}
	t.maxData = max
	if t.log != nil {
		t.log.Debugf("hpack: max table size set to %d", max)
	}
	return evicted, nil
}

// stableToHPACK translates a stable slot into its current combined HPACK
// index (1-based, newest first). ok is false if the slot is not currently
// occupied.
func (t *DynamicTable) stableToHPACK(slot int) (idx int, ok bool) {
	if t.offsets[slot] == nil {
		return 0, false
	}
	idx = ((t.tail-1-slot)%setEntries + setEntries) % setEntries
	return idx + 1, true
}

// hpackToStable translates a 1-based, newest-first dynamic-table index into
// its stable slot, per INDEX_SWITCH_HT_HPACK. The caller must have already
// checked 1 <= idx <= t.count.
func (t *DynamicTable) hpackToStable(idx int) int {
	return ((t.tail-idx)%setEntries + setEntries) % setEntries
}

// getByStable returns the entry at a stable slot.
func (t *DynamicTable) getByStable(slot int) (*HeaderField, bool) {
	e := t.offsets[slot]
	if e == nil {
		return nil, false
	}
	return e.field, true
}

// get resolves a combined HPACK index (1..count = dynamic table newest
// first, count+1..count+staticEntries = static table) into a field, its
// stable slot (only meaningful when it came from the dynamic table), and
// whether it came from the dynamic table at all.
func (t *DynamicTable) get(idx int) (field *HeaderField, slot int, fromDynamic bool, err error) {
	if idx < 1 {
		return nil, 0, false, ErrInvalidRepresentation
	}
	if idx <= t.count {
		slot := t.hpackToStable(idx)
		e := t.offsets[slot]
		if e == nil {
			return nil, 0, false, ErrIndexOutOfRange
		}
		return e.field, slot, true, nil
	}
	name, value, ok := getStaticIndexed(idx - t.count)
	if !ok {
		return nil, 0, false, ErrIndexOutOfRange
	}
	field = AcquireHeaderField()
	field.SetName(name)
	field.SetValue(value)
	return field, 0, false, nil
}

// EntryAt returns the dynamic-table-only entry at 1-based, newest-first
// index i (1..Len()). It never falls back to the static table.
func (t *DynamicTable) EntryAt(i int) (*HeaderField, bool) {
	if i < 1 || i > t.count {
		return nil, false
	}
	slot := t.hpackToStable(i)
	return t.getByStable(slot)
}

// String renders a human-readable dump of the table, newest entry first.
func (t *DynamicTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dynamic table: %d entries, %d/%d bytes\n", t.count, t.usedData, t.maxData)
	for i := 1; i <= t.count; i++ {
		slot := t.hpackToStable(i)
		e := t.offsets[slot]
		fmt.Fprintf(&b, "  [%d] %s\n", i, e.field.String())
	}
	return b.String()
}

// GoString returns a one-line summary of the table's counters for the %#v
// verb.
func (t *DynamicTable) GoString() string {
	return fmt.Sprintf("hpack.DynamicTable{count:%d, usedData:%d, maxData:%d}", t.count, t.usedData, t.maxData)
}
