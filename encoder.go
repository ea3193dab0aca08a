package hpack

import "sync"

// Encoder is a per-connection HPACK block encoder: it owns a dynamic table
// and reference set kept in lockstep with a peer Decoder's, and a pending
// list of fields to emit on the next Write.
//
// Use AcquireEncoder to obtain one from the pool; release it with
// ReleaseEncoder when the connection closes.
type Encoder struct {
	table  DynamicTable
	refSet indexSet

	pending []*HeaderField

	// DisableCompression forces every string to be written as a plain
	// literal, skipping the Huffman-when-shorter comparison. Useful for
	// generating fixtures or debugging a peer's decoder.
	DisableCompression bool

	log Logger
}

var encoderPool = sync.Pool{
	New: func() interface{} {
		e := &Encoder{}
		e.table = DynamicTable{maxData: maxTableSize}
		return e
	},
}

// AcquireEncoder gets an Encoder from the pool, with a fresh 4096-byte
// dynamic table and an empty reference set.
func AcquireEncoder() *Encoder {
	return encoderPool.Get().(*Encoder)
}

// ReleaseEncoder resets e and returns it to the pool.
func ReleaseEncoder(e *Encoder) {
	e.Reset()
	encoderPool.Put(e)
}

// Reset clears all encoder state: the dynamic table, the reference set,
// and any fields added but not yet written.
func (e *Encoder) Reset() {
	e.table = DynamicTable{maxData: maxTableSize, log: e.log}
	e.refSet.clear()
	e.releasePending()
	e.DisableCompression = false
}

func (e *Encoder) releasePending() {
	for _, f := range e.pending {
		ReleaseHeaderField(f)
	}
	e.pending = e.pending[:0]
}

// SetLogger installs a diagnostics sink on the encoder and its table.
func (e *Encoder) SetLogger(log Logger) {
	e.log = log
	e.table.SetLogger(log)
}

// SetMaxTableSize changes the encoder's own dynamic table max size (used
// when this endpoint is honoring a SETTINGS_HEADER_TABLE_SIZE change); it
// does not itself write a context-update representation.
func (e *Encoder) SetMaxTableSize(max int) error {
	evicted, err := e.table.setMax(max)
	if err != nil {
		return err
	}
	e.refSet.relativeComplement(&evicted)
	return nil
}

// Table returns the encoder's dynamic table.
func (e *Encoder) Table() *DynamicTable { return &e.table }

// Add queues a (name, value) pair to be written by the next Write call.
func (e *Encoder) Add(name, value string) {
	f := AcquireHeaderField()
	f.Set(name, value)
	e.pending = append(e.pending, f)
}

// AddField queues a clone of field to be written by the next Write call.
func (e *Encoder) AddField(field *HeaderField) {
	e.pending = append(e.pending, field.Clone())
}

// Write encodes every field queued since the last Write as one header
// block, appends it to dst, and returns the extended slice. It clears the
// pending list whether or not it succeeds partway: HPACK encoding has no
// partial-write recovery, so a failure should abort the connection.
func (e *Encoder) Write(dst []byte) ([]byte, error) {
	defer e.releasePending()

	// Toggle off every currently-referenced entry first, so this block's
	// representations fully and unambiguously describe the new list
	// rather than relying on implicit carryover from the previous one.
	it := e.refSet.iterator()
	for {
		slot, ok := it.next()
		if !ok {
			break
		}
		idx, ok := e.table.stableToHPACK(slot)
		if !ok {
			continue
		}
		dst = appendInt(dst, 7, uint64(idx))
		dst[len(dst)-1] |= 0x80
	}
	e.refSet.clear()

	for _, field := range e.pending {
		var err error
		dst, err = e.writeField(dst, field)
		if err != nil {
			return dst, err
		}
	}
	return dst, nil
}

func (e *Encoder) writeField(dst []byte, field *HeaderField) ([]byte, error) {
	name, value := field.Name(), field.Value()

	if field.sensitive {
		return e.writeLiteral(dst, name, value, 4, 0x10)
	}

	if idx, exact, ok := e.findIndex(name, value, true); ok && exact && !e.alreadyReferenced(idx) {
		dst = appendInt(dst, 7, uint64(idx))
		dst[len(dst)-1] |= 0x80
		if idx > e.table.count {
			// the decoder copies a static entry into its dynamic table
			e.insertAndReference(name, value)
		} else {
			e.referenceAfterIndexed(idx)
		}
		return dst, nil
	}

	if nameIdx, _, ok := e.findIndex(name, "", false); ok {
		dst = appendInt(dst, 6, uint64(nameIdx))
		dst[len(dst)-1] |= 0x40
		dst = e.appendString(dst, value)
		e.insertAndReference(name, value)
		return dst, nil
	}

	dst = appendInt(dst, 6, 0)
	dst[len(dst)-1] |= 0x40
	dst = e.appendString(dst, name)
	dst = e.appendString(dst, value)
	e.insertAndReference(name, value)
	return dst, nil
}

// writeLiteral encodes a literal (name, value) pair with the given index
// prefix width and representation flag, without touching the table or
// reference set (used for never-indexed, sensitive fields).
func (e *Encoder) writeLiteral(dst []byte, name, value string, prefixBits uint, flag byte) ([]byte, error) {
	dst = appendInt(dst, prefixBits, 0)
	dst[len(dst)-1] |= flag
	dst = e.appendString(dst, name)
	dst = e.appendString(dst, value)
	return dst, nil
}

func (e *Encoder) insertAndReference(name, value string) {
	field := AcquireHeaderField()
	field.SetName(name)
	field.SetValue(value)
	evicted, added := e.table.insert(field)
	ReleaseHeaderField(field)
	e.refSet.relativeComplement(&evicted)
	if added {
		slot := e.table.hpackToStable(1)
		e.refSet.add(slot)
	}
}

// alreadyReferenced reports whether idx names a dynamic-table entry that is
// already part of the reference set: encoding it as Indexed again would
// toggle it off on the decoder rather than confirm it, so the caller
// should fall back to a literal representation instead.
func (e *Encoder) alreadyReferenced(idx int) bool {
	if idx > e.table.count {
		return false
	}
	slot := e.table.hpackToStable(idx)
	return e.refSet.has(slot)
}

func (e *Encoder) referenceAfterIndexed(idx int) {
	if idx > e.table.count {
		return
	}
	slot := e.table.hpackToStable(idx)
	e.refSet.add(slot)
}

// findIndex looks for a combined-table match for (name, value). When
// matchValue is true it first looks for an exact match; if none exists (or
// matchValue is false) it falls back to a name-only match. exact reports
// whether the returned index matches both name and value.
func (e *Encoder) findIndex(name, value string, matchValue bool) (idx int, exact bool, ok bool) {
	for i := 1; i <= e.table.count; i++ {
		slot := e.table.hpackToStable(i)
		f, has := e.table.getByStable(slot)
		if !has || f.Name() != name {
			continue
		}
		if matchValue && f.Value() == value {
			return i, true, true
		}
		if !ok {
			idx, ok = i, true
		}
	}
	if sIdx, valueMatched, sOk := findStatic(name, value, matchValue); sOk {
		combined := sIdx + e.table.count
		if valueMatched {
			return combined, true, true
		}
		if !ok {
			idx, ok = combined, true
		}
	}
	return idx, false, ok
}

// appendString encodes s as a length-prefixed string, choosing Huffman
// encoding when it is strictly shorter (unless DisableCompression is set).
func (e *Encoder) appendString(dst []byte, s string) []byte {
	raw := []byte(s)
	if !e.DisableCompression {
		if hlen := huffmanEncodedLen(raw); hlen < len(raw) {
			dst = appendInt(dst, 7, uint64(hlen))
			dst[len(dst)-1] |= 0x80
			return appendHuffman(dst, raw)
		}
	}
	dst = appendInt(dst, 7, uint64(len(raw)))
	return append(dst, raw...)
}
