package hpack

import "sync"

// Decoder is a per-connection HPACK block decoder: it owns a dynamic
// table, the reference set R (entries implied to be part of the current
// header list unless explicitly toggled off) and the not-yet-emitted set E
// (drives the final emission pass at the end of each block), and the Store
// that collects emitted fields.
//
// Use AcquireDecoder to obtain one from the pool; release it with
// ReleaseDecoder when the connection closes.
type Decoder struct {
	table DynamicTable

	refSet        indexSet
	notEmitted    indexSet
	emitIter      indexSetIterator
	finished      bool

	store *Store
	log   Logger
}

var decoderPool = sync.Pool{
	New: func() interface{} {
		d := &Decoder{}
		d.table = DynamicTable{maxData: maxTableSize}
		d.store = AcquireStore()
		return d
	},
}

// AcquireDecoder gets a Decoder from the pool, with a fresh 4096-byte
// dynamic table and an empty reference set.
func AcquireDecoder() *Decoder {
	return decoderPool.Get().(*Decoder)
}

// ReleaseDecoder resets d and returns it to the pool.
func ReleaseDecoder(d *Decoder) {
	d.Reset()
	decoderPool.Put(d)
}

// Reset clears all decoder state: the dynamic table, the reference and
// not-yet-emitted sets, and the emitted-field store.
func (d *Decoder) Reset() {
	d.table = DynamicTable{maxData: maxTableSize, log: d.log}
	d.refSet.clear()
	d.notEmitted.clear()
	d.finished = false
	d.store.Reset()
}

// SetLogger installs a diagnostics sink on the decoder and its table.
func (d *Decoder) SetLogger(log Logger) {
	d.log = log
	d.table.SetLogger(log)
}

// SetMaxTableSize applies a locally-initiated change to the dynamic
// table's maximum size (as opposed to one signalled by the peer via an
// encoding-context-update representation).
func (d *Decoder) SetMaxTableSize(max int) error {
	evicted, err := d.table.setMax(max)
	if err != nil {
		return err
	}
	d.refSet.relativeComplement(&evicted)
	d.notEmitted.relativeComplement(&evicted)
	return nil
}

// Table returns the decoder's dynamic table.
func (d *Decoder) Table() *DynamicTable { return &d.table }

// Store returns the store of fields emitted by the most recent Read call.
// Callers that want to retain fields across a block should clone them
// before the next Read, since Read resets the store at the start of a new
// block.
func (d *Decoder) Store() *Store { return d.store }

// parseString decodes a length-prefixed, optionally Huffman-encoded octet
// string starting at b[0]. It returns the remaining buffer, the decoded
// payload bytes, and whether the payload was Huffman-encoded on the wire.
func parseString(b []byte) (rest []byte, payload []byte, huffman bool, err error) {
	if len(b) < 1 {
		return b, nil, false, ErrNeedMoreData
	}
	huffman = b[0]&0x80 != 0
	rest, n, err := readInt(7, b)
	if err != nil {
		return b, nil, huffman, err
	}
	if uint64(len(rest)) < n {
		return b, nil, huffman, ErrNeedMoreData
	}
	raw := rest[:n]
	rest = rest[n:]
	if !huffman {
		return rest, append([]byte(nil), raw...), huffman, nil
	}
	out, err := appendHuffmanDecode(nil, raw)
	if err != nil {
		return rest, nil, huffman, err
	}
	return rest, out, huffman, nil
}

// parseHeaderPair decodes a literal representation's (name, value) pair.
// A nonzero prefix integer names a table entry whose name is used; a zero
// prefix means a literal name string follows. The field's nameSource
// records which.
func (d *Decoder) parseHeaderPair(b []byte, prefixBits int) (rest []byte, field *HeaderField, err error) {
	if len(b) < 1 {
		return b, nil, ErrNeedMoreData
	}
	field = AcquireHeaderField()

	rest = b
	nameIndexed := rest[0]&prefixMask(uint(prefixBits)) != 0
	if nameIndexed {
		var idx uint64
		rest, idx, err = readInt(prefixBits, rest)
		if err != nil {
			ReleaseHeaderField(field)
			return b, nil, err
		}
		nameField, _, fromDynamic, gerr := d.table.get(int(idx))
		if gerr != nil {
			ReleaseHeaderField(field)
			return b, nil, gerr
		}
		field.SetName(nameField.Name())
		if fromDynamic {
			field.nameSource = sourceIndexedDynamic
		} else {
			field.nameSource = sourceIndexedStatic
			ReleaseHeaderField(nameField)
		}
	} else {
		rest = rest[1:] // representation byte with a zero name index
		var name []byte
		var nameHuffman bool
		rest, name, nameHuffman, err = parseString(rest)
		if err != nil {
			ReleaseHeaderField(field)
			return b, nil, err
		}
		field.SetNameBytes(name)
		if nameHuffman {
			field.nameSource = sourceLiteralHuffman
		} else {
			field.nameSource = sourceLiteral
		}
	}

	var value []byte
	var valueHuffman bool
	rest, value, valueHuffman, err = parseString(rest)
	if err != nil {
		ReleaseHeaderField(field)
		return b, nil, err
	}
	field.SetValueBytes(value)
	if valueHuffman {
		field.valueSource = sourceLiteralHuffman
	} else {
		field.valueSource = sourceLiteral
	}

	return rest, field, nil
}

// parseIndexed decodes a fully indexed representation (1xxxxxxx): a single
// combined-index reference, possibly toggling its reference-set membership
// instead of emitting it again.
func (d *Decoder) parseIndexed(b []byte) (rest []byte, field *HeaderField, err error) {
	rest, idx64, err := readInt(7, b)
	if err != nil {
		return b, nil, err
	}
	idx := int(idx64)
	if idx < 1 {
		return b, nil, ErrInvalidRepresentation
	}
	if idx > staticEntries+d.table.count {
		return b, nil, ErrIndexOutOfRange
	}
	if idx <= d.table.count {
		slot := d.table.hpackToStable(idx)
		if d.refSet.has(slot) {
			d.refSet.remove(slot)
			d.notEmitted.remove(slot)
			return rest, nil, nil
		}
	}

	got, slot, fromDynamic, gerr := d.table.get(idx)
	if gerr != nil {
		return b, nil, gerr
	}
	if fromDynamic {
		// got is the table's own entry; emit a copy so the table keeps it.
		got = got.Clone()
	}
	got.rep = repIndexed
	if fromDynamic {
		got.nameSource = sourceIndexedDynamic
		got.valueSource = sourceIndexedDynamic
	} else {
		got.nameSource = sourceIndexedStatic
		got.valueSource = sourceIndexedStatic
		evicted, added := d.table.insert(got)
		d.refSet.relativeComplement(&evicted)
		d.notEmitted.relativeComplement(&evicted)
		if added {
			slot = d.table.hpackToStable(1)
		}
	}
	d.refSet.add(slot)
	d.notEmitted.remove(slot)
	return rest, got, nil
}

// parseContextUpdate decodes an encoding-context-update representation
// (001xxxxx): either the exact byte 0x30 (empty the reference set) or a
// 4-bit-prefix integer giving a new dynamic table max size.
func (d *Decoder) parseContextUpdate(b []byte) (rest []byte, err error) {
	if len(b) < 1 {
		return b, ErrNeedMoreData
	}
	if b[0] == 0x30 {
		d.refSet.clear()
		d.notEmitted.clear()
		return b[1:], nil
	}
	rest, max64, err := readInt(4, b)
	if err != nil {
		return b, err
	}
	evicted, serr := d.table.setMax(int(max64))
	if serr != nil {
		return b, serr
	}
	d.refSet.relativeComplement(&evicted)
	d.notEmitted.relativeComplement(&evicted)
	return rest, nil
}

// finalReferenceSet drains entries of notEmitted (E) that were implied by
// the reference set but never explicitly touched in this block, emitting
// each once. Once E is exhausted it resets E to a copy of R and marks the
// block finished, so the driver loop can stop.
func (d *Decoder) finalReferenceSet() (field *HeaderField, eof bool, err error) {
	if d.finished {
		return nil, true, nil
	}
	slot, ok := d.emitIter.next()
	for ok && !d.notEmitted.has(slot) {
		// removed from E during this block (toggled off, emptied, evicted)
		slot, ok = d.emitIter.next()
	}
	if !ok {
		d.finished = true
		d.notEmitted.set(&d.refSet)
		d.emitIter = d.notEmitted.iterator()
		return nil, true, nil
	}
	got, ok := d.table.getByStable(slot)
	if !ok {
		return nil, false, ErrNotFound
	}
	d.notEmitted.remove(slot)
	clone := got.Clone()
	clone.rep = repIndexed
	return clone, false, nil
}

// Read decodes one complete header block from buf into the decoder's
// Store, resetting the store first. It returns the unconsumed tail of buf
// (normally empty) and an error. On error the returned tail starts at the
// representation that failed; every representation before it has already
// been applied to the table and reference sets. ErrNeedMoreData means buf
// ended mid representation; the caller retries with more bytes appended
// to that tail, not with the whole of buf again.
func (d *Decoder) Read(buf []byte) ([]byte, error) {
	d.store.Reset()
	d.finished = false
	d.emitIter = d.notEmitted.iterator()

	b := buf
	for {
		if len(b) == 0 {
			field, eof, err := d.finalReferenceSet()
			if err != nil {
				return b, err
			}
			if eof {
				return b, nil
			}
			if field != nil {
				d.store.push(field)
				ReleaseHeaderField(field)
			}
			continue
		}

		c := b[0]
		switch {
		case c&0x80 != 0:
			rest, field, err := d.parseIndexed(b)
			if err != nil {
				return b, err
			}
			b = rest
			if field != nil {
				field.rep = repIndexed
				d.store.push(field)
				ReleaseHeaderField(field)
			}

		case c&0xe0 == 0x20:
			rest, err := d.parseContextUpdate(b)
			if err != nil {
				return b, err
			}
			b = rest

		default:
			doIndexing := c&0xc0 == 0x40
			prefixBits := 4
			if doIndexing {
				prefixBits = 6
			}
			rest, field, err := d.parseHeaderPair(b, prefixBits)
			if err != nil {
				return b, err
			}
			b = rest

			if doIndexing {
				field.rep = repIncrementalIndexed
				evicted, added := d.table.insert(field)
				d.refSet.relativeComplement(&evicted)
				d.notEmitted.relativeComplement(&evicted)
				if added {
					slot := d.table.hpackToStable(1)
					d.refSet.add(slot)
					d.notEmitted.remove(slot)
				}
			} else if c&0xf0 != 0 {
				field.rep = repNeverIndexed
			} else {
				field.rep = repWithoutIndexing
			}
			d.store.push(field)
			ReleaseHeaderField(field)
		}
	}
}
