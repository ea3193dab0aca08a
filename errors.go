package hpack

import "errors"

// Error kinds surfaced by the codec, per the HPACK error taxonomy.
//
// ErrNeedMoreData is not fatal: it tells the caller to accumulate more bytes
// and retry from the representation that ran short. Every other error
// invalidates the remainder of the header block and, per HTTP/2 semantics,
// the connection.
var (
	// ErrNeedMoreData is returned when a representation is only partially
	// present in the supplied buffer. That representation consumed zero
	// bytes; the caller should retry it once more data has arrived.
	ErrNeedMoreData = errors.New("hpack: need more data")

	// ErrIntegerOverflow is returned when a variable-length integer would
	// not fit in 32 bits, or carries more continuation bytes than that
	// bound allows.
	ErrIntegerOverflow = errors.New("hpack: integer overflow")

	// ErrHuffmanInvalid is returned when the Huffman bitstream reaches a
	// sentinel error transition (this also covers an EOS symbol encoded
	// in full inside the stream).
	ErrHuffmanInvalid = errors.New("hpack: invalid huffman code")

	// ErrHuffmanTruncated is returned when the Huffman bitstream ends in a
	// state that is not a valid accepting (EOS-padding-compatible) state.
	ErrHuffmanTruncated = errors.New("hpack: truncated huffman code")

	// ErrIndexOutOfRange is returned when a lookup index falls outside the
	// combined dynamic+static index space.
	ErrIndexOutOfRange = errors.New("hpack: index out of range")

	// ErrInvalidRepresentation is returned for a zero index where one is
	// required, or a reserved high-bit pattern.
	ErrInvalidRepresentation = errors.New("hpack: invalid representation")

	// ErrTableSizeExceedsLimit is returned when a peer requests a dynamic
	// table max size greater than SETTINGS_HEADER_TABLE_SIZE (4096).
	ErrTableSizeExceedsLimit = errors.New("hpack: table size exceeds limit")

	// ErrOutOfMemory is the allocation-failure error kind. No operation in
	// this package currently returns it.
	ErrOutOfMemory = errors.New("hpack: out of memory")

	// ErrNotFound is returned by a table lookup for an entry that does not
	// exist.
	ErrNotFound = errors.New("hpack: entry not found")
)
