package decompress

// bitReader is a most-significant-bit-first cursor over the compressed
// bitstream. Reads consume bits and fail once the stream is exhausted; peeks
// zero-pad past the end so the final symbol can resolve against the trailing
// pad bits without consuming them.
type bitReader struct {
	data []byte
	pos  int // bit offset from the start of data
}

func newBitReader(data []byte) bitReader {
	return bitReader{data: data}
}

// peekBits returns the next n bits (n <= 32) without advancing the cursor.
// Bits beyond the end of the stream read as zero.
func (r *bitReader) peekBits(n int) uint32 {
	var v uint64
	base := r.pos >> 3
	for i := 0; i < 8 && base+i < len(r.data); i++ {
		v |= uint64(r.data[base+i]) << (56 - 8*i)
	}
	v <<= uint(r.pos & 7)

	return uint32(v >> (64 - uint(n)))
}

// peekBit reports the bit off positions past the cursor, zero past the end.
func (r *bitReader) peekBit(off int) bool {
	idx := r.pos + off
	if idx >= len(r.data)*8 {
		return false
	}

	return r.data[idx>>3]&(0x80>>uint(idx&7)) != 0
}

// readBits returns the next n bits (n <= 32) and advances the cursor. Unlike
// peekBits, demanding more bits than remain in the stream is an error.
func (r *bitReader) readBits(n int) (uint32, error) {
	if r.pos+n > len(r.data)*8 {
		return 0, ErrUnexpectedEOF
	}

	v := r.peekBits(n)
	r.pos += n

	return v, nil
}

// skipBits advances the cursor by n bits already resolved through peeking.
func (r *bitReader) skipBits(n int) error {
	if r.pos+n > len(r.data)*8 {
		return ErrUnexpectedEOF
	}

	r.pos += n

	return nil
}
