package decompress

import (
	"encoding/binary"
	"fmt"
)

// GetInfo parses the fixed 8-byte payload header and returns the declared
// compressed and original sizes. It fails with ErrMalformedHeader if the
// input is shorter than the header or if the declared compressed size does
// not fit in the bytes that follow it.
func GetInfo(src []byte) (compressedSize, originalSize uint32, err error) {
	if len(src) < headerSize {
		return 0, 0, fmt.Errorf("%w: %d bytes, header needs %d", ErrMalformedHeader, len(src), headerSize)
	}

	compressedSize = binary.LittleEndian.Uint32(src[0:4])
	originalSize = binary.LittleEndian.Uint32(src[4:8])

	if uint64(compressedSize) > uint64(len(src)-headerSize) {
		return 0, 0, fmt.Errorf("%w: compressed size %d exceeds %d remaining bytes",
			ErrMalformedHeader, compressedSize, len(src)-headerSize)
	}

	return compressedSize, originalSize, nil
}

// Decompress decodes a complete payload and returns a buffer of exactly the
// declared original size. Any error is terminal: no partial output is
// returned and the payload should be treated as corrupt or incompatible.
func Decompress(src []byte, algo Algorithm) ([]byte, error) {
	_, originalSize, err := GetInfo(src)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, originalSize)
	if err := DecompressInto(dst, src, algo); err != nil {
		return nil, err
	}

	return dst, nil
}

// DecompressInto decodes a payload into a caller-provided buffer, for callers
// that sized the destination from GetInfo and want no allocation. len(dst)
// must equal the declared original size. On error the contents of dst are
// unspecified and must be discarded.
func DecompressInto(dst, src []byte, algo Algorithm) error {
	compressedSize, originalSize, err := GetInfo(src)
	if err != nil {
		return err
	}
	if uint64(len(dst)) != uint64(originalSize) {
		return fmt.Errorf("%w: len(dst)=%d, declared=%d", ErrSizeMismatch, len(dst), originalSize)
	}
	if originalSize == 0 {
		return nil
	}

	d := newDecoder(src[headerSize:headerSize+int(compressedSize)], algo)

	return d.run(dst)
}

// decoder is the state of one decode session. The char/len and position
// tables are rebuilt per block; left and right hold the shared spill tree for
// codes longer than the fixed lookup width. A decoder is owned by a single
// call and never shared.
type decoder struct {
	br        bitReader
	posBits   int // width of the position set count field, variant dependent
	blockLeft int // symbols remaining in the current block

	cLen    [numCharLenSymbols]byte
	ptLen   [maxPositionSymbols]byte
	cTable  [1 << cTableBits]uint16
	ptTable [1 << ptTableBits]uint16
	left    [2*numCharLenSymbols - 1]uint16
	right   [2*numCharLenSymbols - 1]uint16
}

func newDecoder(stream []byte, algo Algorithm) *decoder {
	return &decoder{br: newBitReader(stream), posBits: algo.positionBits()}
}

// run decodes symbols into dst until it holds exactly the declared size.
func (d *decoder) run(dst []byte) error {
	pos := 0
	for pos < len(dst) {
		for d.blockLeft == 0 {
			if err := d.startBlock(); err != nil {
				return err
			}
		}
		d.blockLeft--

		sym, err := d.decodeCharLen()
		if err != nil {
			return err
		}

		if sym < 256 {
			dst[pos] = byte(sym)
			pos++

			continue
		}

		// Length symbol followed by a position-coded distance.
		length := sym - (256 - minMatchLen)
		dist, err := d.decodePosition()
		if err != nil {
			return err
		}

		src := pos - dist - 1 // source start in the output written so far
		if src < 0 {
			return fmt.Errorf("%w: distance %d at output offset %d", ErrInvalidBackReference, dist+1, pos)
		}
		if pos+length > len(dst) {
			return fmt.Errorf("%w: %d bytes past declared size %d", ErrOutputOverrun, pos+length-len(dst), len(dst))
		}

		// The source region may overlap the write cursor (src+length > pos):
		// each written byte must be visible to the next read (RLE-like), so
		// copy byte-by-byte. copy(dst, src) does not handle overlap.
		for i := 0; i < length; i++ {
			dst[pos] = dst[src+i]
			pos++
		}
	}

	return nil
}

// startBlock reads the 16-bit block symbol count and rebuilds the three code
// tables: the extra set first (it is the code the char/len lengths are
// written in), then the char/len set, then the position set.
func (d *decoder) startBlock() error {
	size, err := d.br.readBits(16)
	if err != nil {
		return err
	}
	d.blockLeft = int(size)

	if err := d.readPtLen(numExtraSymbols, extraBits, true); err != nil {
		return err
	}
	if err := d.readCLen(); err != nil {
		return err
	}

	return d.readPtLen(maxPositionSymbols, d.posBits, false)
}

// readPtLen reads a code length array for the extra or position set and
// rebuilds the 8-bit table. The array is preceded by a countBits-wide entry
// count; lengths below 7 are plain 3-bit values, 7 and above are '111' plus
// one further 1-bit per unit, terminated by a 0. When zeroRun is set (extra
// set only) a 2-bit count of zero lengths follows the third entry.
func (d *decoder) readPtLen(numSymbols, countBits int, zeroRun bool) error {
	count, err := d.br.readBits(countBits)
	if err != nil {
		return err
	}

	if count == 0 {
		// Single-symbol alphabet: the stream names the one symbol and every
		// lookup resolves to it without consuming bits.
		sym, err := d.br.readBits(countBits)
		if err != nil {
			return err
		}
		for i := range d.ptTable {
			d.ptTable[i] = uint16(sym)
		}
		for i := 0; i < numSymbols; i++ {
			d.ptLen[i] = 0
		}

		return nil
	}

	idx := 0
	for idx < int(count) && idx < len(d.ptLen) {
		v, err := d.br.readBits(3)
		if err != nil {
			return err
		}
		length := byte(v)
		if length == 7 {
			for {
				bit, err := d.br.readBits(1)
				if err != nil {
					return err
				}
				if bit == 0 {
					break
				}
				length++
				if int(length) > maxCodeLen {
					return ErrInvalidCodeLengths
				}
			}
		}
		d.ptLen[idx] = length
		idx++

		if zeroRun && idx == 3 {
			run, err := d.br.readBits(2)
			if err != nil {
				return err
			}
			for i := 0; i < int(run); i++ {
				d.ptLen[idx] = 0
				idx++
			}
		}
	}
	if idx > numSymbols {
		return ErrInvalidCodeLengths
	}
	for i := idx; i < numSymbols; i++ {
		d.ptLen[i] = 0
	}

	return buildTable(numSymbols, d.ptLen[:], ptTableBits, d.ptTable[:], d.left[:], d.right[:])
}

// readCLen reads the char/len code length array and rebuilds the 12-bit
// table. The lengths are run-length coded through the extra set: symbol 0 is
// a single zero length, symbol 1 a 4-bit-counted run of 3..18 zeros, symbol 2
// a 9-bit-counted run of 20 or more, and s > 2 is the plain length s-2.
func (d *decoder) readCLen() error {
	count, err := d.br.readBits(charLenBits)
	if err != nil {
		return err
	}

	if count == 0 {
		sym, err := d.br.readBits(charLenBits)
		if err != nil {
			return err
		}
		for i := range d.cLen {
			d.cLen[i] = 0
		}
		for i := range d.cTable {
			d.cTable[i] = uint16(sym)
		}

		return nil
	}

	idx := 0
	for idx < int(count) {
		sym, err := d.decodePtSymbol(numExtraSymbols)
		if err != nil {
			return err
		}

		if sym <= 2 {
			run := 1
			switch sym {
			case 1:
				v, err := d.br.readBits(4)
				if err != nil {
					return err
				}
				run = int(v) + 3
			case 2:
				v, err := d.br.readBits(charLenBits)
				if err != nil {
					return err
				}
				run = int(v) + 20
			}
			for i := 0; i < run; i++ {
				if idx >= len(d.cLen) {
					return ErrInvalidCodeLengths
				}
				d.cLen[idx] = 0
				idx++
			}

			continue
		}

		if idx >= len(d.cLen) {
			return ErrInvalidCodeLengths
		}
		d.cLen[idx] = byte(sym - 2)
		idx++
	}
	for i := idx; i < len(d.cLen); i++ {
		d.cLen[i] = 0
	}

	return buildTable(numCharLenSymbols, d.cLen[:], cTableBits, d.cTable[:], d.left[:], d.right[:])
}

// decodeCharLen decodes one char/len symbol: a fixed 12-bit table lookup,
// then a tree walk for codes longer than the table, then the cursor advances
// by the symbol's true code length.
func (d *decoder) decodeCharLen() (int, error) {
	sym := int(d.cTable[d.br.peekBits(cTableBits)])
	if sym >= numCharLenSymbols {
		var err error
		if sym, err = d.walkTree(sym, cTableBits, numCharLenSymbols); err != nil {
			return 0, err
		}
	}
	if err := d.br.skipBits(int(d.cLen[sym])); err != nil {
		return 0, err
	}

	return sym, nil
}

// decodePtSymbol decodes one symbol through the 8-bit extra/position table.
// leafLimit is the alphabet size the table was built with; entries at or
// above it are tree nodes.
func (d *decoder) decodePtSymbol(leafLimit int) (int, error) {
	sym := int(d.ptTable[d.br.peekBits(ptTableBits)])
	if sym >= leafLimit {
		var err error
		if sym, err = d.walkTree(sym, ptTableBits, leafLimit); err != nil {
			return 0, err
		}
	}
	if err := d.br.skipBits(int(d.ptLen[sym])); err != nil {
		return 0, err
	}

	return sym, nil
}

// walkTree resolves a spilled code: starting at tree node, consume one peeked
// bit per level until the index drops below leafLimit. Codes are at most
// maxCodeLen bits, so a deeper walk means the table is corrupt.
func (d *decoder) walkTree(node, depth, leafLimit int) (int, error) {
	for node >= leafLimit {
		if depth >= maxCodeLen {
			return 0, ErrInvalidCodeLengths
		}
		if d.br.peekBit(depth) {
			node = int(d.right[node])
		} else {
			node = int(d.left[node])
		}
		depth++
	}

	return node, nil
}

// decodePosition decodes a back-reference distance minus one: a position set
// symbol p, where p > 1 is the bit length of the value and the value itself
// follows as p-1 extra bits, the leading 1 bit being implicit.
func (d *decoder) decodePosition() (int, error) {
	sym, err := d.decodePtSymbol(maxPositionSymbols)
	if err != nil {
		return 0, err
	}
	if sym <= 1 {
		return sym, nil
	}

	extra, err := d.br.readBits(sym - 1)
	if err != nil {
		return 0, err
	}

	return 1<<(sym-1) + int(extra), nil
}
