package decompress

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"sort"
	"testing"

	"github.com/icza/bitio"
)

// The library deliberately has no compressor, so the tests carry a minimal
// one: an assembler that Huffman-codes an explicit list of literals and back
// references into a single-block payload. Code lengths are assigned as a
// balanced complete code rather than by frequency; the decoder does not care
// about optimality, only about canonical validity.

// testSymbol is one entry of the symbol stream handed to assemble.
type testSymbol struct {
	lit      byte
	isMatch  bool
	distance int // bytes behind the write cursor, >= 1
	length   int // 3..256
}

func lit(b byte) testSymbol {
	return testSymbol{lit: b}
}

func litRun(s string) []testSymbol {
	syms := make([]testSymbol, len(s))
	for i := 0; i < len(s); i++ {
		syms[i] = lit(s[i])
	}

	return syms
}

func back(distance, length int) testSymbol {
	return testSymbol{isMatch: true, distance: distance, length: length}
}

// expand interprets the symbol stream directly, giving the expected output.
func expand(t testing.TB, syms []testSymbol) []byte {
	t.Helper()

	var out []byte
	for _, s := range syms {
		if !s.isMatch {
			out = append(out, s.lit)

			continue
		}
		src := len(out) - s.distance
		if src < 0 {
			t.Fatalf("test stream references %d bytes before start", -src)
		}
		for i := 0; i < s.length; i++ {
			out = append(out, out[src+i])
		}
	}

	return out
}

// posSymbol returns the position set symbol for a decoded position value
// (distance minus one): the value's bit length.
func posSymbol(v int) int {
	return bits.Len(uint(v))
}

// balancedLengths assigns the used symbols a complete prefix code: with k
// symbols and L = ceil(log2(k)), the first 2^L-k of them get length L-1 and
// the rest length L. A one-symbol alphabet is written with the count==0
// escape instead, never through here.
func balancedLengths(total int, used []int) []byte {
	lengths := make([]byte, total)
	k := len(used)
	l := bits.Len(uint(k - 1))
	short := 1<<l - k
	for i, sym := range used {
		if i < short {
			lengths[sym] = byte(l - 1)
		} else {
			lengths[sym] = byte(l)
		}
	}

	return lengths
}

// canonicalCodes mirrors the decoder's canonical assignment: consecutive
// codes in symbol order within a length, shorter codes numerically first.
func canonicalCodes(lengths []byte) []uint64 {
	var count [maxCodeLen + 1]uint16
	for _, l := range lengths {
		count[l]++
	}
	var start [maxCodeLen + 2]uint16
	for i := 1; i <= maxCodeLen; i++ {
		start[i+1] = start[i] + count[i]<<(maxCodeLen-i)
	}

	codes := make([]uint64, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		codes[sym] = uint64(start[l] >> (maxCodeLen - int(l)))
		start[l] += 1 << (maxCodeLen - int(l))
	}

	return codes
}

func sortedKeys(m map[int]bool) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}

func mustWriteBits(t testing.TB, w *bitio.Writer, v uint64, n uint8) {
	t.Helper()

	if n == 0 {
		return
	}
	if err := w.WriteBits(v, n); err != nil {
		t.Fatalf("write %d bits: %v", n, err)
	}
}

// writeAlphabet emits an extra or position set length array the way readPtLen
// reads it, including the count==0 escape for empty or one-symbol alphabets
// and the 2-bit zero-run field after the third entry.
func writeAlphabet(t testing.TB, w *bitio.Writer, lengths []byte, usedCount, countBits int, zeroRun bool) {
	t.Helper()

	if usedCount <= 1 {
		sole := 0
		for sym, l := range lengths {
			if l != 0 {
				sole = sym
			}
		}
		mustWriteBits(t, w, 0, uint8(countBits))
		mustWriteBits(t, w, uint64(sole), uint8(countBits))

		return
	}

	count := 0
	for i, l := range lengths {
		if l != 0 {
			count = i + 1
		}
	}
	mustWriteBits(t, w, uint64(count), uint8(countBits))

	idx := 0
	for idx < count {
		l := lengths[idx]
		if l < 7 {
			mustWriteBits(t, w, uint64(l), 3)
		} else {
			mustWriteBits(t, w, 7, 3)
			for i := 7; i < int(l); i++ {
				mustWriteBits(t, w, 1, 1)
			}
			mustWriteBits(t, w, 0, 1)
		}
		idx++

		if zeroRun && idx == 3 {
			run := 0
			for run < 3 && idx+run < count && lengths[idx+run] == 0 {
				run++
			}
			mustWriteBits(t, w, uint64(run), 2)
			idx += run
		}
	}
}

// extSym is one extra-set-coded entry of the char/len length array.
type extSym struct {
	sym       int
	extra     uint64
	extraBits uint8
}

// cLenSymbols run-length codes the char/len length array into extra set
// symbols, reversing what readCLen does.
func cLenSymbols(cLens []byte) (seq []extSym, count int) {
	for i, l := range cLens {
		if l != 0 {
			count = i + 1
		}
	}

	idx := 0
	for idx < count {
		if cLens[idx] != 0 {
			seq = append(seq, extSym{sym: int(cLens[idx]) + 2})
			idx++

			continue
		}
		run := 0
		for idx+run < count && cLens[idx+run] == 0 {
			run++
		}
		switch {
		case run <= 2:
			for i := 0; i < run; i++ {
				seq = append(seq, extSym{sym: 0})
			}
		case run < 19:
			seq = append(seq, extSym{sym: 1, extra: uint64(run - 3), extraBits: 4})
		case run == 19:
			seq = append(seq, extSym{sym: 0})
			seq = append(seq, extSym{sym: 1, extra: 15, extraBits: 4})
		default:
			seq = append(seq, extSym{sym: 2, extra: uint64(run - 20), extraBits: charLenBits})
		}
		idx += run
	}

	return seq, count
}

// assemble builds a complete payload that decodes to the expansion of syms.
// declaredSize overrides the original-size header field when >= 0, for tests
// that need a header at odds with the stream.
func assemble(t testing.TB, algo Algorithm, syms []testSymbol, declaredSize int) []byte {
	t.Helper()

	outLen := 0
	usedC := map[int]bool{}
	usedP := map[int]bool{}
	for _, s := range syms {
		if s.isMatch {
			outLen += s.length
			usedC[256+s.length-minMatchLen] = true
			usedP[posSymbol(s.distance-1)] = true
		} else {
			outLen++
			usedC[int(s.lit)] = true
		}
	}

	cLens := make([]byte, numCharLenSymbols)
	cCodes := make([]uint64, numCharLenSymbols)
	if len(usedC) > 1 {
		cLens = balancedLengths(numCharLenSymbols, sortedKeys(usedC))
		cCodes = canonicalCodes(cLens)
	}

	seq, cCount := cLenSymbols(cLens)
	usedE := map[int]bool{}
	for _, es := range seq {
		usedE[es.sym] = true
	}
	eLens := make([]byte, numExtraSymbols)
	eCodes := make([]uint64, numExtraSymbols)
	if len(usedE) > 1 {
		eLens = balancedLengths(numExtraSymbols, sortedKeys(usedE))
		eCodes = canonicalCodes(eLens)
	} else if len(usedE) == 1 {
		eLens[sortedKeys(usedE)[0]] = 1 // marks the sole symbol for the escape
	}

	pLens := make([]byte, maxPositionSymbols)
	pCodes := make([]uint64, maxPositionSymbols)
	if len(usedP) > 1 {
		pLens = balancedLengths(maxPositionSymbols, sortedKeys(usedP))
		pCodes = canonicalCodes(pLens)
	} else if len(usedP) == 1 {
		pLens[sortedKeys(usedP)[0]] = 1
	}

	var body bytes.Buffer
	w := bitio.NewWriter(&body)

	mustWriteBits(t, w, uint64(len(syms)), 16)

	writeAlphabet(t, w, eLens, len(usedE), extraBits, true)

	if len(usedC) == 1 {
		mustWriteBits(t, w, 0, uint8(charLenBits))
		mustWriteBits(t, w, uint64(sortedKeys(usedC)[0]), uint8(charLenBits))
	} else {
		mustWriteBits(t, w, uint64(cCount), uint8(charLenBits))
		for _, es := range seq {
			mustWriteBits(t, w, eCodes[es.sym], escCodeLen(usedE, eLens, es.sym))
			if es.extraBits > 0 {
				mustWriteBits(t, w, es.extra, es.extraBits)
			}
		}
	}

	writeAlphabet(t, w, pLens, len(usedP), algo.positionBits(), false)

	for _, s := range syms {
		if !s.isMatch {
			mustWriteBits(t, w, cCodes[s.lit], cLens[s.lit])

			continue
		}
		c := 256 + s.length - minMatchLen
		mustWriteBits(t, w, cCodes[c], cLens[c])
		v := s.distance - 1
		p := posSymbol(v)
		if len(usedP) > 1 {
			mustWriteBits(t, w, pCodes[p], pLens[p])
		}
		if p > 1 {
			mustWriteBits(t, w, uint64(v)-1<<(p-1), uint8(p-1))
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close bit writer: %v", err)
	}

	size := outLen
	if declaredSize >= 0 {
		size = declaredSize
	}
	payload := make([]byte, headerSize+body.Len())
	binary.LittleEndian.PutUint32(payload[0:4], uint32(body.Len()))
	binary.LittleEndian.PutUint32(payload[4:8], uint32(size))
	copy(payload[headerSize:], body.Bytes())

	return payload
}

// escCodeLen returns the bit length a char/len length entry is written with:
// zero when the extra set collapsed to the count==0 escape (the decoder then
// resolves every entry without consuming bits).
func escCodeLen(usedE map[int]bool, eLens []byte, sym int) uint8 {
	if len(usedE) == 1 {
		return 0
	}

	return eLens[sym]
}
