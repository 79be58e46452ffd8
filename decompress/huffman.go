package decompress

// buildTable converts the canonical code length array lengths[:numSymbols]
// into the EDK2-layout decode structure: table is a fixed lookup indexed by
// the next tableBits bits of the stream, and codes longer than tableBits
// spill into a binary tree stored in left/right. Entries below numSymbols are
// decoded symbols; entries at or above it are tree node indices.
//
// Canonical assignment: symbols of equal length receive consecutive codes in
// symbol order and shorter codes numerically precede longer ones, so the
// whole code is reconstructed from the length array alone. left and right are
// shared between the char/len and position tables; the node ranges used by
// each are disjoint.
func buildTable(numSymbols int, lengths []byte, tableBits int, table, left, right []uint16) error {
	// Count symbols at each code length.
	var count [maxCodeLen + 1]uint16
	for i := 0; i < numSymbols; i++ {
		if int(lengths[i]) > maxCodeLen {
			return ErrInvalidCodeLengths
		}
		count[lengths[i]]++
	}

	// First code of each length, left-justified in 16 bits. A complete
	// prefix code wraps to exactly zero after the longest length; anything
	// else is over- or under-subscribed.
	var start [maxCodeLen + 2]uint16
	for i := 1; i <= maxCodeLen; i++ {
		start[i+1] = start[i] + count[i]<<(maxCodeLen-i)
	}
	if start[maxCodeLen+1] != 0 {
		return ErrInvalidCodeLengths
	}

	extendedBits := uint(maxCodeLen - tableBits)

	// weight[i] is the span one code of length i claims: table slots for
	// short codes, 16-bit code points for spilled ones.
	var weight [maxCodeLen + 1]uint16
	for i := 1; i <= tableBits; i++ {
		start[i] >>= extendedBits
		weight[i] = 1 << (tableBits - i)
	}
	for i := tableBits + 1; i <= maxCodeLen; i++ {
		weight[i] = 1 << (maxCodeLen - i)
	}

	// Clear the slots no short code claims so stale entries from the
	// previous block cannot alias into the tree.
	if idx := start[tableBits+1] >> extendedBits; idx != 0 {
		for i := int(idx); i < 1<<tableBits; i++ {
			table[i] = 0
		}
	}

	avail := numSymbols
	maxNodes := len(left)
	mask := uint16(1) << (15 - tableBits)

	for sym := 0; sym < numSymbols; sym++ {
		l := int(lengths[sym])
		if l == 0 {
			continue
		}
		next := start[l] + weight[l]

		if l <= tableBits {
			if start[l] >= next || int(next) > 1<<tableBits {
				return ErrInvalidCodeLengths
			}
			// Every table slot this code prefixes resolves to it.
			for i := start[l]; i < next; i++ {
				table[i] = uint16(sym)
			}
		} else {
			// Spill: walk the tree along the code bits past tableBits,
			// allocating nodes on first touch, and leave the symbol at
			// the final position.
			bits := start[l]
			p := &table[bits>>extendedBits]
			for i := l - tableBits; i > 0; i-- {
				if *p == 0 && avail < maxNodes {
					left[avail], right[avail] = 0, 0
					*p = uint16(avail)
					avail++
				}
				if int(*p) < maxNodes {
					if bits&mask != 0 {
						p = &right[*p]
					} else {
						p = &left[*p]
					}
				}
				bits <<= 1
			}
			*p = uint16(sym)
		}

		start[l] = next
	}

	return nil
}
