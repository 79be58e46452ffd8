package decompress

// UEFI/Tiano compressed format constants (UEFI PI specification, compression
// algorithm section; EDK2 BaseUefiDecompressLib uses the same values).
const (
	headerSize = 8 // compressed size u32 LE + original size u32 LE

	minMatchLen = 3   // shortest back-reference length
	maxMatchLen = 256 // longest back-reference length

	// Char&Len set: 256 literals plus one symbol per match length 3..256.
	numCharLenSymbols = 255 + maxMatchLen + 2 - minMatchLen // 510
	charLenBits       = 9                                   // width of the char/len count field
	cTableBits        = 12                                  // fixed-lookup width of the char/len table

	// Extra set: the code lengths of code lengths alphabet.
	numExtraSymbols = 19
	extraBits       = 5 // width of the extra set count field
	ptTableBits     = 8 // fixed-lookup width of the extra/position tables

	// Position set: symbol p > 1 means a p-1 bit distance with implicit
	// leading 1 bit.
	maxPositionSymbols = 31

	maxCodeLen = 16 // longest Huffman code the format permits
)

// Algorithm selects one of the two historical variants of the format. They
// share the table construction and symbol loop and differ only in the bit
// width of the position set count field. The payload carries no version tag;
// the caller knows the variant from context.
type Algorithm int

// Supported variants.
const (
	UEFI  Algorithm = iota // standard EFI 1.1 / UEFI compression (4-bit position count field)
	Tiano                  // extended "framework" variant (5-bit position count field)
)

// positionBits returns the width of the position set count field.
func (a Algorithm) positionBits() int {
	if a == Tiano {
		return 5
	}
	return 4
}

// String returns the conventional lowercase name of the variant.
func (a Algorithm) String() string {
	if a == Tiano {
		return "tiano"
	}
	return "uefi"
}
