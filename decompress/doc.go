/*
Package decompress implements the UEFI/Tiano compressed data format used in
firmware volumes and firmware update payloads.

Payload: [compressed_size: u32 LE][original_size: u32 LE][bitstream], bits
most-significant-first throughout. Each block carries a 16-bit symbol count
and three canonical Huffman code length arrays (extra set, char/len set,
position set), then the interleaved symbols: values below 256 are literal
bytes, values 256..509 encode a back-reference length of 3..256 followed by a
position-set-coded distance into the output produced so far. Two variants
exist, differing only in the width of the position set count field: UEFI
(4 bits) and Tiano (5 bits). The variant is not recorded in the payload; the
caller selects it.

Decoding reproduces, byte for byte, the output of the reference UEFI
decompression algorithm. Only decoding is provided; whatever produced the
payload owns the encoding side. Decoding is a single synchronous pass with no
shared state, so distinct payloads may be decoded concurrently.

All errors are terminal: on any error the output buffer contents are
unspecified and the payload should be treated as corrupt.

# Examples

Decompress a payload whose variant is known from context:

	out, err := decompress.Decompress(payload, decompress.Tiano)
	if err != nil {
		return err
	}

Size a buffer first and decode without allocation:

	_, origSize, err := decompress.GetInfo(payload)
	if err != nil {
		return err
	}
	buf := make([]byte, origSize)
	if err := decompress.DecompressInto(buf, payload, decompress.UEFI); err != nil {
		return err
	}
*/
package decompress
