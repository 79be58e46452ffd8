// Package guid implements the EFI GUID: the 128-bit identifier used for
// protocols, firmware files and variable vendors. Its wire form is mixed
// endian — the first three fields are little endian, the trailing eight bytes
// are kept in order — unlike RFC 4122 UUIDs, which are big endian throughout.
// Conversions to and from uuid.UUID handle the byte swapping.
package guid

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Size is the wire size of a GUID in bytes.
const Size = 16

// GUID is an EFI GUID in its natural field layout.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Zero is the all-zero GUID, used as a placeholder identity.
var Zero = GUID{}

// Well-known firmware GUIDs.
var (
	// FirmwareFileSystem2 identifies FFSv2 firmware volumes.
	FirmwareFileSystem2 = GUID{0x8c8ce578, 0x8a3d, 0x4f1c, [8]byte{0x99, 0x35, 0x89, 0x61, 0x85, 0xc3, 0x2d, 0xd3}}
	// GlobalVariable is the vendor GUID of the UEFI-defined variables.
	GlobalVariable = GUID{0x8be4df61, 0x93ca, 0x11d2, [8]byte{0xaa, 0x0d, 0x00, 0xe0, 0x98, 0x03, 0x2b, 0x8c}}
)

// Parse parses the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" text
// form, upper or lower case.
func Parse(s string) (GUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return GUID{}, fmt.Errorf("parse guid %q: %w", s, err)
	}

	return FromUUID(u), nil
}

// MustParse is Parse for compile-time-known strings; it panics on error.
func MustParse(s string) GUID {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return g
}

// FromUUID converts a big-endian RFC 4122 UUID into the EFI layout.
func FromUUID(u uuid.UUID) GUID {
	var g GUID
	g.Data1 = binary.BigEndian.Uint32(u[0:4])
	g.Data2 = binary.BigEndian.Uint16(u[4:6])
	g.Data3 = binary.BigEndian.Uint16(u[6:8])
	copy(g.Data4[:], u[8:16])

	return g
}

// UUID converts the GUID to its RFC 4122 equivalent.
func (g GUID) UUID() uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint32(u[0:4], g.Data1)
	binary.BigEndian.PutUint16(u[4:6], g.Data2)
	binary.BigEndian.PutUint16(u[6:8], g.Data3)
	copy(u[8:16], g.Data4[:])

	return u
}

// Bytes returns the 16-byte mixed-endian wire form.
func (g GUID) Bytes() []byte {
	b := make([]byte, Size)
	binary.LittleEndian.PutUint32(b[0:4], g.Data1)
	binary.LittleEndian.PutUint16(b[4:6], g.Data2)
	binary.LittleEndian.PutUint16(b[6:8], g.Data3)
	copy(b[8:16], g.Data4[:])

	return b
}

// FromBytes reads a GUID from its 16-byte mixed-endian wire form.
func FromBytes(b []byte) (GUID, error) {
	if len(b) != Size {
		return GUID{}, fmt.Errorf("guid needs %d bytes, got %d", Size, len(b))
	}

	var g GUID
	g.Data1 = binary.LittleEndian.Uint32(b[0:4])
	g.Data2 = binary.LittleEndian.Uint16(b[4:6])
	g.Data3 = binary.LittleEndian.Uint16(b[6:8])
	copy(g.Data4[:], b[8:16])

	return g, nil
}

// String returns the canonical upper-case text form, the convention firmware
// tooling prints GUIDs in.
func (g GUID) String() string {
	return strings.ToUpper(g.UUID().String())
}

// Equal reports whether two GUIDs are the same identifier.
func (g GUID) Equal(other GUID) bool {
	return g == other
}

// IsZero reports whether the GUID is the all-zero placeholder.
func (g GUID) IsZero() bool {
	return g == Zero
}

// MarshalBinary implements encoding.BinaryMarshaler using the wire form.
func (g GUID) MarshalBinary() ([]byte, error) {
	return g.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using the wire form.
func (g *GUID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*g = parsed

	return nil
}

// Compare orders GUIDs by their wire form, for sorted tables.
func Compare(a, b GUID) int {
	return bytes.Compare(a.Bytes(), b.Bytes())
}
