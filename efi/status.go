package efi

import "fmt"

// Status is an EFI_STATUS: a UINTN whose top bit marks errors. Warnings are
// positive values without the top bit.
type Status uintptr

// errBit is the high bit of a UINTN on the target.
const errBit = ^Status(^uintptr(0) >> 1)

// Status codes from the UEFI specification, Appendix D.
const (
	Success Status = 0

	LoadError         = errBit | 1
	InvalidParameter  = errBit | 2
	Unsupported       = errBit | 3
	BadBufferSize     = errBit | 4
	BufferTooSmall    = errBit | 5
	NotReady          = errBit | 6
	DeviceError       = errBit | 7
	WriteProtected    = errBit | 8
	OutOfResources    = errBit | 9
	VolumeCorrupted   = errBit | 10
	NotFound          = errBit | 14
	AccessDenied      = errBit | 15
	Timeout           = errBit | 18
	Aborted           = errBit | 21
	SecurityViolation = errBit | 26
)

var statusNames = map[Status]string{
	Success:           "success",
	LoadError:         "load error",
	InvalidParameter:  "invalid parameter",
	Unsupported:       "unsupported",
	BadBufferSize:     "bad buffer size",
	BufferTooSmall:    "buffer too small",
	NotReady:          "not ready",
	DeviceError:       "device error",
	WriteProtected:    "write protected",
	OutOfResources:    "out of resources",
	VolumeCorrupted:   "volume corrupted",
	NotFound:          "not found",
	AccessDenied:      "access denied",
	Timeout:           "timeout",
	Aborted:           "aborted",
	SecurityViolation: "security violation",
}

// IsError reports whether the status carries the error bit.
func (s Status) IsError() bool {
	return s&errBit != 0
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	if s.IsError() {
		return fmt.Sprintf("error %#x", uintptr(s&^errBit))
	}

	return fmt.Sprintf("status %#x", uintptr(s))
}

// Error makes error statuses usable as Go errors.
func (s Status) Error() string {
	return "efi: " + s.String()
}

// Err returns nil for success and warnings, and the status itself for
// errors, bridging firmware return codes into Go error handling.
func (s Status) Err() error {
	if !s.IsError() {
		return nil
	}

	return s
}
