package efi

import (
	"fmt"

	"github.com/uefikit/uefikit/guid"
)

// VariableAttributes are the EFI variable attribute bits.
type VariableAttributes uint32

const (
	VariableNonVolatile       VariableAttributes = 0x01
	VariableBootServiceAccess VariableAttributes = 0x02
	VariableRuntimeAccess     VariableAttributes = 0x04
)

// ResetType selects the ResetSystem behavior.
type ResetType uint32

const (
	ResetCold ResetType = iota
	ResetWarm
	ResetShutdown
)

// RuntimeServices is the subset of the firmware runtime services the helpers
// in this module call through.
type RuntimeServices interface {
	// GetVariable reads a variable identified by name and vendor GUID.
	GetVariable(name string, vendor guid.GUID) ([]byte, VariableAttributes, Status)
	// SetVariable writes a variable; empty data with the right attributes
	// deletes it.
	SetVariable(name string, vendor guid.GUID, attrs VariableAttributes, data []byte) Status
	GetTime() (Time, Status)
	// ResetSystem does not return on real firmware.
	ResetSystem(t ResetType)
}

// RuntimeServicesTable is a call-through RuntimeServices backed by function
// fields, like BootServicesTable.
type RuntimeServicesTable struct {
	Hdr TableHeader

	GetVariableFn func(name string, vendor guid.GUID) ([]byte, VariableAttributes, Status)
	SetVariableFn func(name string, vendor guid.GUID, attrs VariableAttributes, data []byte) Status
	GetTimeFn     func() (Time, Status)
	ResetSystemFn func(t ResetType)
}

var _ RuntimeServices = (*RuntimeServicesTable)(nil)

// Validate checks the table header signature.
func (t *RuntimeServicesTable) Validate() error {
	if t.Hdr.Signature != RuntimeServicesSignature {
		return fmt.Errorf("runtime services signature %#x, want %#x",
			t.Hdr.Signature, RuntimeServicesSignature)
	}

	return nil
}

func (t *RuntimeServicesTable) GetVariable(name string, vendor guid.GUID) ([]byte, VariableAttributes, Status) {
	if t.GetVariableFn == nil {
		return nil, 0, Unsupported
	}

	return t.GetVariableFn(name, vendor)
}

func (t *RuntimeServicesTable) SetVariable(name string, vendor guid.GUID, attrs VariableAttributes, data []byte) Status {
	if t.SetVariableFn == nil {
		return Unsupported
	}

	return t.SetVariableFn(name, vendor, attrs, data)
}

func (t *RuntimeServicesTable) GetTime() (Time, Status) {
	if t.GetTimeFn == nil {
		return Time{}, Unsupported
	}

	return t.GetTimeFn()
}

func (t *RuntimeServicesTable) ResetSystem(rt ResetType) {
	if t.ResetSystemFn != nil {
		t.ResetSystemFn(rt)
	}
}
