package domain

import (
	"errors"
	"fmt"
)

// Byte caps for component string fields. Fields are opaque byte sequences up
// to their bound; no schema is enforced on their content.
const (
	MaxSerialNumberLen = 64
	MaxPartNumberLen   = 64
	MaxMetadataLen     = 256
	MaxStatusLen       = 32
)

// StatusActive is the lifecycle tag assigned at registration.
const StatusActive = "active"

// ComponentRecord is one registered asset. ID, SerialNumber, PartNumber,
// Manufacturer and CreatedAt are immutable after registration; Owner changes
// only through ownership transfer, Status only through a status update.
type ComponentRecord struct {
	ID           ComponentID
	SerialNumber string
	PartNumber   string
	Manufacturer Identity
	Owner        Identity
	Metadata     string
	Status       string
	CreatedAt    LogicalTime
	LastUpdated  LogicalTime
}

func (r ComponentRecord) Validate() error {
	if r.ID == 0 {
		return errors.New("component id is required")
	}
	if len(r.SerialNumber) > MaxSerialNumberLen {
		return fmt.Errorf("serial number exceeds %d bytes", MaxSerialNumberLen)
	}
	if len(r.PartNumber) > MaxPartNumberLen {
		return fmt.Errorf("part number exceeds %d bytes", MaxPartNumberLen)
	}
	if r.Owner.IsNull() {
		return errors.New("owner is required")
	}
	if r.Status == "" {
		return errors.New("status is required")
	}
	if len(r.Status) > MaxStatusLen {
		return fmt.Errorf("status exceeds %d bytes", MaxStatusLen)
	}
	if len(r.Metadata) > MaxMetadataLen {
		return fmt.Errorf("metadata exceeds %d bytes", MaxMetadataLen)
	}
	return nil
}

// ValidateMetadata enforces the (0,256] byte bound shared by registration and
// metadata updates.
func ValidateMetadata(metadata string) error {
	if len(metadata) == 0 || len(metadata) > MaxMetadataLen {
		return ErrInvalidMetadata
	}
	return nil
}

// EnsureComponentImmutable rejects a record mutation that touches a field
// fixed at registration.
func EnsureComponentImmutable(before, after ComponentRecord) error {
	if before.ID == 0 || after.ID == 0 {
		return errors.New("component ids are required")
	}
	if before.ID != after.ID {
		return fmt.Errorf("component id changed from %d to %d", before.ID, after.ID)
	}
	if before.SerialNumber != after.SerialNumber {
		return errors.New("serial number is immutable")
	}
	if before.PartNumber != after.PartNumber {
		return errors.New("part number is immutable")
	}
	if before.Manufacturer != after.Manufacturer {
		return errors.New("manufacturer is immutable")
	}
	if before.CreatedAt != after.CreatedAt {
		return errors.New("created-at is immutable")
	}
	return nil
}
