package domain

import "strings"

// Identity is the caller principal the host execution environment
// authenticated before invoking an operation.
type Identity string

// NullIdentity is the reserved burn sentinel. It can never act, own a
// component, or receive administration.
const NullIdentity Identity = ""

// IsNull reports whether the identity is the null/burn sentinel.
func (i Identity) IsNull() bool {
	return strings.TrimSpace(string(i)) == ""
}

// LogicalTime is the host-supplied, monotonically non-decreasing clock value
// standing in for wall-clock time. Operations sharing a serialization point
// may observe the same value.
type LogicalTime uint64

// ComponentID identifies a registered component. The identifier space is
// dense and strictly increasing from 1; ids are never reused.
type ComponentID uint64
