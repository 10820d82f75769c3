package domain

import (
	"fmt"
	"strings"
)

// DriverKey is the canonical identity for a driver after reconciling the
// compound identifier spellings the upstream exports use. EmployeeID may be
// empty when a source only carries a display name.
type DriverKey struct {
	EmployeeID  string `json:"employee_id,omitempty"`
	DisplayName string `json:"display_name" validate:"required"`
}

// NormalizeName trims a display name and collapses internal runs of
// whitespace to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Equal reports whether two keys identify the same driver. Employee IDs win
// when both sides carry one; otherwise display names are compared
// case-insensitively after whitespace normalization.
func (k DriverKey) Equal(other DriverKey) bool {
	if k.EmployeeID != "" && other.EmployeeID != "" {
		return k.EmployeeID == other.EmployeeID
	}
	return strings.EqualFold(NormalizeName(k.DisplayName), NormalizeName(other.DisplayName))
}

// NameKey returns the normalized, case-folded display name used for
// name-based grouping.
func (k DriverKey) NameKey() string {
	return strings.ToLower(NormalizeName(k.DisplayName))
}

// String renders the key in the canonical "ID - Name" form, or just the
// name when no employee ID is known.
func (k DriverKey) String() string {
	if k.EmployeeID == "" {
		return k.DisplayName
	}
	return fmt.Sprintf("%s - %s", k.EmployeeID, k.DisplayName)
}
