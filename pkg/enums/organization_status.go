package enums

import "fmt"

// OrganizationStatus captures the tenant lifecycle.
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

var validOrganizationStatuses = []OrganizationStatus{
	OrganizationStatusActive,
	OrganizationStatusSuspended,
}

// String implements fmt.Stringer.
func (s OrganizationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrganizationStatus.
func (s OrganizationStatus) IsValid() bool {
	for _, candidate := range validOrganizationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrganizationStatus converts raw input into an OrganizationStatus.
func ParseOrganizationStatus(value string) (OrganizationStatus, error) {
	for _, candidate := range validOrganizationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid organization status %q", value)
}
