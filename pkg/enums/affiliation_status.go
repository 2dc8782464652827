package enums

import "fmt"

// AffiliationStatus tracks an employee's membership state within an organization.
// Admission in the observed flows is direct (unaffiliated -> joined); pending is
// reserved for invitation flows that require employee acceptance.
type AffiliationStatus string

const (
	AffiliationStatusUnaffiliated AffiliationStatus = "unaffiliated"
	AffiliationStatusPending      AffiliationStatus = "pending"
	AffiliationStatusJoined       AffiliationStatus = "joined"
)

var validAffiliationStatuses = []AffiliationStatus{
	AffiliationStatusUnaffiliated,
	AffiliationStatusPending,
	AffiliationStatusJoined,
}

// String implements fmt.Stringer.
func (s AffiliationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AffiliationStatus.
func (s AffiliationStatus) IsValid() bool {
	for _, candidate := range validAffiliationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAffiliationStatus converts raw input into an AffiliationStatus.
func ParseAffiliationStatus(value string) (AffiliationStatus, error) {
	for _, candidate := range validAffiliationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid affiliation status %q", value)
}
