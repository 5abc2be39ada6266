package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CustomerAddress is a postal address owned by a cart once assigned.
type CustomerAddress struct {
	// ID is assigned by the persistence adapter on save.
	ID           uuid.UUID `json:"id"`
	PersonalName string    `json:"personalName"`
	Line1        string    `json:"line1"`
	Line2        string    `json:"line2,omitempty"`
	City         string    `json:"city,omitempty"`
	PostalCode   string    `json:"postalCode"`
	CountryID    string    `json:"countryId"`
	StateID      string    `json:"stateId,omitempty"`
}

// Clone returns an independent copy of the address.
func (a *CustomerAddress) Clone() *CustomerAddress {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

// Validate checks that the fields needed for tax and shipping are present.
func (a *CustomerAddress) Validate() error {
	var missing []string
	if strings.TrimSpace(a.PersonalName) == "" {
		missing = append(missing, "personal name")
	}
	if strings.TrimSpace(a.Line1) == "" {
		missing = append(missing, "line 1")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postal code")
	}
	if strings.TrimSpace(a.CountryID) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidAddress, strings.Join(missing, ", "))
	}
	return nil
}
