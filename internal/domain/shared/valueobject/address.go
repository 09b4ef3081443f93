package valueobject

import (
	"errors"
	"strings"
	"unicode"
)

// brazilianStates lists the valid UF codes
var brazilianStates = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// Address is a value object representing a street address.
// It is immutable - all operations return new Address instances
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
}

// NewAddress creates an Address. Every field is optional, but a non-empty
// state must be a valid UF and a non-empty postal code must have 8 digits.
func NewAddress(street, city, state, postalCode string) (Address, error) {
	state = strings.ToUpper(strings.TrimSpace(state))
	postalCode = normalizePostalCode(postalCode)

	if state != "" {
		if _, ok := brazilianStates[state]; !ok {
			return Address{}, errors.New("invalid state: must be a two-letter UF code")
		}
	}
	if postalCode != "" && len(postalCode) != 8 {
		return Address{}, errors.New("invalid postal code: must have 8 digits")
	}

	return Address{
		street:     strings.TrimSpace(street),
		city:       strings.TrimSpace(city),
		state:      state,
		postalCode: postalCode,
	}, nil
}

// Street returns the street line
func (a Address) Street() string { return a.street }

// City returns the city
func (a Address) City() string { return a.city }

// State returns the UF code
func (a Address) State() string { return a.state }

// PostalCode returns the CEP digits
func (a Address) PostalCode() string { return a.postalCode }

// IsEmpty reports whether no field is set
func (a Address) IsEmpty() bool {
	return a.street == "" && a.city == "" && a.state == "" && a.postalCode == ""
}

// FormattedPostalCode returns the CEP as 00000-000
func (a Address) FormattedPostalCode() string {
	if len(a.postalCode) != 8 {
		return a.postalCode
	}
	return a.postalCode[:5] + "-" + a.postalCode[5:]
}

// String returns the address on one line
func (a Address) String() string {
	parts := make([]string, 0, 4)
	if a.street != "" {
		parts = append(parts, a.street)
	}
	if a.city != "" && a.state != "" {
		parts = append(parts, a.city+"/"+a.state)
	} else if a.city != "" {
		parts = append(parts, a.city)
	} else if a.state != "" {
		parts = append(parts, a.state)
	}
	if a.postalCode != "" {
		parts = append(parts, a.FormattedPostalCode())
	}
	return strings.Join(parts, ", ")
}

func normalizePostalCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RestoreAddress rebuilds an Address from stored values without validation
func RestoreAddress(street, city, state, postalCode string) Address {
	return Address{street: street, city: city, state: state, postalCode: postalCode}
}
