package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the delivery address captured during checkout. Persisted
// as JSONB on orders.
type Address struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// fieldValues maps field name to value in declaration order so
// validation errors can name each missing field.
func (a Address) fieldValues() []struct{ Name, Value string } {
	return []struct{ Name, Value string }{
		{"name", a.Name},
		{"phone", a.Phone},
		{"street", a.Street},
		{"landmark", a.Landmark},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
	}
}

// MissingFields returns the names of fields that are empty after
// trimming, in declaration order.
func (a Address) MissingFields() []string {
	var missing []string
	for _, f := range a.fieldValues() {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	return missing
}

// Trimmed returns a copy with surrounding whitespace removed from every
// field.
func (a Address) Trimmed() Address {
	return Address{
		Name:     strings.TrimSpace(a.Name),
		Phone:    strings.TrimSpace(a.Phone),
		Street:   strings.TrimSpace(a.Street),
		Landmark: strings.TrimSpace(a.Landmark),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Pincode:  strings.TrimSpace(a.Pincode),
	}
}

// Value serializes the address to JSON.
func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan decodes a JSON column back into the address.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}

	return json.Unmarshal(raw, a)
}
