package models

import "strings"

// Customer is a buyer that orders are placed for.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Pincode string `json:"pincode,omitempty"`
}

// FullAddress formats the address and pincode on one line.
func (c *Customer) FullAddress() string {
	parts := []string{}
	if a := strings.TrimSpace(c.Address); a != "" {
		parts = append(parts, a)
	}
	if p := strings.TrimSpace(c.Pincode); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " - ")
}

// FindCustomer looks a customer up by stable ID first and falls back to a
// case-insensitive match on the display name. Older orders only carry the name.
func FindCustomer(customers []Customer, id, name string) (*Customer, bool) {
	if id != "" {
		for i := range customers {
			if customers[i].ID == id {
				return &customers[i], true
			}
		}
	}
	want := strings.TrimSpace(name)
	if want == "" {
		return nil, false
	}
	for i := range customers {
		if strings.EqualFold(strings.TrimSpace(customers[i].Name), want) {
			return &customers[i], true
		}
	}
	return nil, false
}
