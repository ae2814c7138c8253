package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type lineInput struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type orderInput struct {
	Customer string      `json:"customer" validate:"required"`
	Email    string      `json:"email" validate:"omitempty,email"`
	Items    []lineInput `json:"items" validate:"required,min=1,dive"`
}

func TestStruct_UsesJSONPaths(t *testing.T) {
	v := Violations{}
	Struct(orderInput{
		Email: "not-an-email",
		Items: []lineInput{{Name: "Card", Quantity: 1}, {Quantity: 0}},
	}, v)

	assert.Equal(t, Violations{
		"customer":          "required",
		"email":             "invalid_email",
		"items[1].name":     "required",
		"items[1].quantity": "must_be_positive",
	}, v)
}

func TestStruct_Valid(t *testing.T) {
	v := Violations{}
	Struct(orderInput{Customer: "Asha", Items: []lineInput{{Name: "Card", Quantity: 2}}}, v)
	assert.True(t, v.Empty())
}

func TestAdd_KeepsFirstMessage(t *testing.T) {
	v := Violations{}
	v.Add("items", "required")
	v.Add("items", "must_be_positive")
	assert.Equal(t, "required", v["items"])
}

func TestDecimalValidators(t *testing.T) {
	v := Violations{}
	PositiveDecimal("weight", decimal.Zero, v)
	NonNegativeDecimal("cost", decimal.NewFromInt(-1), v)
	RangeDecimal("paid", decimal.NewFromInt(11), decimal.Zero, decimal.NewFromInt(10), v)
	NonNegativeDecimal("shipping", decimal.Zero, v)

	assert.Equal(t, Violations{
		"weight": "must_be_positive",
		"cost":   "must_not_be_negative",
		"paid":   "out_of_range",
	}, v)
}

func TestPhone(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"12345", false},
		{"phone", false},
		{"", true},
	}
	for _, tt := range tests {
		v := Violations{}
		Phone("phone", tt.value, "IN", v)
		assert.Equal(t, tt.ok, v.Empty(), "Phone(%q)", tt.value)
	}
}

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("address", "   ", v)
	assert.Equal(t, "required", v["address"])
}
