package domain

import "time"

type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

type OrderLine struct {
	Name      string
	UnitPrice int64
	Quantity  int64
	LineTotal int64
}

// Order is the immutable result of a successful checkout composition.
type Order struct {
	Customer    CustomerInfo
	Lines       []OrderLine
	Currency    string
	Subtotal    int64
	DeliveryFee int64
	GrandTotal  int64
	PlacedAt    time.Time
}

type FieldState int

const (
	FieldUntouched FieldState = iota
	FieldValid
	FieldInvalid
)

// FieldResult is the validation outcome for a single form field. Reason is
// set only when State is FieldInvalid.
type FieldResult struct {
	Field  string
	State  FieldState
	Reason string
}
