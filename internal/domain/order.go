package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderID is the sequential order number. It renders as #ORD-NNN.
type OrderID int

const orderIDPrefix = "#ORD-"

func (id OrderID) String() string {
	return fmt.Sprintf("%s%03d", orderIDPrefix, int(id))
}

func (id OrderID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *OrderID) UnmarshalText(b []byte) error {
	parsed, err := ParseOrderID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func ParseOrderID(s string) (OrderID, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, orderIDPrefix) {
		return 0, fmt.Errorf("parse order id %q: missing %s prefix", s, orderIDPrefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, orderIDPrefix))
	if err != nil {
		return 0, fmt.Errorf("parse order id %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("parse order id %q: sequence must be positive", s)
	}
	return OrderID(n), nil
}

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCredit  PaymentMethod = "credit"
	PaymentCheck   PaymentMethod = "check"
	PaymentInvoice PaymentMethod = "invoice"
)

var validPaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCredit,
	PaymentCheck,
	PaymentInvoice,
}

func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == strings.ToLower(strings.TrimSpace(value)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderDraft is an in-progress order as entered by the agent. Total is only a
// hint from the caller and is never trusted.
type OrderDraft struct {
	CustomerID    string           `json:"customer_id" validate:"required"`
	CustomerName  string           `json:"customer_name"`
	Product       string           `json:"product" validate:"required"`
	Quantity      int              `json:"quantity" validate:"min=1"`
	Price         decimal.Decimal  `json:"price" validate:"gt=0"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	Notes         string           `json:"notes,omitempty"`
	PaymentMethod PaymentMethod    `json:"payment_method" validate:"required,payment_method"`
	ProofPhoto    PhotoRef         `json:"proof_photo,omitempty"`
}

// Order is a committed order. It is immutable once created; the total is
// always derived from quantity and price.
type Order struct {
	ID            OrderID         `json:"id"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	Product       string          `json:"product"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Notes         string          `json:"notes,omitempty"`
	PaymentMethod PaymentMethod   `json:"payment_method,omitempty"`
	ProofPhoto    PhotoRef        `json:"proof_photo,omitempty"`
	Status        OrderStatus     `json:"status"`
	Date          time.Time       `json:"date"`
	DeliveryETA   *time.Time      `json:"delivery_eta,omitempty"`
}

func (o Order) Total() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// MarshalJSON adds the derived total to the serialized order.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		Total decimal.Decimal `json:"total"`
	}{plain: plain(o), Total: o.Total()})
}
