package dto

import (
	"strings"

	"field-workflow-service/internal/domain"

	"github.com/shopspring/decimal"
)

type OnboardingStepRequest struct {
	Granted bool `json:"granted"`
}

type PermissionRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=notifications location camera"`
	Granted bool   `json:"granted"`
}

type BeginOrderRequest struct {
	CustomerID string `json:"customer_id"`
}

// OrderRequest is the order form. Field rules are applied by the order
// builder so every failing field is reported together; the request only
// bounds free text.
type OrderRequest struct {
	CustomerID    string           `json:"customer_id" validate:"max=64"`
	Product       string           `json:"product" validate:"max=200"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	Notes         string           `json:"notes" validate:"max=2000"`
	PaymentMethod string           `json:"payment_method"`
	ProofPhoto    string           `json:"proof_photo" validate:"max=512"`
}

func (r OrderRequest) Draft() domain.OrderDraft {
	return domain.OrderDraft{
		CustomerID:    r.CustomerID,
		Product:       r.Product,
		Quantity:      r.Quantity,
		Price:         r.Price,
		Total:         r.Total,
		Notes:         r.Notes,
		PaymentMethod: domain.PaymentMethod(strings.ToLower(strings.TrimSpace(r.PaymentMethod))),
		ProofPhoto:    domain.PhotoRef(r.ProofPhoto),
	}
}

type StartRouteRequest struct {
	StartOdometer int              `json:"start_odometer"`
	StartPhoto    string           `json:"start_photo" validate:"max=512"`
	ShareLocation bool             `json:"share_location"`
	Position      *PositionRequest `json:"position,omitempty"`
}

type PositionRequest struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

func (p *PositionRequest) Coordinates() *domain.Coordinates {
	if p == nil || p.Lat == nil || p.Lng == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *p.Lat, Lng: *p.Lng}
}

type EndRouteRequest struct {
	EndOdometer int    `json:"end_odometer"`
	EndPhoto    string `json:"end_photo" validate:"max=512"`
}
