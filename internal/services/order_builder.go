package services

import (
	"cmp"
	"reflect"
	"slices"
	"strings"
	"time"

	"field-workflow-service/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Messages keyed by field, shown next to the failing form input.
const (
	msgCustomerRequired = "Please select a customer"
	msgCustomerUnknown  = "Selected customer is not in the catalog"
	msgProductRequired  = "Please select a product"
	msgProductUnknown   = "Free-text products need a price greater than 0"
	msgQuantity         = "Quantity must be at least 1"
	msgPrice            = "Price must be greater than 0"
	msgPaymentRequired  = "Please select a payment method"
	msgPaymentUnknown   = "Unknown payment method"
	msgProofPhoto       = "Capture a proof-of-payment photo for cash or check payments"
)

const maxSuggestedProducts = 3

var draftValidator = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	// Compare decimals numerically so gt/min tags apply to money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).IsValid()
	})
	return v
}

// ResolveDraft fills catalog-derived fields the agent left blank: the customer
// name snapshot, and the list price when a known product is chosen with no
// price entered. The product is normalized to its catalog name.
func ResolveDraft(draft domain.OrderDraft, catalog *domain.Catalog) domain.OrderDraft {
	draft.CustomerID = strings.TrimSpace(draft.CustomerID)
	draft.Product = strings.TrimSpace(draft.Product)

	if c, ok := catalog.Customer(draft.CustomerID); ok && strings.TrimSpace(draft.CustomerName) == "" {
		draft.CustomerName = c.DisplayName()
	}
	if p, ok := catalog.LookupProduct(draft.Product); ok {
		draft.Product = p.Name
		if draft.Price.IsZero() {
			draft.Price = p.Price
		}
	}
	return draft
}

// ValidateOrder checks a draft against the catalog and returns every failing
// field with its message. An empty map means the draft is valid.
func ValidateOrder(draft domain.OrderDraft, catalog *domain.Catalog) map[string]string {
	fieldErrs := map[string]string{}

	if err := draftValidator.Struct(draft); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				fieldErrs[fe.Field()] = validationMessage(fe)
			}
		}
	}

	if _, failed := fieldErrs["customer_id"]; !failed {
		if _, ok := catalog.Customer(draft.CustomerID); !ok {
			fieldErrs["customer_id"] = msgCustomerUnknown
		}
	}

	if _, failed := fieldErrs["product"]; !failed {
		if _, ok := catalog.LookupProduct(draft.Product); !ok && !draft.Price.IsPositive() {
			fieldErrs["product"] = msgProductUnknown
		}
	}

	if RequiresProofPhoto(draft.PaymentMethod) && draft.ProofPhoto.IsZero() {
		fieldErrs["proof_photo"] = msgProofPhoto
	}

	return fieldErrs
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "customer_id":
		return msgCustomerRequired
	case "product":
		return msgProductRequired
	case "quantity":
		return msgQuantity
	case "price":
		return msgPrice
	case "payment_method":
		if fe.Tag() == "required" {
			return msgPaymentRequired
		}
		return msgPaymentUnknown
	}
	return "is invalid"
}

// PriceOrder returns quantity × price. Any total hinted on the draft is ignored.
func PriceOrder(draft domain.OrderDraft) decimal.Decimal {
	return draft.Price.Mul(decimal.NewFromInt(int64(draft.Quantity)))
}

// BuildOrder turns a validated draft into a pending order.
func BuildOrder(id domain.OrderID, draft domain.OrderDraft, now time.Time, eta *time.Time) domain.Order {
	return domain.Order{
		ID:            id,
		CustomerID:    draft.CustomerID,
		CustomerName:  draft.CustomerName,
		Product:       draft.Product,
		Quantity:      draft.Quantity,
		Price:         draft.Price,
		Notes:         strings.TrimSpace(draft.Notes),
		PaymentMethod: draft.PaymentMethod,
		ProofPhoto:    draft.ProofPhoto,
		Status:        domain.OrderPending,
		Date:          now,
		DeliveryETA:   eta,
	}
}

// SuggestFrequentProducts ranks the distinct products in orders by how often
// they occur, ties kept in first-seen order, and returns at most three.
func SuggestFrequentProducts(orders []domain.Order) []string {
	type tally struct {
		product string
		count   int
	}

	idx := map[string]int{}
	tallies := []tally{}
	for _, o := range orders {
		if o.Product == "" {
			continue
		}
		if i, ok := idx[o.Product]; ok {
			tallies[i].count++
			continue
		}
		idx[o.Product] = len(tallies)
		tallies = append(tallies, tally{product: o.Product, count: 1})
	}

	slices.SortStableFunc(tallies, func(a, b tally) int {
		return cmp.Compare(b.count, a.count)
	})

	out := make([]string, 0, maxSuggestedProducts)
	for _, t := range tallies {
		if len(out) == maxSuggestedProducts {
			break
		}
		out = append(out, t.product)
	}
	return out
}
