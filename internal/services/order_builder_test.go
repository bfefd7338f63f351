package services

import (
	"testing"
	"time"

	"field-workflow-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	cat, err := domain.NewCatalog(
		[]domain.Customer{
			{ID: "1", Name: "John Smith", Company: "TechCorp Solutions"},
			{ID: "2", Name: "Maria Garcia", Company: "Global Industries"},
		},
		[]domain.Product{
			{ID: "hardware-kit", Name: "Hardware Kit", Price: decimal.NewFromInt(750)},
			{ID: "software-license", Name: "Software License", Price: decimal.NewFromInt(500)},
		},
	)
	require.NoError(t, err)
	return cat
}

func TestValidateOrderReportsEveryField(t *testing.T) {
	fieldErrs := ValidateOrder(domain.OrderDraft{}, testCatalog(t))

	assert.Equal(t, map[string]string{
		"customer_id":    msgCustomerRequired,
		"product":        msgProductRequired,
		"quantity":       msgQuantity,
		"price":          msgPrice,
		"payment_method": msgPaymentRequired,
	}, fieldErrs)
}

func TestValidateOrderCatalogAndPhotoRules(t *testing.T) {
	cat := testCatalog(t)

	draft := domain.OrderDraft{
		CustomerID:    "9",
		Product:       "Hardware Kit",
		Quantity:      2,
		Price:         decimal.NewFromInt(750),
		PaymentMethod: domain.PaymentCash,
	}
	fieldErrs := ValidateOrder(draft, cat)
	assert.Equal(t, msgCustomerUnknown, fieldErrs["customer_id"])
	assert.Equal(t, msgProofPhoto, fieldErrs["proof_photo"])
	assert.Len(t, fieldErrs, 2)

	draft.CustomerID = "1"
	draft.ProofPhoto = "receipt.jpg"
	assert.Empty(t, ValidateOrder(draft, cat))
}

func TestValidateOrderPhotoRuleTable(t *testing.T) {
	cat := testCatalog(t)
	for pm, needsPhoto := range map[domain.PaymentMethod]bool{
		domain.PaymentCash:    true,
		domain.PaymentCheck:   true,
		domain.PaymentCredit:  false,
		domain.PaymentInvoice: false,
	} {
		draft := domain.OrderDraft{
			CustomerID:    "2",
			Product:       "Software License",
			Quantity:      1,
			Price:         decimal.NewFromInt(500),
			PaymentMethod: pm,
		}
		_, flagged := ValidateOrder(draft, cat)["proof_photo"]
		assert.Equal(t, needsPhoto, flagged, "payment method %s", pm)
	}
}

func TestValidateOrderFreeTextProduct(t *testing.T) {
	cat := testCatalog(t)
	draft := domain.OrderDraft{
		CustomerID:    "2",
		Product:       "Custom Cabling",
		Quantity:      4,
		Price:         decimal.RequireFromString("12.50"),
		PaymentMethod: domain.PaymentInvoice,
	}
	assert.Empty(t, ValidateOrder(draft, cat))

	draft.Price = decimal.Zero
	fieldErrs := ValidateOrder(draft, cat)
	assert.Equal(t, msgPrice, fieldErrs["price"])
	assert.Equal(t, msgProductUnknown, fieldErrs["product"])
}

func TestValidateOrderUnknownPaymentMethod(t *testing.T) {
	draft := domain.OrderDraft{
		CustomerID:    "1",
		Product:       "Hardware Kit",
		Quantity:      1,
		Price:         decimal.NewFromInt(750),
		PaymentMethod: "barter",
	}
	assert.Equal(t, map[string]string{"payment_method": msgPaymentUnknown}, ValidateOrder(draft, testCatalog(t)))
}

func TestResolveDraftFillsFromCatalog(t *testing.T) {
	draft := ResolveDraft(domain.OrderDraft{CustomerID: " 2 ", Product: "hardware-kit"}, testCatalog(t))

	assert.Equal(t, "2", draft.CustomerID)
	assert.Equal(t, "Global Industries", draft.CustomerName)
	assert.Equal(t, "Hardware Kit", draft.Product)
	assert.True(t, draft.Price.Equal(decimal.NewFromInt(750)))

	priced := ResolveDraft(domain.OrderDraft{Product: "Hardware Kit", Price: decimal.RequireFromString("616.67")}, testCatalog(t))
	assert.Equal(t, "616.67", priced.Price.String())
}

func TestPriceOrderIgnoresHintedTotal(t *testing.T) {
	hint := decimal.NewFromInt(1850)
	draft := domain.OrderDraft{Quantity: 3, Price: decimal.RequireFromString("616.67"), Total: &hint}

	assert.Equal(t, "1850.01", PriceOrder(draft).StringFixed(2))
}

func TestBuildOrderStartsPending(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	eta := now.AddDate(0, 0, 3)
	draft := domain.OrderDraft{
		CustomerID:    "2",
		CustomerName:  "Global Industries",
		Product:       "Hardware Kit",
		Quantity:      3,
		Price:         decimal.RequireFromString("616.67"),
		Notes:         "  leave at reception ",
		PaymentMethod: domain.PaymentInvoice,
	}

	o := BuildOrder(7, draft, now, &eta)
	assert.Equal(t, "#ORD-007", o.ID.String())
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, "leave at reception", o.Notes)
	assert.Equal(t, "1850.01", o.Total().StringFixed(2))
	assert.Equal(t, now, o.Date)
	assert.Equal(t, &eta, o.DeliveryETA)
}

func TestSuggestFrequentProducts(t *testing.T) {
	orders := []domain.Order{
		{Product: "Support Package"},
		{Product: "Hardware Kit"},
		{Product: "Cloud Storage"},
		{Product: "Hardware Kit"},
		{Product: "Training Course"},
		{Product: "Cloud Storage"},
		{Product: "Hardware Kit"},
	}

	assert.Equal(t, []string{"Hardware Kit", "Cloud Storage", "Support Package"}, SuggestFrequentProducts(orders))
	assert.Empty(t, SuggestFrequentProducts(nil))
}

func TestRandomETAEstimatorBounds(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	est := NewRandomETAEstimator(2, 7)

	for i := 0; i < 200; i++ {
		eta := est.EstimateDeliveryETA(now)
		days := int(eta.Sub(now).Hours() / 24)
		require.GreaterOrEqual(t, days, 2)
		require.LessOrEqual(t, days, 7)
	}
	assert.Equal(t, "Thu, Jan 1", FormatETA(now))
}
