package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderIDFormatting(t *testing.T) {
	cases := map[OrderID]string{
		1:    "#ORD-001",
		42:   "#ORD-042",
		999:  "#ORD-999",
		1000: "#ORD-1000",
	}
	for id, want := range cases {
		if got := id.String(); got != want {
			t.Errorf("OrderID(%d) = %q, want %q", int(id), got, want)
		}
		parsed, err := ParseOrderID(want)
		if err != nil {
			t.Fatalf("parse %q: %v", want, err)
		}
		if parsed != id {
			t.Errorf("parse %q = %d, want %d", want, parsed, id)
		}
	}

	for _, bad := range []string{"ORD-001", "#ORD-abc", "#ORD-000", ""} {
		if _, err := ParseOrderID(bad); err == nil {
			t.Errorf("ParseOrderID(%q) succeeded, want error", bad)
		}
	}
}

func TestOrderTotalIsDerived(t *testing.T) {
	o := Order{Quantity: 3, Price: decimal.RequireFromString("616.67")}
	if got := o.Total().StringFixed(2); got != "1850.01" {
		t.Fatalf("total = %s, want 1850.01", got)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	pm, err := ParsePaymentMethod(" Cash ")
	if err != nil || pm != PaymentCash {
		t.Fatalf("parse = %q, %v; want cash", pm, err)
	}
	if _, err := ParsePaymentMethod("barter"); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}

func TestOrderJSONCarriesDerivedTotal(t *testing.T) {
	o := Order{ID: 1, CustomerID: "2", Product: "Hardware Kit", Quantity: 3, Price: decimal.RequireFromString("616.67"), Status: OrderPending}

	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, want := range []string{`"id":"#ORD-001"`, `"price":"616.67"`, `"total":"1850.01"`} {
		if !strings.Contains(got, want) {
			t.Errorf("order json %s missing %s", got, want)
		}
	}

	var back Order
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != 1 || !back.Total().Equal(o.Total()) {
		t.Fatalf("round trip = %+v", back)
	}
}
