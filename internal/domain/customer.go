package domain

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerPending  CustomerStatus = "pending"
	CustomerInactive CustomerStatus = "inactive"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Summary of the most recent visit to a customer, kept as free text.
type LastVisit struct {
	Agent string `json:"agent"`
	Date  string `json:"date"`
	Notes string `json:"notes"`
}

// Customer is read-only reference data supplied by the catalog.
type Customer struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Company       string         `json:"company"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email"`
	Address       string         `json:"address"`
	Location      string         `json:"location"`
	Coordinates   Coordinates    `json:"coordinates"`
	Status        CustomerStatus `json:"status"`
	Priority      Priority       `json:"priority"`
	LastVisit     LastVisit      `json:"last_visit"`
	PendingOrders int            `json:"pending_orders"`
	PendingIssues []string       `json:"pending_issues"`
}

// DisplayName is the name snapshotted onto orders and visits: the company when
// known, otherwise the contact name.
func (c Customer) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}
