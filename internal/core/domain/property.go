package domain

// Property is a rental property acting as a cost center for revenue attribution and
// distributed payments.
type Property struct {
	PropertyID   string `json:"propertyID"` // Primary Key (UUID)
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}

// RevenueAggregate is one row of the per-property revenue query for a reference period.
// Derived on demand from the transaction store; never persisted by the engine.
type RevenueAggregate struct {
	PropertyID   *string `json:"propertyID,omitempty"` // nil for company-level aggregates
	PropertyName string  `json:"propertyName"`
	Revenue      Money   `json:"revenue"`
}

// TotalRevenue sums the revenue column of an aggregate result.
func TotalRevenue(rows []RevenueAggregate) Money {
	total := ZeroMoney()
	for _, row := range rows {
		total = total.Add(row.Revenue)
	}
	return total
}
