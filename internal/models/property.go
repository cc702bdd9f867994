package models

// Property is the database row for a rental property.
type Property struct {
	PropertyID   string `json:"propertyID"`
	UserID       string `json:"userID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
