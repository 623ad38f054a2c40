package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceItem is one bookable offering from the catalog. Price is the
// effective price for the vehicle type it was resolved for (vehicle-specific
// override when one exists, base price otherwise).
type ServiceItem struct {
	Key             string
	Name            string
	Description     string
	Price           decimal.Decimal
	DurationMinutes int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Selection is the resolved outcome of the Services step: the chosen keys in
// insertion order plus the totals snapshotted at selection time.
type Selection struct {
	Keys            []string
	Items           []ServiceItem
	Total           decimal.Decimal
	DurationMinutes int
}
