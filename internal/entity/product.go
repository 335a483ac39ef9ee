package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is informational for the storefront;
// nothing reserves or decrements it at order time.
type Product struct {
	ID        string
	Name      string
	SizeLabel string
	UnitPrice decimal.Decimal
	Stock     int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
