package ports

import (
	"context"

	"currency-calculator/internal/domain/model"
)

// RateSource fetches the base-rate table. The returned table must keep the
// upstream key order.
type RateSource interface {
	FetchRates(ctx context.Context) (model.RateTable, error)
}

// DateSource fetches the informational "as-of" date of the rates.
type DateSource interface {
	FetchAsOf(ctx context.Context) (string, error)
}
