package ports

import (
	"context"

	"currency-calculator/internal/domain/model"
)

type RateCache interface {
	Get(ctx context.Context, key string) (model.RateTable, bool)
	Set(ctx context.Context, key string, table model.RateTable) error
	ClearExpired(ctx context.Context) error
}
