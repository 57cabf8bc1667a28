package ports

import (
	"context"

	"currency-calculator/internal/domain/model"
)

type CalculatorService interface {
	Mount(ctx context.Context) (*model.SessionView, error)
	View(ctx context.Context, id string) (*model.SessionView, error)
	SetBaseCurrency(ctx context.Context, id string, code model.Currency) (*model.SessionView, error)
	SetBaseAmount(ctx context.Context, id string, text string) (*model.SessionView, error)
	SelectForAdd(ctx context.Context, id string, code model.Currency) (*model.SessionView, error)
	RemoveTracked(ctx context.Context, id string, code model.Currency) (*model.SessionView, error)
	Unmount(ctx context.Context, id string) error
}
