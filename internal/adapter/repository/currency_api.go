package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"currency-calculator/internal/domain/model"
	"currency-calculator/pkg/logger"
	"currency-calculator/pkg/utils"
)

const maxBodySize = 8 << 20

var (
	ErrUpstreamStatus = errors.New("upstream returned non-OK status")
	ErrFieldMissing   = errors.New("field missing from upstream payload")
)

// CurrencyAPI reads the rate table and the as-of date from two JSON
// endpoints. It serves as both ports.RateSource and ports.DateSource.
//
// The rate endpoint either returns the table as its top-level object, or
// nests it under ratesField. The date endpoint carries a top-level "date".
type CurrencyAPI struct {
	ratesURL   string
	ratesField string
	dateURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewCurrencyAPI(ratesURL, ratesField, dateURL string, timeout time.Duration, log *logger.Logger) *CurrencyAPI {
	return &CurrencyAPI{
		ratesURL:   ratesURL,
		ratesField: ratesField,
		dateURL:    dateURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (a *CurrencyAPI) FetchRates(ctx context.Context) (model.RateTable, error) {
	body, err := a.get(ctx, a.ratesURL)
	if err != nil {
		return model.RateTable{}, err
	}

	payload := json.RawMessage(body)
	if a.ratesField != "" {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return model.RateTable{}, fmt.Errorf("failed to decode response: %w", err)
		}
		nested, ok := envelope[a.ratesField]
		if !ok {
			return model.RateTable{}, fmt.Errorf("%w: %s", ErrFieldMissing, a.ratesField)
		}
		payload = nested
	}

	table, skipped, err := model.DecodeRateTable(payload)
	if err != nil {
		return model.RateTable{}, fmt.Errorf("failed to decode rates: %w", err)
	}
	if len(skipped) > 0 {
		a.log.Debug("Skipped unusable rate entries", "count", len(skipped), "url", a.ratesURL)
	}
	if table.IsEmpty() {
		return model.RateTable{}, model.ErrEmptyRateTable
	}

	a.log.Debug("Fetched rate table", "count", table.Len(), "url", a.ratesURL)
	return table, nil
}

func (a *CurrencyAPI) FetchAsOf(ctx context.Context) (string, error) {
	body, err := a.get(ctx, a.dateURL)
	if err != nil {
		return "", err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	date, ok := payload["date"]
	if !ok || date == nil {
		return "", fmt.Errorf("%w: date", ErrFieldMissing)
	}

	return utils.Stringify(date), nil
}

func (a *CurrencyAPI) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
