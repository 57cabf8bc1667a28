// Package calculator holds the conversion state machine: the loaded rate
// table, the base currency and amount, the tracked currencies and the
// derivation of converted values.
//
// A State has a single mutator. Callers that share one between goroutines
// must serialize access themselves.
package calculator

import (
	"fmt"

	"currency-calculator/internal/domain/model"
)

type State struct {
	rates   model.RateTable
	base    model.Currency
	amount  string
	tracked []model.Currency
	pending model.Currency
	asOf    string
	loaded  bool

	sampler    *Sampler
	sampleSize int
}

type Option func(*State)

func WithSampler(sampler *Sampler) Option {
	return func(s *State) {
		if sampler != nil {
			s.sampler = sampler
		}
	}
}

func WithSampleSize(n int) Option {
	return func(s *State) {
		if n >= 0 {
			s.sampleSize = n
		}
	}
}

func NewState(opts ...Option) *State {
	s := &State{
		tracked:    []model.Currency{},
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sampler == nil {
		s.sampler = DefaultSampler()
	}
	return s
}

// Load replaces the rate table wholesale. The first successful load also
// picks the base currency (first code in source order) and samples the
// initial tracked currencies. An invalid table is rejected and leaves the
// state as it was.
func (s *State) Load(rates model.RateTable) error {
	if err := rates.Validate(); err != nil {
		return fmt.Errorf("load rates: %w", err)
	}

	s.rates = rates.Clone()
	if !s.loaded {
		s.loaded = true
		s.base = s.rates.First()
		s.tracked = s.sampler.Sample(s.rates.Codes(), s.sampleSize)
	}
	s.commit()
	return nil
}

func (s *State) SetAsOfDate(date string) {
	s.asOf = date
	s.commit()
}

// SetBaseCurrency is not validated against the table; the caller offers
// only known codes.
func (s *State) SetBaseCurrency(code model.Currency) {
	s.base = code
	s.commit()
}

// SetBaseAmount stores text verbatim. It is parsed on read.
func (s *State) SetBaseAmount(text string) {
	s.amount = text
	s.commit()
}

// SelectForAdd fills the pending slot; the commit rule moves it into the
// tracked list if it is not already there.
func (s *State) SelectForAdd(code model.Currency) {
	s.pending = code
	s.commit()
}

// RemoveTracked drops code from the tracked list. Removing an absent code
// is a no-op. The remaining order is kept.
func (s *State) RemoveTracked(code model.Currency) {
	kept := make([]model.Currency, 0, len(s.tracked))
	for _, c := range s.tracked {
		if c != code {
			kept = append(kept, c)
		}
	}
	s.tracked = kept
	s.commit()
}

// commit runs after every mutation: a pending code that is not tracked yet
// is appended and the slot cleared. A pending code that is already tracked
// stays pending.
func (s *State) commit() {
	if s.pending.IsZero() || model.Contains(s.tracked, s.pending) {
		return
	}
	s.tracked = append(s.tracked, s.pending)
	s.pending = ""
}

func (s *State) Loaded() bool                 { return s.loaded }
func (s *State) BaseCurrency() model.Currency { return s.base }
func (s *State) BaseAmount() string           { return s.amount }
func (s *State) AsOfDate() string             { return s.asOf }
func (s *State) Pending() model.Currency      { return s.pending }

// Tracked returns a copy of the tracked currencies in display order.
func (s *State) Tracked() []model.Currency {
	out := make([]model.Currency, len(s.tracked))
	copy(out, s.tracked)
	return out
}

// Currencies lists the rate table's codes in source order, for choice lists.
func (s *State) Currencies() []model.Currency {
	return s.rates.Codes()
}

func (s *State) Rates() model.RateTable {
	return s.rates.Clone()
}

// Amount is the numeric reading of the base amount text.
func (s *State) Amount() float64 {
	return ParseAmount(s.amount)
}
