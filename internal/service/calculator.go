package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"currency-calculator/internal/calculator"
	"currency-calculator/internal/domain/model"
	"currency-calculator/internal/domain/ports"
	"currency-calculator/internal/metrics"
	"currency-calculator/pkg/logger"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sourceRates = "rates"
	sourceDate  = "date"
)

// session is one mounted calculator. mu serializes every mutation and
// read of state, including the two fetch completions.
type session struct {
	id       string
	mu       sync.Mutex
	state    *calculator.State
	lastSeen time.Time
}

type Options struct {
	SampleSize int
	SessionTTL time.Duration
	Sampler    *calculator.Sampler
}

// CalculatorService owns the mounted sessions. Each mount fires one rate
// fetch and one date fetch in the background; their failures are logged
// and never reach the caller.
type CalculatorService struct {
	rates   ports.RateSource
	dates   ports.DateSource
	log     *logger.Logger
	metrics *metrics.Metrics
	opts    Options

	// fetches run on baseCtx, not on the mounting request's context
	baseCtx context.Context
	fetches sync.WaitGroup

	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewCalculatorService(ctx context.Context, rates ports.RateSource, dates ports.DateSource, log *logger.Logger, m *metrics.Metrics, opts Options) *CalculatorService {
	if opts.Sampler == nil {
		opts.Sampler = calculator.DefaultSampler()
	}
	return &CalculatorService{
		rates:    rates,
		dates:    dates,
		log:      log,
		metrics:  m,
		opts:     opts,
		baseCtx:  ctx,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

func (s *CalculatorService) Mount(ctx context.Context) (*model.SessionView, error) {
	sess := &session{
		id: uuid.NewString(),
		state: calculator.NewState(
			calculator.WithSampler(s.opts.Sampler),
			calculator.WithSampleSize(s.opts.SampleSize),
		),
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SessionsMountedTotal.Inc()
	s.metrics.SessionsActive.Set(float64(active))
	s.log.Info("Session mounted", "session", sess.id)

	s.fetches.Add(2)
	go s.loadRates(sess)
	go s.loadAsOf(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return BuildView(sess.id, sess.state), nil
}

func (s *CalculatorService) loadRates(sess *session) {
	defer s.fetches.Done()

	table, err := s.rates.FetchRates(s.baseCtx)
	if err != nil {
		s.fetchFailed(sess, sourceRates, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.state.Load(table); err != nil {
		s.fetchFailed(sess, sourceRates, err)
		return
	}
	s.log.Info("Rates loaded", "session", sess.id, "count", table.Len(), "base", sess.state.BaseCurrency())
}

func (s *CalculatorService) loadAsOf(sess *session) {
	defer s.fetches.Done()

	date, err := s.dates.FetchAsOf(s.baseCtx)
	if err != nil {
		s.fetchFailed(sess, sourceDate, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.state.SetAsOfDate(date)
	s.log.Debug("As-of date loaded", "session", sess.id, "date", date)
}

func (s *CalculatorService) fetchFailed(sess *session, source string, err error) {
	s.metrics.FetchFailuresTotal.WithLabelValues(source).Inc()
	s.log.Error("Fetch failed", "session", sess.id, "source", source, "error", err)
}

func (s *CalculatorService) View(ctx context.Context, id string) (*model.SessionView, error) {
	return s.apply(id, "", nil)
}

func (s *CalculatorService) SetBaseCurrency(ctx context.Context, id string, code model.Currency) (*model.SessionView, error) {
	return s.apply(id, "set_base_currency", func(st *calculator.State) {
		st.SetBaseCurrency(code)
	})
}

func (s *CalculatorService) SetBaseAmount(ctx context.Context, id string, text string) (*model.SessionView, error) {
	return s.apply(id, "set_base_amount", func(st *calculator.State) {
		st.SetBaseAmount(text)
	})
}

func (s *CalculatorService) SelectForAdd(ctx context.Context, id string, code model.Currency) (*model.SessionView, error) {
	return s.apply(id, "select_for_add", func(st *calculator.State) {
		st.SelectForAdd(code)
	})
}

func (s *CalculatorService) RemoveTracked(ctx context.Context, id string, code model.Currency) (*model.SessionView, error) {
	return s.apply(id, "remove_tracked", func(st *calculator.State) {
		st.RemoveTracked(code)
	})
}

func (s *CalculatorService) Unmount(ctx context.Context, id string) error {
	s.mu.Lock()
	_, found := s.sessions[id]
	delete(s.sessions, id)
	active := len(s.sessions)
	s.mu.Unlock()

	if !found {
		return ErrSessionNotFound
	}
	s.metrics.SessionsActive.Set(float64(active))
	s.log.Info("Session unmounted", "session", id)
	return nil
}

// apply runs mutate (if any) and renders the view under the session lock.
func (s *CalculatorService) apply(id, operation string, mutate func(*calculator.State)) (*model.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastSeen = s.now()
	if mutate != nil {
		mutate(sess.state)
		s.metrics.MutationsTotal.WithLabelValues(operation).Inc()
		s.log.Debug("Session mutated", "session", id, "operation", operation)
	}
	return BuildView(sess.id, sess.state), nil
}

func (s *CalculatorService) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, found := s.sessions[id]
	if !found {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Sweep drops sessions idle for longer than the session TTL. A zero TTL
// keeps sessions until they are unmounted.
func (s *CalculatorService) Sweep(ctx context.Context) int {
	if s.opts.SessionTTL <= 0 {
		return 0
	}

	now := s.now()
	s.mu.Lock()
	expired := make([]string, 0)
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.opts.SessionTTL {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.sessions, id)
	}
	active := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SessionsActive.Set(float64(active))
	if len(expired) > 0 {
		s.log.Info("Swept idle sessions", "count", len(expired), "active", active)
	}
	return len(expired)
}

// Wait blocks until every background fetch started so far has finished.
func (s *CalculatorService) Wait() {
	s.fetches.Wait()
}

var _ ports.CalculatorService = (*CalculatorService)(nil)
