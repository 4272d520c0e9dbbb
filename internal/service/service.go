package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/metrics"
	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/repository"
	"github.com/Kerhoff/giftmate/internal/suggest"
)

// Suggester produces gift suggestions for a request.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) ([]models.Suggestion, error)
}

// ErrSuggestionsDisabled is returned when no Suggester was configured.
var ErrSuggestionsDisabled = errors.New("gift suggestions are not configured")

// Service is the entity store of the application. Every mutation runs in its
// own transaction and, once committed, notifies the live queries depending on
// it. Mutations and notifications are serialized by one lock; observer
// callbacks run while it is held and must not call mutating methods.
type Service struct {
	store     repository.Store
	hub       *live.Hub
	suggester Suggester
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
	newID     func() string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now. The location of the returned time decides
// which calendar day is "today" for birthdays.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithMetrics records mutations and subscriptions in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a new Service. suggester may be nil when suggestions are disabled.
func New(store repository.Store, hub *live.Hub, suggester Suggester, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		hub:       hub,
		suggester: suggester,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		hub.OnCountChange(s.metrics.Subscriptions)
	}
	return s
}

// Do runs fn on the serial context shared with mutations and observer callbacks.
func (s *Service) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// mutation runs fn in a transaction under the serial lock. When fn reports a
// change and the transaction commits, topics are published before the lock
// is released.
func (s *Service) mutation(ctx context.Context, entity, op string, topics []live.Topic,
	fn func(ctx context.Context, tx repository.Tx) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		c, err := fn(ctx, tx)
		changed = c
		return err
	})
	s.metrics.Mutation(entity, op, err)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"entity": entity,
			"op":     op,
		}).WithError(err).Error("Store mutation failed")
		return err
	}

	if !changed {
		s.logger.WithFields(logrus.Fields{
			"entity": entity,
			"op":     op,
		}).Debug("Mutation target not found, ignoring")
		return nil
	}

	s.hub.Publish(ctx, topics...)
	return nil
}

// RequestSuggestions asks the suggester for gift ideas. It does not take the
// serial lock, so store mutations proceed while the request is in flight.
func (s *Service) RequestSuggestions(ctx context.Context, req suggest.Request) ([]models.Suggestion, error) {
	if s.suggester == nil {
		return nil, ErrSuggestionsDisabled
	}
	return s.suggester.Suggest(ctx, req)
}

// RequestSuggestionsAsync runs RequestSuggestions on its own goroutine and
// hands the outcome to done on the serial context.
func (s *Service) RequestSuggestionsAsync(ctx context.Context, req suggest.Request, done func([]models.Suggestion, error)) {
	go func() {
		suggestions, err := s.RequestSuggestions(ctx, req)
		s.Do(func() { done(suggestions, err) })
	}()
}
