package toggle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
)

// Patcher persists an availability change. It is implemented by
// *registry.Client.
type Patcher interface {
	PatchAvailability(ctx context.Context, itemID, userID int64, availability bool) error
}

var _ Patcher = (*registry.Client)(nil)

// Synchronizer applies availability changes to a listing.List optimistically
// and reconciles them with the registry.
type Synchronizer struct {
	list    *listing.List
	session session.Reader
	patcher Patcher
	timeout time.Duration
	logger  *slog.Logger

	guard    bool
	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithTimeout bounds each PATCH. An expired deadline rolls back with a Timeout
// failure. Zero leaves the caller's context in charge.
func WithTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.timeout = d }
}

// WithLogger sets the logger used for outcome records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInFlightGuard drops a toggle for an item whose previous toggle has not
// settled yet, returning InFlight without touching the list or the network.
// Without it, same-item calls overlap and the last response to arrive wins.
func WithInFlightGuard() Option {
	return func(s *Synchronizer) { s.guard = true }
}

// New builds a Synchronizer over list. sess is consulted on every call, so a
// logout takes effect immediately.
func New(list *listing.List, sess session.Reader, patcher Patcher, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		list:     list,
		session:  sess,
		patcher:  patcher,
		logger:   slog.Default(),
		inFlight: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetAvailability writes desired into the list, persists it, and restores the
// previous value if persistence fails. Observers of the list see desired
// before the request is sent. Exactly one request is issued unless a
// precondition fails, in which case the list is left untouched.
func (s *Synchronizer) SetAvailability(ctx context.Context, itemID int64, desired bool) Outcome {
	userID, ok := s.session.UserID()
	if !ok {
		return s.settle(Outcome{Kind: Unauthenticated, ItemID: itemID})
	}

	item, ok := s.list.Get(itemID)
	if !ok {
		return s.settle(Outcome{Kind: NotFound, ItemID: itemID})
	}
	if err := item.Validate(); err != nil {
		return s.settle(Outcome{Kind: Malformed, ItemID: itemID, Detail: err.Error()})
	}

	if s.guard {
		if !s.acquire(itemID) {
			return s.settle(Outcome{Kind: InFlight, ItemID: itemID})
		}
		defer s.release(itemID)
	}

	previous := item.Availability
	s.list.SetAvailability(itemID, desired)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.patcher.PatchAvailability(ctx, itemID, userID, desired); err != nil {
		failure := classify(err)
		if !s.list.SetAvailability(itemID, previous) {
			s.logger.Warn("rollback target left the list", "item_id", itemID)
		}
		return s.settle(Outcome{Kind: RolledBack, ItemID: itemID, Value: previous, Failure: &failure})
	}

	// Rewriting the confirmed value makes the last response to arrive win
	// when two calls for the same item overlap.
	s.list.SetAvailability(itemID, desired)
	return s.settle(Outcome{Kind: Confirmed, ItemID: itemID, Value: desired})
}

func (s *Synchronizer) acquire(itemID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[itemID]; busy {
		return false
	}
	s.inFlight[itemID] = struct{}{}
	return true
}

func (s *Synchronizer) release(itemID int64) {
	s.mu.Lock()
	delete(s.inFlight, itemID)
	s.mu.Unlock()
}

func (s *Synchronizer) settle(o Outcome) Outcome {
	attrs := []any{"item_id", o.ItemID, "outcome", o.Kind.String()}
	switch o.Kind {
	case Confirmed:
		s.logger.Info("availability confirmed", append(attrs, "availability", o.Value)...)
	case RolledBack:
		s.logger.Warn("availability rolled back", append(attrs, "availability", o.Value, "reason", o.Failure.String())...)
	case Malformed:
		s.logger.Error("availability toggle on malformed item", append(attrs, "detail", o.Detail)...)
	default:
		s.logger.Info("availability toggle skipped", attrs...)
	}
	return o
}

func classify(err error) Failure {
	if registry.IsTimeout(err) {
		return Failure{Kind: Timeout, Message: err.Error()}
	}
	var se *registry.StatusError
	if errors.As(err, &se) {
		return Failure{Kind: ServerError, Code: se.Code, Message: se.Message}
	}
	return Failure{Kind: NetworkError, Message: err.Error()}
}
