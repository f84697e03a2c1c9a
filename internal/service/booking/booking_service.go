package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Start(ctx context.Context, eventID string) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Advance(ctx context.Context, id string) (*SessionView, error)
	Retreat(ctx context.Context, id string) (*SessionView, error)
	SetQuantity(ctx context.Context, id string, quantity int) (*SessionView, error)
	UpdateContact(ctx context.Context, id string, patch domain.ContactPatch) (*SessionView, error)
	UpdatePayment(ctx context.Context, id string, patch domain.PaymentPatch) (*SessionView, error)
	Complete(ctx context.Context, id string) (*SessionView, *domain.ConfirmedOrder, error)
	Abandon(ctx context.Context, id string) error
}

type EventProvider interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, order domain.ConfirmedOrder) error
}

type liveSession struct {
	session  *Session
	lastSeen time.Time
}

// BookingService keeps the live wizard sessions in memory, keyed by id.
// Confirmed orders go through a buffered queue drained by Run.
type BookingService struct {
	events    EventProvider
	publisher OrderPublisher
	log       *zap.Logger
	gate      Gate
	idleTTL   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*liveSession

	// qmu orders enqueue against Run's shutdown so nothing lands in the
	// queue after the final drain.
	qmu     sync.Mutex
	stopped bool
	orders  chan domain.ConfirmedOrder
	inline  sync.WaitGroup
}

type BookingServiceOption func(*BookingService)

func WithRequiredFields(enabled bool) BookingServiceOption {
	return func(s *BookingService) {
		if enabled {
			s.gate = NewRequiredFieldsGate()
		}
	}
}

func WithIdleTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.idleTTL = ttl
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithOrderQueueSize(n int) BookingServiceOption {
	return func(s *BookingService) {
		s.orders = make(chan domain.ConfirmedOrder, n)
	}
}

// NewBookingService wires the wizard to the catalog and the order hand-off.
// publisher may be nil, in which case confirmed orders are only logged.
func NewBookingService(events EventProvider, publisher OrderPublisher, log *zap.Logger, opts ...BookingServiceOption) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &BookingService{
		events:    events,
		publisher: publisher,
		log:       log,
		idleTTL:   30 * time.Minute,
		now:       time.Now,
		sessions:  make(map[string]*liveSession),
		orders:    make(chan domain.ConfirmedOrder, 256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *BookingService) Start(ctx context.Context, eventID string) (*SessionView, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}

	var opts []SessionOption
	if s.gate != nil {
		opts = append(opts, WithGate(s.gate))
	}
	session := NewSession(*event, opts...)
	id := uuid.NewString()

	s.mu.Lock()
	s.sessions[id] = &liveSession{session: session, lastSeen: s.now()}
	view := newSessionView(id, session)
	s.mu.Unlock()

	s.log.Info("booking session started",
		zap.String("session_id", id),
		zap.String("event_id", event.ID),
		zap.Int64("unit_price", event.Price),
	)
	return view, nil
}

func (s *BookingService) Get(_ context.Context, id string) (*SessionView, error) {
	return s.with(id, func(*Session) {})
}

// Advance moves to the next step. Reaching Payment refreshes the unit price
// from the catalog so the charged total matches the current listing.
func (s *BookingService) Advance(ctx context.Context, id string) (*SessionView, error) {
	var eventRef string
	view, err := s.with(id, func(session *Session) {
		if !session.Advance() {
			s.log.Debug("advance ignored", zap.String("session_id", id), zap.Stringer("step", session.Step()))
			return
		}
		if session.Step() == domain.StepPayment {
			eventRef = session.EventRef()
		}
	})
	if err != nil || eventRef == "" {
		return view, err
	}
	return s.refreshPrice(ctx, id, eventRef, view)
}

func (s *BookingService) refreshPrice(ctx context.Context, id, eventRef string, view *SessionView) (*SessionView, error) {
	event, err := s.events.GetByID(ctx, eventRef)
	if err != nil {
		s.log.Warn("price refresh failed, keeping quoted price",
			zap.String("session_id", id),
			zap.String("event_id", eventRef),
			zap.Error(err),
		)
		return view, nil
	}
	if event.Price == view.UnitPrice {
		return view, nil
	}
	s.log.Info("unit price changed",
		zap.String("session_id", id),
		zap.Int64("quoted", view.UnitPrice),
		zap.Int64("current", event.Price),
	)
	return s.with(id, func(session *Session) {
		if session.Step() == domain.StepPayment {
			session.Reprice(event.Price)
		}
	})
}

// Retreat steps back; from the first step the session is abandoned and forgotten.
func (s *BookingService) Retreat(_ context.Context, id string) (*SessionView, error) {
	view, err := s.with(id, func(session *Session) {
		session.Retreat()
	})
	if err != nil {
		return nil, err
	}
	if view.Abandoned {
		s.drop(id)
		s.log.Info("booking session abandoned", zap.String("session_id", id))
	}
	return view, nil
}

func (s *BookingService) SetQuantity(_ context.Context, id string, quantity int) (*SessionView, error) {
	return s.with(id, func(session *Session) {
		session.SetQuantity(quantity)
	})
}

func (s *BookingService) UpdateContact(_ context.Context, id string, patch domain.ContactPatch) (*SessionView, error) {
	return s.with(id, func(session *Session) {
		session.UpdateContact(patch)
	})
}

func (s *BookingService) UpdatePayment(_ context.Context, id string, patch domain.PaymentPatch) (*SessionView, error) {
	return s.with(id, func(session *Session) {
		session.UpdatePayment(patch)
	})
}

// Complete returns a nil order when the session is not at Payment or Confirmation.
// Each call that confirms hands a new order off; callers gate double submits.
func (s *BookingService) Complete(_ context.Context, id string) (*SessionView, *domain.ConfirmedOrder, error) {
	var (
		order     domain.ConfirmedOrder
		confirmed bool
	)
	view, err := s.with(id, func(session *Session) {
		order, confirmed = session.Complete(s.now())
	})
	if err != nil {
		return nil, nil, err
	}
	if !confirmed {
		return view, nil, nil
	}
	s.enqueue(order)
	s.log.Info("booking confirmed",
		zap.String("session_id", id),
		zap.String("order_id", order.OrderID),
		zap.String("event_id", order.EventRef),
		zap.Int("tickets", order.TicketQuantity),
		zap.Int64("total", order.Pricing.Total),
	)
	return view, &order, nil
}

func (s *BookingService) Abandon(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// ExpireIdle forgets sessions untouched for longer than the idle TTL and
// returns their ids.
func (s *BookingService) ExpireIdle(_ context.Context) []string {
	deadline := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []string
	for id, live := range s.sessions {
		if live.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

// Run publishes queued orders until ctx is done, then drains what is queued
// and waits for orders that overflowed the queue. Orders confirmed after Run
// returns are published by the confirming call itself.
func (s *BookingService) Run(ctx context.Context) {
	for {
		select {
		case order := <-s.orders:
			s.publish(ctx, order)
		case <-ctx.Done():
			s.qmu.Lock()
			s.stopped = true
			s.qmu.Unlock()

			drainCtx := context.WithoutCancel(ctx)
			for {
				select {
				case order := <-s.orders:
					s.publish(drainCtx, order)
				default:
					s.inline.Wait()
					return
				}
			}
		}
	}
}

// RunSweeper calls ExpireIdle every interval until ctx is done.
func (s *BookingService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if expired := s.ExpireIdle(ctx); len(expired) > 0 {
				s.log.Info("expired idle booking sessions", zap.Int("count", len(expired)))
			}
		case <-ctx.Done():
			return
		}
	}
}

// enqueue never blocks and must be called without s.mu held. A full queue
// hands the order to its own goroutine.
func (s *BookingService) enqueue(order domain.ConfirmedOrder) {
	s.qmu.Lock()
	if s.stopped {
		s.qmu.Unlock()
		s.publish(context.Background(), order)
		return
	}
	select {
	case s.orders <- order:
		s.qmu.Unlock()
		return
	default:
	}
	s.inline.Add(1)
	s.qmu.Unlock()

	s.log.Warn("order queue full, publishing out of band", zap.String("order_id", order.OrderID))
	go func() {
		defer s.inline.Done()
		s.publish(context.Background(), order)
	}()
}

func (s *BookingService) publish(ctx context.Context, order domain.ConfirmedOrder) {
	if s.publisher == nil {
		s.log.Info("order handed off without publisher", zap.String("order_id", order.OrderID))
		return
	}
	if err := s.publisher.PublishOrder(ctx, order); err != nil {
		s.log.Warn("failed to publish confirmed order",
			zap.String("order_id", order.OrderID),
			zap.Error(err),
		)
	}
}

func (s *BookingService) with(id string, fn func(*Session)) (*SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	fn(live.session)
	live.lastSeen = s.now()
	return newSessionView(id, live.session), nil
}

func (s *BookingService) drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

var _ BookingUseCase = (*BookingService)(nil)
