package api

import (
	"context"
	"iter"
	"slices"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/service/booking"
	"github.com/stretchr/testify/mock"
)

type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

func (m *MockCatalogUseCase) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) view(args mock.Arguments) (*booking.SessionView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.SessionView), args.Error(1)
}

func (m *MockBookingUseCase) Start(ctx context.Context, eventID string) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, eventID))
}

func (m *MockBookingUseCase) Get(ctx context.Context, id string) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingUseCase) Advance(ctx context.Context, id string) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingUseCase) Retreat(ctx context.Context, id string) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id))
}

func (m *MockBookingUseCase) SetQuantity(ctx context.Context, id string, quantity int) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id, quantity))
}

func (m *MockBookingUseCase) UpdateContact(ctx context.Context, id string, patch domain.ContactPatch) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id, patch))
}

func (m *MockBookingUseCase) UpdatePayment(ctx context.Context, id string, patch domain.PaymentPatch) (*booking.SessionView, error) {
	return m.view(m.Called(ctx, id, patch))
}

func (m *MockBookingUseCase) Complete(ctx context.Context, id string) (*booking.SessionView, *domain.ConfirmedOrder, error) {
	args := m.Called(ctx, id)
	var (
		view  *booking.SessionView
		order *domain.ConfirmedOrder
	)
	if v := args.Get(0); v != nil {
		view = v.(*booking.SessionView)
	}
	if o := args.Get(1); o != nil {
		order = o.(*domain.ConfirmedOrder)
	}
	return view, order, args.Error(2)
}

func (m *MockBookingUseCase) Abandon(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockRevisionUseCase struct {
	mock.Mock
}

func (m *MockRevisionUseCase) SaveCurrent(ctx context.Context, mediaType domain.MediaType, url string) (domain.HeroHistoryEntry, error) {
	args := m.Called(ctx, mediaType, url)
	return args.Get(0).(domain.HeroHistoryEntry), args.Error(1)
}

func (m *MockRevisionUseCase) List(ctx context.Context, filter domain.HistoryFilter) iter.Seq[domain.HeroHistoryEntry] {
	args := m.Called(ctx, filter)
	return slices.Values(args.Get(0).([]domain.HeroHistoryEntry))
}

func (m *MockRevisionUseCase) Restore(ctx context.Context, entry domain.HeroHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockRevisionUseCase) Delete(ctx context.Context, entry domain.HeroHistoryEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevisionUseCase) Current(ctx context.Context) domain.CurrentHeroMedia {
	return m.Called(ctx).Get(0).(domain.CurrentHeroMedia)
}
