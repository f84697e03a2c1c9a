package repository

import (
	"context"

	"github.com/blacktie/storefront/internal/domain"
)

// StaticEventRepository serves the storefront's built-in catalog. It is used
// when no database is configured.
type StaticEventRepository struct {
	events []domain.Event
}

func NewStaticEventRepository(events []domain.Event) *StaticEventRepository {
	if events == nil {
		events = SeedEvents()
	}
	return &StaticEventRepository{events: events}
}

func (r *StaticEventRepository) List(_ context.Context) ([]domain.Event, error) {
	out := make([]domain.Event, len(r.events))
	copy(out, r.events)
	return out, nil
}

func (r *StaticEventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	for _, e := range r.events {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, domain.ErrEventNotFound
}

func SeedEvents() []domain.Event {
	return []domain.Event{
		{ID: "1", Title: "Summer Music Festival 2024", Date: "2024-07-15", Time: "18:00", Location: "Central Park, New York", Category: "Music", Price: 89, Image: "https://images.unsplash.com/photo-1459749411175-04bf5292ceea?w=500&h=300&fit=crop"},
		{ID: "2", Title: "Tech Innovation Conference", Date: "2024-08-22", Time: "09:00", Location: "Convention Center, SF", Category: "Technology", Price: 199, Image: "https://images.unsplash.com/photo-1540575467063-178a50c2df87?w=500&h=300&fit=crop"},
		{ID: "3", Title: "Food & Wine Expo", Date: "2024-09-10", Time: "12:00", Location: "Downtown Plaza, LA", Category: "Food", Price: 45, Image: "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?w=500&h=300&fit=crop"},
		{ID: "4", Title: "Startup Pitch Competition", Date: "2024-07-28", Time: "14:00", Location: "Business District, Chicago", Category: "Business", Price: 25, Image: "https://images.unsplash.com/photo-1551818255-e6e10975cd17?w=500&h=300&fit=crop"},
		{ID: "5", Title: "Art Gallery Opening", Date: "2024-08-05", Time: "19:00", Location: "Arts Quarter, Miami", Category: "Arts", Price: 35, Image: "https://images.unsplash.com/photo-1578321272176-b7bbc0679853?w=500&h=300&fit=crop"},
		{ID: "6", Title: "Marathon Championship", Date: "2024-09-15", Time: "06:00", Location: "City Center, Boston", Category: "Sports", Price: 75, Image: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=500&h=300&fit=crop"},
	}
}

var _ EventRepository = (*StaticEventRepository)(nil)
