package hero

import (
	"context"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/repository"
	"go.uber.org/zap"
)

type RevisionUseCase interface {
	SaveCurrent(ctx context.Context, mediaType domain.MediaType, url string) (domain.HeroHistoryEntry, error)
	List(ctx context.Context, filter domain.HistoryFilter) iter.Seq[domain.HeroHistoryEntry]
	Restore(ctx context.Context, entry domain.HeroHistoryEntry) error
	Delete(ctx context.Context, entry domain.HeroHistoryEntry) (bool, error)
	Current(ctx context.Context) domain.CurrentHeroMedia
}

// ChangeNotifier tells consuming pages that a current pointer moved.
type ChangeNotifier interface {
	NotifyHeroChanged(ctx context.Context, current domain.CurrentHeroMedia) error
}

// RevisionStore keeps the hero media history and the two current pointers.
// Each mutation is one read-compute-write against the repository. The mutex
// serialises writers in this process only; other processes sharing the same
// store race and the last write wins.
type RevisionStore struct {
	repo     repository.HeroRepository
	notifier ChangeNotifier
	log      *zap.Logger
	limit    int
	now      func() time.Time

	mu sync.Mutex
}

type Option func(*RevisionStore)

// WithLimit lowers the history cap. Values outside 1..domain.HeroHistoryLimit
// are ignored.
func WithLimit(n int) Option {
	return func(s *RevisionStore) {
		if n > 0 && n <= domain.HeroHistoryLimit {
			s.limit = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *RevisionStore) {
		s.now = now
	}
}

func WithNotifier(n ChangeNotifier) Option {
	return func(s *RevisionStore) {
		s.notifier = n
	}
}

func NewRevisionStore(repo repository.HeroRepository, log *zap.Logger, opts ...Option) *RevisionStore {
	if log == nil {
		log = zap.NewNop()
	}
	s := &RevisionStore{
		repo:  repo,
		log:   log,
		limit: domain.HeroHistoryLimit,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveCurrent points the current media of that type at url and records it as
// the newest history entry, replacing an older entry for the same media.
func (s *RevisionStore) SaveCurrent(ctx context.Context, mediaType domain.MediaType, url string) (domain.HeroHistoryEntry, error) {
	if _, err := domain.ParseMediaType(string(mediaType)); err != nil {
		return domain.HeroHistoryEntry{}, err
	}

	entry, current, err := s.saveCurrent(ctx, mediaType, url)
	if err != nil {
		return domain.HeroHistoryEntry{}, err
	}
	s.notify(ctx, current)
	return entry, nil
}

func (s *RevisionStore) saveCurrent(ctx context.Context, mediaType domain.MediaType, url string) (domain.HeroHistoryEntry, domain.CurrentHeroMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetCurrentURL(ctx, mediaType, url); err != nil {
		return domain.HeroHistoryEntry{}, domain.CurrentHeroMedia{}, err
	}

	entry := domain.HeroHistoryEntry{Type: mediaType, URL: url, SavedAt: s.now().UTC()}
	history := s.repo.History(ctx)

	updated := make([]domain.HeroHistoryEntry, 0, min(len(history)+1, s.limit))
	updated = append(updated, entry)
	for _, e := range history {
		if len(updated) == s.limit {
			break
		}
		if e.SameMedia(entry) {
			continue
		}
		updated = append(updated, e)
	}

	if err := s.repo.SaveHistory(ctx, updated); err != nil {
		return domain.HeroHistoryEntry{}, domain.CurrentHeroMedia{}, err
	}

	s.log.Info("hero media saved",
		zap.String("type", string(mediaType)),
		zap.String("url", url),
		zap.Int("history_len", len(updated)),
	)
	return entry, s.Current(ctx), nil
}

// List yields the persisted history newest first. The sequence reads the store
// each time it is ranged over and never writes.
func (s *RevisionStore) List(ctx context.Context, filter domain.HistoryFilter) iter.Seq[domain.HeroHistoryEntry] {
	return func(yield func(domain.HeroHistoryEntry) bool) {
		for _, e := range s.repo.History(ctx) {
			if !filter.Match(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Restore moves the current pointer for entry.Type back to entry.URL. The
// history is left as it is.
func (s *RevisionStore) Restore(ctx context.Context, entry domain.HeroHistoryEntry) error {
	if _, err := domain.ParseMediaType(string(entry.Type)); err != nil {
		return err
	}

	current, err := s.restore(ctx, entry)
	if err != nil {
		return err
	}
	s.notify(ctx, current)
	return nil
}

func (s *RevisionStore) restore(ctx context.Context, entry domain.HeroHistoryEntry) (domain.CurrentHeroMedia, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetCurrentURL(ctx, entry.Type, entry.URL); err != nil {
		return domain.CurrentHeroMedia{}, err
	}
	s.log.Info("hero media restored", zap.String("type", string(entry.Type)), zap.String("url", entry.URL))
	return s.Current(ctx), nil
}

// Delete removes the entry matching type, url and save time. Current pointers
// are not touched, even when they still reference the deleted media.
func (s *RevisionStore) Delete(ctx context.Context, entry domain.HeroHistoryEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.repo.History(ctx)
	idx := slices.IndexFunc(history, entry.Identical)
	if idx < 0 {
		return false, nil
	}
	updated := slices.Delete(slices.Clone(history), idx, idx+1)

	if err := s.repo.SaveHistory(ctx, updated); err != nil {
		return false, err
	}
	s.log.Info("hero history entry deleted", zap.String("type", string(entry.Type)), zap.String("url", entry.URL))
	return true, nil
}

func (s *RevisionStore) Current(ctx context.Context) domain.CurrentHeroMedia {
	return domain.CurrentHeroMedia{
		ImageURL: s.repo.CurrentURL(ctx, domain.MediaImage),
		VideoURL: s.repo.CurrentURL(ctx, domain.MediaVideo),
	}
}

// notify runs outside s.mu with the pointers captured by the mutation.
func (s *RevisionStore) notify(ctx context.Context, current domain.CurrentHeroMedia) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyHeroChanged(ctx, current); err != nil {
		s.log.Warn("hero change notification failed", zap.Error(err))
	}
}

var _ RevisionUseCase = (*RevisionStore)(nil)
