package repository

import (
	"context"
	"fmt"

	"github.com/blacktie/storefront/internal/domain"
	"github.com/blacktie/storefront/internal/storage"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	KeyCurrentImageURL = "currentImageUrl"
	KeyCurrentVideoURL = "currentVideoUrl"
	KeyHeroHistory     = "heroHistory"
)

// HeroRepository maps the hero media state onto its three logical keys.
// Reads never fail: absent or unreadable values come back empty.
// Writes wrap domain.ErrNotPersisted on failure.
type HeroRepository interface {
	CurrentURL(ctx context.Context, mediaType domain.MediaType) string
	SetCurrentURL(ctx context.Context, mediaType domain.MediaType, url string) error
	History(ctx context.Context) []domain.HeroHistoryEntry
	SaveHistory(ctx context.Context, entries []domain.HeroHistoryEntry) error
}

type KVHeroRepository struct {
	store storage.Store
	log   *zap.Logger
}

func NewHeroRepository(store storage.Store, log *zap.Logger) *KVHeroRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &KVHeroRepository{store: store, log: log}
}

func (r *KVHeroRepository) CurrentURL(ctx context.Context, mediaType domain.MediaType) string {
	key, ok := currentKey(mediaType)
	if !ok {
		return ""
	}
	value, _, err := r.store.Get(ctx, key)
	if err != nil {
		r.log.Warn("read current hero media failed, using empty", zap.String("key", key), zap.Error(err))
		return ""
	}
	return value
}

func (r *KVHeroRepository) SetCurrentURL(ctx context.Context, mediaType domain.MediaType, url string) error {
	key, ok := currentKey(mediaType)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownMediaType, mediaType)
	}
	if err := r.store.Set(ctx, key, url); err != nil {
		return fmt.Errorf("write %s: %w: %w", key, domain.ErrNotPersisted, err)
	}
	return nil
}

func (r *KVHeroRepository) History(ctx context.Context) []domain.HeroHistoryEntry {
	raw, found, err := r.store.Get(ctx, KeyHeroHistory)
	if err != nil {
		r.log.Warn("read hero history failed, using empty", zap.Error(err))
		return nil
	}
	if !found || raw == "" {
		return nil
	}

	var decoded []domain.HeroHistoryEntry
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		r.log.Warn("hero history is corrupted, using empty", zap.Error(err))
		return nil
	}

	entries := decoded[:0]
	for _, e := range decoded {
		if _, err := domain.ParseMediaType(string(e.Type)); err != nil {
			r.log.Warn("dropping hero history entry", zap.String("type", string(e.Type)), zap.String("url", e.URL))
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// SaveHistory replaces the whole list in a single write.
func (r *KVHeroRepository) SaveHistory(ctx context.Context, entries []domain.HeroHistoryEntry) error {
	if entries == nil {
		entries = []domain.HeroHistoryEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode hero history: %w", err)
	}
	if err := r.store.Set(ctx, KeyHeroHistory, string(payload)); err != nil {
		return fmt.Errorf("write %s: %w: %w", KeyHeroHistory, domain.ErrNotPersisted, err)
	}
	return nil
}

func currentKey(mediaType domain.MediaType) (string, bool) {
	switch mediaType {
	case domain.MediaImage:
		return KeyCurrentImageURL, true
	case domain.MediaVideo:
		return KeyCurrentVideoURL, true
	default:
		return "", false
	}
}

var _ HeroRepository = (*KVHeroRepository)(nil)
