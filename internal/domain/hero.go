package domain

import (
	"fmt"
	"time"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// HeroHistoryLimit is the number of history entries kept, newest first.
const HeroHistoryLimit = 30

func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(s) {
	case MediaImage, MediaVideo:
		return MediaType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaType, s)
	}
}

type HeroHistoryEntry struct {
	Type    MediaType `json:"type"`
	URL     string    `json:"url"`
	SavedAt time.Time `json:"savedAt"`
}

// SameMedia reports whether both entries point at the same media, regardless of when they were saved.
func (e HeroHistoryEntry) SameMedia(other HeroHistoryEntry) bool {
	return e.Type == other.Type && e.URL == other.URL
}

// Identical reports full identity, including the save time.
func (e HeroHistoryEntry) Identical(other HeroHistoryEntry) bool {
	return e.SameMedia(other) && e.SavedAt.Equal(other.SavedAt)
}

type HistoryFilter string

const (
	FilterAll   HistoryFilter = "all"
	FilterImage HistoryFilter = "image"
	FilterVideo HistoryFilter = "video"
)

func ParseHistoryFilter(s string) (HistoryFilter, error) {
	switch HistoryFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterImage, FilterVideo:
		return HistoryFilter(s), nil
	default:
		return "", fmt.Errorf("unknown history filter %q", s)
	}
}

func (f HistoryFilter) Match(e HeroHistoryEntry) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return string(f) == string(e.Type)
}

type CurrentHeroMedia struct {
	ImageURL string `json:"current_image_url"`
	VideoURL string `json:"current_video_url"`
}

func (c CurrentHeroMedia) URL(t MediaType) string {
	if t == MediaVideo {
		return c.VideoURL
	}
	return c.ImageURL
}
