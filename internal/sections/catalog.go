package sections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/favorepeat/internal/storage"
)

// Catalog is the persisted, insertion-ordered list of videos that currently
// have at least one saved section.
type Catalog struct {
	kv     storage.Store
	logger zerolog.Logger
}

// NewCatalog creates a catalog over the given backend.
func NewCatalog(kv storage.Store, logger zerolog.Logger) *Catalog {
	return &Catalog{
		kv:     kv,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

// List returns all catalogued videos in insertion order. An absent catalog
// key yields an empty list.
func (c *Catalog) List(ctx context.Context) ([]Video, error) {
	raw, ok, err := c.kv.Get(ctx, CatalogKey)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var videos []Video
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		// Corrupt stored content resets to an empty catalog rather than
		// wedging every later command.
		c.logger.Warn().Err(err).Msg("malformed catalog, resetting to empty")
		return nil, nil
	}
	return videos, nil
}

// Upsert appends video unless an entry with the same id already exists.
// Existing entries are never mutated: the first stored title wins.
func (c *Catalog) Upsert(ctx context.Context, video Video) error {
	videos, err := c.List(ctx)
	if err != nil {
		return err
	}

	for _, v := range videos {
		if v.ID == video.ID {
			return nil
		}
	}

	videos = append(videos, video)
	return c.persist(ctx, videos)
}

// Remove deletes the entry with the given id, a no-op when absent.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	videos, err := c.List(ctx)
	if err != nil {
		return err
	}

	kept := videos[:0]
	for _, v := range videos {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(videos) {
		return nil
	}
	return c.persist(ctx, kept)
}

// Title returns the stored title for a video id, or ok=false when the video
// is not catalogued.
func (c *Catalog) Title(ctx context.Context, id string) (string, bool, error) {
	videos, err := c.List(ctx)
	if err != nil {
		return "", false, err
	}
	for _, v := range videos {
		if v.ID == id {
			return v.Title, true, nil
		}
	}
	return "", false, nil
}

func (c *Catalog) persist(ctx context.Context, videos []Video) error {
	raw, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.kv.Set(ctx, CatalogKey, string(raw)); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
