package sections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/favorepeat/internal/storage"
)

// Store persists the ordered section lists, one per video, and keeps the
// catalog in step: the first saved section creates the catalog entry, the
// last deleted section cascades into removing it.
type Store struct {
	kv      storage.Store
	catalog *Catalog
	logger  zerolog.Logger
}

// NewStore creates a section store over the given backend and catalog.
func NewStore(kv storage.Store, catalog *Catalog, logger zerolog.Logger) *Store {
	return &Store{
		kv:      kv,
		catalog: catalog,
		logger:  logger.With().Str("component", "sections").Logger(),
	}
}

// List returns the persisted section list for a video in insertion order.
// An unknown video yields an empty list, never an error.
func (s *Store) List(ctx context.Context, videoID string) ([]Section, error) {
	raw, ok, err := s.kv.Get(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("read sections %s: %w", videoID, err)
	}
	if !ok {
		return nil, nil
	}

	var secs []Section
	if err := json.Unmarshal([]byte(raw), &secs); err != nil {
		s.logger.Warn().Err(err).Str("video", videoID).
			Msg("malformed section list, resetting to empty")
		return nil, nil
	}
	return secs, nil
}

// Create appends a new section with the next free id and persists the list.
// The first section of a video also creates its catalog entry with the
// supplied title.
func (s *Store) Create(ctx context.Context, videoID, title string, sec Section) (Section, error) {
	secs, err := s.List(ctx, videoID)
	if err != nil {
		return Section{}, err
	}

	sec.ID = nextID(secs)
	secs = append(secs, sec)
	if err := s.persist(ctx, videoID, secs); err != nil {
		return Section{}, err
	}

	if err := s.catalog.Upsert(ctx, Video{ID: videoID, Title: title}); err != nil {
		return Section{}, err
	}

	s.logger.Debug().Str("video", videoID).Int("id", sec.ID).Msg("section created")
	return sec, nil
}

// Update replaces the section with a matching id in place, preserving list
// order. A missing id is a no-op.
func (s *Store) Update(ctx context.Context, videoID string, sec Section) error {
	secs, err := s.List(ctx, videoID)
	if err != nil {
		return err
	}

	replaced := false
	for i := range secs {
		if secs[i].ID == sec.ID {
			secs[i] = sec
			replaced = true
			break
		}
	}
	if !replaced {
		return nil
	}
	return s.persist(ctx, videoID, secs)
}

// Delete removes the section with the given id. Removing the last section
// of a video also removes its catalog entry and deletes the storage key
// entirely rather than leaving an empty list behind.
func (s *Store) Delete(ctx context.Context, videoID string, id int) error {
	secs, err := s.List(ctx, videoID)
	if err != nil {
		return err
	}

	kept := secs[:0]
	for _, sec := range secs {
		if sec.ID != id {
			kept = append(kept, sec)
		}
	}
	if len(kept) == len(secs) {
		return nil
	}

	if len(kept) == 0 {
		if err := s.catalog.Remove(ctx, videoID); err != nil {
			return err
		}
		if err := s.kv.Remove(ctx, videoID); err != nil {
			return fmt.Errorf("remove sections %s: %w", videoID, err)
		}
		s.logger.Debug().Str("video", videoID).Msg("last section deleted, video dropped")
		return nil
	}

	return s.persist(ctx, videoID, kept)
}

// Get returns the section with the given id, ok=false when absent.
func (s *Store) Get(ctx context.Context, videoID string, id int) (Section, bool, error) {
	secs, err := s.List(ctx, videoID)
	if err != nil {
		return Section{}, false, err
	}
	for _, sec := range secs {
		if sec.ID == id {
			return sec, true, nil
		}
	}
	return Section{}, false, nil
}

func (s *Store) persist(ctx context.Context, videoID string, secs []Section) error {
	raw, err := json.Marshal(secs)
	if err != nil {
		return fmt.Errorf("encode sections %s: %w", videoID, err)
	}
	if err := s.kv.Set(ctx, videoID, string(raw)); err != nil {
		return fmt.Errorf("write sections %s: %w", videoID, err)
	}
	return nil
}

// nextID assigns ids strictly increasing over the life of a video's list;
// ids are never reused after deletion.
func nextID(secs []Section) int {
	max := 0
	for _, sec := range secs {
		if sec.ID > max {
			max = sec.ID
		}
	}
	return max + 1
}
