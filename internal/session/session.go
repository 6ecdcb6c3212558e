// Package session owns the application state and exposes the user-facing
// commands over it. Every command mutates stores and selection first, then
// recomputes the playback configuration, so the derived config always
// observes fully applied state.
package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/favorepeat/internal/editor"
	"github.com/kikiluvv/favorepeat/internal/meta"
	"github.com/kikiluvv/favorepeat/internal/player"
	"github.com/kikiluvv/favorepeat/internal/sections"
	"github.com/kikiluvv/favorepeat/pkg/util"
)

// TitleResolver resolves a video id to a display title, falling back
// internally instead of failing.
type TitleResolver interface {
	ResolveTitle(ctx context.Context, videoID string) string
}

// Session serializes all user commands over the stores and the controller.
// It is single-writer: commands are expected to arrive one at a time.
type Session struct {
	store      *sections.Store
	catalog    *sections.Catalog
	resolver   TitleResolver
	engine     player.Engine
	controller *player.Controller
	buffer     *editor.Buffer
	logger     zerolog.Logger

	videoTitle string
}

// New wires a session from its collaborators.
func New(store *sections.Store, catalog *sections.Catalog, resolver TitleResolver,
	engine player.Engine, controller *player.Controller, logger zerolog.Logger) *Session {
	return &Session{
		store:      store,
		catalog:    catalog,
		resolver:   resolver,
		engine:     engine,
		controller: controller,
		buffer:     editor.NewBuffer(),
		logger:     logger.With().Str("component", "session").Logger(),
	}
}

// Buffer exposes the edit buffer for input surfaces.
func (s *Session) Buffer() *editor.Buffer { return s.buffer }

// Controller exposes the playback controller, e.g. for engine event wiring.
func (s *Session) Controller() *player.Controller { return s.controller }

// VideoTitle returns the title of the loaded video, empty when idle.
func (s *Session) VideoTitle() string { return s.videoTitle }

// Videos lists the catalogued videos.
func (s *Session) Videos(ctx context.Context) ([]sections.Video, error) {
	return s.catalog.List(ctx)
}

// Sections lists the loaded video's sections.
func (s *Session) Sections(ctx context.Context) ([]sections.Section, error) {
	return s.store.List(ctx, s.controller.VideoID())
}

// LoadVideo loads a video from pasted input (bare id or URL), resolving its
// title. The selection and edit buffer reset.
func (s *Session) LoadVideo(ctx context.Context, input string) player.Config {
	id := meta.ExtractVideoID(input)
	title := s.resolver.ResolveTitle(ctx, id)

	// First-write-wins: a video that is already catalogued keeps its
	// stored title.
	if stored, ok, err := s.catalog.Title(ctx, id); err == nil && ok {
		title = stored
	}

	s.videoTitle = title
	s.controller.LoadVideo(id)
	s.buffer.ResetForNew()
	s.logger.Info().Str("video", id).Str("title", title).Msg("video loaded")
	return s.controller.Recompute(ctx)
}

// OpenVideo loads an already-catalogued video without a title lookup.
func (s *Session) OpenVideo(ctx context.Context, video sections.Video) player.Config {
	s.videoTitle = video.Title
	s.controller.LoadVideo(video.ID)
	s.buffer.ResetForNew()
	return s.controller.Recompute(ctx)
}

// SelectSection activates a section of the loaded video and seeds the edit
// buffer from it. Selecting an id that does not exist is a no-op.
func (s *Session) SelectSection(ctx context.Context, id int) player.Config {
	sec, ok, err := s.store.Get(ctx, s.controller.VideoID(), id)
	if err != nil || !ok {
		if err != nil {
			s.logger.Error().Err(err).Int("section", id).Msg("section lookup failed")
		}
		return s.controller.Latest()
	}

	start, end, perr := s.bounds(sec)
	if perr != nil {
		s.logger.Warn().Err(perr).Int("section", id).Msg("section has unusable timecodes")
		return s.controller.Latest()
	}

	s.controller.SelectSection(sec.ID, start, end)
	s.buffer.SeedFrom(sec)
	return s.controller.Recompute(ctx)
}

// ToggleSection selects a section, or clears the selection when the given
// section is already active.
func (s *Session) ToggleSection(ctx context.Context, id int) player.Config {
	if s.controller.ActiveSectionID() == id {
		return s.ClearSection(ctx)
	}
	return s.SelectSection(ctx, id)
}

// ClearSection returns to free playback and resets the edit buffer.
func (s *Session) ClearSection(ctx context.Context) player.Config {
	s.controller.ClearSection()
	s.buffer.ResetForNew()
	return s.controller.Recompute(ctx)
}

// SaveSection persists the edit buffer. With no active selection it creates
// a new section (and the video's catalog entry if this is its first) and
// makes it the active one; with an active selection it updates that section
// in place, keeping its id.
func (s *Session) SaveSection(ctx context.Context) player.Config {
	draft := s.buffer.ToSection()
	if _, _, err := s.bounds(draft); err != nil {
		s.logger.Warn().Err(err).Msg("save rejected, buffer has unusable timecodes")
		return s.controller.Latest()
	}

	videoID := s.controller.VideoID()
	active := s.controller.ActiveSectionID()

	if active == 0 {
		created, err := s.store.Create(ctx, videoID, s.videoTitle, draft)
		if err != nil {
			s.logger.Error().Err(err).Msg("section create failed")
			return s.controller.Latest()
		}
		// The new section becomes the active one.
		return s.SelectSection(ctx, created.ID)
	}

	draft.ID = active
	if err := s.store.Update(ctx, videoID, draft); err != nil {
		s.logger.Error().Err(err).Int("section", active).Msg("section update failed")
		return s.controller.Latest()
	}
	start, end, _ := s.bounds(draft)
	s.controller.SelectSection(active, start, end)
	return s.controller.Recompute(ctx)
}

// DeleteSection removes a section once the caller has confirmed the action.
// Deleting the active section clears the selection; deleting the last
// section cascades into dropping the video from the catalog.
func (s *Session) DeleteSection(ctx context.Context, id int, confirmed bool) player.Config {
	if !confirmed {
		return s.controller.Latest()
	}

	videoID := s.controller.VideoID()
	if err := s.store.Delete(ctx, videoID, id); err != nil {
		s.logger.Error().Err(err).Int("section", id).Msg("section delete failed")
		return s.controller.Latest()
	}

	remaining, err := s.store.List(ctx, videoID)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing sections after delete failed")
	}
	if len(remaining) == 0 || s.controller.ActiveSectionID() == id {
		s.controller.ClearSection()
		s.buffer.ResetForNew()
	}
	return s.controller.Recompute(ctx)
}

// CloseVideo returns to the idle phase, clearing all selection and buffer
// state.
func (s *Session) CloseVideo(ctx context.Context) player.Config {
	s.videoTitle = ""
	s.controller.CloseVideo()
	s.buffer.ResetForNew()
	return s.controller.Recompute(ctx)
}

// CaptureStart stamps the engine's current position into the buffer's start
// field. A failed read is logged and leaves the buffer untouched.
func (s *Session) CaptureStart(ctx context.Context) player.Config {
	return s.capture(ctx, editor.FieldStart)
}

// CaptureEnd stamps the engine's current position into the buffer's end
// field.
func (s *Session) CaptureEnd(ctx context.Context) player.Config {
	return s.capture(ctx, editor.FieldEnd)
}

func (s *Session) capture(ctx context.Context, field editor.Field) player.Config {
	if err := s.buffer.CaptureNow(ctx, s.engine, field); err != nil {
		s.logger.Error().Err(err).Msg("position capture failed")
	}
	return s.controller.Recompute(ctx)
}

// Resize records a viewport size change and rederives the configuration.
func (s *Session) Resize(ctx context.Context, width int) player.Config {
	s.controller.SetViewportWidth(width)
	return s.controller.Recompute(ctx)
}

// HandleEngineState forwards a raw engine state event to the controller.
func (s *Session) HandleEngineState(ctx context.Context, state player.EngineState) {
	s.controller.HandleStateChange(ctx, state)
}

func (s *Session) bounds(sec sections.Section) (start, end int, err error) {
	start, err = util.ParseTimecode(sec.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = util.ParseTimecode(sec.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
