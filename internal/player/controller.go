package player

import (
	"context"

	"github.com/rs/zerolog"
)

// Phase is the controller's position in its state machine.
type Phase int

const (
	// PhaseIdle means no video is loaded.
	PhaseIdle Phase = iota
	// PhaseViewing means a video is loaded and playback is unconstrained.
	PhaseViewing
	// PhaseSectionActive means playback is bounded to the active section.
	PhaseSectionActive
)

func (p Phase) String() string {
	switch p {
	case PhaseViewing:
		return "viewing"
	case PhaseSectionActive:
		return "section-active"
	default:
		return "idle"
	}
}

// Controller owns the selection state and turns it into concrete player
// instructions. Every transition is followed by a Recompute whose result
// overwrites the previous one; there is no queue of pending configs.
type Controller struct {
	engine Engine
	logger zerolog.Logger

	videoID      string
	activeID     int
	startSeconds int
	endSeconds   int

	viewportWidth int
	maxHeight     int

	latest Config
}

// NewController creates a controller in the Idle phase.
func NewController(engine Engine, viewportWidth, maxHeight int, logger zerolog.Logger) *Controller {
	return &Controller{
		engine:        engine,
		logger:        logger.With().Str("component", "player").Logger(),
		viewportWidth: viewportWidth,
		maxHeight:     maxHeight,
	}
}

// Phase reports the current state-machine phase.
func (c *Controller) Phase() Phase {
	switch {
	case c.videoID == "":
		return PhaseIdle
	case c.activeID == 0:
		return PhaseViewing
	default:
		return PhaseSectionActive
	}
}

// VideoID returns the loaded video id, empty when idle.
func (c *Controller) VideoID() string { return c.videoID }

// ActiveSectionID returns the active section id, 0 for free playback.
func (c *Controller) ActiveSectionID() int { return c.activeID }

// LoadVideo transitions to Viewing on the given video, clearing any active
// selection.
func (c *Controller) LoadVideo(id string) {
	c.videoID = id
	c.clearBounds()
	c.logger.Debug().Str("video", id).Msg("video loaded")
}

// SelectSection activates a section, bounding playback to [start, end).
// Bounds are plain seconds; the caller resolves them from the section's
// timecodes.
func (c *Controller) SelectSection(id, startSeconds, endSeconds int) {
	c.activeID = id
	c.startSeconds = startSeconds
	c.endSeconds = endSeconds
	c.logger.Debug().Int("section", id).Int("start", startSeconds).
		Int("end", endSeconds).Msg("section activated")
}

// ClearSection returns to Viewing, dropping the bounding fields.
func (c *Controller) ClearSection() {
	c.clearBounds()
}

// CloseVideo returns to Idle, clearing all selection state.
func (c *Controller) CloseVideo() {
	c.videoID = ""
	c.clearBounds()
}

func (c *Controller) clearBounds() {
	c.activeID = 0
	c.startSeconds = 0
	c.endSeconds = 0
}

// SetViewportWidth records a viewport resize. Callers are expected to
// Recompute afterwards, as after any transition.
func (c *Controller) SetViewportWidth(width int) {
	c.viewportWidth = width
}

// Recompute derives the playback configuration from the current phase.
// Viewing reads the engine's live position so a reload resumes in place; a
// failed read is logged and leaves the start bound unset. The result
// becomes the latest configuration, overwriting any previous one.
func (c *Controller) Recompute(ctx context.Context) Config {
	cfg := Config{
		VideoID: c.videoID,
		Width:   c.viewportWidth,
		Height:  c.height(),
	}

	switch c.Phase() {
	case PhaseIdle:
		// no start, no end, no autoplay
	case PhaseViewing:
		if pos, err := c.engine.CurrentTime(ctx); err != nil {
			c.logger.Error().Err(err).Msg("reading current time failed")
		} else {
			start := int(pos)
			cfg.Start = &start
		}
	case PhaseSectionActive:
		start, end := c.startSeconds, c.endSeconds
		cfg.Start = &start
		cfg.End = &end
		cfg.Autoplay = true
	}

	c.latest = cfg
	return cfg
}

// Latest returns the most recently derived configuration.
func (c *Controller) Latest() Config { return c.latest }

// height derives the 16:9 player height from the viewport width, capped at
// the configured maximum.
func (c *Controller) height() int {
	h := c.viewportWidth * 9 / 16
	if h > c.maxHeight {
		return c.maxHeight
	}
	return h
}

// HandleStateChange consumes a raw engine state event. Only Ended matters.
func (c *Controller) HandleStateChange(ctx context.Context, state EngineState) {
	if state == StateEnded {
		c.HandleEnded(ctx)
	}
}

// HandleEnded reacts to end-of-media: loop back to the section start while
// a section is active, resume normal playback while viewing. Failures are
// logged with no retry and no state rollback.
func (c *Controller) HandleEnded(ctx context.Context) {
	switch c.Phase() {
	case PhaseSectionActive:
		if err := c.engine.SeekTo(ctx, c.startSeconds, true); err != nil {
			c.logger.Error().Err(err).Int("start", c.startSeconds).
				Msg("loop seek failed")
		}
	case PhaseViewing:
		if err := c.engine.Play(ctx); err != nil {
			c.logger.Error().Err(err).Msg("resume play failed")
		}
	}
}
