// Package player derives playback configurations from the current selection
// state and reacts to end-of-media events, looping the active section or
// letting free playback resume.
package player

import "context"

// EngineState is the coarse playback state reported by the engine. Only
// Ended drives behavior here; the rest exist so callers can forward raw
// engine events unfiltered.
type EngineState int

const (
	StateUnknown EngineState = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
)

// Engine is the external playback engine. All calls are asynchronous on the
// engine side and may fail; failures are logged by the controller and never
// propagated.
type Engine interface {
	// CurrentTime reads the live playback position without altering it.
	CurrentTime(ctx context.Context) (float64, error)
	SeekTo(ctx context.Context, seconds int, allowSeekAhead bool) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
}

// Config is the derived playback configuration handed to the engine.
// Start and End are nil when the matching bound is not constrained.
type Config struct {
	VideoID  string
	Start    *int
	End      *int
	Autoplay bool
	Width    int
	Height   int
}
