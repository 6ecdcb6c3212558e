// Package editor holds the transient field values for a section being
// created or modified. Nothing here is persisted; a buffer only becomes a
// section through an explicit save.
package editor

import (
	"context"
	"fmt"

	"github.com/kikiluvv/favorepeat/internal/player"
	"github.com/kikiluvv/favorepeat/internal/sections"
	"github.com/kikiluvv/favorepeat/pkg/util"
)

// Field names one of the two time fields of the buffer.
type Field int

const (
	FieldStart Field = iota
	FieldEnd
)

// Buffer is the edit state for one section.
type Buffer struct {
	StartTime string
	EndTime   string
	Note      string
}

// NewBuffer creates a buffer in its reset state.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.ResetForNew()
	return b
}

// ResetForNew clears the buffer to the zero timecodes and an empty note.
func (b *Buffer) ResetForNew() {
	b.StartTime = util.ZeroTimecode
	b.EndTime = util.ZeroTimecode
	b.Note = ""
}

// SeedFrom copies a section's fields verbatim into the buffer.
func (b *Buffer) SeedFrom(sec sections.Section) {
	b.StartTime = sec.StartTime
	b.EndTime = sec.EndTime
	b.Note = sec.Note
}

// ToSection returns the buffer as an unsaved section (no id assigned).
func (b *Buffer) ToSection() sections.Section {
	return sections.Section{
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Note:      b.Note,
	}
}

// CaptureNow reads the engine's current position and writes it, formatted
// as a timecode, into the chosen field. The other field is never touched.
func (b *Buffer) CaptureNow(ctx context.Context, engine player.Engine, field Field) error {
	pos, err := engine.CurrentTime(ctx)
	if err != nil {
		return fmt.Errorf("capture current time: %w", err)
	}

	tc := util.FormatTimecode(int(pos))
	switch field {
	case FieldStart:
		b.StartTime = tc
	case FieldEnd:
		b.EndTime = tc
	}
	return nil
}
