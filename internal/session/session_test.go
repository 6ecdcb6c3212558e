package session

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/favorepeat/internal/player"
	"github.com/kikiluvv/favorepeat/internal/sections"
	"github.com/kikiluvv/favorepeat/internal/storage"
)

type fakeEngine struct {
	position float64
	seeks    []int
	plays    int
}

func (f *fakeEngine) CurrentTime(context.Context) (float64, error) { return f.position, nil }
func (f *fakeEngine) SeekTo(_ context.Context, seconds int, _ bool) error {
	f.seeks = append(f.seeks, seconds)
	return nil
}
func (f *fakeEngine) Play(context.Context) error  { f.plays++; return nil }
func (f *fakeEngine) Pause(context.Context) error { return nil }

type stubResolver struct {
	title string
	calls int
}

func (r *stubResolver) ResolveTitle(context.Context, string) string {
	r.calls++
	if r.title == "" {
		return "Anonymous"
	}
	return r.title
}

func newTestSession(t *testing.T) (*Session, *fakeEngine, *storage.MemoryStore, *stubResolver) {
	t.Helper()
	logger := zerolog.New(os.Stderr)
	kv := storage.NewMemoryStore()
	catalog := sections.NewCatalog(kv, logger)
	store := sections.NewStore(kv, catalog, logger)
	engine := &fakeEngine{}
	controller := player.NewController(engine, 448, 252, logger)
	resolver := &stubResolver{}
	return New(store, catalog, resolver, engine, controller, logger), engine, kv, resolver
}

func (s *Session) mustSave(ctx context.Context, t *testing.T, start, end, note string) {
	t.Helper()
	s.Buffer().StartTime = start
	s.Buffer().EndTime = end
	s.Buffer().Note = note
	s.SaveSection(ctx)
}

func TestSaveCreatesSectionAndCatalogEntry(t *testing.T) {
	ctx := context.Background()
	s, _, _, resolver := newTestSession(t)
	resolver.title = "My Video"

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")

	secs, err := s.Sections(ctx)
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if len(secs) != 1 {
		t.Fatalf("sections = %+v, want one", secs)
	}
	want := sections.Section{ID: 1, StartTime: "00:00:10", EndTime: "00:00:20", Note: "x"}
	if secs[0] != want {
		t.Errorf("section = %+v, want %+v", secs[0], want)
	}

	videos, _ := s.Videos(ctx)
	if len(videos) != 1 || videos[0].ID != "abc" || videos[0].Title != "My Video" {
		t.Errorf("catalog = %+v", videos)
	}

	// the new section becomes the active one
	if s.Controller().ActiveSectionID() != 1 {
		t.Errorf("active = %d, want 1", s.Controller().ActiveSectionID())
	}
}

func TestSaveWithFailedTitleLookup(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")

	videos, _ := s.Videos(ctx)
	if len(videos) != 1 || videos[0].Title != "Anonymous" {
		t.Errorf("catalog = %+v, want Anonymous title", videos)
	}
}

func TestSaveWhileActiveUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "first")

	// section 1 is active now; editing the buffer and saving must update it
	s.Buffer().Note = "edited"
	s.Buffer().EndTime = "00:00:25"
	s.SaveSection(ctx)

	secs, _ := s.Sections(ctx)
	if len(secs) != 1 {
		t.Fatalf("update created a new section: %+v", secs)
	}
	if secs[0].ID != 1 || secs[0].Note != "edited" || secs[0].EndTime != "00:00:25" {
		t.Errorf("section = %+v", secs[0])
	}
}

func TestSaveRejectsBadTimecodes(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "nonsense", "00:00:20", "x")

	secs, _ := s.Sections(ctx)
	if len(secs) != 0 {
		t.Errorf("bad buffer persisted: %+v", secs)
	}
}

func TestDeleteOneOfSeveralKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "one")
	s.ClearSection(ctx)
	s.mustSave(ctx, t, "00:00:30", "00:00:40", "two")

	s.DeleteSection(ctx, 1, true)

	secs, _ := s.Sections(ctx)
	if len(secs) != 1 || secs[0].ID != 2 {
		t.Errorf("sections = %+v, want [{2 ...}]", secs)
	}
	videos, _ := s.Videos(ctx)
	if len(videos) != 1 {
		t.Errorf("catalog = %+v, want abc kept", videos)
	}
}

func TestDeleteLastSectionCascades(t *testing.T) {
	ctx := context.Background()
	s, _, kv, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "only")
	s.DeleteSection(ctx, 1, true)

	secs, _ := s.Sections(ctx)
	if len(secs) != 0 {
		t.Errorf("sections = %+v", secs)
	}
	videos, _ := s.Videos(ctx)
	if len(videos) != 0 {
		t.Errorf("catalog = %+v, want empty", videos)
	}
	if _, ok, _ := kv.Get(ctx, "abc"); ok {
		t.Error("per-video key still present")
	}
	if s.Controller().ActiveSectionID() != 0 {
		t.Error("selection survived cascade delete")
	}
}

func TestDeleteUnconfirmedIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")
	s.DeleteSection(ctx, 1, false)

	secs, _ := s.Sections(ctx)
	if len(secs) != 1 {
		t.Errorf("unconfirmed delete removed section: %+v", secs)
	}
}

func TestDeleteInactiveKeepsSelection(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "one")
	s.ClearSection(ctx)
	s.mustSave(ctx, t, "00:00:30", "00:00:40", "two")
	// section 2 active; delete section 1
	s.DeleteSection(ctx, 1, true)

	if s.Controller().ActiveSectionID() != 2 {
		t.Errorf("active = %d, want 2", s.Controller().ActiveSectionID())
	}
}

func TestToggleTwiceReturnsToViewing(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:30", "00:01:30", "x")
	s.ClearSection(ctx)

	s.ToggleSection(ctx, 1)
	if s.Controller().Phase() != player.PhaseSectionActive {
		t.Fatalf("phase after first toggle = %v", s.Controller().Phase())
	}

	cfg := s.ToggleSection(ctx, 1)
	if s.Controller().Phase() != player.PhaseViewing {
		t.Fatalf("phase after second toggle = %v", s.Controller().Phase())
	}
	if cfg.End != nil || cfg.Autoplay {
		t.Errorf("config after toggle-off = %+v, want no bounds", cfg)
	}
}

func TestSelectMissingSectionIsNoop(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")
	before := s.Controller().ActiveSectionID()

	s.SelectSection(ctx, 99)
	if s.Controller().ActiveSectionID() != before {
		t.Errorf("selection changed to missing id")
	}
}

func TestEndedLoopsActiveSection(t *testing.T) {
	ctx := context.Background()
	s, engine, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "0:00:30", "0:01:30", "x")

	s.HandleEngineState(ctx, player.StateEnded)

	if len(engine.seeks) != 1 || engine.seeks[0] != 30 {
		t.Errorf("seeks = %v, want [30]", engine.seeks)
	}
	if engine.plays != 0 {
		t.Errorf("resume-play issued during section loop")
	}
}

func TestLoadVideoExtractsID(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "https://youtu.be/dQw4w9WgXcQ")
	if got := s.Controller().VideoID(); got != "dQw4w9WgXcQ" {
		t.Errorf("video id = %q", got)
	}
}

func TestReloadKeepsStoredTitle(t *testing.T) {
	ctx := context.Background()
	s, _, _, resolver := newTestSession(t)
	resolver.title = "Original"

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")
	s.CloseVideo(ctx)

	// the lookup now returns something else; the catalog title must win
	resolver.title = "Renamed"
	s.LoadVideo(ctx, "abc")

	if s.VideoTitle() != "Original" {
		t.Errorf("title = %q, want Original", s.VideoTitle())
	}
	videos, _ := s.Videos(ctx)
	if videos[0].Title != "Original" {
		t.Errorf("catalog title = %q", videos[0].Title)
	}
}

func TestCloseVideoClearsState(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	s.mustSave(ctx, t, "00:00:10", "00:00:20", "x")
	cfg := s.CloseVideo(ctx)

	if s.Controller().Phase() != player.PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Controller().Phase())
	}
	if s.VideoTitle() != "" {
		t.Errorf("title = %q, want empty", s.VideoTitle())
	}
	if s.Buffer().Note != "" || s.Buffer().StartTime != "00:00:00" {
		t.Errorf("buffer = %+v, want reset", s.Buffer())
	}
	if cfg.Start != nil || cfg.Autoplay {
		t.Errorf("idle config = %+v", cfg)
	}
}

func TestCaptureStampsBuffer(t *testing.T) {
	ctx := context.Background()
	s, engine, _, _ := newTestSession(t)
	engine.position = 95

	s.LoadVideo(ctx, "abc")
	s.CaptureStart(ctx)
	if s.Buffer().StartTime != "0:01:35" {
		t.Errorf("start = %q", s.Buffer().StartTime)
	}
	if s.Buffer().EndTime != "00:00:00" {
		t.Errorf("end touched: %q", s.Buffer().EndTime)
	}

	engine.position = 200
	s.CaptureEnd(ctx)
	if s.Buffer().EndTime != "0:03:20" {
		t.Errorf("end = %q", s.Buffer().EndTime)
	}
}

func TestResizeReflectsInConfig(t *testing.T) {
	ctx := context.Background()
	s, _, _, _ := newTestSession(t)

	s.LoadVideo(ctx, "abc")
	cfg := s.Resize(ctx, 320)
	if cfg.Height != 180 || cfg.Width != 320 {
		t.Errorf("config after resize = %+v", cfg)
	}
}
