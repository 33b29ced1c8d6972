// Package playback drives time-scrubbable, variable-speed, multi-asset
// animation of historical location traces against a shared simulated clock.
// A Session is owned by exactly one surface at a time; every command is
// atomic with respect to the timer tick.
package playback

import (
	"sort"
	"sync"
	"time"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// SkipStepMillis is the nominal skip granularity: one simulated hour. Skips
// are scaled by the speed multiplier so they stay proportionate to how fast
// the session is already moving through time.
const SkipStepMillis = int64(3_600_000)

// Options configure a session's timer loop. The wall-clock tick period and
// the simulated time advanced per tick are independent: raising the speed
// multiplier moves the timeline faster without a faster wall timer.
type Options struct {
	TickPeriod    time.Duration
	SimStepMillis int64
	Scheduler     Scheduler
}

// DefaultOptions returns the production timer configuration: a 200 ms wall
// tick advancing one simulated minute per tick at 1x speed.
func DefaultOptions() Options {
	return Options{
		TickPeriod:    200 * time.Millisecond,
		SimStepMillis: 60_000,
		Scheduler:     TickerScheduler{},
	}
}

// TimeRange is the simulated window covered by the loaded histories.
// Start == End == 0 when no data is loaded.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Snapshot is a consistent copy of session state plus derived values,
// intended to be read after every command and every tick.
type Snapshot struct {
	Histories         []models.AssetLocationHistory `json:"histories"`
	SelectedAssetIDs  []string                      `json:"selectedAssetIds"`
	IsPlaying         bool                          `json:"isPlaying"`
	SpeedMultiplier   float64                       `json:"speedMultiplier"`
	CurrentTimeMillis int64                         `json:"currentTimeMillis"`
	TimeRange         TimeRange                     `json:"timeRange"`
	ShowPaths         bool                          `json:"showPaths"`
	ShowMarkers       bool                          `json:"showMarkers"`
	SelectedDateRange *models.DateRange             `json:"selectedDateRange,omitempty"`
	Progress          float64                       `json:"progress"`
}

// AssetRender is the per-asset projection a renderer consumes: the trail of
// points up to the current simulated time and the most recent point as the
// marker position. Computed at read time, never materialized into state.
type AssetRender struct {
	AssetID      string                 `json:"assetId"`
	AssetName    string                 `json:"assetName"`
	DisplayColor string                 `json:"displayColor"`
	Trail        []models.TrackingPoint `json:"trail,omitempty"`
	Current      *models.TrackingPoint  `json:"current,omitempty"`
}

// RenderState bundles the projections for every selected asset along with
// the display toggles.
type RenderState struct {
	CurrentTimeMillis int64         `json:"currentTimeMillis"`
	ShowPaths         bool          `json:"showPaths"`
	ShowMarkers       bool          `json:"showMarkers"`
	Assets            []AssetRender `json:"assets"`
}

// Session is the playback state machine. All exported methods are safe for
// use alongside the timer goroutine; state transitions keep
// timeRange.Start <= currentTimeMillis <= timeRange.End at all times.
type Session struct {
	mu   sync.Mutex
	opts Options

	source    []models.AssetLocationHistory // as loaded, before date slicing
	histories []models.AssetLocationHistory
	selected  map[string]struct{}

	playing     bool
	speed       float64
	current     int64
	timeRange   TimeRange
	showPaths   bool
	showMarkers bool
	dateRange   *models.DateRange

	gen        uint64
	cancelTick func()
	closed     bool
}

// NewSession creates an empty, paused session. Zero-valued options fall
// back to DefaultOptions.
func NewSession(opts Options) *Session {
	def := DefaultOptions()
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = def.TickPeriod
	}
	if opts.SimStepMillis <= 0 {
		opts.SimStepMillis = def.SimStepMillis
	}
	if opts.Scheduler == nil {
		opts.Scheduler = def.Scheduler
	}
	return &Session{
		opts:        opts,
		selected:    make(map[string]struct{}),
		speed:       1,
		showPaths:   true,
		showMarkers: true,
	}
}

// Load replaces the loaded histories with the given set, selects exactly
// assetIDs, recomputes the time range from the union of timestamps, rewinds
// to the range start, and pauses. The transition is atomic: there is no
// observable state where histories and time range disagree.
func (s *Session) Load(histories []models.AssetLocationHistory, assetIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.source = append([]models.AssetLocationHistory(nil), histories...)
	s.histories = s.source
	s.selected = make(map[string]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		s.selected[id] = struct{}{}
	}
	s.timeRange = rangeOf(s.histories)
	s.current = s.timeRange.Start
	s.playing = false
	s.dateRange = nil
	s.rearmLocked()
}

// Play starts the timer loop. Playing an empty or zero-span range is
// accepted but advances nothing.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.playing = true
	s.rearmLocked()
}

// Pause stops the timer loop without touching the current time.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.rearmLocked()
}

// PlayPause toggles between playing and paused.
func (s *Session) PlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.playing = !s.playing
	s.rearmLocked()
}

// Seek sets the current time, clamped to the loaded range.
func (s *Session) Seek(timeMillis int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = clamp(timeMillis, s.timeRange.Start, s.timeRange.End)
}

// SeekProgress maps a 0-100 progress percentage back onto the absolute
// timeline and seeks there.
func (s *Session) SeekProgress(percent float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	span := s.timeRange.End - s.timeRange.Start
	target := s.timeRange.Start + int64(percent/100*float64(span))
	s.current = clamp(target, s.timeRange.Start, s.timeRange.End)
}

// SkipForward advances by one nominal hour scaled by the speed multiplier.
func (s *Session) SkipForward() {
	s.skip(1)
}

// SkipBack retreats by one nominal hour scaled by the speed multiplier.
func (s *Session) SkipBack() {
	s.skip(-1)
}

func (s *Session) skip(direction int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := int64(float64(SkipStepMillis) * s.speed)
	s.current = clamp(s.current+direction*step, s.timeRange.Start, s.timeRange.End)
}

// Reset rewinds to the range start and pauses. Selection and loaded
// histories are untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.timeRange.Start
	s.playing = false
	s.rearmLocked()
}

// SetSpeed replaces the speed multiplier, taking effect on the next tick.
// Non-positive multipliers are ignored.
func (s *Session) SetSpeed(multiplier float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multiplier <= 0 {
		return
	}
	s.speed = multiplier
	s.rearmLocked()
}

// ToggleAsset flips one asset in or out of the selection. Selecting an id
// with no loaded history is legal; it simply contributes nothing to the
// render projections.
func (s *Session) ToggleAsset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// SetSelectedAssets replaces the selection wholesale. Deselecting every
// asset is legal and yields empty projections.
func (s *Session) SetSelectedAssets(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// SetShowPaths toggles trail rendering. Display only; timing is unaffected.
func (s *Session) SetShowPaths(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showPaths = show
}

// SetShowMarkers toggles marker rendering. Display only.
func (s *Session) SetShowMarkers(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showMarkers = show
}

// SetDateRange re-slices the loaded histories to points within [from, to],
// dropping assets left with no points, recomputes the time range from the
// survivors, rewinds, and pauses. Slicing always starts from the histories
// as originally loaded, so widening the window restores points. If nothing
// survives the filter, the previous histories and time range are kept so
// the timeline never collapses to an unseekable zero width; only the
// recorded filter changes.
func (s *Session) SetDateRange(from, to int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	var sliced []models.AssetLocationHistory
	for _, h := range s.source {
		var pts []models.TrackingPoint
		for _, p := range h.TrackingPoints {
			if p.TimestampMillis >= from && p.TimestampMillis <= to {
				pts = append(pts, p)
			}
		}
		if len(pts) == 0 {
			continue
		}
		copied := h
		copied.TrackingPoints = pts
		sliced = append(sliced, copied)
	}

	s.dateRange = &models.DateRange{From: from, To: to}
	if len(sliced) == 0 {
		return
	}

	s.histories = sliced
	s.timeRange = rangeOf(s.histories)
	s.current = s.timeRange.Start
	s.playing = false
	s.rearmLocked()
}

// Progress returns the position within the loaded range as 0-100, and 0 for
// a degenerate range.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked()
}

func (s *Session) progressLocked() float64 {
	span := s.timeRange.End - s.timeRange.Start
	if span <= 0 {
		return 0
	}
	return float64(s.current-s.timeRange.Start) / float64(span) * 100
}

// VisibleHistories returns the loaded histories restricted to the current
// selection.
func (s *Session) VisibleHistories() []models.AssetLocationHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *Session) visibleLocked() []models.AssetLocationHistory {
	var visible []models.AssetLocationHistory
	for _, h := range s.histories {
		if _, ok := s.selected[h.AssetID]; ok {
			visible = append(visible, h)
		}
	}
	return visible
}

// Snapshot returns a consistent copy of the full session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var dr *models.DateRange
	if s.dateRange != nil {
		copied := *s.dateRange
		dr = &copied
	}

	return Snapshot{
		Histories:         append([]models.AssetLocationHistory(nil), s.histories...),
		SelectedAssetIDs:  ids,
		IsPlaying:         s.playing,
		SpeedMultiplier:   s.speed,
		CurrentTimeMillis: s.current,
		TimeRange:         s.timeRange,
		ShowPaths:         s.showPaths,
		ShowMarkers:       s.showMarkers,
		SelectedDateRange: dr,
		Progress:          s.progressLocked(),
	}
}

// Render computes the per-asset projections for the current simulated time.
func (s *Session) Render() RenderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := RenderState{
		CurrentTimeMillis: s.current,
		ShowPaths:         s.showPaths,
		ShowMarkers:       s.showMarkers,
	}

	for _, h := range s.visibleLocked() {
		render := AssetRender{
			AssetID:      h.AssetID,
			AssetName:    h.AssetName,
			DisplayColor: h.DisplayColor,
		}
		// Input is not assumed sorted: take every point at or before the
		// current time, and the latest of them as the marker.
		for i := range h.TrackingPoints {
			p := h.TrackingPoints[i]
			if p.TimestampMillis > s.current {
				continue
			}
			render.Trail = append(render.Trail, p)
			if render.Current == nil || p.TimestampMillis >= render.Current.TimestampMillis {
				copied := p
				render.Current = &copied
			}
		}
		state.Assets = append(state.Assets, render)
	}

	return state
}

// Close tears the session down, cancelling any armed timer. A closed
// session ignores further commands.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.playing = false
	s.gen++
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

// rearmLocked cancels any pending timer and, if the session should be
// advancing, arms a fresh one under the current parameters. The generation
// counter guarantees a cancelled task that already fired never mutates
// current state. Callers hold s.mu.
func (s *Session) rearmLocked() {
	s.gen++
	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
	if !s.playing || s.timeRange.End <= s.timeRange.Start {
		return
	}
	gen := s.gen
	s.cancelTick = s.opts.Scheduler.Schedule(s.opts.TickPeriod, func() {
		s.tick(gen)
	})
}

// tick advances simulated time by SimStepMillis scaled by the speed
// multiplier. Hitting the end of the range clamps exactly to it and pauses:
// a natural stop, not a loop.
func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || !s.playing {
		return
	}

	s.current += int64(float64(s.opts.SimStepMillis) * s.speed)
	if s.current >= s.timeRange.End {
		s.current = s.timeRange.End
		s.playing = false
		s.gen++
		if s.cancelTick != nil {
			s.cancelTick()
			s.cancelTick = nil
		}
	}
}

func rangeOf(histories []models.AssetLocationHistory) TimeRange {
	var r TimeRange
	first := true
	for _, h := range histories {
		for _, p := range h.TrackingPoints {
			if first {
				r.Start, r.End = p.TimestampMillis, p.TimestampMillis
				first = false
				continue
			}
			if p.TimestampMillis < r.Start {
				r.Start = p.TimestampMillis
			}
			if p.TimestampMillis > r.End {
				r.End = p.TimestampMillis
			}
		}
	}
	return r
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
