package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/tracking-backend-go/internal/models"
)

// manualScheduler lets tests fire ticks synchronously instead of sleeping.
type manualScheduler struct {
	fn       func()
	armed    int
	canceled int
}

func (m *manualScheduler) Schedule(period time.Duration, fn func()) func() {
	m.armed++
	m.fn = fn
	return func() { m.canceled++ }
}

func (m *manualScheduler) tick(n int) {
	for i := 0; i < n; i++ {
		m.fn()
	}
}

func newTestSession() (*Session, *manualScheduler) {
	sched := &manualScheduler{}
	s := NewSession(Options{
		TickPeriod:    200 * time.Millisecond,
		SimStepMillis: 60_000,
		Scheduler:     sched,
	})
	return s, sched
}

const t0 = int64(1_700_000_000_000)

func history(assetID string, timestamps ...int64) models.AssetLocationHistory {
	h := models.AssetLocationHistory{
		AssetID:      assetID,
		AssetName:    "Asset " + assetID,
		AssetType:    "excavator",
		DisplayColor: "#e6550d",
	}
	for i, ts := range timestamps {
		h.TrackingPoints = append(h.TrackingPoints, models.TrackingPoint{
			TimestampMillis: ts,
			Position:        models.GeoPoint{Latitude: 37.75 + float64(i)*0.001, Longitude: -122.44},
			Event:           "moving",
		})
	}
	return h
}

func TestLoadAtomicity(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{
		history("a", t0+500, t0, t0+3_600_000),
		history("b", t0+1_000, t0+2_000_000),
	}, []string{"a", "b"})

	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.SelectedAssetIDs)
	assert.Equal(t, TimeRange{Start: t0, End: t0 + 3_600_000}, snap.TimeRange)
	assert.Equal(t, t0, snap.CurrentTimeMillis)
	assert.False(t, snap.IsPlaying)
	assert.Zero(t, snap.Progress)
}

func TestLoadEmptyResultSet(t *testing.T) {
	s, sched := newTestSession()
	s.Load(nil, nil)

	snap := s.Snapshot()
	assert.Equal(t, TimeRange{}, snap.TimeRange)
	assert.Zero(t, snap.CurrentTimeMillis)

	// Playing a zero-span range is accepted but never arms a timer.
	s.Play()
	assert.True(t, s.Snapshot().IsPlaying)
	assert.Zero(t, sched.armed)
	assert.Zero(t, s.Progress())
}

func TestProgressMonotonic(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+1_000_000)}, []string{"a"})

	prev := -1.0
	for _, offset := range []int64{0, 100_000, 250_000, 400_000, 999_999, 1_000_000} {
		s.Seek(t0 + offset)
		p := s.Progress()
		assert.Greater(t, p, prev)
		prev = p
	}
	assert.InDelta(t, 100, prev, 1e-9)
}

func TestClampInvariant(t *testing.T) {
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000)}, []string{"a"})

	inRange := func() {
		snap := s.Snapshot()
		assert.GreaterOrEqual(t, snap.CurrentTimeMillis, snap.TimeRange.Start)
		assert.LessOrEqual(t, snap.CurrentTimeMillis, snap.TimeRange.End)
	}

	s.Seek(t0 - 5_000_000)
	inRange()
	assert.Equal(t, t0, s.Snapshot().CurrentTimeMillis)

	s.Seek(t0 + 99_999_999)
	inRange()
	assert.Equal(t, t0+3_600_000, s.Snapshot().CurrentTimeMillis)

	s.SkipBack()
	inRange()
	s.SkipForward()
	s.SkipForward()
	inRange()

	s.Reset()
	s.SetSpeed(8)
	s.Play()
	sched.tick(100) // way past the end
	inRange()
}

func TestTimerAdvancesSimulatedTime(t *testing.T) {
	// Two assets spanning one hour; at 2x speed, 15 ticks of one simulated
	// minute each cover 30 minutes: progress 50.
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{
		history("a", t0, t0+3_600_000),
		history("b", t0+60_000, t0+1_800_000),
	}, []string{"a", "b"})

	s.SetSpeed(2)
	s.Play()
	require.Equal(t, 1, sched.armed)

	sched.tick(15)
	assert.InDelta(t, 50, s.Progress(), 1e-9)
	assert.True(t, s.Snapshot().IsPlaying)
}

func TestTimerStopsAtEnd(t *testing.T) {
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000)}, []string{"a"})

	s.Play()
	sched.tick(60)
	snap := s.Snapshot()
	assert.Equal(t, t0+3_600_000, snap.CurrentTimeMillis)
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, 1, sched.canceled)

	// Late tick from the already-canceled task must not move time.
	sched.tick(1)
	assert.Equal(t, t0+3_600_000, s.Snapshot().CurrentTimeMillis)
}

func TestSpeedChangeRearmsTimer(t *testing.T) {
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+7_200_000)}, []string{"a"})

	s.Play()
	stale := sched.fn
	s.SetSpeed(4)
	assert.Equal(t, 2, sched.armed)
	assert.Equal(t, 1, sched.canceled)

	// A stale task that fires after cancellation must not touch state.
	before := s.Snapshot().CurrentTimeMillis
	stale()
	assert.Equal(t, before, s.Snapshot().CurrentTimeMillis)

	sched.tick(1)
	assert.Equal(t, before+240_000, s.Snapshot().CurrentTimeMillis)
}

func TestSetSpeedRejectsNonPositive(t *testing.T) {
	s, _ := newTestSession()
	s.SetSpeed(0)
	assert.Equal(t, 1.0, s.Snapshot().SpeedMultiplier)
	s.SetSpeed(-2)
	assert.Equal(t, 1.0, s.Snapshot().SpeedMultiplier)
	s.SetSpeed(0.25)
	assert.Equal(t, 0.25, s.Snapshot().SpeedMultiplier)
}

func TestSkipScalesWithSpeed(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+86_400_000)}, []string{"a"})

	s.SetSpeed(4)
	s.SkipForward()
	// 4 simulated hours
	assert.Equal(t, t0+14_400_000, s.Snapshot().CurrentTimeMillis)

	s.SkipBack()
	assert.Equal(t, t0, s.Snapshot().CurrentTimeMillis)
}

func TestSkipForwardClampsToEnd(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000)}, []string{"a"})

	s.SetSpeed(4)
	s.SkipForward()
	assert.Equal(t, t0+3_600_000, s.Snapshot().CurrentTimeMillis)
}

func TestPlayPauseToggle(t *testing.T) {
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000)}, []string{"a"})

	s.PlayPause()
	assert.True(t, s.Snapshot().IsPlaying)
	assert.Equal(t, 1, sched.armed)

	before := s.Snapshot().CurrentTimeMillis
	s.PlayPause()
	snap := s.Snapshot()
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, before, snap.CurrentTimeMillis)
	assert.Equal(t, 1, sched.canceled)
}

func TestReset(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000), history("b", t0+500)}, []string{"a", "b"})

	s.Seek(t0 + 2_000_000)
	s.Play()
	s.Reset()

	snap := s.Snapshot()
	assert.Equal(t, t0, snap.CurrentTimeMillis)
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, []string{"a", "b"}, snap.SelectedAssetIDs)
	assert.Len(t, snap.Histories, 2)
}

func TestSeekProgressRoundTrip(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+1_000_000)}, []string{"a"})

	s.SeekProgress(25)
	assert.Equal(t, t0+250_000, s.Snapshot().CurrentTimeMillis)
	assert.InDelta(t, 25, s.Progress(), 1e-9)

	s.SeekProgress(150)
	assert.Equal(t, t0+1_000_000, s.Snapshot().CurrentTimeMillis)
	s.SeekProgress(-10)
	assert.Equal(t, t0, s.Snapshot().CurrentTimeMillis)
}

func TestSelectionCommands(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{
		history("a", t0, t0+100),
		history("b", t0+50, t0+200),
	}, []string{"a", "b"})

	s.ToggleAsset("b")
	assert.Equal(t, []string{"a"}, s.Snapshot().SelectedAssetIDs)
	visible := s.VisibleHistories()
	require.Len(t, visible, 1)
	assert.Equal(t, "a", visible[0].AssetID)

	// Selecting an id with no loaded history is legal and contributes
	// nothing visible.
	s.ToggleAsset("ghost")
	assert.Len(t, s.VisibleHistories(), 1)

	// Selection changes never move the clock or the range.
	snap := s.Snapshot()
	assert.Equal(t, t0, snap.CurrentTimeMillis)
	assert.Equal(t, TimeRange{Start: t0, End: t0 + 200}, snap.TimeRange)

	s.SetSelectedAssets(nil)
	assert.Empty(t, s.VisibleHistories())
	assert.Empty(t, s.Render().Assets)
}

func TestSetDateRangeReslices(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{
		history("a", t0, t0+1_000, t0+2_000),
		history("b", t0+500_000, t0+600_000),
	}, []string{"a", "b"})

	// Window covers only b's points: a's history disappears and the range
	// tightens to b's span.
	s.SetDateRange(t0+400_000, t0+700_000)
	snap := s.Snapshot()
	require.Len(t, snap.Histories, 1)
	assert.Equal(t, "b", snap.Histories[0].AssetID)
	assert.Equal(t, TimeRange{Start: t0 + 500_000, End: t0 + 600_000}, snap.TimeRange)
	assert.Equal(t, t0+500_000, snap.CurrentTimeMillis)
	assert.False(t, snap.IsPlaying)
	require.NotNil(t, snap.SelectedDateRange)
	assert.Equal(t, models.DateRange{From: t0 + 400_000, To: t0 + 700_000}, *snap.SelectedDateRange)

	// Widening again restores points because slicing starts from the
	// histories as loaded.
	s.SetDateRange(t0, t0+1_000_000)
	snap = s.Snapshot()
	assert.Len(t, snap.Histories, 2)
	assert.Equal(t, TimeRange{Start: t0, End: t0 + 600_000}, snap.TimeRange)
}

func TestSetDateRangeWithNoMatchKeepsTimeline(t *testing.T) {
	s, _ := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+2_000)}, []string{"a"})

	s.SetDateRange(t0+10_000_000, t0+20_000_000)
	snap := s.Snapshot()
	// The filter is recorded but the timeline never collapses to an
	// unseekable zero width.
	assert.Len(t, snap.Histories, 1)
	assert.Equal(t, TimeRange{Start: t0, End: t0 + 2_000}, snap.TimeRange)
	require.NotNil(t, snap.SelectedDateRange)
	assert.Equal(t, models.DateRange{From: t0 + 10_000_000, To: t0 + 20_000_000}, *snap.SelectedDateRange)
}

func TestRenderProjection(t *testing.T) {
	s, _ := newTestSession()
	// Deliberately unsorted input: the projection must not assume order.
	h := history("a", t0+2_000, t0, t0+4_000)
	s.Load([]models.AssetLocationHistory{h}, []string{"a"})

	s.Seek(t0 + 2_500)
	render := s.Render()
	require.Len(t, render.Assets, 1)

	asset := render.Assets[0]
	assert.Len(t, asset.Trail, 2) // t0 and t0+2000
	require.NotNil(t, asset.Current)
	assert.Equal(t, t0+2_000, asset.Current.TimestampMillis)
	assert.True(t, render.ShowPaths)
	assert.True(t, render.ShowMarkers)

	s.SetShowPaths(false)
	s.SetShowMarkers(false)
	render = s.Render()
	assert.False(t, render.ShowPaths)
	assert.False(t, render.ShowMarkers)

	// An asset whose first sample is still in the future has no trail and
	// no marker yet.
	s.Load([]models.AssetLocationHistory{
		history("a", t0+1_000, t0+2_000),
		history("b", t0, t0+3_000),
	}, []string{"a", "b"})
	s.Seek(t0)
	render = s.Render()
	require.Len(t, render.Assets, 2)
	assert.Empty(t, render.Assets[0].Trail)
	assert.Nil(t, render.Assets[0].Current)
	assert.Len(t, render.Assets[1].Trail, 1)
}

func TestCloseCancelsTimerAndFreezesSession(t *testing.T) {
	s, sched := newTestSession()
	s.Load([]models.AssetLocationHistory{history("a", t0, t0+3_600_000)}, []string{"a"})

	s.Play()
	require.Equal(t, 1, sched.armed)

	s.Close()
	assert.Equal(t, 1, sched.canceled)
	assert.False(t, s.Snapshot().IsPlaying)

	s.Play()
	assert.False(t, s.Snapshot().IsPlaying)
	assert.Equal(t, 1, sched.armed)
}

func TestTickerSchedulerCancelIsIdempotent(t *testing.T) {
	var sched TickerScheduler
	cancel := sched.Schedule(time.Hour, func() {})
	cancel()
	cancel() // must not panic
}
