package game

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Neon-Grid/internal/city"
)

// Window size chosen so the map area is exactly 800x600.
const (
	testWidth  = 800 + logPanelWidth
	testHeight = 600 + hudHeight
)

type fakeClipboard struct {
	calls []string
	err   error
}

func (f *fakeClipboard) write(s string) error {
	f.calls = append(f.calls, s)
	return f.err
}

func newTestGame(t *testing.T, opts ...city.SessionOption) (*Game, *city.TestSession, *fakeClipboard) {
	t.Helper()
	ts := city.NewTestSession(opts...)
	g, err := New(Options{
		Session: ts.Session,
		Width:   testWidth,
		Height:  testHeight,
		TPS:     60,
		Seed:    7,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clip := &fakeClipboard{}
	g.copy = clip.write
	return g, ts, clip
}

func hasButton(bs []button, id buttonID) bool {
	for _, b := range bs {
		if b.id == id {
			return true
		}
	}
	return false
}

// screenOf converts a map-area point to window coordinates.
func screenOf(g *Game, local city.Vec2) (float64, float64) {
	ma := g.mapArea()
	return ma.x + local.X, ma.y + local.Y
}

func TestNew_RequiresSession(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected an error without a session")
	}
}

func TestNew_MountsViewportToMapArea(t *testing.T) {
	g, ts, _ := newTestGame(t)
	w, h := ts.Viewport.Size()
	if w != 800 || h != 600 {
		t.Fatalf("viewport = %vx%v, want 800x600", w, h)
	}
	if got := g.frameDur; got != time.Second/60 {
		t.Fatalf("frame duration = %v", got)
	}
}

func TestLayout_ResizesViewport(t *testing.T) {
	g, ts, _ := newTestGame(t)
	if w, h := g.Layout(1000, 700); w != 1000 || h != 700 {
		t.Fatalf("Layout returned %dx%d", w, h)
	}
	w, h := ts.Viewport.Size()
	if w != 1000-logPanelWidth || h != 700-hudHeight {
		t.Fatalf("viewport = %vx%v after resize", w, h)
	}
}

func TestHitButton_TopmostWins(t *testing.T) {
	bs := []button{
		{id: btnZoomIn, r: rectF{x: 0, y: 0, w: 100, h: 100}},
		{id: btnResume, r: rectF{x: 50, y: 50, w: 100, h: 100}},
	}
	if id, ok := hitButton(bs, 75, 75); !ok || id != btnResume {
		t.Fatalf("overlap hit = %v %v, want btnResume", id, ok)
	}
	if id, ok := hitButton(bs, 10, 10); !ok || id != btnZoomIn {
		t.Fatalf("hit = %v %v, want btnZoomIn", id, ok)
	}
	if _, ok := hitButton(bs, 500, 500); ok {
		t.Fatal("miss reported a hit")
	}
}

func TestButtons_FollowState(t *testing.T) {
	g, ts, _ := newTestGame(t, city.WithAutoStart(false))

	bs := g.buttons()
	if len(bs) != 1 || bs[0].id != btnStart {
		t.Fatalf("landing buttons = %+v, want only start", bs)
	}

	g.activate(btnStart)
	if !ts.Started() {
		t.Fatal("start button did not start the session")
	}
	bs = g.buttons()
	for _, id := range []buttonID{btnPause, btnZoomIn, btnZoomOut, btnResetView} {
		if !hasButton(bs, id) {
			t.Fatalf("running view missing button %d", id)
		}
	}
	if hasButton(bs, btnFlush) || hasButton(bs, btnResume) {
		t.Fatal("unexpected command or resume button with nothing selected")
	}

	ts.Router.Select(city.VioletSky)
	bs = g.buttons()
	if !hasButton(bs, btnFlush) || !hasButton(bs, btnReroute) || !hasButton(bs, btnClosePanel) {
		t.Fatal("district selection should expose both commands and close")
	}

	ts.Router.Select(city.HQ)
	bs = g.buttons()
	if hasButton(bs, btnFlush) || hasButton(bs, btnReroute) {
		t.Fatal("HQ must never expose commands")
	}
	if !hasButton(bs, btnDisconnect) {
		t.Fatal("HQ modal missing disconnect")
	}

	ts.TogglePause()
	if !hasButton(g.buttons(), btnResume) {
		t.Fatal("paused view missing resume")
	}
}

func TestActivate_CommandsHitSelectedDistrict(t *testing.T) {
	g, ts, _ := newTestGame(t)
	ts.Router.Select(city.AmberHaze)

	g.activate(btnFlush)
	d, _ := ts.Store.District(city.AmberHaze)
	if d.Temperature != 27 {
		t.Fatalf("temperature after flush = %v, want 27", d.Temperature)
	}

	g.activate(btnReroute)
	d, _ = ts.Store.District(city.AmberHaze)
	if d.PowerLoad != 35 {
		t.Fatalf("load after reroute = %v, want 35", d.PowerLoad)
	}
	if n := ts.Journal.Count("command", city.CmdFlushCoolant.String()); n != 1 {
		t.Fatalf("journaled flush commands = %d", n)
	}

	g.activate(btnClosePanel)
	if _, ok := ts.Router.Selected(); ok {
		t.Fatal("close did not deselect")
	}
}

func TestIssue_HQIsRejected(t *testing.T) {
	g, ts, _ := newTestGame(t)
	before := ts.Store.Districts()
	ts.Router.Select(city.HQ)
	g.issue(city.CmdFlushCoolant)
	g.issue(city.CmdReroutePower)
	after := ts.Store.Districts()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("HQ command changed %s: %+v → %+v", before[i].ID, before[i], after[i])
		}
	}
}

func TestActivate_ViewControls(t *testing.T) {
	g, ts, _ := newTestGame(t)
	g.activate(btnZoomIn)
	if got := ts.Viewport.Committed().Scale; got != 1+city.ZoomStep {
		t.Fatalf("scale after zoom in = %v", got)
	}
	g.activate(btnResetView)
	ts.RunFor(time.Second)
	if got := ts.Viewport.Current(); got != city.IdentityTransform() {
		t.Fatalf("reset left %+v", got)
	}
}

func TestHandleMapClick_CentreSelectsHQ(t *testing.T) {
	g, ts, _ := newTestGame(t)
	g.handleMapClick(city.Vec2{X: 400, Y: 300})
	if id, ok := ts.Router.Selected(); !ok || id != city.HQ {
		t.Fatalf("selected = %v %v, want HQ", id, ok)
	}
}

func TestHandleMapClick_Quadrants(t *testing.T) {
	cases := []struct {
		local city.Vec2
		want  city.RegionID
	}{
		{city.Vec2{X: 300, Y: 200}, city.AmberHaze},
		{city.Vec2{X: 500, Y: 200}, city.VioletSky},
		{city.Vec2{X: 300, Y: 400}, city.RedLight},
		{city.Vec2{X: 500, Y: 400}, city.EmeraldPark},
	}
	for _, c := range cases {
		g, ts, _ := newTestGame(t)
		g.handleMapClick(c.local)
		if id, ok := ts.Router.Selected(); !ok || id != c.want {
			t.Errorf("click %+v selected %v %v, want %s", c.local, id, ok, c.want)
		}
	}
}

func TestHandleMapClick_OffCanvasDoesNothing(t *testing.T) {
	g, ts, _ := newTestGame(t)
	// At scale 1 the 800px content spans y in [-100, 700) of the map area.
	g.handleMapClick(city.Vec2{X: 400, Y: -150})
	if _, ok := ts.Router.Selected(); ok {
		t.Fatal("click off the canvas selected a region")
	}
}

func TestHandlePointer_ClickSelects(t *testing.T) {
	g, ts, _ := newTestGame(t)
	x, y := screenOf(g, city.Vec2{X: 300, Y: 200})
	g.handlePointer(x, y, true, true, false, 0)
	g.handlePointer(x+1, y, false, true, false, 0)
	g.handlePointer(x+1, y, false, false, true, 0)
	if id, ok := ts.Router.Selected(); !ok || id != city.AmberHaze {
		t.Fatalf("selected = %v %v, want AMBER HAZE", id, ok)
	}
}

func TestHandlePointer_DragPansWithoutSelecting(t *testing.T) {
	g, ts, _ := newTestGame(t)
	x, y := screenOf(g, city.Vec2{X: 400, Y: 300})
	g.handlePointer(x, y, true, true, false, 0)
	g.handlePointer(x+50, y+20, false, true, false, 0)
	if !ts.Viewport.Dragging() {
		t.Fatal("expected a drag in progress")
	}
	if got := ts.Viewport.Committed().Position; got != (city.Vec2{}) {
		t.Fatalf("committed moved mid-drag: %+v", got)
	}
	g.handlePointer(x+50, y+20, false, false, true, 0)

	if _, ok := ts.Router.Selected(); ok {
		t.Fatal("a pan must not select")
	}
	if got := ts.Viewport.Committed().Position; got != (city.Vec2{X: 50, Y: 20}) {
		t.Fatalf("committed after drag = %+v, want (50,20)", got)
	}
}

func TestHandlePointer_WheelZoomsAtCursor(t *testing.T) {
	g, ts, _ := newTestGame(t)
	x, y := screenOf(g, city.Vec2{X: 450, Y: 350})
	g.handlePointer(x, y, false, false, false, 1)
	got := ts.Viewport.Committed()
	if math.Abs(got.Scale-1.1) > 1e-9 || math.Abs(got.Position.X+5) > 1e-9 || math.Abs(got.Position.Y+5) > 1e-9 {
		t.Fatalf("after one notch: %+v, want scale 1.1 at (-5,-5)", got)
	}
}

func TestHandlePointer_PausedBlocksMap(t *testing.T) {
	g, ts, _ := newTestGame(t)
	ts.TogglePause()
	x, y := screenOf(g, city.Vec2{X: 300, Y: 200})
	g.handlePointer(x, y, true, true, false, 1)
	g.handlePointer(x, y, false, false, true, 0)
	if _, ok := ts.Router.Selected(); ok {
		t.Fatal("paused map accepted a click")
	}
	if ts.Viewport.Committed().Scale != 1 {
		t.Fatal("paused map accepted a wheel zoom")
	}
}

func TestHandlePointer_ResumeButton(t *testing.T) {
	g, ts, _ := newTestGame(t)
	ts.TogglePause()
	var resume button
	for _, b := range g.buttons() {
		if b.id == btnResume {
			resume = b
		}
	}
	g.handlePointer(resume.r.x+5, resume.r.y+5, true, true, false, 0)
	if ts.Paused() {
		t.Fatal("resume button did not resume")
	}
}

func TestHandlePointer_LandingClickStarts(t *testing.T) {
	g, ts, _ := newTestGame(t, city.WithAutoStart(false))
	g.handlePointer(5, 5, true, true, false, 0)
	if !ts.Started() {
		t.Fatal("click on landing did not start")
	}
}

func TestFramesDriveUpdater(t *testing.T) {
	g, ts, _ := newTestGame(t)
	// 60 TPS frames are slightly under 1/60 s, so 1.5 s needs one extra frame.
	for i := 0; i < 91; i++ {
		g.sess.Advance(g.frameDur)
	}
	if got := ts.Updater.Tick(); got != 1 {
		t.Fatalf("ticks after 91 frames = %d, want 1", got)
	}
}

func TestCameraGeoM(t *testing.T) {
	m := cameraGeoM(city.IdentityTransform(), 800, 800, 800, 600)
	if x, y := m.Apply(400, 400); x != 400 || y != 300 {
		t.Fatalf("identity maps content centre to (%v,%v)", x, y)
	}

	tr := city.Transform{Scale: 2, Position: city.Vec2{X: 10, Y: -20}}
	m = cameraGeoM(tr, 800, 800, 800, 600)
	x, y := m.Apply(600, 400)
	if math.Abs(x-810) > 1e-9 || math.Abs(y-280) > 1e-9 {
		t.Fatalf("scaled mapping = (%v,%v), want (810,280)", x, y)
	}
	// Must agree with the viewport's own mapping.
	want := tr.Apply(city.Vec2{X: 200, Y: 0}).Add(city.Vec2{X: 400, Y: 300})
	if math.Abs(x-want.X) > 1e-9 || math.Abs(y-want.Y) > 1e-9 {
		t.Fatalf("geoM (%v,%v) disagrees with Transform.Apply %+v", x, y, want)
	}
}

func TestFormatTransmission(t *testing.T) {
	e := city.TransmissionEntry{
		Seq:       7,
		Timestamp: time.Date(2077, 1, 1, 13, 4, 5, 0, time.UTC),
		Payload:   city.TransmissionPayload{GlobalStats: city.GlobalStats{TotalCredits: 8650}},
	}
	if got, want := formatTransmission(e, time.UTC), "13:04:05  #007  credits:8650"; got != want {
		t.Fatalf("formatTransmission = %q, want %q", got, want)
	}
}

func TestLoadColor(t *testing.T) {
	if loadColor(80) != colCyan {
		t.Error("80% should not alarm")
	}
	if loadColor(80.1) != colRed {
		t.Error("above 80% should alarm")
	}
}

func TestBarColorsFollowStatus(t *testing.T) {
	if loadBarColor(50) != colCyan || loadBarColor(71) != colAmber || loadBarColor(86) != colRed {
		t.Error("load bar colours do not follow the status thresholds")
	}
	if thermalBarColor(50) != colMagenta || thermalBarColor(76) != colAmber || thermalBarColor(91) != colRed {
		t.Error("thermal bar colours do not follow the status thresholds")
	}
}

func TestStatusTint(t *testing.T) {
	for f := 0; f < 200; f++ {
		c := statusTint(city.VioletSky, city.StatusCritical, f)
		if c.A < 40 || c.A > 90 {
			t.Fatalf("critical alpha %d out of range at frame %d", c.A, f)
		}
	}
	if statusTint(city.VioletSky, city.StatusWarning, 0) != statusTint(city.VioletSky, city.StatusWarning, 99) {
		t.Error("warning tint should not pulse")
	}
	if statusTint(city.AmberHaze, city.StatusNormal, 0) == statusTint(city.EmeraldPark, city.StatusNormal, 0) {
		t.Error("normal tint should carry the district colour")
	}
}

func TestBuildDecor_DeterministicAndInBounds(t *testing.T) {
	a, b := buildDecor(42), buildDecor(42)
	if len(a.buildings) == 0 {
		t.Fatal("no buildings generated")
	}
	if len(a.buildings) != len(b.buildings) {
		t.Fatalf("same seed gave %d vs %d buildings", len(a.buildings), len(b.buildings))
	}
	for i := range a.buildings {
		if a.buildings[i] != b.buildings[i] {
			t.Fatalf("building %d differs between runs", i)
		}
	}

	const c = city.CanvasSize / 2
	for _, bl := range a.buildings {
		bounds, _ := city.DistrictBounds(bl.district)
		if !bounds.Contains(bl.x, bl.y) || !bounds.Contains(bl.x+bl.w, bl.y+bl.h) {
			t.Fatalf("building %+v escapes %s", bl, bl.district)
		}
		if math.Abs(bl.x+bl.w/2-c)+math.Abs(bl.y+bl.h/2-c) < city.HQRadius {
			t.Fatalf("building %+v sits on the HQ plaza", bl)
		}
	}
	if len(a.rain) != rainDrops || len(a.mist) != mistCount {
		t.Fatalf("weather: %d drops, %d mist", len(a.rain), len(a.mist))
	}
}

func TestLitLevel_Range(t *testing.T) {
	d := buildDecor(99)
	for _, b := range d.buildings {
		if b.lit < 0.3 || b.lit > 1 {
			t.Fatalf("lit %v outside [0.3, 1]", b.lit)
		}
	}
}

func TestDecorStep_WrapsRain(t *testing.T) {
	d := buildDecor(1)
	for i := 0; i < 1000; i++ {
		d.step()
	}
	for _, r := range d.rain {
		if r.x < 0 || r.x > city.CanvasSize || r.y < 0 || r.y > city.CanvasSize {
			t.Fatalf("raindrop left the canvas: %+v", r)
		}
	}
}

func TestDistrictReport(t *testing.T) {
	_, ts, _ := newTestGame(t)
	ts.RunUpdates(3)
	ts.Router.Select(city.VioletSky)
	ts.Router.Issue(city.Command{Kind: city.CmdFlushCoolant, District: city.VioletSky})

	r := districtReport(ts.Session, city.VioletSky)
	for _, want := range []string{"D-02 VIOLET SKY", "window T=", "events:", "FLUSH_COOLANT"} {
		if !strings.Contains(r, want) {
			t.Errorf("report missing %q:\n%s", want, r)
		}
	}
	if districtReport(ts.Session, city.HQ) != "" {
		t.Error("HQ has no district report")
	}
}

func TestCopyLatest(t *testing.T) {
	g, ts, clip := newTestGame(t)
	g.copyLatest()
	if len(clip.calls) != 0 || g.notice != "nothing to copy yet" {
		t.Fatalf("empty log: calls=%d notice=%q", len(clip.calls), g.notice)
	}

	ts.RunFor(ts.TransmitInterval())
	g.copyLatest()
	if len(clip.calls) != 1 {
		t.Fatalf("clipboard calls = %d, want 1", len(clip.calls))
	}
	var got city.TransmissionEntry
	if err := json.Unmarshal([]byte(clip.calls[0]), &got); err != nil {
		t.Fatalf("copied text is not a transmission: %v", err)
	}
	latest, _ := ts.Log.Latest()
	if got.Seq != latest.Seq || len(got.Payload.Districts) != 4 {
		t.Fatalf("copied %+v, want seq %d with 4 districts", got, latest.Seq)
	}
}

func TestCopyReport(t *testing.T) {
	g, ts, clip := newTestGame(t)
	g.copyReport()
	if len(clip.calls) != 0 {
		t.Fatal("copied a report with nothing selected")
	}

	ts.Router.Select(city.RedLight)
	g.copyReport()
	if len(clip.calls) != 1 || !strings.Contains(clip.calls[0], "RED LIGHT DISTRICT") {
		t.Fatalf("copied %q", clip.calls)
	}

	clip.err = errors.New("no clipboard")
	g.copyReport()
	if g.notice != "clipboard unavailable" {
		t.Fatalf("notice = %q after failure", g.notice)
	}
}
