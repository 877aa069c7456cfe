package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/cobra"

	"github.com/sweeney/ledpad/internal/config"
	"github.com/sweeney/ledpad/internal/display"
	"github.com/sweeney/ledpad/internal/gpio"
	"github.com/sweeney/ledpad/internal/logic"
	"github.com/sweeney/ledpad/internal/mqtt"
	"github.com/sweeney/ledpad/internal/status"
)

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Only called from runLoop's goroutine.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// repeat returns n copies of sample.
func repeat(sample gpio.Sample, n int) []gpio.Sample {
	out := make([]gpio.Sample, n)
	for i := range out {
		out[i] = sample
	}
	return out
}

var (
	idle      = gpio.Sample{X: 0x2000, Y: 0x2000}
	leftDown  = gpio.Sample{Left: true, X: 0x2000, Y: 0x2000}
	rightDown = gpio.Sample{Right: true, X: 0x2000, Y: 0x2000}
	stickR    = gpio.Sample{X: 0x3100, Y: 0x2000}
)

// press returns the samples for one full push with a 250ms debounce at
// 100ms ticks: four pressed then four released.
func press(down gpio.Sample) []gpio.Sample {
	return append(repeat(down, 4), repeat(idle, 4)...)
}

func testSettings(src logic.Source) logic.Settings {
	return logic.Settings{
		Debounce:   250 * time.Millisecond,
		Thresholds: logic.DefaultThresholds(),
		Source:     src,
	}
}

// faultSampler wraps a FakeSampler and returns errors for a fixed range of
// Read() calls.
type faultSampler struct {
	inner      *gpio.FakeSampler
	call       int
	faultStart int // inclusive
	faultEnd   int // exclusive
}

func (r *faultSampler) Read() (gpio.Sample, error) {
	i := r.call
	r.call++
	if i >= r.faultStart && i < r.faultEnd {
		return gpio.Sample{}, errors.New("adc fault")
	}
	return r.inner.Read()
}

func (r *faultSampler) Close() error { return r.inner.Close() }

type loopRig struct {
	leds    *gpio.FakeLEDs
	disp    *display.FakeDisplay
	pub     *mqtt.FakePublisher
	tracker *status.Tracker
	hook    *logtest.Hook
}

func newLoopRig() *loopRig {
	return &loopRig{
		leds:    gpio.NewFakeLEDs(),
		disp:    display.NewFakeDisplay(),
		pub:     mqtt.NewFakePublisher(),
		tracker: status.NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), status.Config{}),
	}
}

// runRunLoop drives runLoop for nTicks ticks and then delivers signal.
func runRunLoop(t *testing.T, rig *loopRig, sampler gpio.Sampler, settings logic.Settings, heartbeat time.Duration, nTicks int, signal os.Signal) error {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	rig.hook = hook

	clock := fakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 100*time.Millisecond)
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(sampler, rig.leds, rig.disp, rig.pub, rig.pub, rig.tracker, settings, heartbeat, log, clock, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	return <-errCh
}

func TestRunLoopIdleEmitsNothing(t *testing.T) {
	rig := newLoopRig()
	samples := repeat(idle, 5)

	err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 0, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(rig.pub.Events) != 0 {
		t.Errorf("expected 0 events, got %v", rig.pub.EventTypes())
	}
	if len(rig.leds.Toggles) != 0 {
		t.Errorf("expected no toggles, got %v", rig.leds.Toggles)
	}
	if len(rig.disp.Calls) != 0 {
		t.Errorf("expected no draw calls, got %d", len(rig.disp.Calls))
	}
	if names := rig.pub.SystemEventNames(); len(names) != 1 || names[0] != "SHUTDOWN" {
		t.Errorf("expected only SHUTDOWN, got %v", names)
	}
	if got := rig.tracker.Snapshot().Ticks; got != 5 {
		t.Errorf("tracker ticks: got %d, want 5", got)
	}
}

func TestRunLoopLeftPush(t *testing.T) {
	rig := newLoopRig()
	samples := press(leftDown)

	err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 0, len(samples), syscall.SIGTERM)
	if err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	types := rig.pub.EventTypes()
	want := []logic.EventType{logic.EventLeftPushed, logic.EventColorChanged, logic.EventMarkerMoved}
	if len(types) != len(want) {
		t.Fatalf("events: got %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, types[i], want[i])
		}
	}

	if lp := rig.pub.Events[0]; lp.Color != logic.Green || lp.Marker != 53 || lp.Moves != 1 {
		t.Errorf("LEFT_PUSHED should carry post-step state, got %s/%d/%d", lp.Color, lp.Marker, lp.Moves)
	}

	cc := rig.pub.Events[1]
	if cc.From != logic.Red || cc.Color != logic.Green {
		t.Errorf("COLOR_CHANGED: got %s -> %s, want RED -> GREEN", cc.From, cc.Color)
	}
	if mv := rig.pub.Events[2]; mv.Marker != 53 || mv.Moves != 1 {
		t.Errorf("MARKER_MOVED: got x=%d moves=%d", mv.Marker, mv.Moves)
	}

	if len(rig.leds.Toggles) != 2 || rig.leds.Toggles[0] != logic.Red || rig.leds.Toggles[1] != logic.Green {
		t.Errorf("toggles: got %v, want [RED GREEN]", rig.leds.Toggles)
	}
	if lit := rig.leds.Lit(); len(lit) != 1 || lit[0] != logic.Green {
		t.Errorf("lit: got %v, want [GREEN]", lit)
	}
	if got := rig.disp.LastText(); got != "001" {
		t.Errorf("counter text: got %q, want 001", got)
	}

	snap := rig.tracker.Snapshot()
	if snap.Color != logic.Green || snap.Marker != 53 || snap.Counts.LeftPushed != 1 {
		t.Errorf("tracker state: %+v", snap.State)
	}
}

func TestRunLoopRightPush(t *testing.T) {
	rig := newLoopRig()
	samples := press(rightDown)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceButtons), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if types := rig.pub.EventTypes(); len(types) != 3 || types[0] != logic.EventRightPushed {
		t.Fatalf("events: got %v", types)
	}
	if lit := rig.leds.Lit(); len(lit) != 1 || lit[0] != logic.Blue {
		t.Errorf("lit: got %v, want [BLUE]", lit)
	}
	if snap := rig.tracker.Snapshot(); snap.Marker != 73 {
		t.Errorf("marker: got %d, want 73", snap.Marker)
	}
}

func TestRunLoopBounceRejected(t *testing.T) {
	rig := newLoopRig()
	// Pressed for two ticks only, well under the debounce window.
	samples := append(repeat(leftDown, 2), repeat(idle, 6)...)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(rig.pub.Events) != 0 {
		t.Errorf("bounce should not produce events, got %v", rig.pub.EventTypes())
	}
	if lit := rig.leds.Lit(); len(lit) != 1 || lit[0] != logic.Red {
		t.Errorf("lit: got %v, want [RED]", lit)
	}
}

func TestRunLoopJoystickFiresEveryTick(t *testing.T) {
	rig := newLoopRig()
	samples := repeat(stickR, 3)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceJoystick), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var colors []logic.Color
	for _, e := range rig.pub.Events {
		if e.Type == logic.EventColorChanged {
			colors = append(colors, e.Color)
		}
	}
	want := []logic.Color{logic.Blue, logic.Green, logic.Red}
	if len(colors) != len(want) {
		t.Fatalf("colors: got %v, want %v", colors, want)
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("color %d: got %s, want %s", i, colors[i], want[i])
		}
	}

	if lit := rig.leds.Lit(); len(lit) != 1 || lit[0] != logic.Red {
		t.Errorf("lit: got %v, want exactly [RED]", lit)
	}
	snap := rig.tracker.Snapshot()
	if snap.Marker != 93 || snap.Moves != 3 {
		t.Errorf("marker: got x=%d moves=%d, want 93/3", snap.Marker, snap.Moves)
	}
	if got := rig.disp.LastText(); got != "003" {
		t.Errorf("counter text: got %q, want 003", got)
	}
}

func TestRunLoopJoystickIgnoredForButtonsSource(t *testing.T) {
	rig := newLoopRig()
	samples := repeat(stickR, 3)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceButtons), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(rig.pub.Events) != 0 {
		t.Errorf("expected no events, got %v", rig.pub.EventTypes())
	}
	if d := rig.tracker.Snapshot().Direction; !d.Right {
		t.Errorf("direction should still be reported, got %s", d)
	}
}

func TestRunLoopReadErrorSkipsTick(t *testing.T) {
	rig := newLoopRig()
	samples := press(leftDown)
	sampler := &faultSampler{inner: gpio.NewFakeSampler(samples), faultStart: 0, faultEnd: 3}

	if err := runRunLoop(t, rig, sampler, testSettings(logic.SourceBoth), 0, 3+len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	snap := rig.tracker.Snapshot()
	if snap.ReadErrors != 3 {
		t.Errorf("read errors: got %d, want 3", snap.ReadErrors)
	}
	if snap.Ticks != int64(len(samples)) {
		t.Errorf("ticks: got %d, want %d", snap.Ticks, len(samples))
	}
	if len(rig.pub.Events) != 3 {
		t.Errorf("push after recovery should still fire, got %v", rig.pub.EventTypes())
	}

	var warned bool
	for _, e := range rig.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "input read error" {
			warned = true
		}
	}
	if !warned {
		t.Error("expected read errors to be logged")
	}
}

func TestRunLoopLEDToggleErrorContinues(t *testing.T) {
	rig := newLoopRig()
	rig.leds.ToggleError = errors.New("line busy")
	samples := press(leftDown)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(rig.pub.Events) != 3 {
		t.Errorf("events should publish despite LED failure, got %v", rig.pub.EventTypes())
	}
	var logged int
	for _, e := range rig.hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "led toggle failed" {
			logged++
		}
	}
	if logged != 2 {
		t.Errorf("expected 2 toggle failures logged, got %d", logged)
	}
}

func TestRunLoopPublishErrorContinues(t *testing.T) {
	rig := newLoopRig()
	rig.pub.PublishError = errors.New("broker gone")
	samples := append(press(leftDown), press(leftDown)...)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 0, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if rig.pub.Failures != 6 {
		t.Errorf("failures: got %d, want 6", rig.pub.Failures)
	}
	if snap := rig.tracker.Snapshot(); snap.Color != logic.Blue {
		t.Errorf("state should advance despite publish errors, color=%s", snap.Color)
	}
}

func TestRunLoopHeartbeat(t *testing.T) {
	rig := newLoopRig()
	samples := repeat(idle, 10)

	if err := runRunLoop(t, rig, gpio.NewFakeSampler(samples), testSettings(logic.SourceBoth), 500*time.Millisecond, len(samples), syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	var heartbeats []mqtt.SystemEvent
	for _, e := range rig.pub.SystemEvents {
		if e.Event == "HEARTBEAT" {
			heartbeats = append(heartbeats, e)
		}
	}
	if len(heartbeats) != 2 {
		t.Fatalf("expected 2 heartbeats over 1s at 500ms, got %d", len(heartbeats))
	}
	if !strings.Contains(string(heartbeats[0].RawPayload), `"event":"HEARTBEAT"`) {
		t.Errorf("heartbeat payload missing status: %s", heartbeats[0].RawPayload)
	}
	if want := time.Date(2026, 1, 1, 0, 0, 0, 500*int(time.Millisecond), time.UTC); !heartbeats[0].Timestamp.Equal(want) {
		t.Errorf("first heartbeat at %v, want %v", heartbeats[0].Timestamp, want)
	}
}

func TestRunLoopShutdownSIGINT(t *testing.T) {
	rig := newLoopRig()

	if err := runRunLoop(t, rig, gpio.NewFakeSampler([]gpio.Sample{idle}), testSettings(logic.SourceBoth), 0, 0, syscall.SIGINT); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(rig.pub.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(rig.pub.SystemEvents))
	}
	ev := rig.pub.SystemEvents[0]
	if ev.Event != "SHUTDOWN" || ev.Reason != "SIGINT" || !ev.Retained {
		t.Errorf("unexpected shutdown event: %+v", ev)
	}
	if !strings.Contains(string(ev.RawPayload), `"reason":"SIGINT"`) {
		t.Errorf("shutdown payload missing reason: %s", ev.RawPayload)
	}
}

func TestRunLoopShutdownSIGTERM(t *testing.T) {
	rig := newLoopRig()
	rig.pub.Connected = false

	if err := runRunLoop(t, rig, gpio.NewFakeSampler([]gpio.Sample{idle}), testSettings(logic.SourceBoth), 0, 1, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	ev := rig.pub.SystemEvents[0]
	if ev.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", ev.Reason)
	}
	if !strings.Contains(string(ev.RawPayload), `"connected":false`) {
		t.Errorf("shutdown payload should report MQTT disconnected: %s", ev.RawPayload)
	}
}

func TestFormatSample(t *testing.T) {
	s := testSettings(logic.SourceBoth)
	s.LeftActiveLow = true
	s.RightActiveLow = true

	got := formatSample(gpio.Sample{Left: false, Right: true, X: 0x0100, Y: 0x3500}, s)
	want := "left: PRESSED, right: RELEASED, x: 0x0100, y: 0x3500, joystick: UP_LEFT"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestStatusConfig(t *testing.T) {
	sc := statusConfig(config.Default())
	if sc.PollMs != 10 || sc.DebounceMs != 20 || sc.Source != "both" || sc.HTTPAddr != ":8080" {
		t.Errorf("unexpected status config: %+v", sc)
	}
}

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	return cmd
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	configPath, logLevel = "", ""
	t.Cleanup(func() { configPath, logLevel = "", "" })

	cmd := newFlagCommand()
	cmd.Flags().Set("poll", "50ms")
	cmd.Flags().Set("source", "joystick")
	cmd.Flags().Set("http", "")

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.PollMs != 50 {
		t.Errorf("PollMs: got %d, want 50", cfg.PollMs)
	}
	if cfg.Source != "joystick" {
		t.Errorf("Source: got %q", cfg.Source)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("HTTPAddr: got %q, want empty", cfg.HTTPAddr)
	}
	if cfg.DebounceMs != 20 {
		t.Errorf("unset flag should keep default, DebounceMs=%d", cfg.DebounceMs)
	}
}

func TestLoadConfigFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledpad.toml")
	if err := os.WriteFile(path, []byte("Broker = \"tcp://pi:1883\"\nDebounceMs = 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath, logLevel = path, "debug"
	t.Cleanup(func() { configPath, logLevel = "", "" })

	cmd := newFlagCommand()
	cmd.Flags().Set("debounce", "30ms")

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Broker != "tcp://pi:1883" {
		t.Errorf("Broker from file: got %q", cfg.Broker)
	}
	if cfg.DebounceMs != 30 {
		t.Errorf("flag should win over file, DebounceMs=%d", cfg.DebounceMs)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q", cfg.LogLevel)
	}
}

func TestLoadConfigRejectsBadSource(t *testing.T) {
	configPath, logLevel = "", ""
	cmd := newFlagCommand()
	cmd.Flags().Set("source", "keyboard")

	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected validation error")
	}
}

func TestConfigCommandShowsFlagOverrides(t *testing.T) {
	configPath, logLevel = "", ""
	t.Cleanup(func() { configPath, logLevel = "", "" })

	cmd := &cobra.Command{Use: "config", RunE: runConfig}
	addRunFlags(cmd)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--source", "joystick", "--poll", "25ms"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config command: %v", err)
	}
	got := out.String()
	for _, want := range []string{`Source = "joystick"`, "PollMs = 25"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("warn")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if log.GetLevel() != logrus.WarnLevel {
		t.Errorf("level: got %s", log.GetLevel())
	}
	if _, err := newLogger("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
