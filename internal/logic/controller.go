package logic

import (
	"fmt"
	"time"
)

// Source selects which inputs drive the color machine and the marker.
type Source string

const (
	SourceButtons  Source = "buttons"
	SourceJoystick Source = "joystick"
	SourceBoth     Source = "both"
)

// ParseSource validates a source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceButtons, SourceJoystick, SourceBoth:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown input source %q (want buttons, joystick or both)", s)
}

// Settings configures a Controller.
type Settings struct {
	Debounce       time.Duration
	LeftActiveLow  bool
	RightActiveLow bool
	Thresholds     Thresholds
	Source         Source
}

// Output is everything a single tick produced. The caller turns it into
// LED toggles, display calls and published events.
type Output struct {
	Triggers   TriggerEvent
	Direction  Direction
	Transition *Transition
	Move       *Move
	Events     []Event
}

// Controller runs one polling tick over both buttons and the joystick and
// feeds the result into the color machine and the marker.
type Controller struct {
	settings Settings
	now      time.Time

	left  *Button
	right *Button
	color *ColorFSM
	mark  *Marker

	direction     Direction
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller. The startTime is used for calculating
// uptime in heartbeat events.
func NewController(s Settings, startTime time.Time) *Controller {
	c := &Controller{
		settings:      s,
		now:           startTime,
		color:         NewColorFSM(),
		mark:          NewMarker(),
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
	// Both timers read the tick's sample time, never the wall clock.
	clock := func() time.Time { return c.now }
	c.left = NewButton("left", s.Debounce, NewClockTimer(clock), s.LeftActiveLow)
	c.right = NewButton("right", s.Debounce, NewClockTimer(clock), s.RightActiveLow)
	return c
}

// Process takes a new input sample and returns what the tick produced.
func (c *Controller) Process(in Input) Output {
	c.now = in.Time

	leftPushed := c.left.Step(in.LeftRaw)
	rightPushed := c.right.Step(in.RightRaw)
	c.direction = Classify(in.X, in.Y, c.settings.Thresholds)

	out := Output{Direction: c.direction}
	out.Triggers = c.triggers(leftPushed, rightPushed)

	out.Transition = c.color.Step(out.Triggers.Left, out.Triggers.Right)
	out.Move = c.mark.Step(out.Triggers.Left, out.Triggers.Right)

	if leftPushed {
		out.Events = append(out.Events, c.event(in.Time, EventLeftPushed))
	}
	if rightPushed {
		out.Events = append(out.Events, c.event(in.Time, EventRightPushed))
	}
	if out.Transition != nil {
		e := c.event(in.Time, EventColorChanged)
		e.From = out.Transition.From
		out.Events = append(out.Events, e)
	}
	if out.Move != nil {
		out.Events = append(out.Events, c.event(in.Time, EventMarkerMoved))
	}

	for _, e := range out.Events {
		switch e.Type {
		case EventLeftPushed:
			c.eventCounts.LeftPushed++
		case EventRightPushed:
			c.eventCounts.RightPushed++
		case EventColorChanged:
			c.eventCounts.ColorChanged++
		case EventMarkerMoved:
			c.eventCounts.MarkerMoved++
		}
	}

	return out
}

func (c *Controller) triggers(leftPushed, rightPushed bool) TriggerEvent {
	var t TriggerEvent
	switch c.settings.Source {
	case SourceButtons:
		t = TriggerEvent{Left: leftPushed, Right: rightPushed}
	case SourceJoystick:
		t = TriggerEvent{Left: c.direction.Left, Right: c.direction.Right}
	default:
		t = TriggerEvent{
			Left:  leftPushed || c.direction.Left,
			Right: rightPushed || c.direction.Right,
		}
	}
	return t
}

// event builds an event reflecting state after the color and marker have
// been stepped.
func (c *Controller) event(ts time.Time, typ EventType) Event {
	return Event{
		Timestamp: ts,
		Type:      typ,
		Color:     c.color.State(),
		Marker:    c.mark.Position(),
		Moves:     c.mark.Moves(),
	}
}

// Color returns the active color.
func (c *Controller) Color() Color {
	return c.color.State()
}

// Marker returns the marker position and move counter.
func (c *Controller) Marker() (x, moves int) {
	return c.mark.Position(), c.mark.Moves()
}

// Buttons returns the debounce state of both buttons.
func (c *Controller) Buttons() (left, right DebounceState) {
	return c.left.State(), c.right.State()
}

// Direction returns the most recent joystick classification.
func (c *Controller) Direction() Direction {
	return c.direction
}

// EventCountsSnapshot returns a copy of the current event counts.
func (c *Controller) EventCountsSnapshot() EventCounts {
	return c.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.eventCounts,
	}
}
