// Package display is the drawing boundary for the marker animation.
package display

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sweeney/ledpad/internal/logic"
)

// RGB is a 24-bit 0xRRGGBB color.
type RGB uint32

const (
	Background RGB = 0x0000FF // blue
	Foreground RGB = 0xFFFF00 // yellow
)

// String renders the color as #RRGGBB.
func (c RGB) String() string {
	return fmt.Sprintf("#%06X", uint32(c))
}

// Layout of the 128x128 panel.
const (
	MarkerY      = 63
	MarkerRadius = 10
	LabelX       = 10
	LabelY       = 100
	CounterX     = 10
	CounterY     = 110
	Label        = "circle move #:"
)

// Display is a synchronous drawing surface.
type Display interface {
	FillCircle(x, y, r int, c RGB)
	DrawText(text string, x, y int, opaque bool)
}

// Init draws the initial screen: marker at the start position, the counter
// label and a zero counter.
func Init(d Display) {
	d.FillCircle(logic.MarkerStart, MarkerY, MarkerRadius, Foreground)
	d.DrawText(Label, LabelX, LabelY, false)
	d.DrawText(logic.FormatCount(0), CounterX, CounterY, true)
}

// Render erases the marker at its old position, draws it at the new one and
// redraws the move counter.
func Render(d Display, mv logic.Move) {
	d.FillCircle(mv.From, MarkerY, MarkerRadius, Background)
	d.FillCircle(mv.To, MarkerY, MarkerRadius, Foreground)
	d.DrawText(logic.FormatCount(mv.Count), CounterX, CounterY, true)
}

// LogDisplay writes draw calls to a logger. Used when no panel is attached.
type LogDisplay struct {
	log logrus.FieldLogger
}

// NewLogDisplay creates a display that logs at debug level.
func NewLogDisplay(log logrus.FieldLogger) *LogDisplay {
	return &LogDisplay{log: log.WithField("component", "display")}
}

// FillCircle logs the circle.
func (l *LogDisplay) FillCircle(x, y, r int, c RGB) {
	l.log.WithFields(logrus.Fields{
		"x":     x,
		"y":     y,
		"r":     r,
		"color": c.String(),
	}).Debug("fill circle")
}

// DrawText logs the text.
func (l *LogDisplay) DrawText(text string, x, y int, opaque bool) {
	l.log.WithFields(logrus.Fields{
		"text":   text,
		"x":      x,
		"y":      y,
		"opaque": opaque,
	}).Debug("draw text")
}
