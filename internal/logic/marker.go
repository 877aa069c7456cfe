package logic

import "fmt"

// Marker geometry on the 128x128 panel.
const (
	MarkerStart = 63
	MarkerMin   = 20
	MarkerMax   = 110
	MarkerStep  = 10
)

// Move describes one marker movement.
type Move struct {
	From  int
	To    int
	Count int // move counter after this move
}

// Marker tracks the horizontal marker position and the move counter.
type Marker struct {
	x     int
	moves int
}

// NewMarker creates a marker at the start position with a zero counter.
func NewMarker() *Marker {
	return &Marker{x: MarkerStart}
}

// Step moves the marker one step for the tick's triggers. Left wins when
// both are set. Moves are clamped to [MarkerMin, MarkerMax]; at a bound
// no move is made and nil is returned.
func (m *Marker) Step(left, right bool) *Move {
	to := m.x
	switch {
	case left:
		if m.x <= MarkerMin {
			return nil
		}
		to = max(m.x-MarkerStep, MarkerMin)
	case right:
		if m.x >= MarkerMax {
			return nil
		}
		to = min(m.x+MarkerStep, MarkerMax)
	default:
		return nil
	}

	mv := &Move{From: m.x, To: to}
	m.x = to
	m.moves++
	mv.Count = m.moves
	return mv
}

// Position returns the current x position.
func (m *Marker) Position() int {
	return m.x
}

// Moves returns the move counter.
func (m *Marker) Moves() int {
	return m.moves
}

// FormatCount renders n as a three-digit zero-padded string.
// Values above 999 wrap.
func FormatCount(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%03d", n%1000)
}
