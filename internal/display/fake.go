package display

// Call is one recorded draw call.
type Call struct {
	Op     string // "circle" or "text"
	X, Y   int
	R      int
	Color  RGB
	Text   string
	Opaque bool
}

// FakeDisplay records draw calls for test assertions.
type FakeDisplay struct {
	Calls []Call
}

// NewFakeDisplay creates an empty FakeDisplay.
func NewFakeDisplay() *FakeDisplay {
	return &FakeDisplay{}
}

// FillCircle records a circle.
func (f *FakeDisplay) FillCircle(x, y, r int, c RGB) {
	f.Calls = append(f.Calls, Call{Op: "circle", X: x, Y: y, R: r, Color: c})
}

// DrawText records a text draw.
func (f *FakeDisplay) DrawText(text string, x, y int, opaque bool) {
	f.Calls = append(f.Calls, Call{Op: "text", X: x, Y: y, Text: text, Opaque: opaque})
}

// LastText returns the most recently drawn string, or "".
func (f *FakeDisplay) LastText() string {
	for i := len(f.Calls) - 1; i >= 0; i-- {
		if f.Calls[i].Op == "text" {
			return f.Calls[i].Text
		}
	}
	return ""
}

// Reset clears recorded calls.
func (f *FakeDisplay) Reset() {
	f.Calls = nil
}
