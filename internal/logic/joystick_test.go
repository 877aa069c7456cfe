package logic

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	th := DefaultThresholds()
	mid := uint16(0x2000)

	tests := []struct {
		name      string
		vx, vy    uint16
		wantLeft  bool
		wantRight bool
		wantUp    bool
		wantDown  bool
	}{
		{"center", mid, mid, false, false, false, false},
		{"right at threshold", th.Right, mid, false, false, false, false},
		{"right above threshold", th.Right + 1, mid, false, true, false, false},
		{"left at threshold", th.Left, mid, false, false, false, false},
		{"left below threshold", th.Left - 1, mid, true, false, false, false},
		{"full left", 0, mid, true, false, false, false},
		{"full right", 0x3FFF, mid, false, true, false, false},
		{"up at threshold", mid, th.Up, false, false, false, false},
		{"up above threshold", mid, th.Up + 1, false, false, true, false},
		{"down at threshold", mid, th.Down, false, false, false, false},
		{"down below threshold", mid, th.Down - 1, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.vx, tt.vy, th)
			if d.Left != tt.wantLeft {
				t.Errorf("Left: got %v, want %v", d.Left, tt.wantLeft)
			}
			if d.Right != tt.wantRight {
				t.Errorf("Right: got %v, want %v", d.Right, tt.wantRight)
			}
			if d.Up != tt.wantUp {
				t.Errorf("Up: got %v, want %v", d.Up, tt.wantUp)
			}
			if d.Down != tt.wantDown {
				t.Errorf("Down: got %v, want %v", d.Down, tt.wantDown)
			}
		})
	}
}

func TestClassifyRightCheckedFirst(t *testing.T) {
	// Overlapping cutoffs: a sample satisfying both reports only Right.
	th := Thresholds{Left: 0x3000, Right: 0x1200, Up: 0x3000, Down: 0x1000}

	d := Classify(0x2000, 0x2000, th)
	if !d.Right {
		t.Error("expected Right")
	}
	if d.Left {
		t.Error("Left must be false when Right is set")
	}

	d = Classify(0x1200, 0x2000, th)
	if d.Right || !d.Left {
		t.Errorf("at right cutoff: got Left=%v Right=%v, want Left only", d.Left, d.Right)
	}
}

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{Direction{}, "CENTER"},
		{Direction{Left: true}, "LEFT"},
		{Direction{Right: true}, "RIGHT"},
		{Direction{Up: true}, "UP"},
		{Direction{Down: true, Right: true}, "DOWN_RIGHT"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("%+v: got %q, want %q", tt.d, got, tt.want)
		}
	}
}
