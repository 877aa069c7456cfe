package logic

import "testing"

func TestNewColorFSM(t *testing.T) {
	f := NewColorFSM()
	if f.State() != Red {
		t.Errorf("expected RED, got %s", f.State())
	}
}

func TestColorTransitionTable(t *testing.T) {
	tests := []struct {
		from      Color
		wantLeft  Color
		wantRight Color
	}{
		{Red, Green, Blue},
		{Green, Blue, Red},
		{Blue, Red, Green},
	}

	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			f := &ColorFSM{state: tt.from}
			tr := f.Step(true, false)
			if tr == nil || tr.To != tt.wantLeft || tr.From != tt.from {
				t.Errorf("left: got %+v, want %s -> %s", tr, tt.from, tt.wantLeft)
			}

			f = &ColorFSM{state: tt.from}
			tr = f.Step(false, true)
			if tr == nil || tr.To != tt.wantRight || tr.From != tt.from {
				t.Errorf("right: got %+v, want %s -> %s", tr, tt.from, tt.wantRight)
			}
		})
	}
}

func TestColorLeftCycleCloses(t *testing.T) {
	f := NewColorFSM()
	want := []Color{Green, Blue, Red}
	for i, w := range want {
		f.Step(true, false)
		if f.State() != w {
			t.Errorf("step %d: got %s, want %s", i, f.State(), w)
		}
	}
}

func TestColorRightCycleCloses(t *testing.T) {
	f := NewColorFSM()
	want := []Color{Blue, Green, Red}
	for i, w := range want {
		f.Step(false, true)
		if f.State() != w {
			t.Errorf("step %d: got %s, want %s", i, f.State(), w)
		}
	}
}

func TestColorBothTriggersActLikeLeft(t *testing.T) {
	for _, c := range Colors {
		both := &ColorFSM{state: c}
		left := &ColorFSM{state: c}

		trBoth := both.Step(true, true)
		trLeft := left.Step(true, false)

		if *trBoth != *trLeft {
			t.Errorf("from %s: both=%+v, left=%+v", c, *trBoth, *trLeft)
		}
	}
}

func TestColorNoInputNoToggle(t *testing.T) {
	f := NewColorFSM()
	if tr := f.Step(false, false); tr != nil {
		t.Errorf("expected nil transition, got %+v", tr)
	}
	if f.State() != Red {
		t.Errorf("state changed without input: %s", f.State())
	}
}

func TestTransitionToggles(t *testing.T) {
	tr := Transition{From: Green, To: Blue}
	got := tr.Toggles()
	if len(got) != 2 {
		t.Fatalf("expected 2 toggles, got %d", len(got))
	}
	if got[0] != Green || got[1] != Blue {
		t.Errorf("expected [GREEN BLUE], got %v", got)
	}
}

func TestColorSingleLEDLit(t *testing.T) {
	// Applying toggles from the power-on pattern keeps exactly one LED lit.
	lit := map[Color]bool{Red: true}
	f := NewColorFSM()
	inputs := []TriggerEvent{
		{Left: true}, {Right: true}, {Right: true}, {}, {Left: true, Right: true}, {Left: true},
	}
	for i, in := range inputs {
		if tr := f.Step(in.Left, in.Right); tr != nil {
			for _, c := range tr.Toggles() {
				lit[c] = !lit[c]
			}
		}
		on := 0
		for _, c := range Colors {
			if lit[c] {
				on++
			}
		}
		if on != 1 || !lit[f.State()] {
			t.Errorf("step %d: lit=%v state=%s", i, lit, f.State())
		}
	}
}
