package attrs

import (
	"testing"
)

func TestSet_ModifyClampsToBounds(t *testing.T) {
	tests := []struct {
		name     string
		attr     string
		ops      []struct {
			op    Op
			value float64
		}
		expected float64
	}{
		{
			name: "add stays in range",
			attr: Mood,
			ops: []struct {
				op    Op
				value float64
			}{{OpAdd, 5}},
			expected: 55,
		},
		{
			name: "add clamps at max",
			attr: Mood,
			ops: []struct {
				op    Op
				value float64
			}{{OpAdd, 500}},
			expected: 100,
		},
		{
			name: "subtract clamps at min",
			attr: Health,
			ops: []struct {
				op    Op
				value float64
			}{{OpAdd, -500}},
			expected: 0,
		},
		{
			name: "set clamps",
			attr: Face,
			ops: []struct {
				op    Op
				value float64
			}{{OpSet, 250}},
			expected: 100,
		},
		{
			name: "multiply clamps",
			attr: Weight,
			ops: []struct {
				op    Op
				value float64
			}{{OpMultiply, 100}},
			expected: 200,
		},
		{
			name: "mixed sequence never escapes bounds",
			attr: Mood,
			ops: []struct {
				op    Op
				value float64
			}{{OpAdd, 80}, {OpMultiply, 3}, {OpAdd, -250}, {OpSet, 42}},
			expected: 42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet(nil)
			for _, step := range tt.ops {
				s.Modify(tt.attr, step.op, step.value)
				def := DefaultDefinitions()[tt.attr]
				if got := s.Get(tt.attr); got < def.Min || got > def.Max {
					t.Fatalf("value %v escaped bounds [%v, %v]", got, def.Min, def.Max)
				}
			}
			if got := s.Get(tt.attr); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestSet_GetAbsentReturnsZero(t *testing.T) {
	s := NewSet(nil)
	if got := s.Get("charisma"); got != 0 {
		t.Errorf("expected 0 for absent attribute, got %v", got)
	}
}

func TestSet_ModifyReportsChange(t *testing.T) {
	s := NewSet(nil)
	ch := s.Modify(Mood, OpAdd, 5)
	if ch.Old != 50 || ch.New != 55 || ch.Delta != 5 {
		t.Errorf("unexpected change: %+v", ch)
	}

	// Clamped change reports the effective delta, not the requested one.
	ch = s.Modify(Mood, OpAdd, 100)
	if ch.New != 100 || ch.Delta != 45 {
		t.Errorf("expected clamped delta 45, got %+v", ch)
	}
}

func TestSet_PercentageLinear(t *testing.T) {
	s := NewSet(nil)
	s.Set(Mood, 75)
	if got := s.Percentage(Mood); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}
	s.Set(Weight, 30)
	if got := s.Percentage(Weight); got != 0 {
		t.Errorf("expected 0 at min, got %v", got)
	}
}

func TestSet_PercentageMonetaryLogScale(t *testing.T) {
	s := NewSet(nil)

	s.Set(Deposit, 0)
	if got := s.Percentage(Deposit); got != 0 {
		t.Errorf("expected 0 for zero deposit, got %v", got)
	}

	// Log scale is monotonic in |value| and stays within [0, 100].
	prev := 0.0
	for _, v := range []float64{100, 10000, 1000000, 10000000} {
		s.Set(Deposit, v)
		pct := s.Percentage(Deposit)
		if pct <= prev {
			t.Errorf("expected monotonic increase, got %v after %v", pct, prev)
		}
		if pct < 0 || pct > 100 {
			t.Errorf("percentage %v out of range", pct)
		}
		prev = pct
	}

	// Debt is scaled on magnitude, not sign.
	s.Set(Deposit, -10000)
	if got := s.Percentage(Deposit); got <= 0 || got > 100 {
		t.Errorf("expected in-range percentage for debt, got %v", got)
	}
}

func TestSet_SetValuesClamps(t *testing.T) {
	s := NewSet(nil)
	s.SetValues(map[string]float64{Mood: 300, Health: -10})
	if got := s.Get(Mood); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
	if got := s.Get(Health); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
