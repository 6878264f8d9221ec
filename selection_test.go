package sade

import (
	"math"
	"testing"
)

func eval(fom float64, violations ...float64) Evaluation {
	return Evaluation{FOM: fom, Violations: violations}
}

func TestNewSelector(t *testing.T) {
	for _, name := range []string{SelectorStaticPenalty, SelectorFeasibilityRule, SelectorEpsilon} {
		cfg := &Config{Selector: name, Theta: 0.2, TC: 100, CP: 5}
		s, err := NewSelector(cfg)
		if err != nil {
			t.Fatalf("NewSelector(%q): %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("NewSelector(%q).Name() = %q", name, s.Name())
		}
	}
	if _, err := NewSelector(&Config{Selector: "tournament"}); err == nil {
		t.Error("expected error for unknown selector name")
	}
}

func TestStaticPenaltyBetter(t *testing.T) {
	s := &staticPenalty{}

	tests := []struct {
		name string
		a, b Evaluation
		want bool
	}{
		{"penalty folds violations", eval(5, 1, 1), eval(6, 0.5, 0), false},
		{"reverse of the same pair", eval(6, 0.5, 0), eval(5, 1, 1), true},
		{"equal scores tie toward a", eval(3, 1), eval(4, 0), true},
		{"invalid always loses", eval(0, math.Inf(1)), eval(1e9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Better(tt.a, tt.b); got != tt.want {
				t.Errorf("Better(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFeasibilityRuleBetter(t *testing.T) {
	s := &feasibilityRule{}

	tests := []struct {
		name string
		a, b Evaluation
		want bool
	}{
		{"feasible beats infeasible regardless of fom", eval(10, 0), eval(0, 0.1), true},
		{"infeasible loses to feasible", eval(0, 0.1), eval(10, 0), false},
		{"both feasible, lower fom wins", eval(1), eval(2), true},
		{"both feasible, higher fom loses", eval(2), eval(1), false},
		{"both infeasible, lower violation wins", eval(9, 0.5), eval(0, 2), true},
		{"equal violations, fom breaks tie", eval(1, 0.5), eval(2, 0.5), true},
		{"fractional violations are not truncated", eval(0, 0.4), eval(1, 0.6), true},
		{"invalid loses to infeasible", eval(0, math.Inf(1)), eval(5, 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Better(tt.a, tt.b); got != tt.want {
				t.Errorf("Better(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestFeasibilityRuleTotalOrder verifies totality (every pair is ordered one
// way or the other) and transitivity across a pool of mixed evaluations.
func TestFeasibilityRuleTotalOrder(t *testing.T) {
	s := &feasibilityRule{}
	r := newRNG(13)

	pool := make([]Evaluation, 40)
	for i := range pool {
		v := 0.0
		if r.float64() < 0.5 {
			v = r.uniform(0, 2)
		}
		pool[i] = eval(r.uniform(-1, 1), v)
	}

	for _, a := range pool {
		for _, b := range pool {
			ab := s.Better(a, b)
			ba := s.Better(b, a)
			if !ab && !ba {
				t.Fatalf("order not total for %v, %v", a, b)
			}
			for _, c := range pool {
				if ab && s.Better(b, c) && !s.Better(a, c) {
					t.Fatalf("transitivity broken for %v, %v, %v", a, b, c)
				}
			}
		}
	}
}

func TestEpsilonInit(t *testing.T) {
	// NP=10, theta=0.3: epsilon_0 is the third-smallest aggregate
	// violation.
	s := &epsilon{theta: 0.3, tc: 100, cp: 5}
	violations := []float64{0, 0, 0.1, 0.2, 0.5, 1, 1, 2, 5, 10}
	results := make([]Evaluation, len(violations))
	for i, v := range violations {
		results[i] = eval(0, v)
	}

	s.onSelect(1, len(results), results)
	if s.eps0 != 0.1 {
		t.Errorf("epsilon_0 = %v, want 0.1", s.eps0)
	}
	if s.level != 0.1 {
		t.Errorf("epsilon_level = %v, want 0.1", s.level)
	}

	// Later generations must not reseed.
	s.level = 42
	s.onSelect(2, len(results), results)
	if s.level != 42 {
		t.Error("onSelect reseeded after the first generation")
	}
}

func TestEpsilonInitZeroTheta(t *testing.T) {
	s := &epsilon{theta: 0, tc: 10, cp: 2}
	results := []Evaluation{eval(0, 5), eval(0, 1)}
	s.onSelect(1, len(results), results)
	if s.eps0 != 0 || s.level != 0 {
		t.Errorf("theta=0 should zero the tolerance, got eps0=%v level=%v", s.eps0, s.level)
	}
}

func TestEpsilonDecay(t *testing.T) {
	s := &epsilon{theta: 0.3, tc: 50, cp: 5, eps0: 2, level: 2}

	prev := s.level
	for g := 1; g <= 50; g++ {
		s.onGenerationEnd(g)
		if s.level > prev {
			t.Fatalf("epsilon_level increased at generation %d: %v > %v", g, s.level, prev)
		}
		prev = s.level
	}
	if s.level != 0 {
		t.Errorf("epsilon_level = %v at g = tc, want 0", s.level)
	}
	s.onGenerationEnd(51)
	if s.level != 0 {
		t.Errorf("epsilon_level = %v past tc, want 0", s.level)
	}
}

func TestEpsilonBetterUsesLevel(t *testing.T) {
	s := &epsilon{level: 1.0}

	// Both within tolerance: compare by FOM even though a is "infeasible"
	// in the strict sense.
	if !s.Better(eval(1, 0.9), eval(2, 0)) {
		t.Error("tolerated individual with lower fom should win")
	}
	// One outside tolerance: the tolerated one wins.
	if s.Better(eval(-10, 1.5), eval(10, 0.5)) {
		t.Error("individual above epsilon_level should lose")
	}
	// Both outside: lower violation wins.
	if !s.Better(eval(9, 1.2), eval(0, 3)) {
		t.Error("lower violation should win above the tolerance")
	}
}
