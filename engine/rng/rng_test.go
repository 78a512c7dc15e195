package rng

import "testing"

func TestRNG_Deterministic(t *testing.T) {
	rng1 := New(42)
	rng2 := New(42)

	for i := 0; i < 20; i++ {
		a := rng1.Roll(6)
		b := rng2.Roll(6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := New(99)

	for i := 0; i < 1000; i++ {
		r := rng.Roll(6)
		if r < 1 || r > 6 {
			t.Fatalf("roll out of range [1,6]: got %d", r)
		}
	}
}

func TestRNG_Roll_OneSided(t *testing.T) {
	rng := New(1)

	for i := 0; i < 10; i++ {
		if r := rng.Roll(1); r != 1 {
			t.Fatalf("1-sided die should always be 1, got %d", r)
		}
	}
}

func TestRNG_Float64_Range(t *testing.T) {
	rng := New(7)

	for i := 0; i < 10000; i++ {
		f := rng.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("draw out of [0,1): %v", f)
		}
	}
}

func TestRNG_IntRange_Inclusive(t *testing.T) {
	rng := New(12345)
	seen := map[int]bool{}

	for i := 0; i < 5000; i++ {
		v := rng.IntRange(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("IntRange(3,5) out of range: %d", v)
		}
		seen[v] = true
	}
	for _, want := range []int{3, 4, 5} {
		if !seen[want] {
			t.Errorf("IntRange(3,5) never produced %d", want)
		}
	}
}

func TestRNG_IntRange_SwappedBounds(t *testing.T) {
	rng := New(3)
	for i := 0; i < 100; i++ {
		v := rng.IntRange(8, 1)
		if v < 1 || v > 8 {
			t.Fatalf("IntRange(8,1) out of range: %d", v)
		}
	}
}

func TestRNG_Uniform_Range(t *testing.T) {
	rng := New(5)
	for i := 0; i < 1000; i++ {
		v := rng.Uniform(-2, 2)
		if v < -2 || v >= 2 {
			t.Fatalf("Uniform(-2,2) out of range: %v", v)
		}
	}
}

func TestRNG_Intn_NonPositive(t *testing.T) {
	rng := New(1)
	if v := rng.Intn(0); v != 0 {
		t.Fatalf("Intn(0) = %d, want 0", v)
	}
	if rng.Position() != 0 {
		t.Fatalf("Intn(0) should not draw, position %d", rng.Position())
	}
}

func TestRNG_Position_Tracks(t *testing.T) {
	rng := New(42)

	if rng.Position() != 0 {
		t.Fatalf("expected position 0, got %d", rng.Position())
	}

	rng.Roll(6)
	if rng.Position() != 1 {
		t.Fatalf("expected position 1, got %d", rng.Position())
	}

	rng.Float64()
	if rng.Position() != 2 {
		t.Fatalf("expected position 2, got %d", rng.Position())
	}

	rng.Uniform(0, 1)
	rng.IntRange(1, 20)
	if rng.Position() != 4 {
		t.Fatalf("expected position 4, got %d", rng.Position())
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	// Advance an RNG to position 10 and record the next 5 draws.
	rng := New(42)
	for i := 0; i < 10; i++ {
		rng.Roll(6)
	}

	var expected [5]float64
	for i := range expected {
		expected[i] = rng.Float64()
	}

	restored := Restore(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}

	for i, want := range expected {
		got := restored.Float64()
		if got != want {
			t.Fatalf("draw %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestRNG_DifferentSeeds_DifferentResults(t *testing.T) {
	rng1 := New(1)
	rng2 := New(2)

	differs := false
	for i := 0; i < 20; i++ {
		if rng1.Roll(100) != rng2.Roll(100) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("expected different seeds to produce different results")
	}
}
