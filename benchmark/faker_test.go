package benchmark

import (
	"strings"
	"testing"
)

func TestLetters(t *testing.T) {
	rz := NewRandomizer(1, 1)
	str := rz.Main().Letters(10)
	if len(str) != 10 {
		t.Errorf("Letters() error, length = %d, want 10", len(str))
	}

	for _, c := range str {
		if !strings.ContainsRune(letterBytes, c) {
			t.Errorf("Letters() error, unexpected character %q", c)
		}
	}

	if rz.Main().Letters(0) != "" {
		t.Errorf("Letters() error, expected empty string")
	}
}

func TestSeededRandomizerIsReproducible(t *testing.T) {
	a := NewRandomizer(42, 1).Main()
	b := NewRandomizer(42, 1).Main()

	for i := 0; i < 100; i++ {
		if a.Letters(10) != b.Letters(10) || a.IntRange(1, 5) != b.IntRange(1, 5) {
			t.Fatalf("seeded randomizers with the same seed diverged at step %d", i)
		}
	}
}

func TestIntRange(t *testing.T) {
	rw := NewRandomizer(1, 1).Main()

	var seen = map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := rw.IntRange(1, 5)
		if v < 1 || v > 5 {
			t.Fatalf("IntRange() error, %d is out of 1..5", v)
		}
		seen[v] = true
	}

	if len(seen) != 5 {
		t.Errorf("IntRange() error, expected all values of 1..5 to appear, got %v", seen)
	}

	if rw.IntRange(3, 3) != 3 || rw.IntRange(4, 2) != 4 {
		t.Errorf("IntRange() error, degenerate ranges must return min")
	}

	if rw.Intn(0) != 0 {
		t.Errorf("Intn() error, expected 0 for empty range")
	}
}

func TestGetWorker(t *testing.T) {
	rz := NewRandomizer(1, 2)

	for _, id := range []int{-1, 0, 1} {
		if _, err := rz.GetWorker(id); err != nil {
			t.Errorf("GetWorker(%d) error: %v", id, err)
		}
	}

	if _, err := rz.GetWorker(2); err == nil {
		t.Errorf("GetWorker(2) error, expected an error for unknown worker")
	}
}
