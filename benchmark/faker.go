package benchmark

import (
	"fmt"
	"math/rand"
	"time"
)

/*
 * Random value generators
 */

// letterBytes is used for random string generation
const letterBytes = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// RandomizerWorker is a struct for storing randomizer data
type RandomizerWorker struct {
	fixed  *rand.Rand // fixed randomizer
	seeded *rand.Rand // seeded seed'able randomizer
	unique *rand.Rand // unique always unique randomizer
}

// Fixed returns fixed randomizer (always returns the same values)
func (rw *RandomizerWorker) Fixed() *rand.Rand {
	return rw.fixed
}

// Seeded returns seeded randomizer (seed'able)
func (rw *RandomizerWorker) Seeded() *rand.Rand {
	return rw.seeded
}

// Unique returns unique randomizer (always unique)
func (rw *RandomizerWorker) Unique() *rand.Rand {
	return rw.unique
}

// Intn returns random int value within the 0...max range
func (rw *RandomizerWorker) Intn(max int) int {
	if max <= 0 {
		return 0
	}

	return rw.Seeded().Intn(max)
}

// IntRange returns random int value within the min...max range, both ends included
func (rw *RandomizerWorker) IntRange(min, max int) int {
	if max <= min {
		return min
	}

	return min + rw.Intn(max-min+1)
}

// Letters returns a random string of n ASCII letters
func (rw *RandomizerWorker) Letters(n int) string {
	if n <= 0 {
		return ""
	}

	var bytes = make([]byte, n)
	var l = len(letterBytes)
	for i := range bytes {
		bytes[i] = letterBytes[rw.Seeded().Intn(l)]
	}

	return string(bytes)
}

// NewRandomizerWorker returns new RandomizerWorker object with given seed and workerID
func NewRandomizerWorker(seed int64, workerID int) *RandomizerWorker {
	rw := RandomizerWorker{}
	if seed == 0 {
		seed = time.Now().UnixNano()
	} else {
		seed += 1 + int64(workerID)
	}

	rw.fixed = rand.New(rand.NewSource(0))
	rw.seeded = rand.New(rand.NewSource(seed))
	rw.unique = rand.New(rand.NewSource(time.Now().UnixNano()))

	return &rw
}

// Randomizer is a struct for storing randomizer data
type Randomizer struct {
	worker map[int]*RandomizerWorker // worker is a map, id -> RandomizerWorker
}

// NewRandomizer returns new Randomizer object with given seed and workers count,
// worker -1 is the main one
func NewRandomizer(seed int64, workers int) *Randomizer {
	rz := Randomizer{}
	rz.worker = make(map[int]*RandomizerWorker)

	for w := 0; w < workers; w++ {
		rz.worker[w] = NewRandomizerWorker(seed, w)
	}
	rz.worker[-1] = NewRandomizerWorker(seed, -1)

	return &rz
}

// GetWorker returns RandomizerWorker object for given workerID
func (rz *Randomizer) GetWorker(workerID int) (*RandomizerWorker, error) {
	rw, exists := rz.worker[workerID]
	if !exists {
		return nil, fmt.Errorf("random generator for worker %d has not been initialized, probably NewRandomizer() was not initilized properly", workerID)
	}

	return rw, nil
}

// Main returns the randomizer of the main worker
func (rz *Randomizer) Main() *RandomizerWorker {
	return rz.worker[-1]
}
