// Package generator produces simulated die rolls.
package generator

import (
	"math/rand"
	"time"
)

// Generator rolls fair dice from a seeded source.
type Generator struct {
	seed int64
	rnd  *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for reproducible sessions.
func NewSeeded(seed int64) *Generator {
	return &Generator{seed: seed, rnd: rand.New(rand.NewSource(seed))}
}

// Seed reports the seed the generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Rolls returns count rolls of a die with the given number of faces.
func (g *Generator) Rolls(count, faces int) []int {
	if count <= 0 || faces <= 0 {
		return nil
	}
	result := make([]int, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.rnd.Intn(faces)+1)
	}
	return result
}
