// Package dice provides the random primitives used across the engine:
// plain d6/d20 rolls and the seven-bucket hybrid d20 classifier that
// drives content rarity selection.
package dice

import (
	"math/rand"
	"time"
)

// Bucket is the outcome class of a hybrid d20 roll.
type Bucket string

const (
	CriticalFailure Bucket = "CRITICAL_FAILURE" // 1
	NegativeUnique  Bucket = "NEGATIVE_UNIQUE"  // 2
	Common          Bucket = "COMMON"           // 3-12
	Uncommon        Bucket = "UNCOMMON"         // 13-15
	Rare            Bucket = "RARE"             // 16-18
	PositiveUnique  Bucket = "POSITIVE_UNIQUE"  // 19
	CriticalSuccess Bucket = "CRITICAL_SUCCESS" // 20
)

// Rarity is the content-quality tier attached to generated or stock content.
type Rarity string

const (
	RarityCommon   Rarity = "COMMON"
	RarityUncommon Rarity = "UNCOMMON"
	RarityRare     Rarity = "RARE"
	RarityCursed   Rarity = "CURSED"
	RarityUnique   Rarity = "UNIQUE"
	RarityGlitch   Rarity = "GLITCH"
)

// Roller produces die rolls from a private random source. Construct with
// a fixed seed in tests for deterministic sequences.
type Roller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller seeded from the wall clock.
func NewRoller() *Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller returns a Roller with a deterministic sequence.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// NewRollerFromSource returns a Roller reading from src. Tests script a
// Source to force exact roll outcomes.
func NewRollerFromSource(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// D6 rolls a six-sided die, uniform in [1,6].
func (r *Roller) D6() int {
	return r.rng.Intn(6) + 1
}

// D20 rolls a twenty-sided die, uniform in [1,20].
func (r *Roller) D20() int {
	return r.rng.Intn(20) + 1
}

// Intn returns a uniform value in [0,n). Used for table picks.
func (r *Roller) Intn(n int) int {
	return r.rng.Intn(n)
}

// HybridRoll rolls a d20 and classifies it into a rarity bucket.
func (r *Roller) HybridRoll() (int, Bucket) {
	roll := r.D20()
	return roll, Classify(roll)
}

// Classify maps a d20 roll to its hybrid bucket.
func Classify(roll int) Bucket {
	switch {
	case roll <= 1:
		return CriticalFailure
	case roll == 2:
		return NegativeUnique
	case roll <= 12:
		return Common
	case roll <= 15:
		return Uncommon
	case roll <= 18:
		return Rare
	case roll == 19:
		return PositiveUnique
	default:
		return CriticalSuccess
	}
}
