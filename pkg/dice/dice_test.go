package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		roll     int
		expected Bucket
	}{
		{1, CriticalFailure},
		{2, NegativeUnique},
		{3, Common},
		{10, Common},
		{12, Common},
		{13, Uncommon},
		{15, Uncommon},
		{16, Rare},
		{18, Rare},
		{19, PositiveUnique},
		{20, CriticalSuccess},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.roll), "roll %d", tt.roll)
	}
}

func TestRollerBounds(t *testing.T) {
	r := NewSeededRoller(42)

	for i := 0; i < 1000; i++ {
		d6 := r.D6()
		if d6 < 1 || d6 > 6 {
			t.Fatalf("D6 out of range: %d", d6)
		}
		d20 := r.D20()
		if d20 < 1 || d20 > 20 {
			t.Fatalf("D20 out of range: %d", d20)
		}
	}
}

func TestRollerDeterministic(t *testing.T) {
	a := NewSeededRoller(7)
	b := NewSeededRoller(7)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.D20(), b.D20())
	}
}

func TestHybridRollMatchesClassify(t *testing.T) {
	r := NewSeededRoller(99)
	for i := 0; i < 200; i++ {
		roll, bucket := r.HybridRoll()
		assert.Equal(t, Classify(roll), bucket)
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		bucket       Bucket
		useGenerator bool
		fallback     Rarity
	}{
		{CriticalFailure, true, RarityCommon},
		{NegativeUnique, true, RarityCommon},
		{Common, false, RarityCommon},
		{Uncommon, false, RarityUncommon},
		{Rare, false, RarityRare},
		{PositiveUnique, true, RarityUncommon},
		{CriticalSuccess, true, RarityRare},
	}

	for _, tt := range tests {
		p := PolicyFor(tt.bucket)
		assert.Equal(t, tt.useGenerator, p.UseGenerator, "bucket %s", tt.bucket)
		assert.Equal(t, tt.fallback, p.Fallback, "bucket %s", tt.bucket)
	}
}
