package party

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/dreambound/pkg/dice"
)

func TestXPForNextLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 100},
		{2, 200},
		{3, 400},
		{4, 800},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, XPForNextLevel(tc.level), "level %d", tc.level)
	}
}

func TestMaxPartySize(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 2},
		{3, 2},
		{4, 3},
		{8, 3},
		{9, 4},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaxPartySize(tc.level), "level %d", tc.level)
	}
}

func testMember(name string) Character {
	return Character{
		Name:  name,
		Class: "Scholar",
		HP:    7, MaxHP: 20,
		EP: 1, MaxEP: 10,
		Level: 1,
		Atk:   5, Def: 3,
	}
}

func TestAwardXPNoLevel(t *testing.T) {
	r := dice.NewSeededRoller(1)
	before := []Character{testMember("Ava")}

	after, logs := AwardXP(before, 50, r)

	assert.Empty(t, logs)
	assert.Equal(t, 50, after[0].XP)
	assert.Equal(t, 1, after[0].Level)
	assert.Equal(t, 7, after[0].HP, "no level up means no heal")
	assert.Zero(t, before[0].XP, "input slice must not be mutated")
}

func TestAwardXPSingleLevel(t *testing.T) {
	r := dice.NewSeededRoller(1)
	after, logs := AwardXP([]Character{testMember("Ava")}, 120, r)

	c := after[0]
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 20, c.XP)
	assert.Equal(t, 25, c.MaxHP)
	assert.Equal(t, 25, c.HP, "level up heals to full")
	assert.Equal(t, 12, c.MaxEP)
	assert.Equal(t, 12, c.EP)
	assert.Equal(t, 6, c.Atk)
	assert.Equal(t, 4, c.Def, "def rises on even levels")
	assert.Contains(t, logs, "Ava reached Level 2!")
}

func TestAwardXPMultiLevel(t *testing.T) {
	r := dice.NewSeededRoller(1)
	// 100 + 200 = 300 consumed, 50 left over at level 3.
	after, logs := AwardXP([]Character{testMember("Ava")}, 350, r)

	c := after[0]
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 50, c.XP)
	assert.Equal(t, 30, c.MaxHP)
	assert.Equal(t, 7, c.Atk)
	assert.Equal(t, 4, c.Def, "only level 2 was even")
	assert.Contains(t, logs, "Ava reached Level 2!")
	assert.Contains(t, logs, "Ava reached Level 3!")
}
