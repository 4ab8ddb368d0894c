package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/state"
)

func combatant(name string, atk, def, hp int) party.Character {
	return party.Character{
		ID: name, Name: name,
		HP: hp, MaxHP: hp,
		EP: 10, MaxEP: 10,
		Level: 1, Atk: atk, Def: def,
	}
}

func encounterState(playerAtk, enemyHP, enemyAtk int) *state.GameState {
	gs := state.NewGameState(func(n int) int { return 0 })
	gs.Player = combatant("player", playerAtk, 1, 30)
	gs.Player.IsPlayer = true
	gs.Party = []party.Character{gs.Player}
	gs.Status = state.StatusCombat
	gs.Combat = &state.Encounter{
		ActiveEnemies: []party.Enemy{{
			Character: combatant("slime", enemyAtk, 0, enemyHP),
			XPValue:   5,
		}},
	}
	return gs
}

func TestCalculateDamageMinimumOne(t *testing.T) {
	r := dice.NewSeededRoller(1)
	weak := combatant("weak", 0, 0, 10)
	tank := combatant("tank", 0, 100, 50)

	for i := 0; i < 20; i++ {
		hit := CalculateDamage(&weak, &tank, nil, nil, r)
		assert.GreaterOrEqual(t, hit.Damage, 1)
	}
}

func TestCalculateDamageFocusForcesCrit(t *testing.T) {
	r := dice.NewSeededRoller(1)
	att := combatant("att", 10, 0, 10)
	att.AddEffect(party.EffectCritNext, 1)
	def := combatant("def", 0, 0, 10)

	hit := CalculateDamage(&att, &def, nil, nil, r)
	assert.True(t, hit.IsCrit)
	// (10 + d6) * 1.5 floored.
	assert.GreaterOrEqual(t, hit.Damage, 16)
	assert.LessOrEqual(t, hit.Damage, 24)
}

func TestCalculateDamageWeaknessAndMagicPierce(t *testing.T) {
	r := dice.NewSeededRoller(5)
	att := combatant("att", 5, 0, 10)
	def := combatant("def", 0, 4, 10)
	skill, ok := party.SkillByID("fireball_lesser")
	require.True(t, ok)
	require.Equal(t, party.SkillMagic, skill.Type)

	hit := CalculateDamage(&att, &def, []party.SkillType{party.SkillMagic}, &skill, r)
	assert.True(t, hit.WeaknessHit)
	// Base: 5 + power + 2 magic pierce - 4 def, then d6, then x1.5.
	assert.Greater(t, hit.Damage, 1)
}

func TestResolveRoundVictory(t *testing.T) {
	gs := encounterState(10, 1, 1)
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionAttack, nil, r)
	require.NoError(t, err)

	assert.True(t, out.PlayerWon)
	assert.False(t, out.PlayerDied)
	require.Len(t, out.Defeated, 1)
	assert.Equal(t, "slime", out.Defeated[0].Name)
	assert.Nil(t, out.State.Combat)
	assert.Equal(t, state.StatusPlaying, out.State.Status)

	// Input state untouched.
	assert.NotNil(t, gs.Combat)
	assert.Equal(t, 1, gs.Combat.ActiveEnemies[0].HP)
}

func TestResolveRoundEnemyRetaliates(t *testing.T) {
	gs := encounterState(1, 100, 5)
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionAttack, nil, r)
	require.NoError(t, err)

	assert.False(t, out.PlayerWon)
	assert.Less(t, out.State.Player.HP, 30, "the surviving enemy hits back")
	assert.Equal(t, out.State.Player.HP, out.State.Party[0].HP)
}

func TestResolveRoundPlayerDeath(t *testing.T) {
	gs := encounterState(1, 100, 50)
	gs.Player.HP = 1
	gs.Party[0].HP = 1
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionAttack, nil, r)
	require.NoError(t, err)

	assert.True(t, out.PlayerDied)
	assert.Equal(t, 0, out.State.Player.HP)
	assert.Equal(t, "You have fallen in battle...", out.Logs[len(out.Logs)-1])
}

func TestResolveRoundStunnedPlayerSkipsTurn(t *testing.T) {
	gs := encounterState(10, 50, 1)
	gs.Player.AddEffect(party.EffectStunned, 1)
	gs.Party[0] = gs.Player
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionAttack, nil, r)
	require.NoError(t, err)

	assert.Equal(t, "You are stunned and cannot act!", out.Logs[0])
	assert.Equal(t, 50, out.State.Combat.ActiveEnemies[0].HP, "no player damage dealt")
	assert.False(t, out.State.Player.HasEffect(party.EffectStunned), "stun is consumed")
	assert.Less(t, out.State.Player.HP, 30, "the enemy still acts")
}

func TestResolveRoundStunnedEnemySkipsTurn(t *testing.T) {
	gs := encounterState(1, 100, 50)
	gs.Combat.ActiveEnemies[0].AddEffect(party.EffectStunned, 1)
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionDefend, nil, r)
	require.NoError(t, err)

	assert.Equal(t, 30, out.State.Player.HP, "stunned enemy deals nothing")
	assert.False(t, out.State.Combat.ActiveEnemies[0].HasEffect(party.EffectStunned))
}

func TestResolveRoundSkillConsumesEP(t *testing.T) {
	gs := encounterState(5, 100, 1)
	skill, ok := party.SkillByID("heal_lesser")
	require.True(t, ok)
	r := dice.NewSeededRoller(1)

	out, err := ResolveRound(gs, ActionSkill, &skill, r)
	require.NoError(t, err)
	assert.Equal(t, 10-skill.Cost, out.State.Player.EP)
}

func TestResolveRoundFleeEventuallyBothWays(t *testing.T) {
	var fled, failed int
	for seed := int64(0); seed < 40; seed++ {
		gs := encounterState(1, 100, 1)
		r := dice.NewSeededRoller(seed)
		out, err := ResolveRound(gs, ActionFlee, nil, r)
		require.NoError(t, err)
		if out.Fled {
			fled++
			assert.Nil(t, out.State.Combat)
		} else {
			failed++
			assert.NotNil(t, out.State.Combat)
		}
	}
	assert.Positive(t, fled)
	assert.Positive(t, failed)
}

func TestResolveRoundNoCombat(t *testing.T) {
	gs := state.NewGameState(func(n int) int { return 0 })
	_, err := ResolveRound(gs, ActionAttack, nil, dice.NewSeededRoller(1))
	assert.Error(t, err)
}
