package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dreambound/internal/services"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

func TestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("generates and caches tiles", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		gs := startPlaying(e)
		// Stand one tile east of the safe origin with the origin unknown,
		// so both moves resolve without an encounter roll.
		gs.PlayerPos = state.Position{X: 1, Y: 0}
		gs.WorldMap = map[string]world.Cell{
			world.PosKey(1, 0): {X: 1, Y: 0, Name: "Border Field", Visited: true},
		}
		forceRolls(e, 0)

		logs, err := e.Move(ctx, -1, 0)
		require.NoError(t, err)

		snap := e.Snapshot()
		assert.Equal(t, state.Position{X: 0, Y: 0}, snap.PlayerPos)
		require.Len(t, gen.MapCellCalls, 1)
		assert.Equal(t, [2]int{0, 0}, gen.MapCellCalls[0])

		texts := logTexts(logs)
		assert.Contains(t, texts, "> Heading West...")
		assert.Contains(t, texts, "Discovered: Mock Field 0,0")
		assert.Contains(t, texts, "You arrive at Mock Field 0,0.")
		assert.Equal(t, "Look around", snap.CurrentSuggestion.Text)
		assert.Equal(t, 1, snap.TurnCount)

		cell, ok := snap.WorldMap[world.PosKey(0, 0)]
		require.True(t, ok)
		assert.True(t, cell.Visited)

		// Discovery writes the place into the encyclopedia.
		require.Len(t, snap.Encyclopedia.Locations, 1)
		assert.Equal(t, world.PosKey(0, 0), snap.Encyclopedia.Locations[0].ID)
		assert.Equal(t, "Mock Field 0,0", snap.Encyclopedia.Locations[0].Name)

		// Re-entering the tile must reuse the cached cell.
		e.gs.PlayerPos = state.Position{X: 1, Y: 0}
		logs, err = e.Move(ctx, -1, 0)
		require.NoError(t, err)
		assert.Len(t, gen.MapCellCalls, 1)
		assert.Contains(t, logTexts(logs), "You return to Mock Field 0,0.")
		assert.Len(t, e.Snapshot().Encyclopedia.Locations, 1)
	})

	t.Run("blocked during combat", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		gs := startPlaying(e)
		gs.Status = state.StatusCombat

		_, err := e.Move(ctx, 0, 1)
		assert.ErrorIs(t, err, ErrBadStatus)
	})
}

func TestFreeformAction(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves through the narrator", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		startPlaying(e)
		forceRolls(e, 0)

		logs, err := e.FreeformAction(ctx, "poke the mist")
		require.NoError(t, err)
		assert.Equal(t, []string{"poke the mist"}, gen.ResolveActionCalls)

		texts := logTexts(logs)
		assert.Contains(t, texts, "> poke the mist")
		assert.Contains(t, texts, "Mock resolution of: poke the mist")

		snap := e.Snapshot()
		assert.Equal(t, 1, snap.TurnCount)
		assert.Equal(t, "Continue", snap.CurrentSuggestion.Text)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		startPlaying(e)

		_, err := e.FreeformAction(ctx, "   ")
		assert.Error(t, err)
	})

	t.Run("cancel discards the turn", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		startPlaying(e)
		forceRolls(e, 0)
		gen.ResolveActionFunc = func(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error) {
			e.Cancel()
			return &state.ActionResolution{Narrative: "too late"}, nil
		}

		_, err := e.FreeformAction(ctx, "open the gate")
		assert.ErrorIs(t, err, ErrCancelled)

		snap := e.Snapshot()
		assert.Equal(t, 0, snap.TurnCount)
		assert.Empty(t, snap.History)
	})
}

// trackedQuestState seeds a playing state with one untyped active quest
// pinned to the current suggestion, arming the gamble path.
func trackedQuestState(e *Engine, kind quest.Kind) *state.GameState {
	gs := startPlaying(e)
	gs.Quests = append(gs.Quests, quest.Quest{
		ID:      "q1",
		Title:   "The Sealed Door",
		Kind:    kind,
		Status:  quest.StatusActive,
		Rewards: quest.Rewards{XP: 50},
	})
	gs.CurrentSuggestion = state.Suggestion{Text: "Attempt the ritual", QuestID: "q1"}
	return gs
}

func TestQuestGamble(t *testing.T) {
	ctx := context.Background()

	t.Run("critical success completes the quest", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		trackedQuestState(e, quest.KindMinor)
		forceRolls(e, 5) // d6 == 6

		logs, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)

		texts := logTexts(logs)
		assert.Contains(t, texts, "(Dice Roll: 6) Critical Success!")
		assert.Contains(t, texts, "Mock triumph.")
		assert.Contains(t, texts, "Quest Complete! Gained 50 XP.")
		assert.Contains(t, texts, "Quest Completed: The Sealed Door")

		snap := e.Snapshot()
		assert.Equal(t, quest.StatusCompleted, snap.QuestByID("q1").Status)
		assert.Equal(t, 50, snap.Player.XP)
		assert.Equal(t, "Look around", snap.CurrentSuggestion.Text)
		assert.Equal(t, state.StatusPlaying, snap.Status)
		assert.Empty(t, gen.ResolveActionCalls)
	})

	t.Run("critical success at the level cap ends the run", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		gs := trackedQuestState(e, quest.KindMinor)
		gs.Player.Level = state.LevelCap
		gs.Party[0].Level = state.LevelCap
		forceRolls(e, 5)

		logs, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)

		texts := logTexts(logs)
		assert.Contains(t, texts, "The fabric of the dream begins to tear... (Destiny Fulfilled)")
		assert.Contains(t, texts, "Mock ending: the dream closes.")

		snap := e.Snapshot()
		assert.Equal(t, state.StatusEnding, snap.Status)
		assert.Equal(t, "Game Over", snap.CurrentSuggestion.Text)
		assert.Equal(t, 1, gen.EndingCalls)
	})

	t.Run("roll of two springs an ambush", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		trackedQuestState(e, quest.KindMinor)
		// d6 == 2, then a natural 20 sends enemy sourcing to the generator.
		forceRolls(e, 1, 19)

		logs, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)
		assert.Contains(t, logTexts(logs), "(Dice Roll: 2) Ambush! The action attracts unwanted attention.")

		snap := e.Snapshot()
		assert.Equal(t, state.StatusCombat, snap.Status)
		require.NotNil(t, snap.Combat)
		require.Len(t, snap.Combat.ActiveEnemies, 1)
		assert.Equal(t, "Mock Shade", snap.Combat.ActiveEnemies[0].Name)
		assert.Len(t, snap.Encyclopedia.Enemies, 1)
		assert.Equal(t, []int{1}, gen.EnemyCalls)
	})

	t.Run("critical failure hurts and can kill", func(t *testing.T) {
		gen := services.NewMockGenerator()
		gen.QuestOutcomeFunc = func(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error) {
			return &state.QuestOutcomeResponse{Narrative: "The ground gives way.", Damage: 999}, nil
		}
		e, _ := newTestEngine(gen)
		trackedQuestState(e, quest.KindMinor)
		forceRolls(e, 0) // d6 == 1

		logs, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)

		texts := logTexts(logs)
		assert.Contains(t, texts, "(Dice Roll: 1) Critical Failure!")
		assert.Contains(t, texts, "The ground gives way.")
		assert.Contains(t, texts, "You took 999 damage.")
		assert.Contains(t, texts, "The failure was fatal. You have died...")

		snap := e.Snapshot()
		assert.Equal(t, state.StatusEnding, snap.Status)
		assert.Equal(t, 0, snap.Player.HP)
		assert.Equal(t, "Game Over", snap.CurrentSuggestion.Text)
	})

	t.Run("survivable failure fails the quest", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		trackedQuestState(e, quest.KindMinor)
		forceRolls(e, 0) // d6 == 1, default mock backlash is 2 damage

		logs, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)

		texts := logTexts(logs)
		assert.Contains(t, texts, "You took 2 damage.")
		assert.Contains(t, texts, "Quest Failed: The Sealed Door")

		snap := e.Snapshot()
		assert.Equal(t, state.StatusPlaying, snap.Status)
		assert.Equal(t, quest.StatusFailed, snap.QuestByID("q1").Status)
		assert.Equal(t, 28, snap.Player.HP)
	})

	t.Run("middle roll falls through to the narrator", func(t *testing.T) {
		gen := services.NewMockGenerator()
		e, _ := newTestEngine(gen)
		trackedQuestState(e, quest.KindMinor)
		forceRolls(e, 3) // d6 == 4

		_, err := e.FreeformAction(ctx, "Attempt the ritual")
		require.NoError(t, err)
		assert.Equal(t, []string{"Attempt the ritual"}, gen.ResolveActionCalls)

		snap := e.Snapshot()
		assert.True(t, snap.QuestByID("q1").IsActive())
	})
}
