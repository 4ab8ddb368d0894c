package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

var errBackendDown = errors.New("model unavailable")

// failingGenerator returns a mock whose every method errors.
func failingGenerator() *MockGenerator {
	m := NewMockGenerator()
	m.StartNewGameFunc = func(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error) {
		return nil, errBackendDown
	}
	m.NarrateMovementFunc = func(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error) {
		return nil, errBackendDown
	}
	m.NarrateInteractionFunc = func(ctx context.Context, action string, history []string) (string, error) {
		return "", errBackendDown
	}
	m.ResolveActionFunc = func(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error) {
		return nil, errBackendDown
	}
	m.GenerateMapCellFunc = func(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error) {
		return nil, errBackendDown
	}
	m.ObjectDetailsFunc = func(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error) {
		return "", errBackendDown
	}
	m.GenerateUniqueItemFunc = func(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error) {
		return nil, errBackendDown
	}
	m.AppraiseItemFunc = func(ctx context.Context, itemName string) (*state.ItemEntry, error) {
		return nil, errBackendDown
	}
	m.GenerateUniqueClassFunc = func(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error) {
		return nil, errBackendDown
	}
	m.GenerateCompanionFunc = func(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error) {
		return nil, errBackendDown
	}
	m.GenerateQuestFunc = func(ctx context.Context, narrativeContext string) (*quest.Quest, error) {
		return nil, errBackendDown
	}
	m.GenerateUniqueEnemyFunc = func(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error) {
		return nil, errBackendDown
	}
	m.IdentifyItemActionFunc = func(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error) {
		return nil, errBackendDown
	}
	m.CombatNarrativeFunc = func(ctx context.Context, logs []string) (string, error) {
		return "", errBackendDown
	}
	m.QuestOutcomeFunc = func(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error) {
		return nil, errBackendDown
	}
	m.GenerateEndingFunc = func(ctx context.Context, history []string) (string, error) {
		return "", errBackendDown
	}
	return m
}

func newTestFallback(t *testing.T, inner Generator) *FallbackGenerator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewFallbackGenerator(inner, logger)
}

func TestFallbackGenerator_DegradesOnError(t *testing.T) {
	ctx := context.Background()
	f := newTestFallback(t, failingGenerator())

	t.Run("start new game", func(t *testing.T) {
		resp, err := f.StartNewGame(ctx, "Aria", party.GenderFemale, content.ClassTemplate{Name: "Mage"})
		require.NoError(t, err)
		assert.Equal(t, "Silent Void", resp.LocationName)
		assert.Contains(t, resp.Narrative, "Offline/Glitch Mode Active")
		assert.Equal(t, "Wait for clarity", resp.SuggestedAction)
	})

	t.Run("movement", func(t *testing.T) {
		out, err := f.NarrateMovement(ctx, world.Cell{Name: "Emberfall"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "You step into Emberfall. The environment flickers.", out.Narrative)
		assert.Equal(t, "Look around", out.SuggestedAction)
	})

	t.Run("interaction echoes the action", func(t *testing.T) {
		out, err := f.NarrateInteraction(ctx, "I open the chest.", nil)
		require.NoError(t, err)
		assert.Equal(t, "I open the chest.", out)
	})

	t.Run("freeform action", func(t *testing.T) {
		out, err := f.ResolveAction(ctx, "I sing to the moon.", &state.GameState{})
		require.NoError(t, err)
		assert.Contains(t, out.Narrative, "AI Connection Unstable")
		assert.False(t, out.IsCombat)
	})

	t.Run("map cell", func(t *testing.T) {
		cell, err := f.GenerateMapCell(ctx, 3, -2, 1, nil)
		require.NoError(t, err)
		assert.Equal(t, "Unstable Reality", cell.Name)
		assert.Equal(t, "Glitch Landscape", cell.Biome)
		assert.Equal(t, 3, cell.X)
		assert.Equal(t, -2, cell.Y)
		assert.True(t, cell.Visited)
		assert.Empty(t, cell.Objects)
	})

	t.Run("object details", func(t *testing.T) {
		out, err := f.ObjectDetails(ctx, "Old Well", world.ObjectResource, "a village")
		require.NoError(t, err)
		assert.Equal(t, "A generic object.", out)
	})

	t.Run("unique item", func(t *testing.T) {
		item, err := f.GenerateUniqueItem(ctx, dice.RarityRare, dice.CriticalSuccess)
		require.NoError(t, err)
		assert.Equal(t, "Glitched RARE Item", item.Name)
		assert.Equal(t, dice.RarityRare, item.Rarity)
	})

	t.Run("appraisal", func(t *testing.T) {
		item, err := f.AppraiseItem(ctx, "Strange Orb")
		require.NoError(t, err)
		assert.Equal(t, "Strange Orb", item.Name)
		assert.Equal(t, "JUNK", item.Category)
		assert.Equal(t, 1, item.Value)
		assert.Equal(t, "The item defies analysis.", item.Description)
	})

	t.Run("class", func(t *testing.T) {
		class, err := f.GenerateUniqueClass(ctx, dice.CriticalFailure)
		require.NoError(t, err)
		assert.Equal(t, "Glitch Walker", class.Name)
		assert.Equal(t, content.ClassStats{Atk: 2, Def: 2, HP: 5}, class.Stats)
	})

	t.Run("companion", func(t *testing.T) {
		c, err := f.GenerateCompanion(ctx, "Bren", 3, "obj_123")
		require.NoError(t, err)
		assert.Equal(t, "Bren", c.Name)
		assert.Equal(t, "Survivor", c.Class)
		assert.Equal(t, "obj_123", c.OriginID)
		assert.Equal(t, 10, c.MaxHP)
	})

	t.Run("quest", func(t *testing.T) {
		q, err := f.GenerateQuest(ctx, "some narrative")
		require.NoError(t, err)
		assert.Equal(t, "Mystery Quest", q.Title)
		assert.Equal(t, quest.KindMinor, q.Kind)
		assert.Equal(t, 50, q.Rewards.XP)
	})

	t.Run("enemy substitutes a distorted stock pick", func(t *testing.T) {
		e, err := f.GenerateUniqueEnemy(ctx, 2, dice.CriticalSuccess)
		require.NoError(t, err)
		assert.Contains(t, e.Name, "(Illusion)")
		assert.Contains(t, e.Description, "slightly distorted")
		assert.Equal(t, dice.RarityUnique, e.Rarity)
		assert.Greater(t, e.MaxHP, 0)
	})

	t.Run("glitch enemy on critical failure", func(t *testing.T) {
		e, err := f.GenerateUniqueEnemy(ctx, 2, dice.CriticalFailure)
		require.NoError(t, err)
		assert.Equal(t, dice.RarityGlitch, e.Rarity)
	})

	t.Run("item action", func(t *testing.T) {
		out, err := f.IdentifyItemAction(ctx, "Dull Stone", "")
		require.NoError(t, err)
		assert.Equal(t, state.ItemActionFlavor, out.Type)
		assert.Contains(t, out.Narrative, "Dull Stone")
	})

	t.Run("combat summary", func(t *testing.T) {
		out, err := f.CombatNarrative(ctx, []string{"You hit the wolf."})
		require.NoError(t, err)
		assert.Equal(t, "The battle rages on, a blur of motion and steel.", out)
	})

	t.Run("quest outcome", func(t *testing.T) {
		win, err := f.QuestOutcome(ctx, "The Hunt", "I strike", true, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, win.Damage)

		loss, err := f.QuestOutcome(ctx, "The Hunt", "I strike", false, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, loss.Damage)
		assert.Contains(t, loss.Narrative, "backlash")
	})

	t.Run("ending", func(t *testing.T) {
		out, err := f.GenerateEnding(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "The dream fades, and you wake up... or do you?", out)
	})
}

func TestFallbackGenerator_PassesThroughOnSuccess(t *testing.T) {
	ctx := context.Background()
	inner := NewMockGenerator()
	f := newTestFallback(t, inner)

	out, err := f.ResolveAction(ctx, "I wave.", &state.GameState{})
	require.NoError(t, err)
	assert.Equal(t, "Mock resolution of: I wave.", out.Narrative)
	assert.Len(t, inner.ResolveActionCalls, 1)

	cell, err := f.GenerateMapCell(ctx, 1, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "Mock Field 1,1", cell.Name)
}

func TestFallbackGenerator_FiltersNarration(t *testing.T) {
	ctx := context.Background()
	inner := NewMockGenerator()
	inner.CombatNarrativeFunc = func(ctx context.Context, logs []string) (string, error) {
		return "```\nThe damn wyrm finally falls.\n```", nil
	}
	f := newTestFallback(t, inner)

	out, err := f.CombatNarrative(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "The dang wyrm finally falls.", out)
}
