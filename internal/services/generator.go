package services

import (
	"context"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// Generator is the narrative backend. Every method is one model call; the
// dice-gated choice between stock tables and generation lives in the Roll*
// helpers, not here. Implementations return errors; wrap with
// NewFallbackGenerator to degrade to canned payloads instead.
type Generator interface {
	// StartNewGame narrates the opening scene for a fresh character.
	StartNewGame(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error)

	// NarrateMovement describes arrival at a cell.
	NarrateMovement(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error)

	// NarrateInteraction narrates a deterministic action's outcome.
	NarrateInteraction(ctx context.Context, action string, history []string) (string, error)

	// ResolveAction adjudicates a freeform player action.
	ResolveAction(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error)

	// GenerateMapCell invents the tile at (x, y).
	GenerateMapCell(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error)

	// ObjectDetails lazily describes a map object.
	ObjectDetails(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error)

	// GenerateUniqueItem invents an item for the unique roll buckets.
	GenerateUniqueItem(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error)

	// AppraiseItem identifies an item's category, value and stats.
	AppraiseItem(ctx context.Context, itemName string) (*state.ItemEntry, error)

	// GenerateUniqueClass invents a class for the unique roll buckets.
	GenerateUniqueClass(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error)

	// GenerateCompanion fleshes out a recruited character.
	GenerateCompanion(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error)

	// GenerateQuest invents a quest from narrative context.
	GenerateQuest(ctx context.Context, narrativeContext string) (*quest.Quest, error)

	// GenerateUniqueEnemy invents an enemy for the unique roll buckets.
	GenerateUniqueEnemy(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error)

	// IdentifyItemAction resolves using an inventory item.
	IdentifyItemAction(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error)

	// CombatNarrative summarizes a combat log in prose.
	CombatNarrative(ctx context.Context, logs []string) (string, error)

	// QuestOutcome narrates a quest gamble's result.
	QuestOutcome(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error)

	// GenerateEnding writes the closing scene from the session history.
	GenerateEnding(ctx context.Context, history []string) (string, error)
}
