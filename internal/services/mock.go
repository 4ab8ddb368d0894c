package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// MockGenerator is a mock implementation of Generator for testing.
// Default behavior returns plain deterministic payloads; set the Func
// fields to override individual methods.
type MockGenerator struct {
	StartNewGameFunc        func(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error)
	NarrateMovementFunc     func(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error)
	NarrateInteractionFunc  func(ctx context.Context, action string, history []string) (string, error)
	ResolveActionFunc       func(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error)
	GenerateMapCellFunc     func(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error)
	ObjectDetailsFunc       func(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error)
	GenerateUniqueItemFunc  func(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error)
	AppraiseItemFunc        func(ctx context.Context, itemName string) (*state.ItemEntry, error)
	GenerateUniqueClassFunc func(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error)
	GenerateCompanionFunc   func(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error)
	GenerateQuestFunc       func(ctx context.Context, narrativeContext string) (*quest.Quest, error)
	GenerateUniqueEnemyFunc func(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error)
	IdentifyItemActionFunc  func(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error)
	CombatNarrativeFunc     func(ctx context.Context, logs []string) (string, error)
	QuestOutcomeFunc        func(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error)
	GenerateEndingFunc      func(ctx context.Context, history []string) (string, error)

	// Track calls for testing
	ResolveActionCalls   []string
	MovementCalls        []world.Cell
	InteractionCalls     []string
	MapCellCalls         [][2]int
	QuestCalls           []string
	CompanionCalls       []string
	EnemyCalls           []int
	ItemActionCalls      []string
	CombatNarrativeCalls [][]string
	EndingCalls          int

	mu sync.Mutex // protects all fields above
}

// NewMockGenerator creates a new mock narrative backend.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Reset clears all recorded calls.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveActionCalls = nil
	m.MovementCalls = nil
	m.InteractionCalls = nil
	m.MapCellCalls = nil
	m.QuestCalls = nil
	m.CompanionCalls = nil
	m.EnemyCalls = nil
	m.ItemActionCalls = nil
	m.CombatNarrativeCalls = nil
	m.EndingCalls = 0
}

func (m *MockGenerator) StartNewGame(ctx context.Context, name string, gender party.Gender, class content.ClassTemplate) (*state.ActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StartNewGameFunc != nil {
		return m.StartNewGameFunc(ctx, name, gender, class)
	}
	return &state.ActionResponse{
		Narrative:       fmt.Sprintf("%s the %s awakens at the edge of the dream.", name, class.Name),
		LocationName:    "The Awakening Stone",
		SuggestedAction: "Look around",
	}, nil
}

func (m *MockGenerator) NarrateMovement(ctx context.Context, cell world.Cell, history []string) (*state.MovementNarrative, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MovementCalls = append(m.MovementCalls, cell)
	if m.NarrateMovementFunc != nil {
		return m.NarrateMovementFunc(ctx, cell, history)
	}
	return &state.MovementNarrative{
		Narrative:       fmt.Sprintf("You arrive at %s.", cell.Name),
		SuggestedAction: "Look around",
	}, nil
}

func (m *MockGenerator) NarrateInteraction(ctx context.Context, action string, history []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InteractionCalls = append(m.InteractionCalls, action)
	if m.NarrateInteractionFunc != nil {
		return m.NarrateInteractionFunc(ctx, action, history)
	}
	return "Mock narration: " + action, nil
}

func (m *MockGenerator) ResolveAction(ctx context.Context, action string, gs *state.GameState) (*state.ActionResolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveActionCalls = append(m.ResolveActionCalls, action)
	if m.ResolveActionFunc != nil {
		return m.ResolveActionFunc(ctx, action, gs)
	}
	return &state.ActionResolution{
		Narrative:       "Mock resolution of: " + action,
		SuggestedAction: "Continue",
	}, nil
}

func (m *MockGenerator) GenerateMapCell(ctx context.Context, x, y, playerLevel int, history []string) (*world.Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MapCellCalls = append(m.MapCellCalls, [2]int{x, y})
	if m.GenerateMapCellFunc != nil {
		return m.GenerateMapCellFunc(ctx, x, y, playerLevel, history)
	}
	return &world.Cell{
		X:           x,
		Y:           y,
		Name:        fmt.Sprintf("Mock Field %d,%d", x, y),
		Description: "A quiet stretch of dreamland.",
		Type:        world.CellWilderness,
		Biome:       "Plains",
		Visited:     true,
	}, nil
}

func (m *MockGenerator) ObjectDetails(ctx context.Context, name string, objType world.ObjectType, locationContext string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ObjectDetailsFunc != nil {
		return m.ObjectDetailsFunc(ctx, name, objType, locationContext)
	}
	return fmt.Sprintf("A closer look at %s.", name), nil
}

func (m *MockGenerator) GenerateUniqueItem(ctx context.Context, rarity dice.Rarity, bucket dice.Bucket) (*state.ItemEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GenerateUniqueItemFunc != nil {
		return m.GenerateUniqueItemFunc(ctx, rarity, bucket)
	}
	return &state.ItemEntry{
		ID:          "item_" + uuid.NewString(),
		Name:        fmt.Sprintf("Mock %s Trinket", rarity),
		Description: "A test item.",
		Rarity:      rarity,
	}, nil
}

func (m *MockGenerator) AppraiseItem(ctx context.Context, itemName string) (*state.ItemEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AppraiseItemFunc != nil {
		return m.AppraiseItemFunc(ctx, itemName)
	}
	return &state.ItemEntry{
		ID:          "item_appraised_" + uuid.NewString(),
		Name:        itemName,
		Description: "An ordinary item of modest worth.",
		Rarity:      dice.RarityCommon,
		Category:    "SPECIAL",
		Value:       5,
	}, nil
}

func (m *MockGenerator) GenerateUniqueClass(ctx context.Context, bucket dice.Bucket) (*content.ClassTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GenerateUniqueClassFunc != nil {
		return m.GenerateUniqueClassFunc(ctx, bucket)
	}
	return &content.ClassTemplate{
		Name:        "Mock Adept",
		Description: "A test class.",
		Stats:       content.ClassStats{Atk: 3, Def: 2, HP: 8},
	}, nil
}

func (m *MockGenerator) GenerateCompanion(ctx context.Context, name string, playerLevel int, originID string) (*party.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompanionCalls = append(m.CompanionCalls, name)
	if m.GenerateCompanionFunc != nil {
		return m.GenerateCompanionFunc(ctx, name, playerLevel, originID)
	}
	return &party.Character{
		ID:       "char_" + uuid.NewString(),
		Name:     name,
		Class:    "Adventurer",
		HP:       12,
		MaxHP:    12,
		EP:       10,
		MaxEP:    10,
		Level:    playerLevel,
		Atk:      3,
		Def:      2,
		OriginID: originID,
	}, nil
}

func (m *MockGenerator) GenerateQuest(ctx context.Context, narrativeContext string) (*quest.Quest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestCalls = append(m.QuestCalls, narrativeContext)
	if m.GenerateQuestFunc != nil {
		return m.GenerateQuestFunc(ctx, narrativeContext)
	}
	return &quest.Quest{
		Title:       "Mock Quest",
		Description: "A test quest.",
		Kind:        quest.KindMinor,
		Status:      quest.StatusActive,
		Rewards:     quest.Rewards{XP: 50},
	}, nil
}

func (m *MockGenerator) GenerateUniqueEnemy(ctx context.Context, playerLevel int, bucket dice.Bucket) (*party.Enemy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnemyCalls = append(m.EnemyCalls, playerLevel)
	if m.GenerateUniqueEnemyFunc != nil {
		return m.GenerateUniqueEnemyFunc(ctx, playerLevel, bucket)
	}
	hp := 10 + playerLevel*4
	return &party.Enemy{
		Character: party.Character{
			ID:    "enemy_" + uuid.NewString(),
			Name:  "Mock Shade",
			HP:    hp,
			MaxHP: hp,
			EP:    10,
			MaxEP: 10,
			Level: playerLevel,
			Atk:   2 + playerLevel,
			Def:   playerLevel / 2,
		},
		Description: "A test enemy.",
		XPValue:     10 + playerLevel*5,
		Rarity:      dice.RarityUnique,
	}, nil
}

func (m *MockGenerator) IdentifyItemAction(ctx context.Context, item, itemContext string) (*state.ItemActionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemActionCalls = append(m.ItemActionCalls, item)
	if m.IdentifyItemActionFunc != nil {
		return m.IdentifyItemActionFunc(ctx, item, itemContext)
	}
	return &state.ItemActionResponse{
		Type:      state.ItemActionFlavor,
		Narrative: fmt.Sprintf("You turn the %s over in your hands.", item),
	}, nil
}

func (m *MockGenerator) CombatNarrative(ctx context.Context, logs []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CombatNarrativeCalls = append(m.CombatNarrativeCalls, logs)
	if m.CombatNarrativeFunc != nil {
		return m.CombatNarrativeFunc(ctx, logs)
	}
	return "The clash ends as quickly as it began.", nil
}

func (m *MockGenerator) QuestOutcome(ctx context.Context, questTitle, action string, success bool, history []string) (*state.QuestOutcomeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QuestOutcomeFunc != nil {
		return m.QuestOutcomeFunc(ctx, questTitle, action, success, history)
	}
	if success {
		return &state.QuestOutcomeResponse{Narrative: "Mock triumph."}, nil
	}
	return &state.QuestOutcomeResponse{Narrative: "Mock setback.", Damage: 2}, nil
}

func (m *MockGenerator) GenerateEnding(ctx context.Context, history []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndingCalls++
	if m.GenerateEndingFunc != nil {
		return m.GenerateEndingFunc(ctx, history)
	}
	return "Mock ending: the dream closes.", nil
}
