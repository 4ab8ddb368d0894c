package state

import (
	"github.com/jwebster45206/dreambound/pkg/quest"
)

// The types below mirror the structured-output schemas the narrators are
// asked to fill, so their JSON tags follow the model-facing camelCase
// field names rather than the save format.

// HPUpdate adjusts one party member's HP by a signed delta.
type HPUpdate struct {
	CharID string `json:"charId"`
	Change int    `json:"change"`
}

// Updates is the normalized mechanical effect of one narrated turn,
// applied to the session in a fixed order by the reconciler.
type Updates struct {
	HPUpdates         []HPUpdate    `json:"hpUpdates,omitempty"`
	NewItems          []string      `json:"newItems,omitempty"`
	RemovedItems      []string      `json:"removedItems,omitempty"`
	NewQuests         []quest.Quest `json:"newQuests,omitempty"`
	CompletedQuestIDs []string      `json:"completedQuestIds,omitempty"`
	IsCombat          bool          `json:"isCombat,omitempty"`
}

// ActionResponse is a narrated turn plus its side effects.
type ActionResponse struct {
	Narrative        string  `json:"narrative"`
	LocationName     string  `json:"locationName,omitempty"`
	SuggestedAction  string  `json:"suggestedAction,omitempty"`
	RecruitTriggered bool    `json:"recruitTriggered,omitempty"`
	RecruitName      string  `json:"recruitName,omitempty"`
	Updates          Updates `json:"updates"`

	// GeneratedItems carries encyclopedia entries for items the narrator
	// invented this turn.
	GeneratedItems []ItemEntry `json:"generatedItems,omitempty"`
}

// ActionResolution is the raw flat form the freeform-action narrator
// returns before normalization into Updates.
type ActionResolution struct {
	Narrative         string `json:"narrative"`
	LocationName      string `json:"locationName,omitempty"`
	SuggestedAction   string `json:"suggestedAction,omitempty"`
	IsCombat          bool   `json:"isCombat,omitempty"`
	HPChangePlayer    int    `json:"hpChangePlayer,omitempty"`
	LootFound         bool   `json:"lootFound,omitempty"`
	NewQuestTriggered bool   `json:"newQuestTriggered,omitempty"`
	RecruitTriggered  bool   `json:"recruitTriggered,omitempty"`
	RecruitName       string `json:"recruitName,omitempty"`
	QuestCompletedID  string `json:"questCompletedId,omitempty"`
	RemovedItem       string `json:"removedItem,omitempty"`
}

// MovementNarrative is the short narration for stepping onto a tile.
type MovementNarrative struct {
	Narrative       string `json:"narrative"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// ItemActionKind is how the narrator classified an item use.
type ItemActionKind string

const (
	ItemActionWeapon     ItemActionKind = "WEAPON"
	ItemActionArmor      ItemActionKind = "ARMOR"
	ItemActionConsumable ItemActionKind = "CONSUMABLE"
	ItemActionFlavor     ItemActionKind = "FLAVOR"
	ItemActionCapture    ItemActionKind = "CAPTURE"
)

// ItemActionResponse resolves using an item from the inventory.
type ItemActionResponse struct {
	Type      ItemActionKind `json:"type"`
	Narrative string         `json:"narrative"`
	Stats     *ItemStats     `json:"stats,omitempty"`
	HPChange  int            `json:"hpChange,omitempty"`
	XPChange  int            `json:"xpChange,omitempty"`
}

// QuestOutcomeResponse narrates a quest gamble result. Damage applies to
// the player on a critical failure, capped small.
type QuestOutcomeResponse struct {
	Narrative string `json:"narrative"`
	Damage    int    `json:"damage,omitempty"`
}
