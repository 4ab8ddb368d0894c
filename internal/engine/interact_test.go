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

// withObject places an object on the player's current tile.
func withObject(gs *state.GameState, obj world.Object) {
	key := world.PosKey(gs.PlayerPos.X, gs.PlayerPos.Y)
	cell := gs.WorldMap[key]
	cell.Objects = append(cell.Objects, obj)
	gs.WorldMap[key] = cell
}

func TestSpecialInteraction_EnterDungeon(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	cell := gs.WorldMap[world.PosKey(0, 0)]
	cell.Type = world.CellDungeon
	gs.WorldMap[world.PosKey(0, 0)] = cell

	enter := world.SpecialAction{
		Label: "Enter Dungeon", Action: world.ActionEnterDungeon,
		Icon: world.IconInteract, ObjectID: world.DungeonEntranceID,
	}

	logs, err := e.SpecialInteraction(context.Background(), enter)
	require.NoError(t, err)

	texts := logTexts(logs)
	assert.Contains(t, texts, "Quest Accepted: Delve: The Awakening Stone")
	assert.Contains(t, texts, "You descend into the darkness...")

	snap := e.Snapshot()
	q := snap.QuestByID("dungeon_quest_0_0")
	require.NotNil(t, q)
	assert.Equal(t, quest.CriteriaCombat, q.Criteria)

	// Entering again must not stack a second delve quest.
	logs, err = e.SpecialInteraction(context.Background(), enter)
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "You are already exploring this dungeon.")
	assert.Len(t, e.Snapshot().Quests, 1)
}

func TestSpecialInteraction_Rest(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	withObject(gs, world.Object{ID: "obj_healer", Name: "Village Healer", Type: world.ObjectHealer, IsDetailed: true})
	gs.Player.HP = 5
	gs.Player.EP = 2
	gs.Party[0] = gs.Player

	logs, err := e.SpecialInteraction(context.Background(), world.SpecialAction{
		Label: "Heal", Action: "I rest at the healer.", Icon: world.IconRest, ObjectID: "obj_healer",
	})
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "You rest. The party's health and energy are fully restored.")

	snap := e.Snapshot()
	assert.Equal(t, snap.Player.MaxHP, snap.Player.HP)
	assert.Equal(t, snap.Player.MaxEP, snap.Player.EP)
	assert.Equal(t, 1, snap.TurnCount)
}

func TestSpecialInteraction_OpensLootChest(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	withObject(gs, world.Object{ID: "obj_chest", Name: "Old Chest", Type: world.ObjectLoot})
	// Hybrid d20 of 5 picks the common table's first item; gold roll 15.
	forceRolls(e, 4, 0, 15)

	logs, err := e.SpecialInteraction(context.Background(), world.SpecialAction{
		Label: "Open", Action: "I open the Old Chest.", Icon: world.IconInteract, ObjectID: "obj_chest",
	})
	require.NoError(t, err)

	texts := logTexts(logs)
	assert.Contains(t, texts, "Examining Old Chest...")
	assert.Contains(t, texts, "You found Iron Sword and 25 gold!")
	assert.Contains(t, texts, "A closer look at Old Chest.")

	snap := e.Snapshot()
	assert.Equal(t, 25, snap.Gold)
	assert.Contains(t, snap.Inventory, "Iron Sword")

	obj := snap.WorldMap[world.PosKey(0, 0)].Objects[0]
	assert.True(t, obj.IsDetailed)
	assert.True(t, obj.HasInteracted)
}

func TestSpecialInteraction_HarvestsResource(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	withObject(gs, world.Object{
		ID: "obj_node", Name: "Glowing Vein", Type: world.ObjectResource,
		IsDetailed: true, Description: "A vein of shimmering ore.",
	})
	forceRolls(e, 2) // resource table index 2

	logs, err := e.SpecialInteraction(context.Background(), world.SpecialAction{
		Label: "Harvest", Action: "I harvest Glowing Vein.", Icon: world.IconGather, ObjectID: "obj_node",
	})
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "You gathered Magical Essence.")

	snap := e.Snapshot()
	assert.Contains(t, snap.Inventory, "Magical Essence")
	assert.True(t, snap.WorldMap[world.PosKey(0, 0)].Objects[0].HasInteracted)
}

func TestSpecialInteraction_TalkGoesThroughNarrator(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	withObject(gs, world.Object{
		ID: "obj_elder", Name: "Village Elder", Type: world.ObjectNPC,
		IsDetailed: true, Description: "A stooped figure with knowing eyes.",
	})
	forceRolls(e, 3)

	_, err := e.SpecialInteraction(context.Background(), world.SpecialAction{
		Label: "Chat", Action: "I approach Village Elder and strike up a conversation.",
		Icon: world.IconTalk, ObjectID: "obj_elder",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"I approach Village Elder and strike up a conversation."}, gen.ResolveActionCalls)
}

func TestSpecialInteraction_ObjectGone(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	startPlaying(e)

	logs, err := e.SpecialInteraction(context.Background(), world.SpecialAction{
		Label: "Inspect", Action: "I inspect the statue.", Icon: world.IconInteract, ObjectID: "obj_missing",
	})
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "Object is gone.")
}

func TestAbandonQuest(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	gs.Quests = append(gs.Quests, quest.Quest{
		ID: "q1", Title: "The Sealed Door", Kind: quest.KindMinor, Status: quest.StatusActive,
	})

	logs, err := e.AbandonQuest(context.Background(), "q1")
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "Quest abandoned.")
	assert.Equal(t, quest.StatusFailed, e.Snapshot().QuestByID("q1").Status)

	_, err = e.AbandonQuest(context.Background(), "missing")
	assert.Error(t, err)
}

func TestFocusQuest(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	gs := startPlaying(e)
	gs.Quests = append(gs.Quests,
		quest.Quest{ID: "q1", Title: "Civilization", Kind: quest.KindIntuition, Status: quest.StatusActive, Criteria: quest.CriteriaFindTown},
		quest.Quest{ID: "q2", Title: "The Sealed Door", Kind: quest.KindMinor, Status: quest.StatusActive},
	)

	logs, err := e.FocusQuest(context.Background(), "q1")
	require.NoError(t, err)
	assert.Contains(t, logTexts(logs), "Tracking: Civilization")

	snap := e.Snapshot()
	assert.Equal(t, "Search for a Town", snap.CurrentSuggestion.Text)
	assert.Equal(t, "q1", snap.CurrentSuggestion.QuestID)

	_, err = e.FocusQuest(context.Background(), "q2")
	require.NoError(t, err)
	assert.Equal(t, "Advance The Sealed Door", e.Snapshot().CurrentSuggestion.Text)
}

func TestSpecialActions(t *testing.T) {
	gen := services.NewMockGenerator()
	e, _ := newTestEngine(gen)
	assert.Nil(t, e.SpecialActions())

	gs := startPlaying(e)
	withObject(gs, world.Object{ID: "obj_merchant", Name: "Traveling Merchant", Type: world.ObjectMerchant, IsDetailed: true})

	actions := e.SpecialActions()
	require.NotEmpty(t, actions)
	assert.Equal(t, world.IconShop, actions[0].Icon)
}
