package quest

import "fmt"

// EventType is a world event that can advance intuition quests.
type EventType string

const (
	EventExplore   EventType = "EXPLORE"
	EventFindTown  EventType = "FIND_TOWN"
	EventCombatWin EventType = "COMBAT_WIN"
	EventRecruit   EventType = "RECRUIT"
	EventFindQuest EventType = "FIND_QUEST"
)

// Event carries an EventType plus the context some criteria need:
// FindTown checks the discovered cell type, Recruit checks party size.
type Event struct {
	Type      EventType
	CellType  string
	PartySize int
}

// intuitionSeeds are the pool a new game draws its starting quest from.
// Order is stable so a seeded pick is reproducible.
var intuitionSeeds = []Quest{
	{
		ID:          "intuition_explore",
		Title:       "Wanderlust",
		Description: "Your gut tells you to explore the dreamscape. Visit 5 unique locations.",
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaExplore,
		Target:      5,
		Rewards:     Rewards{Gold: 50, XP: 100},
	},
	{
		ID:          "intuition_town",
		Title:       "Civilization",
		Description: "You feel a pull towards others. Find a Town.",
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaFindTown,
		Target:      1,
		Rewards:     Rewards{Gold: 25, XP: 50, Prestige: 5},
	},
	{
		ID:          "intuition_quest",
		Title:       "Purpose",
		Description: "You need direction. Find and accept a quest from the world.",
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaFindQuest,
		Target:      1,
		Rewards:     Rewards{XP: 75, Items: []string{"Healing Potion"}},
	},
	{
		ID:          "intuition_recruit",
		Title:       "Companionship",
		Description: "It is dangerous to go alone. Recruit a party member.",
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaRecruit,
		Target:      2,
		Rewards:     Rewards{Gold: 100, Prestige: 10},
	},
	{
		ID:          "intuition_combat",
		Title:       "Survival Instinct",
		Description: "Prove your strength. Win a combat encounter.",
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaCombat,
		Target:      1,
		Rewards:     Rewards{Gold: 40, XP: 150, Items: []string{"Dried Rations"}},
	},
}

// IntuitionSeedCount reports how many starting intuition quests exist,
// for callers feeding a random index to PickIntuitionQuest.
func IntuitionSeedCount() int { return len(intuitionSeeds) }

// PickIntuitionQuest returns a fresh copy of the seed at idx modulo the
// pool size.
func PickIntuitionQuest(idx int) Quest {
	if idx < 0 {
		idx = -idx
	}
	return intuitionSeeds[idx%len(intuitionSeeds)].Copy()
}

// DelveQuest is the quest granted on entering the dungeon at cell (x, y).
// The ID is derived from the coordinates so re-entering the same dungeon
// never stacks a duplicate.
func DelveQuest(x, y int, cellName string) Quest {
	return Quest{
		ID:          fmt.Sprintf("dungeon_quest_%d_%d", x, y),
		Title:       "Delve: " + cellName,
		Description: fmt.Sprintf("Defeat 3 enemies within %s to clear the area.", cellName),
		Kind:        KindIntuition,
		Status:      StatusActive,
		Criteria:    CriteriaCombat,
		Target:      3,
		Rewards:     Rewards{Gold: 150, XP: 200, Items: []string{"Ancient Relic"}},
	}
}

// ApplyEvent advances every active intuition quest matching the event and
// completes those that reach their target. It returns the updated slice
// (copies, input untouched) and the quests completed by this event, with
// rewards still owed to the caller.
func ApplyEvent(quests []Quest, ev Event) ([]Quest, []Quest) {
	out := make([]Quest, len(quests))
	var completed []Quest

	for i, q := range quests {
		q = q.Copy()
		if q.Status == StatusActive && q.Kind == KindIntuition {
			switch {
			case ev.Type == EventExplore && q.Criteria == CriteriaExplore:
				q.Progress++
			case ev.Type == EventFindTown && q.Criteria == CriteriaFindTown:
				if ev.CellType == "TOWN" {
					q.Progress = 1
				}
			case ev.Type == EventCombatWin && q.Criteria == CriteriaCombat:
				q.Progress++
			case ev.Type == EventRecruit && q.Criteria == CriteriaRecruit:
				q.Progress = ev.PartySize
			case ev.Type == EventFindQuest && q.Criteria == CriteriaFindQuest:
				q.Progress++
			}
			if q.Target > 0 && q.Progress >= q.Target && q.Complete() {
				completed = append(completed, q)
			}
		}
		out[i] = q
	}
	return out, completed
}
