package state

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// LevelCap ends the run once the player reaches it.
const LevelCap = 5

// TurnResult reports what a reconciled turn did beyond mutating the state.
// The caller owns follow-ups that need generation: spawning an encounter
// when CombatRequested is set, and narrating the ending when EndingDue is.
type TurnResult struct {
	Logs            []LogEntry
	CombatRequested bool
	EndingDue       bool
}

// ApplyTurn folds a narrated turn's side effects into the state in a fixed
// order: HP deltas, gained items, new quests, completed quests, removed
// items, recruitment staging, suggestion update, location rename, intuition
// progress, then the ending and combat checks. Every optional field of the
// response applies independently; absent fields touch nothing.
func ApplyTurn(gs *GameState, resp *ActionResponse, isCombatTrigger bool, originID string, roller *dice.Roller) TurnResult {
	var res TurnResult
	log := func(kind LogKind, text string) {
		res.Logs = append(res.Logs, NewLogEntry(kind, text))
	}

	gs.TurnCount++

	var majorQuestCompleted, newQuestFound bool

	if len(resp.Updates.HPUpdates) > 0 {
		for _, up := range resp.Updates.HPUpdates {
			for i := range gs.Party {
				if gs.Party[i].ID == up.CharID {
					gs.Party[i].HP += up.Change
					gs.Party[i].ClampVitals()
				}
			}
		}
		gs.SyncPlayer()
	}

	if len(resp.Updates.NewItems) > 0 {
		gs.Inventory = append(gs.Inventory, resp.Updates.NewItems...)
		for _, entry := range resp.GeneratedItems {
			gs.Encyclopedia.AddItem(entry)
		}
		for _, name := range resp.Updates.NewItems {
			if gs.Encyclopedia.Item(name) == nil {
				gs.Encyclopedia.AddItem(ItemEntry{
					ID:          "item_auto_" + uuid.NewString(),
					Name:        name,
					Rarity:      dice.RarityCommon,
					Description: "A discovered item.",
				})
			}
		}
	}

	if len(resp.Updates.NewQuests) > 0 {
		var added []quest.Quest
		for _, nq := range resp.Updates.NewQuests {
			if nq.ID != "" && gs.QuestByID(nq.ID) != nil {
				continue
			}
			if nq.ID == "" {
				nq.ID = "quest_" + uuid.NewString()
			}
			nq.Status = quest.StatusActive
			if roller.D6() == 6 {
				nq.Kind = quest.KindMajor
			} else {
				nq.Kind = quest.KindMinor
			}
			gs.Quests = append(gs.Quests, nq)
			added = append(added, nq)
			log(LogStory, fmt.Sprintf("New Quest Received: %s", nq.Title))
		}
		if len(added) > 0 {
			newQuestFound = true
			newest := added[len(added)-1]
			gs.CurrentSuggestion = Suggestion{
				Text:    trackingSuggestion(newest),
				QuestID: newest.ID,
			}
			log(LogAction, fmt.Sprintf("Auto-tracking: %s", newest.Title))
		}
	}

	for _, id := range resp.Updates.CompletedQuestIDs {
		q := gs.QuestByID(id)
		if q == nil || !q.Complete() {
			continue
		}
		if q.Kind == quest.KindMajor {
			majorQuestCompleted = true
		}
		log(LogStory, fmt.Sprintf("Quest Completed: %s", q.Title))
		res.Logs = append(res.Logs, PayRewards(gs, q.Rewards, roller)...)
	}

	if len(resp.Updates.RemovedItems) > 0 {
		removed := make(map[string]bool, len(resp.Updates.RemovedItems))
		for _, name := range resp.Updates.RemovedItems {
			removed[name] = true
		}
		kept := gs.Inventory[:0]
		for _, item := range gs.Inventory {
			if !removed[item] {
				kept = append(kept, item)
			}
		}
		gs.Inventory = kept
	}

	if resp.RecruitTriggered {
		name := resp.RecruitName
		if name == "" {
			name = "Mysterious Wanderer"
		}
		maxSize := party.MaxPartySize(gs.Player.Level)

		duplicate := false
		if originID != "" {
			for _, c := range gs.Party {
				if c.OriginID == originID {
					duplicate = true
					break
				}
			}
		}

		switch {
		case duplicate:
			log(LogAction, fmt.Sprintf("%s is already in your party.", name))
		case len(gs.Party) >= maxSize:
			log(LogAction, fmt.Sprintf("%s is willing to join, but your connection to the dream is too weak to sustain another bond. (Max Party: %d)", name, maxSize))
			log(LogAction, fmt.Sprintf("Reach Level %d to recruit more allies.", len(gs.Party)*len(gs.Party)))
		default:
			log(LogStory, fmt.Sprintf("%s offers to join your party.", name))
			gs.PendingRecruit = &PendingRecruit{
				Name:     name,
				Level:    gs.Player.Level,
				OriginID: originID,
			}
		}
	}

	if !newQuestFound && resp.SuggestedAction != "" {
		tracked := gs.QuestByID(gs.CurrentSuggestion.QuestID)
		if tracked == nil || !tracked.IsActive() {
			gs.CurrentSuggestion = Suggestion{Text: resp.SuggestedAction}
		}
	}

	if resp.LocationName != "" {
		key := world.PosKey(gs.PlayerPos.X, gs.PlayerPos.Y)
		if cell, ok := gs.WorldMap[key]; ok {
			cell.Name = resp.LocationName
			gs.WorldMap[key] = cell
		}
	}

	if newQuestFound {
		res.Logs = append(res.Logs, AdvanceIntuition(gs, quest.Event{Type: quest.EventFindQuest}, roller)...)
	}

	if gs.Player.Level >= LevelCap && gs.Status != StatusEnding {
		res.EndingDue = true
		return res
	}

	if majorQuestCompleted && roller.D6() == 6 && gs.Status != StatusEnding {
		res.EndingDue = true
		return res
	}

	if resp.Updates.IsCombat || isCombatTrigger {
		res.CombatRequested = true
	}
	return res
}

func trackingSuggestion(q quest.Quest) string {
	switch q.Criteria {
	case quest.CriteriaExplore:
		return "Visit unique locations"
	case quest.CriteriaFindTown:
		return "Search for a Town"
	case quest.CriteriaCombat:
		return "Find an enemy to fight"
	case "":
		return fmt.Sprintf("Attempt to advance %s", q.Title)
	default:
		return fmt.Sprintf("Advance %s", q.Title)
	}
}

// PayRewards pays a completed quest's rewards exactly once. XP may level
// the party up, so the player mirror is resynced.
func PayRewards(gs *GameState, r quest.Rewards, roller *dice.Roller) []LogEntry {
	var logs []LogEntry
	gs.Gold += r.Gold
	gs.Inventory = append(gs.Inventory, r.Items...)
	if r.XP > 0 {
		updated, lines := party.AwardXP(gs.Party, r.XP, roller)
		gs.Party = updated
		gs.SyncPlayer()
		for _, line := range lines {
			logs = append(logs, NewLogEntry(LogStory, line))
		}
	}
	return logs
}

// AdvanceIntuition feeds a world event to the intuition quests and pays
// out any that complete.
func AdvanceIntuition(gs *GameState, ev quest.Event, roller *dice.Roller) []LogEntry {
	if ev.Type == quest.EventRecruit {
		ev.PartySize = len(gs.Party)
	}
	updated, completed := quest.ApplyEvent(gs.Quests, ev)
	gs.Quests = updated

	var logs []LogEntry
	for _, q := range completed {
		logs = append(logs, NewLogEntry(LogStory, fmt.Sprintf("Intuition fulfilled: %s!", q.Title)))
		logs = append(logs, PayRewards(gs, q.Rewards, roller)...)
	}
	return logs
}
