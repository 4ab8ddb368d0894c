package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwebster45206/dreambound/internal/services"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// SpecialActions lists the deterministic actions for the current tile.
func (e *Engine) SpecialActions() []world.SpecialAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil
	}
	cell := e.gs.CurrentCell()
	if cell == nil {
		return nil
	}
	return world.DeterministicActions(*cell)
}

// rollContents fills a loot or resource object the first time it is
// opened. Loot chests roll a hybrid item plus gold; resource nodes yield
// one of three gathering materials.
func (e *Engine) rollContents(ctx context.Context, obj *world.Object) error {
	if obj.Type == world.ObjectLoot {
		item, err := services.RollLoot(ctx, e.gen, e.roller)
		if err != nil {
			return err
		}
		gold := e.roller.Intn(50) + 10
		obj.Contents = &world.Contents{
			Items:   []string{item.Name},
			Gold:    gold,
			Message: fmt.Sprintf("You found %s and %d gold!", item.Name, gold),
		}
		return nil
	}
	item := "Strange Herb"
	switch e.roller.Intn(3) {
	case 1:
		item = "Raw Ore"
	case 2:
		item = "Magical Essence"
	}
	obj.Contents = &world.Contents{
		Items:   []string{item},
		Message: fmt.Sprintf("You gathered %s.", item),
	}
	return nil
}

// SpecialInteraction executes one of the tile's deterministic actions.
// Dungeon entry and resting resolve without the narrator; everything
// else narrates, lazily detailing objects on first examination.
func (e *Engine) SpecialInteraction(ctx context.Context, action world.SpecialAction) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if e.gs.Status != state.StatusPlaying {
		return nil, ErrBadStatus
	}
	token := e.token.Load()

	ns := e.gs.DeepCopy()
	cell := ns.CurrentCell()
	if cell == nil {
		return nil, errors.New("current tile missing from map")
	}

	if action.Action == world.ActionEnterDungeon {
		questID := fmt.Sprintf("dungeon_quest_%d_%d", cell.X, cell.Y)
		if ns.QuestByID(questID) != nil {
			logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "You are already exploring this dungeon.")}
			e.appendJournal(logs)
			return logs, nil
		}
		delve := quest.DelveQuest(cell.X, cell.Y, cell.Name)
		ns.Quests = append(ns.Quests, delve)
		logs := []state.LogEntry{
			state.NewLogEntry(state.LogStory, fmt.Sprintf("Quest Accepted: %s", delve.Title)),
			state.NewLogEntry(state.LogAction, "You descend into the darkness..."),
		}
		e.commit(ctx, ns, logs)
		return logs, nil
	}

	obj := cell.Object(action.ObjectID)
	if obj == nil {
		logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "Object is gone.")}
		e.appendJournal(logs)
		return logs, nil
	}

	// Healers restore the whole party without a narrator round trip.
	if action.Icon == world.IconRest {
		for i := range ns.Party {
			ns.Party[i].HP = ns.Party[i].MaxHP
			ns.Party[i].EP = ns.Party[i].MaxEP
		}
		ns.SyncPlayer()
		ns.TurnCount++
		logs := []state.LogEntry{state.NewLogEntry(state.LogStory, "You rest. The party's health and energy are fully restored.")}
		e.commit(ctx, ns, logs)
		return logs, nil
	}

	if !obj.IsDetailed {
		var logs []state.LogEntry
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Examining %s...", obj.Name)))

		desc, err := e.gen.ObjectDetails(ctx, obj.Name, obj.Type, cell.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to detail object: %w", err)
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
		obj.Description = desc
		obj.IsDetailed = true

		if (obj.Type == world.ObjectLoot || obj.Type == world.ObjectResource) && obj.Contents == nil {
			if err := e.rollContents(ctx, obj); err != nil {
				return nil, fmt.Errorf("failed to roll contents: %w", err)
			}
			if e.stale(token) {
				return nil, ErrCancelled
			}
		}

		if (action.Label == "Open" || action.Label == "Harvest") && obj.Contents != nil && !obj.HasInteracted {
			obj.HasInteracted = true
			if obj.Contents.Message != "" {
				logs = append(logs, state.NewLogEntry(state.LogAction, obj.Contents.Message))
			}
			ns.Gold += obj.Contents.Gold
			ns.Inventory = append(ns.Inventory, obj.Contents.Items...)
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, desc))

		ns.SetCell(*cell)
		e.commit(ctx, ns, logs)
		return logs, nil
	}

	switch {
	case (obj.Type == world.ObjectLoot || obj.Type == world.ObjectResource) && !obj.HasInteracted:
		obj.HasInteracted = true
		if obj.Contents == nil || len(obj.Contents.Items) == 0 {
			if err := e.rollContents(ctx, obj); err != nil {
				return nil, fmt.Errorf("failed to roll contents: %w", err)
			}
			if e.stale(token) {
				return nil, ErrCancelled
			}
		}
		var logs []state.LogEntry
		if obj.Contents.Message != "" {
			logs = append(logs, state.NewLogEntry(state.LogAction, obj.Contents.Message))
		}
		ns.Gold += obj.Contents.Gold
		ns.Inventory = append(ns.Inventory, obj.Contents.Items...)
		ns.SetCell(*cell)
		e.commit(ctx, ns, logs)
		return logs, nil

	case action.Icon == world.IconTalk || action.Icon == world.IconRecruit:
		// NPC conversations go through the narrator, carrying the
		// object id so recruitment stays unique per NPC.
		return e.freeformActionLocked(ctx, action.Action, action.ObjectID)

	default:
		narration, err := e.gen.NarrateInteraction(ctx, action.Action, ns.History)
		if err != nil || narration == "" {
			narration = obj.Description
			if narration == "" {
				narration = "Nothing of interest."
			}
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
		logs := []state.LogEntry{state.NewLogEntry(state.LogStory, narration)}
		e.commit(ctx, ns, logs)
		return logs, nil
	}
}

// AbandonQuest marks a quest failed by player choice.
func (e *Engine) AbandonQuest(ctx context.Context, id string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	ns := e.gs.DeepCopy()
	q := ns.QuestByID(id)
	if q == nil {
		return nil, fmt.Errorf("no quest with id %q", id)
	}
	q.Fail()
	logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "Quest abandoned.")}
	e.commit(ctx, ns, logs)
	return logs, nil
}

// FocusQuest points the suggestion at a quest so the gamble path can
// trigger on its suggestion text.
func (e *Engine) FocusQuest(ctx context.Context, id string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	ns := e.gs.DeepCopy()
	q := ns.QuestByID(id)
	if q == nil {
		return nil, fmt.Errorf("no quest with id %q", id)
	}

	text := fmt.Sprintf("Advance %s", q.Title)
	switch q.Criteria {
	case quest.CriteriaExplore:
		text = "Visit unique locations"
	case quest.CriteriaFindTown:
		text = "Search for a Town"
	case quest.CriteriaCombat:
		text = "Find an enemy to fight"
	case quest.CriteriaRecruit:
		text = "Find a companion"
	}
	ns.CurrentSuggestion = state.Suggestion{Text: text, QuestID: q.ID}

	logs := []state.LogEntry{state.NewLogEntry(state.LogAction, fmt.Sprintf("Tracking: %s", q.Title))}
	e.commit(ctx, ns, logs)
	return logs, nil
}
