package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

func directionName(dx, dy int) string {
	if dx == 0 {
		if dy > 0 {
			return "North"
		}
		return "South"
	}
	if dx > 0 {
		return "East"
	}
	return "West"
}

// Move walks the player one tile. Unknown tiles are generated on entry;
// each step rolls an encounter check that can open combat.
func (e *Engine) Move(ctx context.Context, dx, dy int) ([]state.LogEntry, error) {
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
	newX := ns.PlayerPos.X + dx
	newY := ns.PlayerPos.Y + dy
	key := world.PosKey(newX, newY)

	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("> Heading %s...", directionName(dx, dy))))

	cell, isNew := ns.WorldMap[key], false
	if _, known := ns.WorldMap[key]; !known {
		isNew = true
		history := append(append([]string(nil), ns.History...), logs[0].Text)
		generated, err := e.gen.GenerateMapCell(ctx, newX, newY, ns.Player.Level, history)
		if err != nil {
			return nil, fmt.Errorf("failed to generate map cell: %w", err)
		}
		cell = *generated
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	encounter := world.CheckForEncounter(newX, newY, isNew, e.roller)

	ns.PlayerPos = state.Position{X: newX, Y: newY}
	cell.Visited = true
	ns.SetCell(cell)
	ns.TurnCount++
	ns.CurrentSuggestion = state.Suggestion{Text: "Explore the area"}

	if isNew {
		ns.Encyclopedia.AddLocation(state.LocationEntry{
			ID:          key,
			Name:        cell.Name,
			Description: cell.Description,
		})
		logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("Discovered: %s", cell.Name)))
		narration, err := e.gen.NarrateMovement(ctx, cell, ns.History)
		if err != nil {
			narration = &state.MovementNarrative{
				Narrative: strings.TrimSpace(fmt.Sprintf("You arrive at %s. %s", cell.Name, cell.Description)),
			}
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, narration.Narrative))
		if narration.SuggestedAction != "" {
			ns.CurrentSuggestion = state.Suggestion{Text: narration.SuggestedAction}
		}
		logs = append(logs, state.AdvanceIntuition(ns, quest.Event{Type: quest.EventExplore}, e.roller)...)
	} else {
		logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("You return to %s.", cell.Name)))
	}
	if cell.Type == world.CellTown {
		logs = append(logs, state.AdvanceIntuition(ns, quest.Event{Type: quest.EventFindTown, CellType: string(cell.Type)}, e.roller)...)
	}

	if encounter == world.EncounterCombat {
		var err error
		logs, err = e.spawnEnemy(ctx, ns, logs)
		if err != nil {
			return nil, err
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
	}

	e.commit(ctx, ns, logs)
	return logs, nil
}

// FreeformAction sends a typed action to the narrator for adjudication.
// If the action is the tracked quest's suggestion, a d6 gamble can short
// circuit the narrator: 6 completes the quest outright, 2 springs an
// ambush, 1 fails the quest with backlash damage.
func (e *Engine) FreeformAction(ctx context.Context, actionText string) ([]state.LogEntry, error) {
	return e.freeformAction(ctx, actionText, "")
}

func (e *Engine) freeformAction(ctx context.Context, actionText, originID string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.freeformActionLocked(ctx, actionText, originID)
}

func (e *Engine) freeformActionLocked(ctx context.Context, actionText, originID string) ([]state.LogEntry, error) {
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if strings.TrimSpace(actionText) == "" {
		return nil, errors.New("empty action")
	}
	if e.gs.Status != state.StatusPlaying {
		return nil, ErrBadStatus
	}
	token := e.token.Load()

	if e.gs.CurrentSuggestion.QuestID != "" && actionText == e.gs.CurrentSuggestion.Text {
		if q := e.gs.QuestByID(e.gs.CurrentSuggestion.QuestID); q != nil && q.Criteria == "" && q.IsActive() {
			if logs, handled, err := e.questGamble(ctx, token, *q, actionText); handled {
				return logs, err
			}
		}
	}

	ns := e.gs.DeepCopy()
	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogAction, "> "+actionText))

	res, err := e.gen.ResolveAction(ctx, actionText, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve action: %w", err)
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}
	logs = append(logs, state.NewLogEntry(state.LogStory, res.Narrative))

	resp := e.resolutionToResponse(ctx, res)
	if e.stale(token) {
		return nil, ErrCancelled
	}

	logs, err = e.applyResponse(ctx, ns, resp, false, originID, logs)
	if err != nil {
		return nil, err
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	e.commit(ctx, ns, logs)
	return logs, nil
}

// questGamble rolls the d6 for a suggestion-linked quest attempt. It
// reports handled=false on a middle roll, which falls through to the
// normal narrator resolution.
func (e *Engine) questGamble(ctx context.Context, token int64, q quest.Quest, actionText string) ([]state.LogEntry, bool, error) {
	roll := e.roller.D6()
	switch roll {
	case 6:
		ns := e.gs.DeepCopy()
		var logs []state.LogEntry
		logs = append(logs, state.NewLogEntry(state.LogAction, "> "+actionText))
		logs = append(logs, state.NewLogEntry(state.LogAction, "(Dice Roll: 6) Critical Success!"))

		res, err := e.gen.QuestOutcome(ctx, q.Title, actionText, true, ns.History)
		if err != nil {
			return nil, true, fmt.Errorf("failed to narrate quest outcome: %w", err)
		}
		if e.stale(token) {
			return nil, true, ErrCancelled
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, res.Narrative))

		ns.TurnCount++
		if target := ns.QuestByID(q.ID); target != nil && target.Complete() {
			if q.Rewards.XP > 0 {
				logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Quest Complete! Gained %d XP.", q.Rewards.XP)))
			}
			logs = append(logs, state.PayRewards(ns, q.Rewards, e.roller)...)
		}
		ns.CurrentSuggestion = state.Suggestion{Text: "Look around"}
		logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("Quest Completed: %s", q.Title)))

		endingDue := ns.Player.Level >= state.LevelCap
		if !endingDue && q.Kind == quest.KindMajor && e.roller.D6() == 6 {
			endingDue = true
		}
		if endingDue {
			logs = e.triggerEnding(ctx, ns, logs)
		}

		e.commit(ctx, ns, logs)
		return logs, true, nil

	case 2:
		ns := e.gs.DeepCopy()
		var logs []state.LogEntry
		logs = append(logs, state.NewLogEntry(state.LogAction, "> "+actionText))
		logs = append(logs, state.NewLogEntry(state.LogCombat, "(Dice Roll: 2) Ambush! The action attracts unwanted attention."))

		ns.TurnCount++
		logs, err := e.spawnEnemy(ctx, ns, logs)
		if err != nil {
			return nil, true, err
		}
		if e.stale(token) {
			return nil, true, ErrCancelled
		}
		e.commit(ctx, ns, logs)
		return logs, true, nil

	case 1:
		ns := e.gs.DeepCopy()
		var logs []state.LogEntry
		logs = append(logs, state.NewLogEntry(state.LogAction, "> "+actionText))
		logs = append(logs, state.NewLogEntry(state.LogAction, "(Dice Roll: 1) Critical Failure!"))

		res, err := e.gen.QuestOutcome(ctx, q.Title, actionText, false, ns.History)
		if err != nil {
			return nil, true, fmt.Errorf("failed to narrate quest outcome: %w", err)
		}
		if e.stale(token) {
			return nil, true, ErrCancelled
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, res.Narrative))

		ns.TurnCount++
		if res.Damage > 0 {
			ns.Player.HP -= res.Damage
			if ns.Player.HP < 0 {
				ns.Player.HP = 0
			}
			ns.SyncPartyMember(ns.Player)
			logs = append(logs, state.NewLogEntry(state.LogCombat, fmt.Sprintf("You took %d damage.", res.Damage)))

			if ns.Player.HP <= 0 {
				logs = append(logs, state.NewLogEntry(state.LogStory, "The failure was fatal. You have died..."))
				ns.Status = state.StatusEnding
				ns.CurrentSuggestion = state.Suggestion{Text: "Game Over"}
			}
		}
		if ns.Status != state.StatusEnding {
			if target := ns.QuestByID(q.ID); target != nil {
				target.Fail()
			}
			ns.CurrentSuggestion = state.Suggestion{Text: "Look around"}
			logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("Quest Failed: %s", q.Title)))
		}

		e.commit(ctx, ns, logs)
		return logs, true, nil
	}
	return nil, false, nil
}
