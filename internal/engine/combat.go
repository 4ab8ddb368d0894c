package engine

import (
	"context"
	"fmt"

	"github.com/jwebster45206/dreambound/internal/services"
	"github.com/jwebster45206/dreambound/pkg/combat"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
)

// CombatAction resolves one combat round. On victory the fallen enemies
// pay out XP, gold and sometimes an item; on defeat the session ends.
func (e *Engine) CombatAction(ctx context.Context, action combat.Action, skill *party.Skill) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.combatActionLocked(ctx, action, skill)
}

func (e *Engine) combatActionLocked(ctx context.Context, action combat.Action, skill *party.Skill) ([]state.LogEntry, error) {
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if e.gs.Status != state.StatusCombat {
		return nil, ErrBadStatus
	}
	token := e.token.Load()

	out, err := combat.ResolveRound(e.gs, action, skill, e.roller)
	if err != nil {
		return nil, err
	}
	ns := out.State

	var logs []state.LogEntry
	for _, l := range out.Logs {
		logs = append(logs, state.NewLogEntry(state.LogAction, l))
	}

	switch {
	case out.PlayerDied:
		narrative, nerr := e.gen.CombatNarrative(ctx, out.Logs)
		if nerr == nil {
			logs = append(logs, state.NewLogEntry(state.LogCombat, narrative))
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, "You have died. The dream resets..."))
		ns.Status = state.StatusEnding
		ns.Combat = nil
		ns.CurrentSuggestion = state.Suggestion{Text: "Game Over"}

	case out.PlayerWon:
		narrative, nerr := e.gen.CombatNarrative(ctx, out.Logs)
		if nerr == nil {
			logs = append(logs, state.NewLogEntry(state.LogCombat, narrative))
		}
		if e.stale(token) {
			return nil, ErrCancelled
		}
		logs = append(logs, state.NewLogEntry(state.LogStory, "Victory!"))
		logs = e.payVictorySpoils(ctx, ns, out.Defeated, logs)
		if e.stale(token) {
			return nil, ErrCancelled
		}

		if ns.Player.Level >= state.LevelCap && ns.Status != state.StatusEnding {
			logs = e.triggerEnding(ctx, ns, logs)
		} else {
			logs = append(logs, state.AdvanceIntuition(ns, quest.Event{Type: quest.EventCombatWin}, e.roller)...)
			ns.CurrentSuggestion = state.Suggestion{Text: "Check for loot"}
		}
	}

	if e.stale(token) {
		return nil, ErrCancelled
	}
	e.commit(ctx, ns, logs)
	return logs, nil
}

// payVictorySpoils loots the fallen: gold always drops, an item roughly
// a third of the time, and their XP is shared by the whole party.
func (e *Engine) payVictorySpoils(ctx context.Context, ns *state.GameState, defeated []party.Enemy, logs []state.LogEntry) []state.LogEntry {
	xpGained := 0
	for _, enemy := range defeated {
		xpGained += enemy.XPValue

		goldDrop := e.roller.Intn(enemy.Level*5) + 5
		ns.Gold += goldDrop
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Looted %d gold from %s.", goldDrop, enemy.Name)))

		if e.roller.Intn(10) < 3 {
			if item, err := services.RollLoot(ctx, e.gen, e.roller); err == nil {
				ns.Inventory = append(ns.Inventory, item.Name)
				ns.Encyclopedia.AddItem(*item)
				logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Looted %s from %s.", item.Name, enemy.Name)))
			} else {
				e.logger.Warn("Victory loot generation failed", "error", err)
			}
		}
	}

	if xpGained > 0 {
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Gained %d XP.", xpGained)))
		updated, lines := party.AwardXP(ns.Party, xpGained, e.roller)
		ns.Party = updated
		ns.SyncPlayer()
		for _, line := range lines {
			logs = append(logs, state.NewLogEntry(state.LogStory, line))
		}
	}
	return logs
}

// UseSkill spends a skill in or out of combat. Damage skills require an
// encounter; in combat the skill feeds a full round, outside it heals
// resolve immediately.
func (e *Engine) UseSkill(ctx context.Context, skillID string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}

	skill, ok := party.SkillByID(skillID)
	if !ok {
		return nil, fmt.Errorf("unknown skill %q", skillID)
	}
	if e.gs.Player.EP < skill.Cost {
		logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "Not enough energy!")}
		e.appendJournal(logs)
		return logs, nil
	}
	if skill.Effect == party.EffectDamage && e.gs.Status != state.StatusCombat {
		logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "There is nothing to attack here.")}
		e.appendJournal(logs)
		return logs, nil
	}
	if e.gs.Status == state.StatusCombat {
		return e.combatActionLocked(ctx, combat.ActionSkill, &skill)
	}
	if e.gs.Status != state.StatusPlaying {
		return nil, ErrBadStatus
	}

	ns := e.gs.DeepCopy()
	ns.Player.EP -= skill.Cost
	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("> Used %s", skill.Name)))

	if skill.Effect == party.EffectHeal {
		heal := skill.Power
		if heal == 0 {
			heal = 10
		}
		ns.Player.HP += heal
		if ns.Player.HP > ns.Player.MaxHP {
			ns.Player.HP = ns.Player.MaxHP
		}
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Restored %d HP.", heal)))
	}
	ns.SyncPartyMember(ns.Player)

	e.commit(ctx, ns, logs)
	return logs, nil
}
