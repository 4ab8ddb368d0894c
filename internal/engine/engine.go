// Package engine drives one game session: it owns the authoritative
// GameState, serializes turns, calls the narrative backend, reconciles
// the results and persists the outcome.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/internal/services"
	"github.com/jwebster45206/dreambound/internal/storage"
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
	"github.com/jwebster45206/dreambound/pkg/world"
)

var (
	// ErrCancelled means the player cancelled the request while the
	// narrator was still generating; no state was changed.
	ErrCancelled = errors.New("action cancelled")

	// ErrNoSession means no game has been started or loaded.
	ErrNoSession = errors.New("no active session")

	// ErrBadStatus means the operation is not legal in the current mode.
	ErrBadStatus = errors.New("action not allowed in current mode")
)

// Engine serializes all turn processing for one session. Operations hold
// the engine lock for their full duration, including narrator calls;
// Cancel bumps the request token from outside the lock so a slow turn
// discards its work instead of committing stale results.
type Engine struct {
	mu sync.Mutex
	gs *state.GameState

	gen    services.Generator
	store  storage.Storage
	roller *dice.Roller
	logger *slog.Logger
	slot   string

	token atomic.Int64

	jmu     sync.Mutex
	journal []state.LogEntry
}

func New(gen services.Generator, store storage.Storage, slot string, logger *slog.Logger) *Engine {
	return &Engine{
		gen:    gen,
		store:  store,
		roller: dice.NewRoller(),
		logger: logger,
		slot:   slot,
	}
}

// Cancel abandons any in-flight narrator call. The running operation
// notices the token change before committing and discards its turn.
func (e *Engine) Cancel() {
	e.token.Add(1)
	e.appendJournal([]state.LogEntry{state.NewLogEntry(state.LogAction, "...Action cancelled.")})
}

// Snapshot returns an isolated copy of the current state, or nil before
// a session exists.
func (e *Engine) Snapshot() *state.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil
	}
	return e.gs.DeepCopy()
}

// Journal returns the session's log lines accumulated so far.
func (e *Engine) Journal() []state.LogEntry {
	e.jmu.Lock()
	defer e.jmu.Unlock()
	return append([]state.LogEntry(nil), e.journal...)
}

func (e *Engine) appendJournal(logs []state.LogEntry) {
	e.jmu.Lock()
	e.journal = append(e.journal, logs...)
	e.jmu.Unlock()
}

// stale reports whether Cancel was called since the operation began.
func (e *Engine) stale(token int64) bool {
	return e.token.Load() != token
}

// commit installs the turn's resulting state, mirrors its log lines into
// the prompt history and persists the save. Persistence failures are not
// fatal to the turn; a stale-save refusal means a newer save exists.
func (e *Engine) commit(ctx context.Context, ns *state.GameState, logs []state.LogEntry) {
	for _, l := range logs {
		ns.History = append(ns.History, l.Text)
	}
	if len(logs) > 0 {
		ns.LastEventSummary = logs[len(logs)-1].Text
	}
	e.gs = ns
	e.appendJournal(logs)

	if e.store == nil {
		return
	}
	if err := e.store.SaveGame(ctx, e.slot, ns); err != nil {
		if errors.Is(err, storage.ErrStaleSave) {
			e.logger.Warn("Auto-save refused, a newer save exists", "slot", e.slot)
		} else {
			e.logger.Warn("Auto-save failed", "slot", e.slot, "error", err)
		}
	}
}

// NewGame rolls a character class, seeds a starting intuition quest and
// asks the narrator for the opening scene.
func (e *Engine) NewGame(ctx context.Context, name string, gender party.Gender) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	token := e.token.Load()

	class, err := services.RollClass(ctx, e.gen, e.roller)
	if err != nil {
		return nil, fmt.Errorf("failed to roll class: %w", err)
	}

	ns := state.NewGameState(e.roller.Intn)
	ns.Player.Name = name
	ns.Player.Class = class.Name
	ns.Player.MaxHP += class.Stats.HP
	ns.Player.HP = ns.Player.MaxHP
	ns.Player.Atk += class.Stats.Atk
	ns.Player.Def += class.Stats.Def
	if class.Description != "" {
		ns.Player.Backstory = class.Description
	}
	ns.Party = []party.Character{ns.Player}

	starting := quest.PickIntuitionQuest(e.roller.Intn(quest.IntuitionSeedCount()))
	ns.Quests = append(ns.Quests, starting)

	resp, err := e.gen.StartNewGame(ctx, name, gender, *class)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogStory, resp.Narrative))
	logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("New Quest Received: %s", starting.Title)))

	for _, nq := range resp.Updates.NewQuests {
		nq.ID = "quest_" + uuid.NewString()
		nq.Status = quest.StatusActive
		if e.roller.D6() == 6 {
			nq.Kind = quest.KindMajor
		} else {
			nq.Kind = quest.KindMinor
		}
		ns.Quests = append(ns.Quests, nq)
		logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("New Quest Received: %s", nq.Title)))
	}

	ns.Inventory = append(ns.Inventory, resp.Updates.NewItems...)
	if resp.SuggestedAction != "" {
		ns.CurrentSuggestion = state.Suggestion{Text: resp.SuggestedAction}
	}
	ns.Status = state.StatusPlaying

	e.journalReset()
	e.commit(ctx, ns, logs)
	return logs, nil
}

func (e *Engine) journalReset() {
	e.jmu.Lock()
	e.journal = nil
	e.jmu.Unlock()
}

// LoadGame restores a saved session from the engine's slot.
func (e *Engine) LoadGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return errors.New("no storage configured")
	}
	gs, err := e.store.LoadGame(ctx, e.slot)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}
	if gs == nil {
		return errors.New("no saved game in slot")
	}
	e.gs = gs
	e.journalReset()
	lines := make([]state.LogEntry, 0, len(gs.History))
	for _, text := range gs.History {
		lines = append(lines, state.NewLogEntry(state.LogStory, text))
	}
	e.appendJournal(lines)
	return nil
}

// triggerEnding narrates the closing scene and seals the session. The
// passed state is committed regardless of narration failure so the
// terminal status is never lost.
func (e *Engine) triggerEnding(ctx context.Context, ns *state.GameState, logs []state.LogEntry) []state.LogEntry {
	logs = append(logs, state.NewLogEntry(state.LogStory, "The fabric of the dream begins to tear... (Destiny Fulfilled)"))

	history := append(append([]string(nil), ns.History...), textsOf(logs)...)
	ending, err := e.gen.GenerateEnding(ctx, history)
	if err != nil {
		e.logger.Warn("Ending narration failed", "error", err)
		ending = "The dream fades, and you wake up... or do you?"
	}
	logs = append(logs, state.NewLogEntry(state.LogStory, ending))

	ns.Status = state.StatusEnding
	ns.Combat = nil
	ns.CurrentSuggestion = state.Suggestion{Text: "Game Over"}
	return logs
}

func textsOf(logs []state.LogEntry) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Text
	}
	return out
}

// spawnEnemy starts an encounter: the narrator invents a fresh enemy
// until enough are known, then known enemies are usually reused at full
// vitals under a new identity.
func (e *Engine) spawnEnemy(ctx context.Context, ns *state.GameState, logs []state.LogEntry) ([]state.LogEntry, error) {
	var enemy *party.Enemy
	known := len(ns.Encyclopedia.Enemies)

	if world.ShouldGenerateNewEnemy(known, e.roller) {
		logs = append(logs, state.NewLogEntry(state.LogAction, "An enemy approaches!"))
		fresh, err := services.RollEnemy(ctx, e.gen, ns.Player.Level, e.roller)
		if err != nil {
			return logs, fmt.Errorf("failed to generate enemy: %w", err)
		}
		ns.Encyclopedia.AddEnemy(*fresh)
		enemy = fresh
	} else {
		reused := ns.Encyclopedia.Enemies[e.roller.Intn(known)].Copy()
		reused.ID = "enemy_" + uuid.NewString()
		reused.HP = reused.MaxHP
		reused.EP = reused.MaxEP
		reused.ActiveEffects = nil
		enemy = &reused
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("A %s blocks your path!", reused.Name)))
	}

	if ns.Status != state.StatusEnding {
		ns.Status = state.StatusCombat
		ns.Combat = &state.Encounter{ActiveEnemies: []party.Enemy{*enemy}}
	}
	return logs, nil
}

// resolutionToResponse normalizes the flat narrator resolution into the
// reconciler's update form, running the chained loot and quest
// generations the resolution asked for.
func (e *Engine) resolutionToResponse(ctx context.Context, res *state.ActionResolution) *state.ActionResponse {
	resp := &state.ActionResponse{
		Narrative:        res.Narrative,
		LocationName:     res.LocationName,
		SuggestedAction:  res.SuggestedAction,
		RecruitTriggered: res.RecruitTriggered,
		RecruitName:      res.RecruitName,
	}
	resp.Updates.IsCombat = res.IsCombat
	if res.HPChangePlayer != 0 {
		resp.Updates.HPUpdates = []state.HPUpdate{{CharID: "player", Change: res.HPChangePlayer}}
	}
	if res.LootFound {
		if item, err := services.RollLoot(ctx, e.gen, e.roller); err == nil {
			resp.GeneratedItems = append(resp.GeneratedItems, *item)
			resp.Updates.NewItems = append(resp.Updates.NewItems, item.Name)
		} else {
			e.logger.Warn("Chained loot generation failed", "error", err)
		}
	}
	if res.NewQuestTriggered {
		if q, err := e.gen.GenerateQuest(ctx, res.Narrative); err == nil {
			resp.Updates.NewQuests = append(resp.Updates.NewQuests, *q)
		} else {
			e.logger.Warn("Chained quest generation failed", "error", err)
		}
	}
	if res.QuestCompletedID != "" {
		resp.Updates.CompletedQuestIDs = []string{res.QuestCompletedID}
	}
	if res.RemovedItem != "" {
		resp.Updates.RemovedItems = []string{res.RemovedItem}
	}
	return resp
}

// applyResponse reconciles a narrated turn and runs the follow-ups the
// reconciler flagged: the ending sequence preempts everything, and a
// combat request spawns an encounter.
func (e *Engine) applyResponse(ctx context.Context, ns *state.GameState, resp *state.ActionResponse, isCombatTrigger bool, originID string, logs []state.LogEntry) ([]state.LogEntry, error) {
	result := state.ApplyTurn(ns, resp, isCombatTrigger, originID, e.roller)
	logs = append(logs, result.Logs...)

	if result.EndingDue {
		return e.triggerEnding(ctx, ns, logs), nil
	}
	if result.CombatRequested {
		return e.spawnEnemy(ctx, ns, logs)
	}
	return logs, nil
}

// ConfirmRecruit accepts the pending offer: the narrator fleshes out the
// companion, which then joins the party.
func (e *Engine) ConfirmRecruit(ctx context.Context) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if e.gs.PendingRecruit == nil {
		return nil, errors.New("no pending recruit")
	}
	token := e.token.Load()

	pr := *e.gs.PendingRecruit
	companion, err := e.gen.GenerateCompanion(ctx, pr.Name, pr.Level, pr.OriginID)
	if err != nil {
		// The offer is consumed either way.
		ns := e.gs.DeepCopy()
		ns.PendingRecruit = nil
		logs := []state.LogEntry{state.NewLogEntry(state.LogAction, fmt.Sprintf("%s tried to join, but faded away...", pr.Name))}
		e.commit(ctx, ns, logs)
		return logs, nil
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	ns := e.gs.DeepCopy()
	ns.PendingRecruit = nil
	ns.Party = append(ns.Party, *companion)
	logs := []state.LogEntry{state.NewLogEntry(state.LogStory, fmt.Sprintf("%s has joined your party!", pr.Name))}
	logs = append(logs, state.AdvanceIntuition(ns, quest.Event{Type: quest.EventRecruit}, e.roller)...)

	e.commit(ctx, ns, logs)
	return logs, nil
}

// DeclineRecruit dismisses the pending offer.
func (e *Engine) DeclineRecruit(ctx context.Context) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if e.gs.PendingRecruit == nil {
		return nil, errors.New("no pending recruit")
	}
	ns := e.gs.DeepCopy()
	name := ns.PendingRecruit.Name
	ns.PendingRecruit = nil
	logs := []state.LogEntry{state.NewLogEntry(state.LogAction, fmt.Sprintf("You declined %s's offer.", name))}
	e.commit(ctx, ns, logs)
	return logs, nil
}
