// Package state defines the save-game aggregate and the payload types the
// narrators produce. Everything a session needs to resume lives on GameState.
package state

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/world"
)

// Status is the session's top-level mode.
type Status string

const (
	StatusMenu     Status = "MENU"
	StatusCreation Status = "CREATION"
	StatusPlaying  Status = "PLAYING"
	StatusCombat   Status = "COMBAT"
	StatusEnding   Status = "ENDING"
)

// CanTransition reports whether moving between modes is legal. Play and
// combat flip back and forth; everything else marches forward, and Ending
// is terminal.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusMenu:
		return to == StatusCreation
	case StatusCreation:
		return to == StatusPlaying
	case StatusPlaying:
		return to == StatusCombat || to == StatusEnding
	case StatusCombat:
		return to == StatusPlaying || to == StatusEnding
	default:
		return false
	}
}

// Position is a coordinate on the world map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PendingRecruit stages a recruitment offer until the player consents.
type PendingRecruit struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	OriginID string `json:"origin_id,omitempty"`
}

// Encounter is the live combat sub-state. It exists only while Status is
// StatusCombat.
type Encounter struct {
	ActiveEnemies []party.Enemy `json:"active_enemies"`
	Log           []string      `json:"log"`
	TurnIndex     int           `json:"turn_index"`
}

// GameState is the complete save-game for one session.
type GameState struct {
	ID     uuid.UUID `json:"id"`
	Player party.Character   `json:"player"`
	Party  []party.Character `json:"party"`

	Inventory []string      `json:"inventory"`
	Gold      int           `json:"gold"`
	Quests    []quest.Quest `json:"quests"`

	// WorldMap is keyed by world.PosKey coordinates.
	WorldMap  map[string]world.Cell `json:"world_map"`
	PlayerPos Position              `json:"player_pos"`

	Encyclopedia Encyclopedia `json:"encyclopedia"`
	Combat       *Encounter   `json:"combat,omitempty"`

	TurnCount         int             `json:"turn_count"`
	Status            Status          `json:"status"`
	History           []string        `json:"history"`
	LastEventSummary  string          `json:"last_event_summary"`
	CurrentSuggestion Suggestion      `json:"current_suggestion"`
	PendingRecruit    *PendingRecruit `json:"pending_recruit,omitempty"`
}

// openingSuggestions seed the first turn's hint before any narration runs.
var openingSuggestions = []string{
	"Estimate the time of day",
	"Inspect the sky",
	"Listen closely for any interesting sounds",
	"Scrutinize the weather",
	"Ponder the time of day",
}

// NewGameState builds a fresh session at the starting tile. pick selects
// the opening suggestion.
func NewGameState(pick func(n int) int) *GameState {
	start := world.StartingCell()
	return &GameState{
		ID: uuid.New(),
		Player: party.Character{
			ID:            "player",
			Class:         "Dreamer",
			HP:            30,
			MaxHP:         30,
			EP:            10,
			MaxEP:         10,
			Level:         1,
			Atk:           3,
			Def:           1,
			IsPlayer:      true,
			Backstory:     "A mysterious adventurer.",
			Equipment:     party.Equipment{},
			Skills:        []party.Skill{},
			ActiveEffects: []party.ActiveEffect{},
		},
		Party:     []party.Character{},
		Inventory: []string{},
		Quests:    []quest.Quest{},
		WorldMap: map[string]world.Cell{
			world.PosKey(0, 0): start,
		},
		PlayerPos:         Position{X: 0, Y: 0},
		Status:            StatusMenu,
		History:           []string{},
		LastEventSummary:  "The story has just begun.",
		CurrentSuggestion: Suggestion{Text: openingSuggestions[pick(len(openingSuggestions))]},
	}
}

// CurrentCell returns the tile under the player, or nil if the map is
// somehow missing it.
func (gs *GameState) CurrentCell() *world.Cell {
	cell, ok := gs.WorldMap[world.PosKey(gs.PlayerPos.X, gs.PlayerPos.Y)]
	if !ok {
		return nil
	}
	return &cell
}

// SetCell stores a cell at its own coordinates.
func (gs *GameState) SetCell(cell world.Cell) {
	gs.WorldMap[world.PosKey(cell.X, cell.Y)] = cell
}

// FullParty is the player plus companions, player first. The player entry
// on Party is authoritative during combat; this helper builds it for new
// encounters.
func (gs *GameState) FullParty() []party.Character {
	out := make([]party.Character, 0, len(gs.Party)+1)
	out = append(out, gs.Player)
	for _, c := range gs.Party {
		if !c.IsPlayer {
			out = append(out, c)
		}
	}
	return out
}

// SyncPartyMember writes a character back into the Party slice by ID and
// refreshes the Player mirror when it is the player.
func (gs *GameState) SyncPartyMember(c party.Character) {
	for i := range gs.Party {
		if gs.Party[i].ID == c.ID {
			gs.Party[i] = c
			break
		}
	}
	if c.IsPlayer {
		gs.Player = c
	}
}

// SyncPlayer copies the player's Party entry back onto the Player field
// after anything rewrites party members wholesale.
func (gs *GameState) SyncPlayer() {
	for _, c := range gs.Party {
		if c.IsPlayer {
			gs.Player = c
			return
		}
	}
}

// QuestByID returns a pointer into Quests, or nil.
func (gs *GameState) QuestByID(id string) *quest.Quest {
	for i := range gs.Quests {
		if gs.Quests[i].ID == id {
			return &gs.Quests[i]
		}
	}
	return nil
}

// HistoryTail returns the most recent n history lines for prompting.
func (gs *GameState) HistoryTail(n int) []string {
	if len(gs.History) <= n {
		return gs.History
	}
	return gs.History[len(gs.History)-n:]
}

// DeepCopy clones the state so a turn can mutate freely and commit or
// discard as a unit.
func (gs *GameState) DeepCopy() *GameState {
	out := *gs

	out.Player = gs.Player.Copy()
	out.Party = make([]party.Character, len(gs.Party))
	for i, c := range gs.Party {
		out.Party[i] = c.Copy()
	}

	out.Inventory = append([]string(nil), gs.Inventory...)
	out.Quests = make([]quest.Quest, len(gs.Quests))
	for i, q := range gs.Quests {
		out.Quests[i] = q.Copy()
	}

	out.WorldMap = make(map[string]world.Cell, len(gs.WorldMap))
	for k, cell := range gs.WorldMap {
		out.WorldMap[k] = cell.Copy()
	}

	out.Encyclopedia = gs.Encyclopedia.Copy()

	if gs.Combat != nil {
		combat := &Encounter{
			TurnIndex: gs.Combat.TurnIndex,
			Log:       append([]string(nil), gs.Combat.Log...),
		}
		combat.ActiveEnemies = make([]party.Enemy, len(gs.Combat.ActiveEnemies))
		for i, e := range gs.Combat.ActiveEnemies {
			combat.ActiveEnemies[i] = e.Copy()
		}
		out.Combat = combat
	}

	out.History = append([]string(nil), gs.History...)
	if gs.PendingRecruit != nil {
		pr := *gs.PendingRecruit
		out.PendingRecruit = &pr
	}
	return &out
}
