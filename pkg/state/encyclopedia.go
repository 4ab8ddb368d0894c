package state

import (
	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
)

// ItemStats are equipment bonuses recorded by appraisal.
type ItemStats struct {
	Atk int `json:"atk,omitempty"`
	Def int `json:"def,omitempty"`
}

// ItemEntry is an appraised or discovered item record.
type ItemEntry struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Value       int         `json:"value,omitempty"`
	Description string      `json:"description"`
	Rarity      dice.Rarity `json:"rarity"`
	Stats       *ItemStats  `json:"stats,omitempty"`
}

// LocationEntry records a named place the player has seen.
type LocationEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Encyclopedia accumulates everything the player has learned about the
// dream: enemies fought, items identified, places visited.
type Encyclopedia struct {
	Enemies   []party.Enemy   `json:"enemies,omitempty"`
	Items     []ItemEntry     `json:"items,omitempty"`
	Locations []LocationEntry `json:"locations,omitempty"`
}

// KnowsEnemy reports whether an enemy with this name has been recorded.
func (e *Encyclopedia) KnowsEnemy(name string) bool {
	for _, en := range e.Enemies {
		if en.Name == name {
			return true
		}
	}
	return false
}

// AddEnemy records an enemy unless one with the same name exists.
func (e *Encyclopedia) AddEnemy(en party.Enemy) {
	if e.KnowsEnemy(en.Name) {
		return
	}
	e.Enemies = append(e.Enemies, en.Copy())
}

// KnowsLocation reports whether a location with this ID has been recorded.
func (e *Encyclopedia) KnowsLocation(id string) bool {
	for _, l := range e.Locations {
		if l.ID == id {
			return true
		}
	}
	return false
}

// AddLocation records a discovered place unless its ID is already known.
func (e *Encyclopedia) AddLocation(entry LocationEntry) {
	if e.KnowsLocation(entry.ID) {
		return
	}
	e.Locations = append(e.Locations, entry)
}

// Item looks up an item entry by name.
func (e *Encyclopedia) Item(name string) *ItemEntry {
	for i := range e.Items {
		if e.Items[i].Name == name {
			return &e.Items[i]
		}
	}
	return nil
}

// AddItem records an item entry unless the name is already known.
func (e *Encyclopedia) AddItem(entry ItemEntry) {
	if e.Item(entry.Name) != nil {
		return
	}
	e.Items = append(e.Items, entry)
}

func (e Encyclopedia) Copy() Encyclopedia {
	out := Encyclopedia{}
	out.Enemies = make([]party.Enemy, len(e.Enemies))
	for i, en := range e.Enemies {
		out.Enemies[i] = en.Copy()
	}
	out.Items = make([]ItemEntry, len(e.Items))
	for i, it := range e.Items {
		it.Tags = append([]string(nil), it.Tags...)
		if it.Stats != nil {
			stats := *it.Stats
			it.Stats = &stats
		}
		out.Items[i] = it
	}
	out.Locations = append([]LocationEntry(nil), e.Locations...)
	return out
}
