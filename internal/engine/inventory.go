package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwebster45206/dreambound/pkg/content"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/quest"
	"github.com/jwebster45206/dreambound/pkg/state"
)

const appraisalCost = 10

// ShopDirection is a buy or sell from the player's perspective.
type ShopDirection string

const (
	ShopBuy  ShopDirection = "BUY"
	ShopSell ShopDirection = "SELL"
)

func removeOneItem(inventory []string, item string) ([]string, bool) {
	for i, name := range inventory {
		if name == item {
			return append(inventory[:i:i], inventory[i+1:]...), true
		}
	}
	return inventory, false
}

// itemKind classifies an inventory item, preferring what appraisal has
// already recorded over the name heuristic.
func itemKind(gs *state.GameState, item string) content.ItemKind {
	if entry := gs.Encyclopedia.Item(item); entry != nil {
		switch entry.Category {
		case string(content.KindWeapon), string(content.KindArmor),
			string(content.KindConsumable), string(content.KindSpecial):
			return content.ItemKind(entry.Category)
		}
	}
	return content.GuessItemKind(item)
}

// EquipItem moves an inventory item into a party member's weapon or armor
// slot, returning any displaced gear to the inventory. Appraised stats win
// over the name-derived bonus.
func (e *Engine) EquipItem(ctx context.Context, item, charID string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}

	ns := e.gs.DeepCopy()
	var target *party.Character
	for i := range ns.Party {
		if ns.Party[i].ID == charID {
			target = &ns.Party[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("no party member %q", charID)
	}

	kind := itemKind(ns, item)
	if kind != content.KindWeapon && kind != content.KindArmor {
		return nil, fmt.Errorf("%s cannot be equipped", item)
	}

	inv, found := removeOneItem(ns.Inventory, item)
	if !found {
		return nil, fmt.Errorf("%s is not in the inventory", item)
	}
	ns.Inventory = inv

	bonus := 0
	if entry := ns.Encyclopedia.Item(item); entry != nil && entry.Stats != nil {
		if kind == content.KindWeapon {
			bonus = entry.Stats.Atk
		} else {
			bonus = entry.Stats.Def
		}
	}
	if bonus == 0 {
		if kind == content.KindWeapon {
			bonus = content.WeaponBonus(item)
		} else {
			bonus = content.ArmorBonus(item)
		}
	}

	if kind == content.KindWeapon {
		if target.Equipment.Weapon != nil {
			ns.Inventory = append(ns.Inventory, target.Equipment.Weapon.Name)
		}
		target.Equipment.Weapon = &party.Weapon{Name: item, AtkBonus: bonus}
	} else {
		if target.Equipment.Armor != nil {
			ns.Inventory = append(ns.Inventory, target.Equipment.Armor.Name)
		}
		target.Equipment.Armor = &party.Armor{Name: item, DefBonus: bonus}
	}
	ns.SyncPlayer()

	logs := []state.LogEntry{state.NewLogEntry(state.LogStory, fmt.Sprintf("%s equipped %s.", target.Name, item))}
	e.commit(ctx, ns, logs)
	return logs, nil
}

// ShopTransaction buys or sells a single item at the quoted price.
func (e *Engine) ShopTransaction(ctx context.Context, dir ShopDirection, item string, value int) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}

	ns := e.gs.DeepCopy()
	var logs []state.LogEntry
	switch dir {
	case ShopBuy:
		if ns.Gold < value {
			return nil, fmt.Errorf("not enough gold for %s", item)
		}
		ns.Gold -= value
		ns.Inventory = append(ns.Inventory, item)
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Bought %s for %d gold.", item, value)))
	case ShopSell:
		inv, found := removeOneItem(ns.Inventory, item)
		if !found {
			return nil, fmt.Errorf("%s is not in the inventory", item)
		}
		ns.Inventory = inv
		ns.Gold += value
		logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("Sold %s for %d gold.", item, value)))
	default:
		return nil, fmt.Errorf("unknown shop direction %q", dir)
	}

	e.commit(ctx, ns, logs)
	return logs, nil
}

// UseItem consumes an inventory item. The narrator decides what the item
// does: consumables heal or teach, capture items bind the current enemy
// into the party, anything else is flavor.
func (e *Engine) UseItem(ctx context.Context, item string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if _, found := removeOneItem(e.gs.Inventory, item); !found {
		return nil, fmt.Errorf("%s is not in the inventory", item)
	}
	token := e.token.Load()

	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("> Using %s...", item)))

	itemContext := "Exploring normally."
	if e.gs.Status == state.StatusCombat && e.gs.Combat != nil && len(e.gs.Combat.ActiveEnemies) > 0 {
		itemContext = fmt.Sprintf("In combat with %s", e.gs.Combat.ActiveEnemies[0].Name)
	}

	result, err := e.gen.IdentifyItemAction(ctx, item, itemContext)
	if err != nil {
		return nil, err
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	ns := e.gs.DeepCopy()
	ns.Inventory, _ = removeOneItem(ns.Inventory, item)

	switch result.Type {
	case state.ItemActionConsumable:
		if result.HPChange != 0 {
			ns.Player.HP += result.HPChange
			if ns.Player.HP > ns.Player.MaxHP {
				ns.Player.HP = ns.Player.MaxHP
			}
			if ns.Player.HP < 0 {
				ns.Player.HP = 0
			}
			ns.SyncPartyMember(ns.Player)
		}
		if result.XPChange > 0 {
			updated, lines := party.AwardXP(ns.Party, result.XPChange, e.roller)
			ns.Party = updated
			ns.SyncPlayer()
			logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("You gained %d XP.", result.XPChange)))
			for _, line := range lines {
				logs = append(logs, state.NewLogEntry(state.LogStory, line))
			}
		}
		logs = append(logs, state.NewLogEntry(state.LogAction, result.Narrative))

	case state.ItemActionCapture:
		capacity := party.MaxPartySize(ns.Player.Level)
		logs = append(logs, state.NewLogEntry(state.LogAction, result.Narrative))
		if len(ns.Party) >= capacity {
			logs = append(logs, state.NewLogEntry(state.LogAction,
				fmt.Sprintf("But your party is full (Max %d). The entity cannot be bound.", capacity)))
			break
		}
		if ns.Status != state.StatusCombat || ns.Combat == nil || len(ns.Combat.ActiveEnemies) == 0 {
			break
		}
		captured := ns.Combat.ActiveEnemies[0].Copy()
		ns.Party = append(ns.Party, captured.Character)
		ns.Combat.ActiveEnemies = ns.Combat.ActiveEnemies[1:]
		logs = append(logs, state.AdvanceIntuition(ns, quest.Event{Type: quest.EventRecruit}, e.roller)...)
		if len(ns.Combat.ActiveEnemies) == 0 {
			ns.Status = state.StatusPlaying
			ns.Combat = nil
			ns.CurrentSuggestion = state.Suggestion{Text: "Check for loot"}
		}

	default:
		logs = append(logs, state.NewLogEntry(state.LogStory, result.Narrative))
	}

	e.commit(ctx, ns, logs)
	return logs, nil
}

// AppraiseItem pays an appraiser to classify an item, recording the result
// in the encyclopedia. Re-appraisal overwrites the earlier entry.
func (e *Engine) AppraiseItem(ctx context.Context, item string) ([]state.LogEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gs == nil {
		return nil, ErrNoSession
	}
	if e.gs.Gold < appraisalCost {
		logs := []state.LogEntry{state.NewLogEntry(state.LogAction, "Not enough gold (10g required).")}
		e.appendJournal(logs)
		return logs, nil
	}
	token := e.token.Load()

	var logs []state.LogEntry
	logs = append(logs, state.NewLogEntry(state.LogAction, fmt.Sprintf("> Appraising %s...", item)))

	entry, err := e.gen.AppraiseItem(ctx, item)
	if err != nil {
		return nil, err
	}
	if e.stale(token) {
		return nil, ErrCancelled
	}

	ns := e.gs.DeepCopy()
	ns.Gold -= appraisalCost
	if existing := ns.Encyclopedia.Item(item); existing != nil {
		*existing = *entry
	} else {
		ns.Encyclopedia.AddItem(*entry)
	}

	category := entry.Category
	if category == "" {
		category = string(content.KindSpecial)
	}
	logs = append(logs, state.NewLogEntry(state.LogStory, fmt.Sprintf("Analysis Complete: %s is classified as %s.", item, category)))
	if entry.Stats != nil {
		var parts []string
		if entry.Stats.Atk != 0 {
			parts = append(parts, fmt.Sprintf("ATK %d", entry.Stats.Atk))
		}
		if entry.Stats.Def != 0 {
			parts = append(parts, fmt.Sprintf("DEF %d", entry.Stats.Def))
		}
		if len(parts) > 0 {
			logs = append(logs, state.NewLogEntry(state.LogAction, "Stats: "+strings.Join(parts, ", ")))
		}
	}
	if entry.Category == string(content.KindConsumable) && entry.Description != "" {
		logs = append(logs, state.NewLogEntry(state.LogAction, "Note: "+entry.Description))
	}

	e.commit(ctx, ns, logs)
	return logs, nil
}
