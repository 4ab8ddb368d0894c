package content

import "strings"

// ItemKind buckets an item for interaction purposes.
type ItemKind string

const (
	KindWeapon     ItemKind = "WEAPON"
	KindArmor      ItemKind = "ARMOR"
	KindConsumable ItemKind = "CONSUMABLE"
	KindSpecial    ItemKind = "SPECIAL"
)

// GuessItemKind classifies an item name. Stock list membership wins;
// otherwise keyword heuristics cover generated names. Appraised category
// data, when the caller has it, should take precedence over this guess.
func GuessItemKind(name string) ItemKind {
	for _, i := range items.Weapons {
		if strings.Contains(name, i) {
			return KindWeapon
		}
	}
	for _, i := range items.Armor {
		if strings.Contains(name, i) {
			return KindArmor
		}
	}
	for _, i := range items.Consumables {
		if strings.Contains(name, i) {
			return KindConsumable
		}
	}
	for _, i := range items.Special {
		if strings.Contains(name, i) {
			return KindSpecial
		}
	}

	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "sword", "dagger", "axe", "bow", "blade", "staff", "spear"):
		return KindWeapon
	case containsAny(lower, "shield", "armor", "vest", "helm", "cloak", "boots", "gauntlet"):
		return KindArmor
	case containsAny(lower, "potion", "elixir", "food", "bread", "water", "berry", "ration", "antidote"):
		return KindConsumable
	}
	return KindSpecial
}

// ItemValue estimates a gold value from material and type keywords.
func ItemValue(name string) int {
	lower := strings.ToLower(name)

	value := 10
	if containsAny(lower, "rusty", "old", "wooden") {
		value = 5
	}
	if containsAny(lower, "iron", "leather") {
		value = 15
	}
	if containsAny(lower, "steel", "chainmail", "reinforced") {
		value = 35
	}
	if containsAny(lower, "mithril", "masterwork", "elven", "magic") {
		value = 100
	}
	if containsAny(lower, "dragon", "void", "ancient") {
		value = 250
	}

	if strings.Contains(lower, "potion") && value < 20 {
		value = 20
	}
	if containsAny(lower, "gem", "gold") {
		value *= 2
	}
	return value
}

// WeaponBonus derives a deterministic atk bonus from the weapon's name.
func WeaponBonus(name string) int {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "rusty", "stick"):
		return 1
	case containsAny(lower, "iron", "dagger"):
		return 2
	case containsAny(lower, "steel", "hunter"):
		return 3
	case containsAny(lower, "masterwork", "magic"):
		return 5
	case containsAny(lower, "void", "dragon"):
		return 7
	default:
		return 2
	}
}

// ArmorBonus derives a deterministic def bonus from the armor's name.
func ArmorBonus(name string) int {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "wooden", "robe"):
		return 1
	case strings.Contains(lower, "leather"):
		return 2
	case containsAny(lower, "chain", "reinforced"):
		return 3
	case containsAny(lower, "plate", "mithril"):
		return 5
	case strings.Contains(lower, "dragon"):
		return 8
	default:
		return 1
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
