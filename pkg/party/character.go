// Package party holds the combatant data model shared by the player,
// companions and enemies, plus the leveling rules that act on them.
package party

import (
	"github.com/jwebster45206/dreambound/pkg/dice"
)

// Gender options offered at character creation.
type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non-Binary"
)

// EffectType identifies a timed combat effect.
type EffectType string

const (
	EffectCritNext EffectType = "CRIT_NEXT" // next attack is a guaranteed critical
	EffectBlinded  EffectType = "BLINDED"   // outgoing damage halved
	EffectStunned  EffectType = "STUNNED"   // next action skipped
)

// ActiveEffect is a buff or debuff with a remaining-turn counter.
type ActiveEffect struct {
	Type     EffectType `json:"type"`
	Duration int        `json:"duration"`
}

// Weapon is an equipped weapon and its additive attack bonus.
type Weapon struct {
	Name     string `json:"name"`
	AtkBonus int    `json:"atk_bonus"`
}

// Armor is an equipped armor piece and its additive defense bonus.
type Armor struct {
	Name     string `json:"name"`
	DefBonus int    `json:"def_bonus"`
}

// Equipment holds at most one weapon and one armor slot.
type Equipment struct {
	Weapon *Weapon `json:"weapon,omitempty"`
	Armor  *Armor  `json:"armor,omitempty"`
}

// Character is a member of the party: the player or a companion.
// HP and EP are always clamped to [0, max].
type Character struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Class         string         `json:"class"`
	HP            int            `json:"hp"`
	MaxHP         int            `json:"max_hp"`
	EP            int            `json:"ep"`
	MaxEP         int            `json:"max_ep"`
	Level         int            `json:"level"`
	XP            int            `json:"xp"`
	Atk           int            `json:"atk"`
	Def           int            `json:"def"`
	IsPlayer      bool           `json:"is_player"`
	Backstory     string         `json:"backstory,omitempty"`
	Equipment     Equipment      `json:"equipment"`
	Skills        []Skill        `json:"skills,omitempty"`
	ActiveEffects []ActiveEffect `json:"active_effects,omitempty"`

	// OriginID links a companion back to the map object it was recruited
	// from, so the same NPC cannot be recruited twice.
	OriginID string `json:"origin_id,omitempty"`
}

// Enemy extends Character with combat-reward and weakness metadata.
// Enemies live only for the duration of an encounter, unless captured.
type Enemy struct {
	Character
	Description string      `json:"description,omitempty"`
	XPValue     int         `json:"xp_value"`
	Rarity      dice.Rarity `json:"rarity,omitempty"`
	Weaknesses  []SkillType `json:"weaknesses,omitempty"`
}

// HasEffect reports whether an effect of the given type is active.
func (c *Character) HasEffect(t EffectType) bool {
	for _, e := range c.ActiveEffects {
		if e.Type == t {
			return true
		}
	}
	return false
}

// ClearEffect removes all active effects of the given type.
func (c *Character) ClearEffect(t EffectType) {
	kept := c.ActiveEffects[:0]
	for _, e := range c.ActiveEffects {
		if e.Type != t {
			kept = append(kept, e)
		}
	}
	c.ActiveEffects = kept
}

// AddEffect attaches a timed effect.
func (c *Character) AddEffect(t EffectType, duration int) {
	c.ActiveEffects = append(c.ActiveEffects, ActiveEffect{Type: t, Duration: duration})
}

// WeaponBonus returns the equipped weapon's attack bonus, or 0.
func (c *Character) WeaponBonus() int {
	if c.Equipment.Weapon == nil {
		return 0
	}
	return c.Equipment.Weapon.AtkBonus
}

// ArmorBonus returns the equipped armor's defense bonus, or 0.
func (c *Character) ArmorBonus() int {
	if c.Equipment.Armor == nil {
		return 0
	}
	return c.Equipment.Armor.DefBonus
}

// ClampVitals forces HP and EP back into [0, max].
func (c *Character) ClampVitals() {
	if c.HP < 0 {
		c.HP = 0
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.EP < 0 {
		c.EP = 0
	}
	if c.EP > c.MaxEP {
		c.EP = c.MaxEP
	}
}

// Heal restores up to amount HP, capped at MaxHP, and returns the amount
// actually restored.
func (c *Character) Heal(amount int) int {
	before := c.HP
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP - before
}

// Copy returns an independent copy of the character. Slices and equipment
// pointers are duplicated so mutating the copy never touches the original.
func (c *Character) Copy() Character {
	out := *c
	if c.Equipment.Weapon != nil {
		w := *c.Equipment.Weapon
		out.Equipment.Weapon = &w
	}
	if c.Equipment.Armor != nil {
		a := *c.Equipment.Armor
		out.Equipment.Armor = &a
	}
	out.Skills = append([]Skill(nil), c.Skills...)
	out.ActiveEffects = append([]ActiveEffect(nil), c.ActiveEffects...)
	return out
}

// Copy returns an independent copy of the enemy.
func (e *Enemy) Copy() Enemy {
	out := *e
	out.Character = e.Character.Copy()
	out.Weaknesses = append([]SkillType(nil), e.Weaknesses...)
	return out
}

// IsWeakTo reports whether the enemy takes bonus damage from a skill type.
func (e *Enemy) IsWeakTo(t SkillType) bool {
	for _, w := range e.Weaknesses {
		if w == t {
			return true
		}
	}
	return false
}
