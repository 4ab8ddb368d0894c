package party

import "strings"

// SkillType categorizes a skill for weakness matching and class learning.
type SkillType string

const (
	SkillMagic   SkillType = "MAGIC"
	SkillMelee   SkillType = "MELEE"
	SkillRanged  SkillType = "RANGED"
	SkillSupport SkillType = "SUPPORT"
)

// SkillEffect is what a skill does when used.
type SkillEffect string

const (
	EffectDamage   SkillEffect = "DAMAGE"
	EffectHeal     SkillEffect = "HEAL"
	EffectBuffCrit SkillEffect = "BUFF_CRIT"
	EffectDebuff   SkillEffect = "DEBUFF_ACC"
	EffectEscape   SkillEffect = "ESCAPE"
	EffectStun     SkillEffect = "STUN"
)

// Skill is a learnable ability with an EP cost.
type Skill struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        SkillType   `json:"type"`
	Cost        int         `json:"cost"`
	Power       int         `json:"power,omitempty"`
	Effect      SkillEffect `json:"effect"`
	Description string      `json:"description,omitempty"`
}

// SkillLibrary is the fixed pool skills are learned from on level-up.
var SkillLibrary = []Skill{
	// Magic
	{ID: "fireball_lesser", Name: "Lesser Fireball", Type: SkillMagic, Cost: 5, Power: 8, Effect: EffectDamage, Description: "Hurls a small bolt of flame."},
	{ID: "fireball_greater", Name: "Greater Fireball", Type: SkillMagic, Cost: 15, Power: 25, Effect: EffectDamage, Description: "Explosive blast of fire."},
	{ID: "heal_lesser", Name: "Lesser Heal", Type: SkillMagic, Cost: 5, Power: 15, Effect: EffectHeal, Description: "Restores a small amount of health."},
	{ID: "heal_greater", Name: "Greater Heal", Type: SkillMagic, Cost: 15, Power: 40, Effect: EffectHeal, Description: "Restores a large amount of health."},
	{ID: "poison_cloud", Name: "Poison Cloud", Type: SkillMagic, Cost: 8, Power: 5, Effect: EffectDamage, Description: "Toxic fumes that ignore some defense."},
	{ID: "teleport", Name: "Teleport", Type: SkillMagic, Cost: 10, Effect: EffectEscape, Description: "Instantly escape from danger."},
	{ID: "charm", Name: "Charm", Type: SkillMagic, Cost: 12, Effect: EffectStun, Description: "Mesmerize the enemy, causing them to miss a turn."},

	// Melee
	{ID: "triple_slash", Name: "Triple Slash", Type: SkillMelee, Cost: 8, Power: 12, Effect: EffectDamage, Description: "Three rapid strikes."},
	{ID: "heavy_smash", Name: "Heavy Smash", Type: SkillMelee, Cost: 5, Power: 10, Effect: EffectDamage, Description: "A slow but powerful blow."},
	{ID: "target_eyes", Name: "Target Eyes", Type: SkillMelee, Cost: 6, Effect: EffectDebuff, Description: "Aim for the eyes to blind the enemy temporarily."},

	// Ranged
	{ID: "triple_shot", Name: "Triple Shot", Type: SkillRanged, Cost: 8, Power: 12, Effect: EffectDamage, Description: "Three arrows fired in succession."},
	{ID: "piercing_shot", Name: "Piercing Shot", Type: SkillRanged, Cost: 6, Power: 10, Effect: EffectDamage, Description: "A shot that aims for gaps in armor."},

	// Support
	{ID: "focus_aim", Name: "Focus Aim", Type: SkillSupport, Cost: 5, Effect: EffectBuffCrit, Description: "Take a breath to guarantee a Critical Hit on the next turn."},
	{ID: "meditate", Name: "Meditate", Type: SkillSupport, Cost: 0, Power: 5, Effect: EffectHeal, Description: "Focus mind to restore a tiny bit of HP."},
}

// SkillByID looks up a library skill.
func SkillByID(id string) (Skill, bool) {
	for _, s := range SkillLibrary {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// Archetype is the coarse class grouping used to pick learnable skills.
type Archetype int

const (
	ArchetypeGeneric Archetype = iota
	ArchetypeMage
	ArchetypeWarrior
	ArchetypeRogue
)

var (
	mageKeywords    = []string{"mage", "priest", "scholar", "alchemist", "summoner", "spell"}
	warriorKeywords = []string{"soldier", "berserker", "knight", "spear", "blacksmith"}
	rogueKeywords   = []string{"rogue", "archer", "hunter", "beast", "sailor"}
)

// ClassArchetype derives the archetype from a class name by keyword match.
// Unknown classes fall back to the generic archetype.
func ClassArchetype(className string) Archetype {
	cn := strings.ToLower(className)
	for _, kw := range mageKeywords {
		if strings.Contains(cn, kw) {
			return ArchetypeMage
		}
	}
	for _, kw := range warriorKeywords {
		if strings.Contains(cn, kw) {
			return ArchetypeWarrior
		}
	}
	for _, kw := range rogueKeywords {
		if strings.Contains(cn, kw) {
			return ArchetypeRogue
		}
	}
	return ArchetypeGeneric
}

// learnable reports whether a skill fits an archetype. Generic classes can
// learn anything cheap.
func learnable(a Archetype, s Skill) bool {
	switch a {
	case ArchetypeMage:
		return s.Type == SkillMagic
	case ArchetypeWarrior:
		return s.Type == SkillMelee || s.Type == SkillSupport
	case ArchetypeRogue:
		return s.Type == SkillRanged || s.Type == SkillMelee || s.Type == SkillSupport
	default:
		return s.Cost < 10
	}
}

// PickClassSkill selects a random library skill appropriate to the class
// that the character does not already know. Returns false if none remain.
func PickClassSkill(className string, known []Skill, pick func(n int) int) (Skill, bool) {
	arch := ClassArchetype(className)

	var candidates []Skill
	for _, s := range SkillLibrary {
		dup := false
		for _, k := range known {
			if k.ID == s.ID {
				dup = true
				break
			}
		}
		if !dup && learnable(arch, s) {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 0 {
		return Skill{}, false
	}
	return candidates[pick(len(candidates))], true
}
