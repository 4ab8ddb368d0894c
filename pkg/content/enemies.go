package content

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
)

// ScaledEnemy instantiates a template at the given party level. HP grows by
// 4 per level, atk by 1, def by 1 every other level, XP value by 5. One
// random skill-type weakness is assigned via pick.
func ScaledEnemy(tpl EnemyTemplate, level int, rarity dice.Rarity, pick func(n int) int) party.Enemy {
	types := []party.SkillType{party.SkillMagic, party.SkillMelee, party.SkillRanged, party.SkillSupport}
	maxHP := tpl.MaxHP + level*4
	return party.Enemy{
		Character: party.Character{
			ID:            "enemy_" + uuid.NewString(),
			Name:          tpl.Name,
			Class:         tpl.Class,
			HP:            maxHP,
			MaxHP:         maxHP,
			EP:            10,
			MaxEP:         10,
			Level:         level,
			Atk:           tpl.Atk + level,
			Def:           tpl.Def + level/2,
			Equipment:     party.Equipment{},
			Skills:        []party.Skill{},
			ActiveEffects: []party.ActiveEffect{},
		},
		Description: tpl.Description,
		XPValue:     tpl.XPValue + level*5,
		Rarity:      rarity,
		Weaknesses:  []party.SkillType{types[pick(len(types))]},
	}
}

// StockEnemy picks a random template of the given rarity and scales it.
func StockEnemy(rarity dice.Rarity, level int, pick func(n int) int) party.Enemy {
	pool := EnemyTemplates(rarity)
	return ScaledEnemy(pool[pick(len(pool))], level, rarity, pick)
}
