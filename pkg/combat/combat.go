// Package combat implements the turn-based encounter math: the damage
// formula with equipment, skills, weaknesses and status effects, and the
// round resolver that runs one player action plus the enemy response.
package combat

import (
	"fmt"

	"github.com/jwebster45206/dreambound/pkg/dice"
	"github.com/jwebster45206/dreambound/pkg/party"
	"github.com/jwebster45206/dreambound/pkg/state"
)

// Action is the player's choice for the round.
type Action string

const (
	ActionAttack Action = "ATTACK"
	ActionDefend Action = "DEFEND"
	ActionFlee   Action = "FLEE"
	ActionSkill  Action = "SKILL"
)

// Hit is the computed result of one strike.
type Hit struct {
	Damage      int
	IsCrit      bool
	WeaknessHit bool
}

// CalculateDamage runs the core formula: attack plus weapon bonus and
// skill power, minus defense plus armor bonus, plus a d6, floor 1. Magic
// damage skills pierce for 2 extra before variance. Weakness hits and
// crits each multiply by 1.5; a blinded attacker deals half. A crit fires
// on a natural 20 or a held CRIT_NEXT focus.
func CalculateDamage(attacker, defender *party.Character, weaknesses []party.SkillType, skill *party.Skill, roller *dice.Roller) Hit {
	hasFocus := attacker.HasEffect(party.EffectCritNext)
	isBlinded := attacker.HasEffect(party.EffectBlinded)

	power := attacker.Atk + attacker.WeaponBonus()
	if skill != nil {
		power += skill.Power
	}
	totalDef := defender.Def + defender.ArmorBonus()

	base := power - totalDef
	if skill != nil && skill.Effect == party.EffectDamage && skill.Type == party.SkillMagic {
		base += 2
	}

	damage := base + roller.D6()
	if damage < 1 {
		damage = 1
	}

	var hit Hit
	if skill != nil {
		for _, w := range weaknesses {
			if w == skill.Type {
				damage = damage * 3 / 2
				hit.WeaknessHit = true
				break
			}
		}
	}

	if hasFocus || roller.D20() == 20 {
		damage = damage * 3 / 2
		hit.IsCrit = true
	}
	if isBlinded {
		damage = damage / 2
	}

	hit.Damage = damage
	return hit
}

// Outcome reports how a round left the encounter.
type Outcome struct {
	State      *state.GameState
	Logs       []string
	PlayerWon  bool
	PlayerDied bool
	Defeated   []party.Enemy // enemies that fell this round, for XP and loot
	Fled       bool
}

// ResolveRound executes one full round against the front enemy. The input
// state is never mutated; the returned Outcome.State carries the result.
// Order matters: the player acts (unless stunned), enemy death is checked,
// then the surviving enemy retaliates, and only after that retaliation is
// player death checked.
func ResolveRound(gs *state.GameState, action Action, usedSkill *party.Skill, roller *dice.Roller) (Outcome, error) {
	if gs.Combat == nil || len(gs.Combat.ActiveEnemies) == 0 {
		return Outcome{}, fmt.Errorf("no combat active")
	}

	ns := gs.DeepCopy()
	out := Outcome{State: ns}
	log := func(format string, args ...any) {
		out.Logs = append(out.Logs, fmt.Sprintf(format, args...))
	}

	player := &ns.Player
	enemy := &ns.Combat.ActiveEnemies[0]

	if player.HasEffect(party.EffectStunned) {
		log("You are stunned and cannot act!")
		player.ClearEffect(party.EffectStunned)
	} else {
		switch action {
		case ActionAttack:
			hit := CalculateDamage(player, &enemy.Character, nil, nil, roller)
			enemy.HP -= hit.Damage
			if enemy.HP < 0 {
				enemy.HP = 0
			}
			weapon := "fists"
			if player.Equipment.Weapon != nil {
				weapon = player.Equipment.Weapon.Name
			}
			crit := ""
			if hit.IsCrit {
				crit = " (CRITICAL)"
			}
			log("You attacked %s with %s for %d damage!%s", enemy.Name, weapon, hit.Damage, crit)
			player.ClearEffect(party.EffectCritNext)

		case ActionSkill:
			if usedSkill == nil {
				return Outcome{}, fmt.Errorf("skill action without a skill")
			}
			player.EP -= usedSkill.Cost
			log("You used %s!", usedSkill.Name)

			switch usedSkill.Effect {
			case party.EffectDamage:
				hit := CalculateDamage(player, &enemy.Character, enemy.Weaknesses, usedSkill, roller)
				enemy.HP -= hit.Damage
				if enemy.HP < 0 {
					enemy.HP = 0
				}
				prefix := ""
				if hit.WeaknessHit {
					prefix = "It hit a weakness! "
				}
				crit := ""
				if hit.IsCrit {
					crit = " (CRITICAL)"
				}
				log("%s%d damage dealt.%s", prefix, hit.Damage, crit)
				player.ClearEffect(party.EffectCritNext)
			case party.EffectHeal:
				heal := usedSkill.Power
				if heal == 0 {
					heal = 10
				}
				player.HP += heal
				if player.HP > player.MaxHP {
					player.HP = player.MaxHP
				}
				log("Recovered %d HP.", heal)
			case party.EffectEscape:
				log("You vanished in a blink!")
				ns.Status = state.StatusPlaying
				ns.Combat = nil
				ns.SyncPartyMember(*player)
				out.Fled = true
				return out, nil
			case party.EffectBuffCrit:
				player.AddEffect(party.EffectCritNext, 1)
				log("You focused your aim for the next strike.")
			case party.EffectDebuff:
				enemy.AddEffect(party.EffectBlinded, 1)
				log("%s was blinded!", enemy.Name)
			case party.EffectStun:
				enemy.AddEffect(party.EffectStunned, 1)
				log("%s is mesmerized!", enemy.Name)
			}

		case ActionDefend:
			log("You brace yourself.")

		case ActionFlee:
			if roller.D20() > 10 {
				log("You managed to escape!")
				ns.Status = state.StatusPlaying
				ns.Combat = nil
				ns.SyncPartyMember(*player)
				out.Fled = true
				return out, nil
			}
			log("Failed to escape!")
		}
	}

	if enemy.HP <= 0 {
		log("%s was defeated!", enemy.Name)
		out.Defeated = append(out.Defeated, *enemy)
		ns.Combat.ActiveEnemies = ns.Combat.ActiveEnemies[1:]
		if len(ns.Combat.ActiveEnemies) == 0 {
			ns.Status = state.StatusPlaying
			ns.Combat = nil
			ns.SyncPartyMember(*player)
			out.PlayerWon = true
			return out, nil
		}
	}

	if ns.Combat != nil && len(ns.Combat.ActiveEnemies) > 0 {
		active := &ns.Combat.ActiveEnemies[0]
		if active.HasEffect(party.EffectStunned) {
			log("%s is stunned!", active.Name)
			active.ClearEffect(party.EffectStunned)
		} else {
			hit := CalculateDamage(&active.Character, player, nil, nil, roller)
			dmg := hit.Damage
			if action == ActionDefend {
				dmg = dmg / 2
			}
			player.HP -= dmg
			if player.HP < 0 {
				player.HP = 0
			}
			log("%s attacks you for %d damage.", active.Name, dmg)
			active.ClearEffect(party.EffectBlinded)

			if player.HP <= 0 {
				log("You have fallen in battle...")
				ns.SyncPartyMember(*player)
				out.PlayerDied = true
				return out, nil
			}
		}
	}

	ns.SyncPartyMember(*player)
	return out, nil
}
