package party

import (
	"fmt"
	"math"

	"github.com/jwebster45206/dreambound/pkg/dice"
)

// XPForNextLevel returns the XP threshold to leave the given level:
// 100 at level 1, doubling every level after.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 * (1 << (level - 1))
}

// MaxPartySize is the party cap (player included) at a given player level:
// floor(sqrt(level)) + 1.
func MaxPartySize(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Sqrt(float64(level))) + 1
}

// AwardXP grants XP to every member and resolves level-ups, supporting
// multiple levels from a single award. Each level gained raises MaxHP by 5
// (healing to full), MaxEP by 2 (restoring to full) and Atk by 1; Def rises
// by 1 on even resulting levels. Each level gained also rolls a d6: on a 6
// the member learns one new class-appropriate skill, if any remain.
//
// The input slice is not mutated; the returned slice holds independent
// copies. Returned log lines narrate level-ups and learned skills.
func AwardXP(members []Character, amount int, roller *dice.Roller) ([]Character, []string) {
	out := make([]Character, len(members))
	var logs []string

	for i := range members {
		c := members[i].Copy()
		c.XP += amount

		req := XPForNextLevel(c.Level)
		for c.XP >= req {
			c.XP -= req
			c.Level++
			c.MaxHP += 5
			c.HP = c.MaxHP
			c.MaxEP += 2
			c.EP = c.MaxEP
			c.Atk++
			if c.Level%2 == 0 {
				c.Def++
			}

			logs = append(logs, fmt.Sprintf("%s reached Level %d!", c.Name, c.Level))

			if roller.D6() == 6 {
				if skill, ok := PickClassSkill(c.Class, c.Skills, roller.Intn); ok {
					c.Skills = append(c.Skills, skill)
					logs = append(logs, fmt.Sprintf("%s learned %s!", c.Name, skill.Name))
				}
			}

			req = XPForNextLevel(c.Level)
		}
		out[i] = c
	}

	return out, logs
}
