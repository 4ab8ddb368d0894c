package world

import "github.com/jwebster45206/dreambound/pkg/dice"

// EncounterResult is the outcome of an encounter check on entering a cell.
type EncounterResult string

const (
	EncounterNone      EncounterResult = "NONE"
	EncounterCombat    EncounterResult = "COMBAT"
	EncounterDiscovery EncounterResult = "DISCOVERY"
)

// CheckForEncounter rolls for what happens when the player steps onto the
// tile at (x, y). The origin tile is a permanent safe zone. Fresh tiles
// roll d20: above 16 the tile is a discovery (town or dungeon), above 8 an
// ambush. Revisited tiles only ambush above 17.
func CheckForEncounter(x, y int, isNewTile bool, roller *dice.Roller) EncounterResult {
	if x == 0 && y == 0 {
		return EncounterNone
	}
	roll := roller.D20()
	if isNewTile {
		if roll > 16 {
			return EncounterDiscovery
		}
		if roll > 8 {
			return EncounterCombat
		}
		return EncounterNone
	}
	if roll > 17 {
		return EncounterCombat
	}
	return EncounterNone
}

// ShouldGenerateNewEnemy decides between inventing a fresh enemy and
// reusing one the player has already met. Until four enemies are known,
// always invent; afterwards only on a natural 18 or higher.
func ShouldGenerateNewEnemy(knownEnemies int, roller *dice.Roller) bool {
	if knownEnemies < 4 {
		return true
	}
	return roller.D20() >= 18
}
