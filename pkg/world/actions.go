package world

import "fmt"

// ActionIcon tells the client which glyph and which handler path a special
// action takes.
type ActionIcon string

const (
	IconShop     ActionIcon = "SHOP"
	IconTalk     ActionIcon = "TALK"
	IconGather   ActionIcon = "GATHER"
	IconInteract ActionIcon = "INTERACT"
	IconRest     ActionIcon = "REST"
	IconAppraise ActionIcon = "APPRAISE"
	IconRecruit  ActionIcon = "RECRUIT"
)

// ActionEnterDungeon is handled deterministically rather than narrated.
const ActionEnterDungeon = "ENTER_DUNGEON"

// DungeonEntranceID is the synthetic object id behind the enter action.
const DungeonEntranceID = "dungeon_entrance"

// SpecialAction is one button the current cell offers. Action is either a
// sentinel like ActionEnterDungeon or the first-person prompt sent to the
// narrator.
type SpecialAction struct {
	Label       string     `json:"label"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	Icon        ActionIcon `json:"icon_type"`
	ObjectID    string     `json:"object_id,omitempty"`
}

// DeterministicActions derives the special actions a cell offers from its
// type and objects. Spent loot and resource objects offer nothing.
func DeterministicActions(cell Cell) []SpecialAction {
	var actions []SpecialAction

	if cell.Type == CellDungeon {
		actions = append(actions, SpecialAction{
			Label:       "Enter Dungeon",
			Action:      ActionEnterDungeon,
			Description: "Descend into the depths of this location.",
			Icon:        IconInteract,
			ObjectID:    DungeonEntranceID,
		})
	}

	for _, obj := range cell.Objects {
		if obj.ID == "" {
			continue
		}
		if (obj.Type == ObjectLoot || obj.Type == ObjectResource) && obj.HasInteracted {
			continue
		}

		desc := obj.Description
		if !obj.IsDetailed {
			desc = "Interact to examine and reveal details."
		}

		switch obj.Type {
		case ObjectMerchant:
			actions = append(actions, SpecialAction{
				Label:       "Shop",
				Action:      fmt.Sprintf("I want to trade with %s.", obj.Name),
				Description: desc,
				Icon:        IconShop,
				ObjectID:    obj.ID,
			})
		case ObjectHealer:
			actions = append(actions, SpecialAction{
				Label:       "Heal",
				Action:      fmt.Sprintf("I ask %s for healing.", obj.Name),
				Description: desc,
				Icon:        IconRest,
				ObjectID:    obj.ID,
			})
		case ObjectAppraiser:
			actions = append(actions, SpecialAction{
				Label:       "Appraise",
				Action:      fmt.Sprintf("I visit the appraiser %s.", obj.Name),
				Description: desc,
				Icon:        IconAppraise,
				ObjectID:    obj.ID,
			})
		case ObjectNPC:
			actions = append(actions,
				SpecialAction{
					Label:       "Chat",
					Action:      fmt.Sprintf("I talk to %s.", obj.Name),
					Description: desc,
					Icon:        IconTalk,
					ObjectID:    obj.ID,
				},
				SpecialAction{
					Label:       "Recruit",
					Action:      fmt.Sprintf("I attempt to recruit %s to my party.", obj.Name),
					Description: desc,
					Icon:        IconRecruit,
					ObjectID:    obj.ID,
				},
			)
		case ObjectResource:
			actions = append(actions, SpecialAction{
				Label:       "Harvest",
				Action:      fmt.Sprintf("I harvest %s.", obj.Name),
				Description: desc,
				Icon:        IconGather,
				ObjectID:    obj.ID,
			})
		case ObjectLoot:
			actions = append(actions, SpecialAction{
				Label:       "Open",
				Action:      fmt.Sprintf("I open the %s.", obj.Name),
				Description: desc,
				Icon:        IconInteract,
				ObjectID:    obj.ID,
			})
		default:
			actions = append(actions, SpecialAction{
				Label:       "Inspect",
				Action:      fmt.Sprintf("I examine the %s.", obj.Name),
				Description: desc,
				Icon:        IconInteract,
				ObjectID:    obj.ID,
			})
		}
	}

	return actions
}
