// Package content holds the stock tables the generators fall back on:
// item lists by rarity, enemy templates, and recruitable classes. Tables
// live in embedded YAML so they can be tuned without touching code.
package content

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/dreambound/pkg/dice"
)

//go:embed data/*.yaml
var dataFS embed.FS

type itemTables struct {
	Weapons        []string `yaml:"weapons"`
	Armor          []string `yaml:"armor"`
	Consumables    []string `yaml:"consumables"`
	Special        []string `yaml:"special"`
	Common         []string `yaml:"common"`
	Uncommon       []string `yaml:"uncommon"`
	Rare           []string `yaml:"rare"`
	CursedPrefixes []string `yaml:"cursed_prefixes"`
}

// EnemyTemplate is a stock enemy before level scaling.
type EnemyTemplate struct {
	Name        string `yaml:"name"`
	Class       string `yaml:"class"`
	MaxHP       int    `yaml:"max_hp"`
	Atk         int    `yaml:"atk"`
	Def         int    `yaml:"def"`
	XPValue     int    `yaml:"xp_value"`
	Description string `yaml:"description"`
}

type enemyTables struct {
	Common   []EnemyTemplate `yaml:"common"`
	Uncommon []EnemyTemplate `yaml:"uncommon"`
	Rare     []EnemyTemplate `yaml:"rare"`
}

// ClassStats are the stat bonuses a class grants on top of the base line.
type ClassStats struct {
	Atk int `yaml:"atk"`
	Def int `yaml:"def"`
	HP  int `yaml:"hp"`
}

// ClassTemplate describes a recruitable or playable class.
type ClassTemplate struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Stats       ClassStats `yaml:"stats"`
}

type classTables struct {
	Common   []ClassTemplate `yaml:"common"`
	Uncommon []ClassTemplate `yaml:"uncommon"`
	Rare     []ClassTemplate `yaml:"rare"`
}

var (
	items   itemTables
	enemies enemyTables
	classes classTables
)

func init() {
	mustLoad("data/items.yaml", &items)
	mustLoad("data/enemies.yaml", &enemies)
	mustLoad("data/classes.yaml", &classes)
}

func mustLoad(path string, out any) {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("content: read %s: %v", path, err))
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		panic(fmt.Sprintf("content: parse %s: %v", path, err))
	}
}

// ItemsByRarity returns the stock item pool for a table rarity. Cursed has
// no pool of its own; callers use a cursed prefix on a common item instead.
func ItemsByRarity(r dice.Rarity) []string {
	switch r {
	case dice.RarityUncommon:
		return items.Uncommon
	case dice.RarityRare:
		return items.Rare
	default:
		return items.Common
	}
}

// CursedPrefixes returns the adjectives prepended to a common item when a
// cursed drop is rolled.
func CursedPrefixes() []string { return items.CursedPrefixes }

// StockItem picks from the rarity pool using the supplied index function.
// For cursed rarity the result is a prefixed common item.
func StockItem(r dice.Rarity, pick func(n int) int) string {
	if r == dice.RarityCursed {
		prefix := items.CursedPrefixes[pick(len(items.CursedPrefixes))]
		base := items.Common[pick(len(items.Common))]
		return prefix + " " + base
	}
	pool := ItemsByRarity(r)
	return pool[pick(len(pool))]
}

// EnemyTemplates returns the stock templates for a table rarity.
func EnemyTemplates(r dice.Rarity) []EnemyTemplate {
	switch r {
	case dice.RarityUncommon:
		return enemies.Uncommon
	case dice.RarityRare:
		return enemies.Rare
	default:
		return enemies.Common
	}
}

// ClassTemplates returns the class pool for a table rarity.
func ClassTemplates(r dice.Rarity) []ClassTemplate {
	switch r {
	case dice.RarityUncommon:
		return classes.Uncommon
	case dice.RarityRare:
		return classes.Rare
	default:
		return classes.Common
	}
}

// ClassByName finds a class template across all rarities.
func ClassByName(name string) (ClassTemplate, bool) {
	for _, pool := range [][]ClassTemplate{classes.Common, classes.Uncommon, classes.Rare} {
		for _, c := range pool {
			if c.Name == name {
				return c, true
			}
		}
	}
	return ClassTemplate{}, false
}
