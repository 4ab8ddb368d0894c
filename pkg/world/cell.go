// Package world holds the tile map: cells keyed by coordinate, the objects
// living on them, and the deterministic interactions those objects offer.
package world

import (
	"fmt"
	"strconv"
	"strings"
)

// CellType classifies a discovered tile.
type CellType string

const (
	CellWilderness CellType = "WILDERNESS"
	CellTown       CellType = "TOWN"
	CellDungeon    CellType = "DUNGEON"
)

// ObjectType classifies a point of interest on a cell.
type ObjectType string

const (
	ObjectMerchant  ObjectType = "MERCHANT"
	ObjectHealer    ObjectType = "HEALER"
	ObjectNPC       ObjectType = "NPC"
	ObjectResource  ObjectType = "RESOURCE"
	ObjectLoot      ObjectType = "LOOT"
	ObjectObstacle  ObjectType = "OBSTACLE"
	ObjectAppraiser ObjectType = "APPRAISER"
)

// Contents is what a loot or resource object yields when opened.
type Contents struct {
	Items   []string `json:"items,omitempty"`
	Gold    int      `json:"gold,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Object is a point of interest on a cell. Details may be generated lazily:
// until IsDetailed is set, Description is a placeholder. Loot and resource
// objects are one-shot and set HasInteracted once spent.
type Object struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          ObjectType `json:"type"`
	Description   string     `json:"description"`
	IsDetailed    bool       `json:"is_detailed,omitempty"`
	HasInteracted bool       `json:"has_interacted,omitempty"`
	Contents      *Contents  `json:"contents,omitempty"`
}

// Cell is one tile of the world map.
type Cell struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        CellType `json:"type"`
	Biome       string   `json:"biome,omitempty"`
	Visited     bool     `json:"visited"`
	Objects     []Object `json:"objects"`
}

// Object returns the object with the given id, or nil.
func (c *Cell) Object(id string) *Object {
	for i := range c.Objects {
		if c.Objects[i].ID == id {
			return &c.Objects[i]
		}
	}
	return nil
}

func (c Cell) Copy() Cell {
	out := c
	out.Objects = make([]Object, len(c.Objects))
	for i, o := range c.Objects {
		if o.Contents != nil {
			contents := *o.Contents
			contents.Items = append([]string(nil), o.Contents.Items...)
			o.Contents = &contents
		}
		out.Objects[i] = o
	}
	return out
}

// PosKey formats a coordinate as the map key "x,y".
func PosKey(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// ParsePosKey inverts PosKey.
func ParsePosKey(key string) (x, y int, err error) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad position key %q", key)
	}
	x, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad position key %q: %w", key, err)
	}
	y, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad position key %q: %w", key, err)
	}
	return x, y, nil
}

// StartingCell is the tile every run begins on.
func StartingCell() Cell {
	return Cell{
		X:    0,
		Y:    0,
		Name: "The Awakening Stone",
		Description: "A smooth, flat, circular stone. The diameter is about equal to your height. " +
			"The stone sits amidst a featureless monotonous grassy field.",
		Type:    CellWilderness,
		Biome:   "Grassy Field",
		Visited: true,
		Objects: []Object{},
	}
}
