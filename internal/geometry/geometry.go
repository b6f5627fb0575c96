// Package geometry describes the physical key slots of one hand.
package geometry

import (
	"fmt"

	"github.com/verte-zerg/keysplit/internal/model"
)

// Slot is one physical key position.
type Slot struct {
	Finger    int
	CostGroup int
}

// Geometry is an ordered table of slots; the slot index is the key into it.
type Geometry struct {
	Slots []Slot
}

// standard is the 15-slot table shared by both hands. Fingers: 0 index,
// 1 middle, 2 ring, 3 pinky. Cost group 0 is the cheapest to reach.
var standard = [model.HandSlots]Slot{
	{Finger: 3, CostGroup: 4},
	{Finger: 2, CostGroup: 2},
	{Finger: 1, CostGroup: 1},
	{Finger: 0, CostGroup: 2},
	{Finger: 0, CostGroup: 3},
	{Finger: 3, CostGroup: 1},
	{Finger: 2, CostGroup: 1},
	{Finger: 1, CostGroup: 0},
	{Finger: 0, CostGroup: 0},
	{Finger: 0, CostGroup: 2},
	{Finger: 3, CostGroup: 3},
	{Finger: 2, CostGroup: 3},
	{Finger: 1, CostGroup: 2},
	{Finger: 0, CostGroup: 2},
	{Finger: 0, CostGroup: 4},
}

// Standard returns a copy of the fixed 15-slot table.
func Standard() Geometry {
	slots := standard
	return Geometry{Slots: slots[:]}
}

// StandardSlot returns slot i of the fixed table.
func StandardSlot(i int) Slot {
	return standard[i]
}

// Len returns the number of slots.
func (g Geometry) Len() int {
	return len(g.Slots)
}

// Fingers returns one more than the highest finger id in use.
func (g Geometry) Fingers() int {
	n := 0
	for _, s := range g.Slots {
		if s.Finger+1 > n {
			n = s.Finger + 1
		}
	}
	return n
}

// Groups returns, per cost group, the slot indices in ascending order.
func (g Geometry) Groups() [][]int {
	n := 0
	for _, s := range g.Slots {
		if s.CostGroup+1 > n {
			n = s.CostGroup + 1
		}
	}
	groups := make([][]int, n)
	for i, s := range g.Slots {
		groups[s.CostGroup] = append(groups[s.CostGroup], i)
	}
	return groups
}

// Validate checks that finger and cost group ids are non-negative.
func (g Geometry) Validate() error {
	if len(g.Slots) == 0 {
		return fmt.Errorf("geometry has no slots")
	}
	for i, s := range g.Slots {
		if s.Finger < 0 || s.CostGroup < 0 {
			return fmt.Errorf("slot %d has negative finger or cost group", i)
		}
	}
	return nil
}

func init() {
	g := Standard()
	if g.Fingers() != model.Fingers || len(g.Groups()) != model.CostGroups {
		panic("geometry: standard table does not match model constants")
	}
}
