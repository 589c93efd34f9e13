// Package core provides the grid/merge simulation for the MergCrush puzzle game.
// This package is UI-agnostic and deterministic given a seeded random source.
//
// Coordinates use a floor-based system: y=0 is the bottom row and "up" is y+1.
package core

import "fmt"

// Pos is a cell coordinate on the grid.
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Pos offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbouring position in the given direction.
func (p Pos) Step(d Dir) Pos {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Below returns the position directly under p.
func (p Pos) Below() Pos {
	return p.Step(DirDown)
}

// Above returns the position directly over p.
func (p Pos) Above() Pos {
	return p.Step(DirUp)
}

// Dir is one of the four orthogonal directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirDown
	DirLeft
	DirRight
)

// adjacencyOrder is the fixed neighbour scan order. Merge tie-breaks depend on it.
var adjacencyOrder = [4]Dir{DirUp, DirDown, DirLeft, DirRight}

// String returns the name of the direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset of one step in this direction.
// Up increases Y since the floor is row 0.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}
