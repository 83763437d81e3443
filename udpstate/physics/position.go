// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

// Position is a coordinate split into an exact integer unit and a bounded fractional remainder.
// The remainder is folded into the unit on every update, so it always stays within [-1, 1)
// and collision tests can be done on the integer part alone.
type Position struct {
	Unit Vec2i
	Rem  Vec2
}

// Offset returns the position moved by whole units plus a fractional offset.
// The resulting remainder is renormalized into the unit.
func (p Position) Offset(units Vec2i, rem Vec2) Position {
	remX := p.Rem.X + rem.X
	remY := p.Rem.Y + rem.Y

	moveX := round(remX)
	moveY := round(remY)

	return Position{
		Unit: Vec2i{
			X: p.Unit.X + units.X + moveX,
			Y: p.Unit.Y + units.Y + moveY,
		},
		Rem: Vec2{
			X: remX - float32(moveX),
			Y: remY - float32(moveY),
		},
	}
}

// Diff returns the distance from p to other, in units.
func (p Position) Diff(other Position) Vec2 {
	unit := other.Unit.Sub(p.Unit)
	rem := other.Rem.Sub(p.Rem)
	return Vec2{
		X: float32(unit.X) + rem.X,
		Y: float32(unit.Y) + rem.Y,
	}
}
