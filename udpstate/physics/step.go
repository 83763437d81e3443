// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

// Step advances the entity by one fixed tick of dt seconds.
//
// Position is integrated per axis, horizontal first, one unit at a time,
// so a fast entity can never pass through an obstacle. The first blocked
// unit stops the axis and zeroes the velocity along it.
func Step(e *Entity, in Intent, level Level, spec Spec, dt float32) {
	moveX := clamp(-1, in.MoveX, 1)
	if moveX != 0 {
		e.Direction = sign(moveX)
	}

	onGround := level.Collides(e.Hitbox.Move(e.P.Unit.Add(Vec2i{Y: -1})))

	// strafe
	{
		mult := float32(1)
		if !onGround {
			mult = spec.AirInertia
		}
		e.V.X = Approach(e.V.X, moveX*spec.RunSpeed, mult*spec.RunAccel*dt)
	}

	if onGround {
		if in.Jump {
			e.JumpTimer = spec.JumpTime
			e.V.Y = spec.JumpSpeed
		}
	} else if e.JumpTimer > 0 {
		if in.Jump {
			e.JumpTimer -= dt
		} else {
			e.JumpTimer = 0
		}
	}

	if !onGround {
		mult := float32(1)
		if e.JumpTimer > 0 {
			mult = spec.JumpGravityMult
		}
		e.V.Y = Approach(e.V.Y, -spec.FallSpeed, mult*spec.FallAccel*dt)
	}

	unitsPerMeter := float32(spec.MetersToUnits)

	e.P.Rem.X += e.V.X * unitsPerMeter * dt
	if move := round(e.P.Rem.X); move != 0 {
		e.P.Rem.X -= float32(move)
		if sweep(&e.P.Unit, e.Hitbox, level, Vec2i{X: move}) {
			e.V.X = 0
		}
	}

	e.P.Rem.Y += e.V.Y * unitsPerMeter * dt
	if move := round(e.P.Rem.Y); move != 0 {
		e.P.Rem.Y -= float32(move)
		if sweep(&e.P.Unit, e.Hitbox, level, Vec2i{Y: move}) {
			e.V.Y = 0
			if e.JumpTimer > 0 {
				e.JumpTimer = 0
			}
		}
	}

	stepSpell(e, in, spec, dt)
}

// sweep moves unit along a single axis by move, one unit at a time,
// and stops before the first position where the hitbox overlaps the level.
// It returns true if the movement was blocked.
func sweep(unit *Vec2i, hitbox Rect, level Level, move Vec2i) bool {
	dir := Vec2i{X: sign(move.X), Y: sign(move.Y)}
	n := move.X*dir.X + move.Y*dir.Y

	for ; n > 0; n-- {
		next := unit.Add(dir)
		if level.Collides(hitbox.Move(next)) {
			return true
		}
		*unit = next
	}

	return false
}

func stepSpell(e *Entity, in Intent, spec Spec, dt float32) {
	if e.SpellTimer > 0 {
		velocity := float32(e.SpellDirection) * spec.SpellSpeed * float32(spec.MetersToUnits)
		e.SpellP = e.SpellP.Offset(Vec2i{}, Vec2{X: velocity * dt})
		e.SpellTimer -= dt
		return
	}

	if in.Spell {
		e.SpellTimer = spec.SpellTime
		e.SpellDirection = e.Direction
		e.SpellP = e.P
	}
}
