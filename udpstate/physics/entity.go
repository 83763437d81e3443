// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

// Entity is the full replicated state of one player.
// Rectangles are relative to the entity's (or the spell's) position.
type Entity struct {
	P           Position
	V           Vec2 // meters per second
	Hitbox      Rect
	TextureRect Rect

	JumpTimer float32
	Direction int32

	SpellP           Position
	SpellHitbox      Rect
	SpellTextureRect Rect
	SpellTimer       float32
	SpellDirection   int32
}

// SpellActive reports whether the entity's spell is currently in flight.
func (e *Entity) SpellActive() bool {
	return e.SpellTimer > 0
}

// WorldHitbox returns the hitbox at the entity's current position.
func (e *Entity) WorldHitbox() Rect {
	return e.Hitbox.Move(e.P.Unit)
}

// Intent is the movement input for one tick.
type Intent struct {
	MoveX float32 // horizontal axis, clamped to [-1, 1]
	Jump  bool
	Spell bool
}

const (
	playerWidth  = 8
	playerHeight = 8
)

// NewPlayer returns a player entity at the spawn point.
func NewPlayer() Entity {
	return Entity{
		P:                Position{Unit: Vec2i{X: 0, Y: 30}},
		Hitbox:           RectAbs(-playerWidth/2, 0, playerWidth, playerHeight-1),
		TextureRect:      RectAbs(-playerWidth/2, 0, playerWidth, playerHeight),
		Direction:        1,
		SpellHitbox:      RectAbs(-playerWidth/2, 0, playerWidth, playerHeight),
		SpellTextureRect: RectAbs(-playerWidth/2, 0, playerWidth, playerHeight),
	}
}
