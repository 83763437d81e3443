// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

import "math"

const cameraRateDefault = 5

// Camera trails a target position with an exponential ease.
type Camera struct {
	P    Position
	Rate float32 // halvings of the distance per second
}

func NewCamera(p Position) Camera {
	return Camera{P: p, Rate: cameraRateDefault}
}

// Follow moves the camera toward the target. An axis closer than half a unit is left alone.
func (c *Camera) Follow(target Position, dt float32) {
	diff := c.P.Diff(target)
	factor := 1 - float32(math.Pow(2, float64(-dt*c.Rate)))

	var move Vec2
	if abs(diff.X) > 0.5 {
		move.X = lerp(0, diff.X, factor)
	}
	if abs(diff.Y) > 0.5 {
		move.Y = lerp(0, diff.Y, factor)
	}

	c.P = c.P.Offset(Vec2i{}, move)
}
