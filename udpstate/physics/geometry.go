// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

import "math"

type Vec2i struct {
	X, Y int32
}

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{X: v.X - o.X, Y: v.Y - o.Y} }

type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

// Rect is an axis-aligned integer rectangle. The lower corner (X0, Y0) is inclusive,
// the upper corner (X1, Y1) is exclusive.
type Rect struct {
	X0, Y0, X1, Y1 int32
}

// RectAbs returns a rectangle with the lower corner at (x, y) and the given size.
func RectAbs(x, y, width, height int32) Rect {
	return Rect{X0: x, Y0: y, X1: x + width, Y1: y + height}
}

// RectMeters returns a rectangle given in meters, scaled to units.
func RectMeters(x, y, width, height, metersToUnits int32) Rect {
	return Rect{
		X0: x * metersToUnits,
		Y0: y * metersToUnits,
		X1: (x + width) * metersToUnits,
		Y1: (y + height) * metersToUnits,
	}
}

func (r Rect) Move(offset Vec2i) Rect {
	return Rect{
		X0: r.X0 + offset.X,
		Y0: r.Y0 + offset.Y,
		X1: r.X1 + offset.X,
		Y1: r.Y1 + offset.Y,
	}
}

func (r Rect) Width() int32  { return r.X1 - r.X0 }
func (r Rect) Height() int32 { return r.Y1 - r.Y0 }

// Overlaps reports whether the two rectangles share any area. Touching edges do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	if r.X1 <= o.X0 || o.X1 <= r.X0 {
		return false
	}

	if r.Y1 <= o.Y0 || o.Y1 <= r.Y0 {
		return false
	}

	return true
}

// Approach moves value toward target by at most step, never overshooting the target.
func Approach(value, target, step float32) float32 {
	if step < 0 {
		step = -step
	}

	diff := target - value
	if diff > step {
		return value + step
	}
	if diff < -step {
		return value - step
	}

	return target
}

func lerp(a, b, x float32) float32 {
	return (1-x)*a + x*b
}

func clamp(lo, x, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func sign[T int32 | float32](x T) int32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func round(x float32) int32 {
	return int32(math.Round(float64(x)))
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
