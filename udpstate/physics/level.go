// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

// MaxObstacles is the capacity of a level.
const MaxObstacles = 16

// Level is the static set of solid rectangles of a session.
// It is built once and only read afterwards.
type Level struct {
	obstacles []Rect
}

func NewLevel(obstacles ...Rect) Level {
	if len(obstacles) > MaxObstacles {
		panic("physics: too many obstacles")
	}

	return Level{obstacles: append([]Rect(nil), obstacles...)}
}

// DefaultLevel returns the level every peer simulates against.
func DefaultLevel(metersToUnits int32) Level {
	return NewLevel(
		RectMeters(-8, -8, 16, 2, metersToUnits),
		RectMeters(-6, -5, 4, 1, metersToUnits),
		RectMeters(0, -5, 2, 1, metersToUnits),
		RectMeters(3, -5, 1, 1, metersToUnits),
		RectMeters(5, -5, 1, 2, metersToUnits),
		RectMeters(-1, -1, 2, 2, metersToUnits),
	)
}

// Obstacles returns a copy of the level's rectangles.
func (l Level) Obstacles() []Rect {
	return append([]Rect(nil), l.obstacles...)
}

func (l Level) Len() int {
	return len(l.obstacles)
}

// Collides reports whether the rectangle overlaps any obstacle.
func (l Level) Collides(r Rect) bool {
	for _, obstacle := range l.obstacles {
		if obstacle.Overlaps(r) {
			return true
		}
	}
	return false
}
