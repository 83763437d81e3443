// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package sequence

// Seq16 is a wrapping 16-bit sequence number.
// The number space is treated as a circle: a value is newer than another
// if it lies ahead of it by less than half of the circle.
type Seq16 uint16

// HalfRange is the largest forward distance that still counts as newer.
const HalfRange = 1<<15 - 1

// IsNewer reports whether a is newer than b.
// The forward distance from b to a must be in (0, HalfRange].
// Equal values are never newer. Values exactly half a circle apart
// are not newer in either direction.
func IsNewer(a, b Seq16) bool {
	d := a - b
	return d != 0 && d <= HalfRange
}

// IsNewer reports whether s is newer than other.
func (s Seq16) IsNewer(other Seq16) bool {
	return IsNewer(s, other)
}

// Counter is a monotonically incrementing wrapping frame counter.
// The zero value starts at zero.
type Counter struct {
	current Seq16
}

func (c *Counter) Current() Seq16 {
	return c.current
}

// Inc advances the counter and returns the new value.
func (c *Counter) Inc() Seq16 {
	c.current++
	return c.current
}
