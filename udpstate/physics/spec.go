// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package physics

// Spec holds the movement tuning. Speeds are in meters per second,
// accelerations in meters per second squared, times in seconds.
type Spec struct {
	MetersToUnits int32

	RunSpeed float32
	RunAccel float32

	FallSpeed  float32
	FallAccel  float32
	AirInertia float32 // multiplier of RunAccel while airborne

	JumpSpeed       float32
	JumpTime        float32
	JumpGravityMult float32 // multiplier of FallAccel while the jump is held

	SpellSpeed float32
	SpellTime  float32
}

func DefaultSpec() Spec {
	return Spec{
		MetersToUnits: 8,

		RunSpeed: 12,
		RunAccel: 128,

		FallSpeed:  16,
		FallAccel:  96,
		AirInertia: 0.3,

		JumpSpeed:       16,
		JumpTime:        0.5,
		JumpGravityMult: 0.5,

		SpellSpeed: 20,
		SpellTime:  0.4,
	}
}
