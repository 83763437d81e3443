// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package client

import "github.com/marko-gacesa/udpstate/udpstate/physics"

// InputSource provides the local player's intent, once per frame.
type InputSource interface {
	Intent() physics.Intent
}

// IdleInput never moves.
type IdleInput struct{}

func (IdleInput) Intent() physics.Intent { return physics.Intent{} }

// InputFunc adapts a function to InputSource.
type InputFunc func() physics.Intent

func (fn InputFunc) Intent() physics.Intent { return fn() }

// BotInput is a scripted player for headless peers. It runs in one direction,
// turns around every TurnEvery frames, jumps for JumpHold frames every JumpEvery frames
// and casts a spell every SpellEvery frames. A zero period disables the action.
type BotInput struct {
	TurnEvery  int
	JumpEvery  int
	JumpHold   int
	SpellEvery int

	frame     int
	direction float32
}

// NewBotInput returns a bot with periods suited to a 60 Hz frame rate.
func NewBotInput() *BotInput {
	return &BotInput{
		TurnEvery:  150,
		JumpEvery:  90,
		JumpHold:   20,
		SpellEvery: 45,
	}
}

func (b *BotInput) Intent() physics.Intent {
	if b.direction == 0 {
		b.direction = 1
	}

	if b.TurnEvery > 0 && b.frame > 0 && b.frame%b.TurnEvery == 0 {
		b.direction = -b.direction
	}

	in := physics.Intent{MoveX: b.direction}

	if b.JumpEvery > 0 && b.frame%b.JumpEvery < b.JumpHold {
		in.Jump = true
	}

	if b.SpellEvery > 0 && b.frame%b.SpellEvery == 0 {
		in.Spell = true
	}

	b.frame++

	return in
}
