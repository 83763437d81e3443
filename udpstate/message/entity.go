// Copyright (c) 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import "github.com/marko-gacesa/udpstate/udpstate/physics"

const SizeOfEntity = 120

func putVec2i(s *Serializer, v physics.Vec2i) {
	s.PutInt32(v.X)
	s.PutInt32(v.Y)
}

func getVec2i(d *Deserializer, v *physics.Vec2i) {
	d.GetInt32(&v.X)
	d.GetInt32(&v.Y)
}

func putVec2(s *Serializer, v physics.Vec2) {
	s.PutFloat32(v.X)
	s.PutFloat32(v.Y)
}

func getVec2(d *Deserializer, v *physics.Vec2) {
	d.GetFloat32(&v.X)
	d.GetFloat32(&v.Y)
}

func putPosition(s *Serializer, p physics.Position) {
	putVec2i(s, p.Unit)
	putVec2(s, p.Rem)
}

func getPosition(d *Deserializer, p *physics.Position) {
	getVec2i(d, &p.Unit)
	getVec2(d, &p.Rem)
}

func putRect(s *Serializer, r physics.Rect) {
	s.PutInt32(r.X0)
	s.PutInt32(r.Y0)
	s.PutInt32(r.X1)
	s.PutInt32(r.Y1)
}

func getRect(d *Deserializer, r *physics.Rect) {
	d.GetInt32(&r.X0)
	d.GetInt32(&r.Y0)
	d.GetInt32(&r.X1)
	d.GetInt32(&r.Y1)
}

func putEntity(s *Serializer, e *physics.Entity) {
	putPosition(s, e.P)
	putVec2(s, e.V)
	putRect(s, e.Hitbox)
	putRect(s, e.TextureRect)
	s.PutFloat32(e.JumpTimer)
	s.PutInt32(e.Direction)

	putPosition(s, e.SpellP)
	putRect(s, e.SpellHitbox)
	putRect(s, e.SpellTextureRect)
	s.PutFloat32(e.SpellTimer)
	s.PutInt32(e.SpellDirection)
}

func getEntity(d *Deserializer, e *physics.Entity) {
	getPosition(d, &e.P)
	getVec2(d, &e.V)
	getRect(d, &e.Hitbox)
	getRect(d, &e.TextureRect)
	d.GetFloat32(&e.JumpTimer)
	d.GetInt32(&e.Direction)

	getPosition(d, &e.SpellP)
	getRect(d, &e.SpellHitbox)
	getRect(d, &e.SpellTextureRect)
	d.GetFloat32(&e.SpellTimer)
	d.GetInt32(&e.SpellDirection)
}
