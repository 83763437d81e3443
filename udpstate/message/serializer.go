// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package message

import (
	"encoding/binary"
	"io"
	"math"
)

// Serializer writes big-endian values into a fixed buffer.
// Writing past the end of the buffer is a programming error and panics.
type Serializer struct {
	buf []byte
	n   int
}

func NewSerializer(buf []byte) Serializer {
	return Serializer{buf: buf}
}

func (s *Serializer) Len() int {
	return s.n
}

// Bytes returns the written part of the buffer.
func (s *Serializer) Bytes() []byte {
	return s.buf[:s.n]
}

func (s *Serializer) next(size int) []byte {
	if s.n+size > len(s.buf) {
		panic(ErrBufferOverrun)
	}
	b := s.buf[s.n : s.n+size]
	s.n += size
	return b
}

func (s *Serializer) Put8(v uint8) {
	s.next(1)[0] = v
}

func (s *Serializer) Put16(v uint16) {
	binary.BigEndian.PutUint16(s.next(2), v)
}

func (s *Serializer) Put32(v uint32) {
	binary.BigEndian.PutUint32(s.next(4), v)
}

func (s *Serializer) PutInt32(v int32) {
	s.Put32(uint32(v))
}

func (s *Serializer) PutFloat32(v float32) {
	s.Put32(math.Float32bits(v))
}

// PutRaw copies v as is, without a length prefix.
func (s *Serializer) PutRaw(v []byte) {
	copy(s.next(len(v)), v)
}

// PutStr writes a string prefixed by its length as a single byte.
func (s *Serializer) PutStr(v string) {
	l := len(v)
	if l > math.MaxUint8 {
		panic("max len of string is 255")
	}
	s.Put8(uint8(l))
	copy(s.next(l), v)
}

func (s *Serializer) Put(v Putter) {
	l := v.Put(s.buf[s.n:])
	s.n += l
}

// Deserializer reads big-endian values from a buffer. Reading past the end
// of the buffer records io.ErrUnexpectedEOF, after which every read yields a zero value.
type Deserializer struct {
	buf []byte
	n   int
	err error
}

func NewDeserializer(buf []byte) Deserializer {
	return Deserializer{buf: buf}
}

func (d *Deserializer) Len() int {
	return d.n
}

// Error returns the first error encountered while reading.
func (d *Deserializer) Error() error {
	return d.err
}

func (d *Deserializer) next(size int) []byte {
	if d.err != nil {
		return nil
	}
	if d.n+size > len(d.buf) {
		d.err = io.ErrUnexpectedEOF
		return nil
	}
	b := d.buf[d.n : d.n+size]
	d.n += size
	return b
}

func (d *Deserializer) Get8(v *uint8) {
	if b := d.next(1); b != nil {
		*v = b[0]
		return
	}
	*v = 0
}

func (d *Deserializer) Get16(v *uint16) {
	if b := d.next(2); b != nil {
		*v = binary.BigEndian.Uint16(b)
		return
	}
	*v = 0
}

func (d *Deserializer) Get32(v *uint32) {
	if b := d.next(4); b != nil {
		*v = binary.BigEndian.Uint32(b)
		return
	}
	*v = 0
}

func (d *Deserializer) GetInt32(v *int32) {
	var u uint32
	d.Get32(&u)
	*v = int32(u)
}

func (d *Deserializer) GetFloat32(v *float32) {
	var u uint32
	d.Get32(&u)
	*v = math.Float32frombits(u)
}

// GetRaw fills v completely from the buffer.
func (d *Deserializer) GetRaw(v []byte) {
	if b := d.next(len(v)); b != nil {
		copy(v, b)
		return
	}
	clear(v)
}

func (d *Deserializer) GetStr(v *string) {
	var l uint8
	d.Get8(&l)
	if b := d.next(int(l)); b != nil {
		*v = string(b)
		return
	}
	*v = ""
}

func (d *Deserializer) Get(v Getter) {
	if d.err != nil {
		return
	}
	l, err := v.Get(d.buf[d.n:])
	d.n += l
	if err != nil {
		d.err = err
	}
}
