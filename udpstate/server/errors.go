// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package server

import "errors"

var (
	ErrServerFull       = errors.New("server full")
	ErrAlreadyConnected = errors.New("already connected")
	ErrDuplicateName    = errors.New("nickname taken")
	ErrNotConnected     = errors.New("sender not connected")
	ErrStaleSnapshot    = errors.New("stale snapshot")
)
