// Copyright (c) 2023, 2026 by Marko Gaćeša.
// Licensed under the Apache License, Version 2.0.
// See the LICENSE file or http://www.apache.org/licenses/LICENSE-2.0 for details.

package util

import (
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Recover logs a panic with its stack trace and lets the caller continue.
// It must be called directly with defer.
func Recover(log *slog.Logger) {
	if r := recover(); r != nil {
		log.Error("recovered from panic",
			"panic", fmt.Sprintf("[%T] %v", r, r),
			"stack", string(debug.Stack()))
	}
}
