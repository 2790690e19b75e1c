// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package natives provides the host functions loxvm exposes to Lox
// programs as plain global callables, bound into the VM's globals
// table at startup exactly like any other object.Native (native
// boundary).
package natives

import (
	"github.com/benbjohnson/clock"

	"github.com/loxvm/loxvm/pkg/lox/object"
	"github.com/loxvm/loxvm/pkg/lox/value"
)

// Clock returns the single native this core ships: clock(), seconds
// since the Unix epoch as a float64. It takes a benbjohnson/clock.Clock
// instead of calling time.Now() directly so tests can inject a fake
// clock and assert on the exact value a script observes.
func Clock(c clock.Clock) object.NativeFn {
	return func(args []value.Value) (value.Value, error) {
		elapsed := float64(c.Now().UnixNano()) / 1e9
		return value.NumberValue(elapsed), nil
	}
}
