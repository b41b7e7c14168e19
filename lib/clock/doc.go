// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// Production code accepts a Clock parameter instead of calling time.Now,
// time.After, or time.NewTicker directly. Real() provides standard
// library behavior; Fake() provides a deterministic clock that advances
// only when Advance is called.
//
// The quiz attempt controller is the main consumer: its one-second
// countdown ticker comes from the injected Clock, so tests can simulate
// a full ten-minute quiz in microseconds and exercise the
// timeout-versus-manual-submit race deterministically.
//
// When a goroutine calls After or NewTicker on a FakeClock it registers
// a pending waiter. Tests use WaitForTimers to block until the waiter
// exists before calling Advance, eliminating the registration race that
// plagues tests synchronized with time.Sleep.
package clock
