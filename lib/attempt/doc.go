// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package attempt owns the lifecycle of a single quiz attempt: loading
// the questions, recording in-progress answers, running the countdown,
// and submitting exactly once, by user action or by timeout, after
// which the attempt is immutable and carries the score.
//
// The state machine is Loading → InProgress → Submitting → Submitted.
// Submitted is terminal and Loading is never re-entered. The countdown
// ticker comes from an injected clock.Clock, so tests drive a full
// quiz deterministically with a fake clock.
//
// The only two writers that can race are the countdown reaching zero
// and a manual submit. Both funnel through a single guarded
// transition: the first to observe InProgress flips the state to
// Submitting under the controller's mutex, synchronously, before any
// request is issued; the loser observes Submitting or Submitted and
// no-ops. Time remaining is recomputed from the attempt deadline on
// every tick rather than decremented, so dropped or jittered ticks
// cannot stretch the attempt.
//
// State changes and ticks are published on the Events channel for the
// view layer, which renders the countdown as MM:SS and disables every
// control the instant the state leaves InProgress.
package attempt
