// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package attempt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/clock"
)

// State is the attempt lifecycle state.
type State int

const (
	// StateLoading: questions not yet fetched. Initial state.
	StateLoading State = iota
	// StateInProgress: countdown running, answers mutable.
	StateInProgress
	// StateSubmitting: a submission request is in flight. Answers are
	// frozen and ticks have no observable effect.
	StateSubmitting
	// StateSubmitted: terminal. The score is available.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateInProgress:
		return "in progress"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ValidationError is bad local input: an invalid quiz, question, or
// choice ID. It never causes a network request.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "attempt: " + e.Reason }

// StateError is an operation attempted in a state that disallows it,
// such as selecting an answer after submission. The view layer
// prevents these by disabling controls; the error exists for callers
// that bypass it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("attempt: %s not allowed while %s", e.Op, e.State)
}

// Event is a state notification published to the view layer.
type Event struct {
	// State is the attempt state after the transition or tick.
	State State
	// SecondsRemaining is the clamped countdown value.
	SecondsRemaining int
	// Score is valid once State is StateSubmitted.
	Score float64
	// Err carries a failed submission; the attempt returns to
	// InProgress and may be resubmitted while time remains.
	Err error
}

// Controller runs one quiz attempt. Create with New, load with Start,
// and Close when the view unmounts to stop the tick source.
type Controller struct {
	session *api.Session
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	quiz     *api.QuizDetail
	answers  map[int64]int64
	deadline time.Time
	score    float64

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a Controller in StateLoading. clk may be nil, defaulting
// to the real clock; logger may be nil, defaulting to slog.Default().
func New(session *api.Session, clk clock.Clock, logger *slog.Logger) *Controller {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		session: session,
		clock:   clk,
		logger:  logger,
		state:   StateLoading,
		answers: make(map[int64]int64),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}
}

// Events delivers ticks and state transitions to the view layer. The
// channel is never closed; consumers stop reading after the Submitted
// event or after calling Close.
func (c *Controller) Events() <-chan Event { return c.events }

// Start fetches the quiz and begins the countdown. A non-positive quiz
// ID fails fast with *ValidationError before any request is issued. On
// success the state is InProgress with secondsRemaining initialized to
// the quiz duration. ctx is retained for the eventual submission
// request (including timeout-triggered auto-submit).
func (c *Controller) Start(ctx context.Context, quizID int64) error {
	if quizID <= 0 {
		return &ValidationError{Reason: fmt.Sprintf("invalid quiz id %d", quizID)}
	}

	c.mu.Lock()
	if c.state != StateLoading {
		state := c.state
		c.mu.Unlock()
		return &StateError{Op: "start", State: state}
	}
	c.mu.Unlock()

	detail, err := c.session.QuizDetail(ctx, quizID)
	if err != nil {
		return fmt.Errorf("attempt: loading quiz %d: %w", quizID, err)
	}
	if detail.DurationMinutes <= 0 {
		return fmt.Errorf("attempt: quiz %d has non-positive duration %d", quizID, detail.DurationMinutes)
	}

	duration := time.Duration(detail.DurationMinutes) * time.Minute

	c.mu.Lock()
	c.quiz = detail
	c.deadline = c.clock.Now().Add(duration)
	c.state = StateInProgress
	c.mu.Unlock()

	c.logger.Info("attempt started",
		"quiz_id", quizID,
		"questions", len(detail.Questions),
		"duration_minutes", detail.DurationMinutes,
	)

	c.publish(Event{State: StateInProgress, SecondsRemaining: detail.DurationMinutes * 60})
	go c.run(ctx)
	return nil
}

// run is the countdown loop: one tick per second while the attempt is
// in progress. Exits when the attempt reaches a terminal state or the
// controller is closed.
func (c *Controller) run(ctx context.Context) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		// Ticks have no observable effect once submission has begun.
		if c.state != StateInProgress {
			if c.state == StateSubmitted {
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
			continue
		}
		remaining := c.remainingLocked()
		expired := remaining <= 0
		c.mu.Unlock()

		if expired {
			// Timeout contract: submit whatever has been recorded.
			c.submit(ctx, true)
			continue
		}
		c.publish(Event{State: StateInProgress, SecondsRemaining: remaining})
	}
}

// remainingLocked computes seconds until the deadline, rounded up so a
// partial second still displays. Called with c.mu held.
func (c *Controller) remainingLocked() int {
	until := c.deadline.Sub(c.clock.Now())
	if until <= 0 {
		return 0
	}
	return int((until + time.Second - 1) / time.Second)
}

// SelectAnswer records or overwrites the choice for a question.
// Allowed only while InProgress; idempotent per question; the latest
// choice replaces any prior one. Unknown question or choice IDs are
// *ValidationErrors.
func (c *Controller) SelectAnswer(questionID, choiceID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInProgress {
		return &StateError{Op: "select answer", State: c.state}
	}

	question := c.findQuestionLocked(questionID)
	if question == nil {
		return &ValidationError{Reason: fmt.Sprintf("unknown question %d", questionID)}
	}
	valid := false
	for _, choice := range question.Choices {
		if choice.ID == choiceID {
			valid = true
			break
		}
	}
	if !valid {
		return &ValidationError{Reason: fmt.Sprintf("choice %d does not belong to question %d", choiceID, questionID)}
	}

	c.answers[questionID] = choiceID
	return nil
}

func (c *Controller) findQuestionLocked(questionID int64) *api.Question {
	if c.quiz == nil {
		return nil
	}
	for index := range c.quiz.Questions {
		if c.quiz.Questions[index].ID == questionID {
			return &c.quiz.Questions[index]
		}
	}
	return nil
}

// Submit sends the current answer mapping. No-op (nil) when a
// submission is already in flight or complete, so a manual click
// racing the timeout never produces a second request.
func (c *Controller) Submit(ctx context.Context) error {
	return c.submit(ctx, false)
}

// submit is the single submission path for both the manual action and
// the timeout. The state flips to Submitting under the mutex before
// the request is issued; the second racer observes the flip and
// no-ops. On failure the attempt returns to InProgress, and the next tick
// past the deadline retries the timeout submission, and a user may
// retry a manual one.
func (c *Controller) submit(ctx context.Context, auto bool) error {
	c.mu.Lock()
	if c.state != StateInProgress {
		c.mu.Unlock()
		return nil
	}
	c.state = StateSubmitting
	answers := make(map[int64]int64, len(c.answers))
	for questionID, choiceID := range c.answers {
		answers[questionID] = choiceID
	}
	quizID := c.quiz.ID
	remaining := c.remainingLocked()
	c.mu.Unlock()

	c.publish(Event{State: StateSubmitting, SecondsRemaining: remaining})
	if auto {
		c.logger.Info("time expired, submitting automatically", "quiz_id", quizID, "answers", len(answers))
	}

	result, err := c.session.SubmitAnswers(ctx, quizID, answers)
	if err != nil {
		c.mu.Lock()
		c.state = StateInProgress
		c.mu.Unlock()
		c.publish(Event{State: StateInProgress, SecondsRemaining: remaining, Err: err})
		return fmt.Errorf("attempt: submitting quiz %d: %w", quizID, err)
	}

	c.mu.Lock()
	c.state = StateSubmitted
	c.score = result.Score
	c.mu.Unlock()

	c.publish(Event{State: StateSubmitted, SecondsRemaining: remaining, Score: result.Score})
	return nil
}

// Close stops the tick source. Call when the view unmounts; in-flight
// network calls are allowed to complete and are simply not acted upon.
// Idempotent.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// publish delivers an event without blocking a closed controller.
func (c *Controller) publish(event Event) {
	select {
	case c.events <- event:
	case <-c.done:
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Quiz returns the loaded quiz detail, or nil before Start succeeds.
func (c *Controller) Quiz() *api.QuizDetail {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quiz
}

// SecondsRemaining returns the clamped countdown value.
func (c *Controller) SecondsRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading {
		return 0
	}
	return c.remainingLocked()
}

// Answer returns the recorded choice for a question, if any.
func (c *Controller) Answer(questionID int64) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	choiceID, ok := c.answers[questionID]
	return choiceID, ok
}

// Answers returns a copy of the recorded answer mapping.
func (c *Controller) Answers() map[int64]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	answers := make(map[int64]int64, len(c.answers))
	for questionID, choiceID := range c.answers {
		answers[questionID] = choiceID
	}
	return answers
}

// Score returns the submitted score. Valid only once State is
// StateSubmitted.
func (c *Controller) Score() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}
