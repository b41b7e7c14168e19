// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package attempt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/clock"
	"github.com/oqes-foundation/oqes/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const eventTimeout = 5 * time.Second

// quizFixture serves a single ten-minute quiz and counts submissions.
type quizFixture struct {
	detail       api.QuizDetail
	detailCalls  atomic.Int64
	submitCalls  atomic.Int64
	failSubmit   atomic.Bool
	submitExpect map[string]int64 // non-nil: assert this exact answer map
	submitGate   chan struct{}    // non-nil: handler blocks until closed

	controller *Controller
	clock      *clock.FakeClock
	t          *testing.T
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	f := &quizFixture{
		t: t,
		detail: api.QuizDetail{
			Quiz: api.Quiz{ID: 3, Title: "Midterm", Course: 1, DurationMinutes: 10},
			Questions: []api.Question{
				{ID: 1, Kind: api.KindMultipleChoice, Text: "2+2?", Choices: []api.Choice{{ID: 10, Text: "3"}, {ID: 11, Text: "4"}}},
				{ID: 2, Kind: api.KindTrueFalse, Text: "Go has generics.", Choices: []api.Choice{{ID: 20, Text: "True"}, {ID: 21, Text: "False"}}},
			},
		},
		clock: clock.Fake(epoch),
	}

	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	session, err := client.SessionFromToken("tok")
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	f.controller = New(session, f.clock, nil)
	t.Cleanup(f.controller.Close)
	return f
}

func (f *quizFixture) serve(writer http.ResponseWriter, request *http.Request) {
	switch {
	case request.Method == http.MethodGet && request.URL.Path == "/quizzes/3/":
		f.detailCalls.Add(1)
		json.NewEncoder(writer).Encode(f.detail)
	case request.Method == http.MethodPost && request.URL.Path == "/quizzes/3/submit/":
		if f.submitGate != nil {
			<-f.submitGate
		}
		f.submitCalls.Add(1)
		if f.failSubmit.Load() {
			writer.WriteHeader(http.StatusBadGateway)
			return
		}
		if f.submitExpect != nil {
			var body struct {
				Answers map[string]int64 `json:"answers"`
			}
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				f.t.Errorf("decoding submit body: %v", err)
			}
			if len(body.Answers) != len(f.submitExpect) {
				f.t.Errorf("submitted %d answers, want %d", len(body.Answers), len(f.submitExpect))
			}
			for questionID, choiceID := range f.submitExpect {
				if body.Answers[questionID] != choiceID {
					f.t.Errorf("answers[%s] = %d, want %d", questionID, body.Answers[questionID], choiceID)
				}
			}
		}
		json.NewEncoder(writer).Encode(api.SubmitResult{Score: 85})
	default:
		writer.WriteHeader(http.StatusNotFound)
	}
}

// start loads the quiz, consumes the initial InProgress event, and
// waits for the countdown ticker to register with the fake clock.
func (f *quizFixture) start() {
	f.t.Helper()
	if err := f.controller.Start(context.Background(), 3); err != nil {
		f.t.Fatalf("Start failed: %v", err)
	}
	event := testutil.RequireReceive(f.t, f.controller.Events(), eventTimeout, "initial event")
	if event.State != StateInProgress || event.SecondsRemaining != 600 {
		f.t.Fatalf("initial event = %+v, want InProgress/600", event)
	}
	f.clock.WaitForTimers(1)
}

// waitForState consumes events until one with the wanted state arrives.
func (f *quizFixture) waitForState(want State) Event {
	f.t.Helper()
	deadline := time.After(eventTimeout)
	for {
		select {
		case event := <-f.controller.Events():
			if event.State == want {
				return event
			}
		case <-deadline:
			f.t.Fatalf("timed out waiting for state %v", want)
		}
	}
}

func TestStartValidation(t *testing.T) {
	f := newQuizFixture(t)

	for _, quizID := range []int64{0, -7} {
		err := f.controller.Start(context.Background(), quizID)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("Start(%d): expected *ValidationError, got %v", quizID, err)
		}
	}
	if got := f.detailCalls.Load(); got != 0 {
		t.Errorf("detail endpoint hit %d times for invalid IDs; validation must precede the network", got)
	}
}

func TestStartTwice(t *testing.T) {
	f := newQuizFixture(t)
	f.start()

	err := f.controller.Start(context.Background(), 3)
	var stateErr *StateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected *StateError on second Start, got %v", err)
	}
}

func TestCountdownTicks(t *testing.T) {
	f := newQuizFixture(t)
	f.start()

	f.clock.Advance(time.Second)
	event := testutil.RequireReceive(t, f.controller.Events(), eventTimeout, "first tick")
	if event.SecondsRemaining != 599 {
		t.Errorf("after 1s: SecondsRemaining = %d, want 599", event.SecondsRemaining)
	}

	f.clock.Advance(time.Second)
	event = testutil.RequireReceive(t, f.controller.Events(), eventTimeout, "second tick")
	if event.SecondsRemaining != 598 {
		t.Errorf("after 2s: SecondsRemaining = %d, want 598", event.SecondsRemaining)
	}
}

func TestSelectAnswer(t *testing.T) {
	t.Run("idempotent per question", func(t *testing.T) {
		f := newQuizFixture(t)
		f.start()

		if err := f.controller.SelectAnswer(1, 10); err != nil {
			t.Fatalf("SelectAnswer failed: %v", err)
		}
		if err := f.controller.SelectAnswer(1, 11); err != nil {
			t.Fatalf("SelectAnswer (overwrite) failed: %v", err)
		}

		answers := f.controller.Answers()
		if len(answers) != 1 || answers[1] != 11 {
			t.Errorf("answers = %v, want {1:11} (latest choice wins)", answers)
		}
	})

	t.Run("unknown question or choice", func(t *testing.T) {
		f := newQuizFixture(t)
		f.start()

		var validationErr *ValidationError
		if err := f.controller.SelectAnswer(99, 10); !errors.As(err, &validationErr) {
			t.Errorf("unknown question: got %v", err)
		}
		if err := f.controller.SelectAnswer(1, 20); !errors.As(err, &validationErr) {
			t.Errorf("choice from another question: got %v", err)
		}
	})

	t.Run("frozen after submission", func(t *testing.T) {
		f := newQuizFixture(t)
		f.start()

		if err := f.controller.SelectAnswer(1, 11); err != nil {
			t.Fatalf("SelectAnswer failed: %v", err)
		}
		if err := f.controller.Submit(context.Background()); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}

		var stateErr *StateError
		if err := f.controller.SelectAnswer(2, 20); !errors.As(err, &stateErr) {
			t.Errorf("expected *StateError after submission, got %v", err)
		}
		answers := f.controller.Answers()
		if len(answers) != 1 || answers[1] != 11 {
			t.Errorf("answers mutated after submission: %v", answers)
		}
	})
}

func TestManualSubmit(t *testing.T) {
	f := newQuizFixture(t)
	f.submitExpect = map[string]int64{"1": 11, "2": 20}
	f.start()

	if err := f.controller.SelectAnswer(1, 11); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}
	if err := f.controller.SelectAnswer(2, 20); err != nil {
		t.Fatalf("SelectAnswer failed: %v", err)
	}
	if err := f.controller.Submit(context.Background()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	event := f.waitForState(StateSubmitted)
	if event.Score != 85 {
		t.Errorf("Score = %v, want 85", event.Score)
	}
	if got := f.controller.State(); got != StateSubmitted {
		t.Errorf("State = %v, want Submitted", got)
	}
	if got := f.submitCalls.Load(); got != 1 {
		t.Errorf("submit endpoint hit %d times, want 1", got)
	}

	// Terminal: a second Submit is a no-op.
	if err := f.controller.Submit(context.Background()); err != nil {
		t.Fatalf("second Submit returned error: %v", err)
	}
	if got := f.submitCalls.Load(); got != 1 {
		t.Errorf("second Submit re-sent the request: %d calls", got)
	}
}

func TestAutoSubmitOnTimeout(t *testing.T) {
	// Ten-minute quiz, no interaction for 600 simulated seconds:
	// submission fires automatically with the empty answer mapping.
	f := newQuizFixture(t)
	f.submitExpect = map[string]int64{}
	f.start()

	f.clock.Advance(600 * time.Second)

	event := f.waitForState(StateSubmitted)
	if event.Score != 85 {
		t.Errorf("Score = %v, want 85", event.Score)
	}
	if got := f.submitCalls.Load(); got != 1 {
		t.Errorf("submit endpoint hit %d times, want exactly 1", got)
	}
	if got := f.controller.SecondsRemaining(); got != 0 {
		t.Errorf("SecondsRemaining = %d after expiry, want 0", got)
	}
}

func TestTimeoutRaceWithManualSubmit(t *testing.T) {
	t.Run("timeout wins", func(t *testing.T) {
		f := newQuizFixture(t)
		f.submitGate = make(chan struct{})
		f.start()

		// Drive the countdown to zero; the auto-submit flips the state
		// and blocks in the gated handler.
		f.clock.Advance(600 * time.Second)
		f.waitForState(StateSubmitting)

		// The losing racer: a manual click while the auto-submission
		// is in flight. Must not produce a second request.
		if err := f.controller.Submit(context.Background()); err != nil {
			t.Fatalf("racing Submit returned error: %v", err)
		}

		close(f.submitGate)
		f.waitForState(StateSubmitted)
		if got := f.submitCalls.Load(); got != 1 {
			t.Errorf("submit endpoint hit %d times, want exactly 1", got)
		}
	})

	t.Run("manual wins", func(t *testing.T) {
		f := newQuizFixture(t)
		f.submitGate = make(chan struct{})
		f.start()

		submitDone := make(chan error, 1)
		go func() { submitDone <- f.controller.Submit(context.Background()) }()
		f.waitForState(StateSubmitting)

		// The losing racer: the countdown reaching zero while the
		// manual submission is in flight.
		f.clock.Advance(600 * time.Second)

		close(f.submitGate)
		if err := testutil.RequireReceive(t, submitDone, eventTimeout, "manual submit result"); err != nil {
			t.Fatalf("manual Submit failed: %v", err)
		}
		f.waitForState(StateSubmitted)
		if got := f.submitCalls.Load(); got != 1 {
			t.Errorf("submit endpoint hit %d times, want exactly 1", got)
		}
	})
}

func TestSubmitFailureAllowsRetry(t *testing.T) {
	f := newQuizFixture(t)
	f.failSubmit.Store(true)
	f.start()

	if err := f.controller.Submit(context.Background()); err == nil {
		t.Fatal("expected error from failed submission")
	}
	event := f.waitForState(StateInProgress)
	if event.Err == nil {
		t.Error("failure event should carry the error")
	}

	// The server recovers; a retry succeeds.
	f.failSubmit.Store(false)
	if err := f.controller.Submit(context.Background()); err != nil {
		t.Fatalf("retry Submit failed: %v", err)
	}
	f.waitForState(StateSubmitted)
	if got := f.submitCalls.Load(); got != 2 {
		t.Errorf("submit endpoint hit %d times, want 2 (one failure, one retry)", got)
	}
}

func TestCloseStopsTicks(t *testing.T) {
	f := newQuizFixture(t)
	f.start()

	f.controller.Close()

	// Ticks after Close have no observable effect. The tick may race
	// the loop shutdown, so drain with a short grace period instead of
	// asserting emptiness immediately.
	f.clock.Advance(5 * time.Second)
	select {
	case event := <-f.controller.Events():
		if event.SecondsRemaining < 595 {
			t.Errorf("countdown kept running after Close: %+v", event)
		}
	case <-time.After(50 * time.Millisecond):
	}

	if got := f.controller.State(); got != StateInProgress {
		t.Errorf("Close changed state to %v; unmount must not submit", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{65, "01:05"},
		{-3, "00:00"},
		{600, "10:00"},
		{59, "00:59"},
		{3599, "59:59"},
		{6000, "100:00"},
	}
	for _, c := range cases {
		if got := FormatClock(c.seconds); got != c.want {
			t.Errorf("FormatClock(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
