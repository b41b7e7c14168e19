// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package api

import "fmt"

// Role gates which views and mutations a user may perform.
type Role string

const (
	// RoleStudent users enroll in courses and take quizzes.
	RoleStudent Role = "student"
	// RoleTeacher users create courses and quizzes.
	RoleTeacher Role = "teacher"
)

// User is the profile returned by /users/me/. It is an immutable
// snapshot, replaced wholesale on each auth operation, never patched.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

// TokenPair is the credential pair returned by the token and
// registration endpoints. Absence of either token means no session.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Complete reports whether both tokens are present.
func (p TokenPair) Complete() bool {
	return p.Access != "" && p.Refresh != ""
}

// LoginPayload is the body for POST /token/.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role"     validate:"required,oneof=student teacher"`
}

// RegisterPayload is the body for POST /register/.
type RegisterPayload struct {
	Username string `json:"username"        validate:"required,min=3"`
	Password string `json:"password"        validate:"required,min=8"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     Role   `json:"role"            validate:"required,oneof=student teacher"`
}

// Course groups quizzes under a teacher's ownership.
type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CoursePayload is the body for creating or patching a course. For
// PATCH, zero-valued fields are omitted and left untouched server-side.
type CoursePayload struct {
	Title       string `json:"title,omitempty"       validate:"required_without=Description"`
	Description string `json:"description,omitempty"`
}

// Quiz is the metadata row returned by the quiz list endpoint.
type Quiz struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Course          int64  `json:"course"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

// QuestionKind tags the shape of a question. The server never reveals
// which choice is correct on read paths; the kind only constrains how
// many choices a well-formed question carries.
type QuestionKind string

const (
	// KindMultipleChoice questions carry two or more choices.
	KindMultipleChoice QuestionKind = "multiple_choice"
	// KindTrueFalse questions carry exactly two choices.
	KindTrueFalse QuestionKind = "true_false"
	// KindIdentification questions carry one or more accepted answers,
	// each modeled as a choice.
	KindIdentification QuestionKind = "identification"
)

// Choice is one selectable answer within a question. Correctness is
// never present on read paths (data minimization, see ChoicePayload).
type Choice struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Question is one question within a quiz detail. Kind-specific shape is
// enforced by validate, called at the decode boundary.
type Question struct {
	ID      int64        `json:"id"`
	Kind    QuestionKind `json:"kind"`
	Text    string       `json:"text"`
	Choices []Choice     `json:"choices"`
}

// validate rejects malformed question payloads instead of trusting
// their shape at use sites.
func (q *Question) validate() error {
	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Choices) < 2 {
			return fmt.Errorf("question %d: multiple choice requires at least 2 choices, got %d", q.ID, len(q.Choices))
		}
	case KindTrueFalse:
		if len(q.Choices) != 2 {
			return fmt.Errorf("question %d: true/false requires exactly 2 choices, got %d", q.ID, len(q.Choices))
		}
	case KindIdentification:
		if len(q.Choices) < 1 {
			return fmt.Errorf("question %d: identification requires at least 1 accepted answer", q.ID)
		}
	default:
		return fmt.Errorf("question %d: unknown kind %q", q.ID, q.Kind)
	}
	if q.Text == "" {
		return fmt.Errorf("question %d: empty text", q.ID)
	}
	return nil
}

// QuizDetail is the full quiz returned by GET /quizzes/{id}/:
// metadata plus questions and their choices.
type QuizDetail struct {
	Quiz
	Questions []Question `json:"questions"`
}

// ChoicePayload is a choice in a quiz create/patch body. IsCorrect is
// write-only: the detail endpoint never reveals correctness, so a quiz
// loaded for editing has every choice unmarked and the teacher must
// re-mark correct answers on each edit.
type ChoicePayload struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionPayload is a question in a quiz create/patch body.
type QuestionPayload struct {
	Kind    QuestionKind    `json:"kind"    validate:"required,oneof=multiple_choice true_false identification"`
	Text    string          `json:"text"    validate:"required"`
	Choices []ChoicePayload `json:"choices" validate:"required,min=1,dive"`
}

// QuizPayload is the body for creating or patching a quiz.
type QuizPayload struct {
	Title           string            `json:"title,omitempty"`
	Course          int64             `json:"course,omitempty"`
	Description     string            `json:"description,omitempty"`
	DurationMinutes int               `json:"duration_minutes,omitempty" validate:"omitempty,min=1"`
	Questions       []QuestionPayload `json:"questions,omitempty"        validate:"omitempty,dive"`
}

// SubmitResult is the response of POST /quizzes/{id}/submit/.
type SubmitResult struct {
	Score float64 `json:"score"`
}
