// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/oqes-foundation/oqes/lib/secret"
)

// Session is an authenticated client: a Client plus an access token.
// Sessions are lightweight; the token lives in mmap-backed memory and
// the caller must Close the Session when done with it.
type Session struct {
	client      *Client
	accessToken *secret.Buffer
}

// CurrentUser fetches the authenticated profile from /users/me/.
// This is also the token validity probe: a stored token that no longer
// authenticates fails here with a 401 *Error.
func (s *Session) CurrentUser(ctx context.Context) (*User, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/users/me/", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("api: current user failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("api: failed to parse user profile: %w", err)
	}
	if user.Role != RoleStudent && user.Role != RoleTeacher {
		return nil, fmt.Errorf("api: profile has unknown role %q", user.Role)
	}
	return &user, nil
}

// Courses lists the courses visible to this user.
func (s *Session) Courses(ctx context.Context) ([]Course, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/courses/", s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("api: list courses failed: %w", err)
	}

	var courses []Course
	if err := json.Unmarshal(body, &courses); err != nil {
		return nil, fmt.Errorf("api: failed to parse course list: %w", err)
	}
	return courses, nil
}

// CreateCourse creates a course. Teacher role only (enforced
// server-side; the view layer gates the action client-side too).
func (s *Session) CreateCourse(ctx context.Context, payload CoursePayload) (*Course, error) {
	if err := s.client.validate.Struct(payload); err != nil {
		return nil, &ValidationError{Err: err}
	}

	body, err := s.client.doRequest(ctx, http.MethodPost, "/courses/", s.accessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("api: create course failed: %w", err)
	}

	var course Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, fmt.Errorf("api: failed to parse course: %w", err)
	}
	return &course, nil
}

// UpdateCourse patches a course's title and/or description.
func (s *Session) UpdateCourse(ctx context.Context, id int64, payload CoursePayload) (*Course, error) {
	body, err := s.client.doRequest(ctx, http.MethodPatch, coursePath(id), s.accessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("api: update course %d failed: %w", id, err)
	}

	var course Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, fmt.Errorf("api: failed to parse course: %w", err)
	}
	return &course, nil
}

// DeleteCourse deletes a course. The view layer requires interactive
// confirmation before calling this.
func (s *Session) DeleteCourse(ctx context.Context, id int64) error {
	if _, err := s.client.doRequest(ctx, http.MethodDelete, coursePath(id), s.accessToken, nil); err != nil {
		return fmt.Errorf("api: delete course %d failed: %w", id, err)
	}
	return nil
}

// QuizzesByCourse lists a course's quizzes via GET /quizzes/?course={id}.
func (s *Session) QuizzesByCourse(ctx context.Context, courseID int64) ([]Quiz, error) {
	query := url.Values{"course": []string{strconv.FormatInt(courseID, 10)}}
	body, err := s.client.doRequest(ctx, http.MethodGet, "/quizzes/", s.accessToken, nil, query)
	if err != nil {
		return nil, fmt.Errorf("api: list quizzes for course %d failed: %w", courseID, err)
	}

	var quizzes []Quiz
	if err := json.Unmarshal(body, &quizzes); err != nil {
		return nil, fmt.Errorf("api: failed to parse quiz list: %w", err)
	}
	return quizzes, nil
}

// CreateQuiz creates a quiz with its nested questions and choices.
func (s *Session) CreateQuiz(ctx context.Context, payload QuizPayload) (*Quiz, error) {
	if err := s.client.validate.Struct(payload); err != nil {
		return nil, &ValidationError{Err: err}
	}

	body, err := s.client.doRequest(ctx, http.MethodPost, "/quizzes/", s.accessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("api: create quiz failed: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return nil, fmt.Errorf("api: failed to parse quiz: %w", err)
	}
	return &quiz, nil
}

// UpdateQuiz patches a quiz. When the payload carries questions, the
// server replaces the question set wholesale; correctness flags must be
// re-marked because read paths never reveal them (see ChoicePayload).
func (s *Session) UpdateQuiz(ctx context.Context, id int64, payload QuizPayload) (*Quiz, error) {
	if err := s.client.validate.Struct(payload); err != nil {
		return nil, &ValidationError{Err: err}
	}

	body, err := s.client.doRequest(ctx, http.MethodPatch, quizPath(id), s.accessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("api: update quiz %d failed: %w", id, err)
	}

	var quiz Quiz
	if err := json.Unmarshal(body, &quiz); err != nil {
		return nil, fmt.Errorf("api: failed to parse quiz: %w", err)
	}
	return &quiz, nil
}

// DeleteQuiz deletes a quiz. Interactive confirmation happens in the
// view layer before this is called.
func (s *Session) DeleteQuiz(ctx context.Context, id int64) error {
	if _, err := s.client.doRequest(ctx, http.MethodDelete, quizPath(id), s.accessToken, nil); err != nil {
		return fmt.Errorf("api: delete quiz %d failed: %w", id, err)
	}
	return nil
}

// QuizDetail fetches a quiz with its questions and choices. Every
// question is shape-checked against its declared kind before the
// payload is returned.
func (s *Session) QuizDetail(ctx context.Context, id int64) (*QuizDetail, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, quizPath(id), s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("api: quiz detail %d failed: %w", id, err)
	}

	var detail QuizDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("api: failed to parse quiz detail: %w", err)
	}
	for index := range detail.Questions {
		if err := detail.Questions[index].validate(); err != nil {
			return nil, fmt.Errorf("api: malformed quiz detail: %w", err)
		}
	}
	return &detail, nil
}

// SubmitAnswers posts the answer mapping for a quiz attempt and
// returns the score. Keys are question IDs, values choice IDs; JSON
// encodes the integer keys as strings, matching the server's contract.
func (s *Session) SubmitAnswers(ctx context.Context, quizID int64, answers map[int64]int64) (*SubmitResult, error) {
	payload := struct {
		Answers map[int64]int64 `json:"answers"`
	}{Answers: answers}
	if payload.Answers == nil {
		payload.Answers = map[int64]int64{}
	}

	body, err := s.client.doRequest(ctx, http.MethodPost, quizPath(quizID)+"submit/", s.accessToken, payload)
	if err != nil {
		return nil, fmt.Errorf("api: submit quiz %d failed: %w", quizID, err)
	}

	var result SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("api: failed to parse submit response: %w", err)
	}

	s.client.logger.Info("submitted quiz", "quiz_id", quizID, "answers", len(answers), "score", result.Score)
	return &result, nil
}

// Close releases the access token memory (zeros, unlocks, unmaps).
// Idempotent.
func (s *Session) Close() error {
	if s.accessToken != nil {
		return s.accessToken.Close()
	}
	return nil
}

func coursePath(id int64) string {
	return "/courses/" + strconv.FormatInt(id, 10) + "/"
}

func quizPath(id int64) string {
	return "/quizzes/" + strconv.FormatInt(id, 10) + "/"
}
