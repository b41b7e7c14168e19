// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oqes-foundation/oqes/lib/secret"
)

// testPassword creates a secret.Buffer from a string, closed when the
// test completes.
func testPassword(t *testing.T, value string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(value)
	if err != nil {
		t.Fatalf("creating test buffer: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func testSession(t *testing.T, handler http.Handler, token string) *Session {
	t.Helper()
	session, err := testClient(t, handler).SessionFromToken(token)
	if err != nil {
		t.Fatalf("SessionFromToken failed: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func TestNewClient(t *testing.T) {
	t.Run("valid URL", func(t *testing.T) {
		client, err := NewClient(ClientConfig{BaseURL: "http://localhost:8000/api"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if client == nil {
			t.Fatal("NewClient returned nil")
		}
	})

	t.Run("empty URL", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{}); err == nil {
			t.Fatal("expected error for empty URL")
		}
	})

	t.Run("non-http scheme", func(t *testing.T) {
		if _, err := NewClient(ClientConfig{BaseURL: "ftp://example.com"}); err == nil {
			t.Fatal("expected error for non-http scheme")
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/token/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			var body LoginPayload
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if body.Username != "alice" || body.Password != "correcthorse" || body.Role != RoleStudent {
				t.Errorf("unexpected payload: %+v", body)
			}
			json.NewEncoder(writer).Encode(TokenPair{Access: "acc-1", Refresh: "ref-1"})
		}))

		tokens, err := client.Login(context.Background(), "alice", testPassword(t, "correcthorse"), RoleStudent)
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if tokens.Access != "acc-1" || tokens.Refresh != "ref-1" {
			t.Errorf("unexpected tokens: %+v", tokens)
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "No active account found"})
		}))

		_, err := client.Login(context.Background(), "alice", testPassword(t, "wrong"), RoleStudent)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *Error, got %v", err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
		}
		if apiErr.Detail != "No active account found" {
			t.Errorf("Detail = %q", apiErr.Detail)
		}
	})

	t.Run("local validation skips network", func(t *testing.T) {
		requestCount := 0
		client := testClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			requestCount++
		}))

		_, err := client.Login(context.Background(), "", testPassword(t, "pw"), RoleStudent)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
		if requestCount != 0 {
			t.Errorf("server was hit %d times for invalid local input", requestCount)
		}
	})
}

func TestRegister(t *testing.T) {
	t.Run("success ignores embedded user", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/register/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			json.NewEncoder(writer).Encode(map[string]any{
				"access":  "acc-2",
				"refresh": "ref-2",
				"user":    map[string]any{"id": 9, "username": "bob"},
			})
		}))

		tokens, err := client.Register(context.Background(), RegisterPayload{
			Username: "bob",
			Email:    "bob@example.com",
			Role:     RoleTeacher,
		}, testPassword(t, "longenough"))
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if !tokens.Complete() {
			t.Errorf("tokens incomplete: %+v", tokens)
		}
	})

	t.Run("invalid email rejected locally", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("server should not be hit")
		}))

		_, err := client.Register(context.Background(), RegisterPayload{
			Username: "bob",
			Email:    "not-an-email",
			Role:     RoleTeacher,
		}, testPassword(t, "longenough"))
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected *ValidationError, got %v", err)
		}
	})
}

func TestCurrentUser(t *testing.T) {
	t.Run("attaches bearer token", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if got := request.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("Authorization = %q, want bearer tok-123", got)
			}
			if request.URL.Path != "/users/me/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			json.NewEncoder(writer).Encode(User{ID: 7, Username: "alice", Role: RoleStudent})
		}), "tok-123")

		user, err := session.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("CurrentUser failed: %v", err)
		}
		if user.ID != 7 || user.Username != "alice" || user.Role != RoleStudent {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(writer).Encode(User{ID: 7, Username: "alice", Role: "admin"})
		}), "tok-123")

		if _, err := session.CurrentUser(context.Background()); err == nil {
			t.Fatal("expected error for unknown role")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(writer).Encode(map[string]string{"detail": "Token is invalid or expired"})
		}), "stale")

		_, err := session.CurrentUser(context.Background())
		if !IsAuthRejection(err) {
			t.Fatalf("IsAuthRejection = false for %v", err)
		}
	})
}

func TestQuizDetail(t *testing.T) {
	wellFormed := QuizDetail{
		Quiz: Quiz{ID: 3, Title: "Midterm", Course: 1, DurationMinutes: 10},
		Questions: []Question{
			{ID: 1, Kind: KindMultipleChoice, Text: "2+2?", Choices: []Choice{{ID: 10, Text: "3"}, {ID: 11, Text: "4"}}},
			{ID: 2, Kind: KindTrueFalse, Text: "The sky is blue.", Choices: []Choice{{ID: 20, Text: "True"}, {ID: 21, Text: "False"}}},
		},
	}

	t.Run("well-formed", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/quizzes/3/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			json.NewEncoder(writer).Encode(wellFormed)
		}), "tok")

		detail, err := session.QuizDetail(context.Background(), 3)
		if err != nil {
			t.Fatalf("QuizDetail failed: %v", err)
		}
		if len(detail.Questions) != 2 {
			t.Errorf("got %d questions, want 2", len(detail.Questions))
		}
	})

	t.Run("true/false with three choices rejected", func(t *testing.T) {
		malformed := wellFormed
		malformed.Questions = []Question{
			{ID: 2, Kind: KindTrueFalse, Text: "?", Choices: []Choice{{ID: 1}, {ID: 2}, {ID: 3}}},
		}
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(writer).Encode(malformed)
		}), "tok")

		if _, err := session.QuizDetail(context.Background(), 3); err == nil {
			t.Fatal("expected error for malformed true/false question")
		}
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		malformed := wellFormed
		malformed.Questions = []Question{
			{ID: 2, Kind: "essay", Text: "?", Choices: []Choice{{ID: 1}}},
		}
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(writer).Encode(malformed)
		}), "tok")

		if _, err := session.QuizDetail(context.Background(), 3); err == nil {
			t.Fatal("expected error for unknown question kind")
		}
	})
}

func TestSubmitAnswers(t *testing.T) {
	t.Run("full mapping", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path != "/quizzes/3/submit/" {
				t.Errorf("unexpected path: %s", request.URL.Path)
			}
			var body struct {
				Answers map[string]int64 `json:"answers"`
			}
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if body.Answers["1"] != 11 || body.Answers["2"] != 20 {
				t.Errorf("unexpected answers: %v", body.Answers)
			}
			json.NewEncoder(writer).Encode(SubmitResult{Score: 85})
		}), "tok")

		result, err := session.SubmitAnswers(context.Background(), 3, map[int64]int64{1: 11, 2: 20})
		if err != nil {
			t.Fatalf("SubmitAnswers failed: %v", err)
		}
		if result.Score != 85 {
			t.Errorf("Score = %v, want 85", result.Score)
		}
	})

	t.Run("nil mapping submits empty object", func(t *testing.T) {
		session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body struct {
				Answers map[string]int64 `json:"answers"`
			}
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				t.Fatalf("decoding request: %v", err)
			}
			if body.Answers == nil {
				t.Error("answers field absent; want empty object")
			}
			json.NewEncoder(writer).Encode(SubmitResult{Score: 0})
		}), "tok")

		if _, err := session.SubmitAnswers(context.Background(), 3, nil); err != nil {
			t.Fatalf("SubmitAnswers failed: %v", err)
		}
	})
}

func TestQuizzesByCourse(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.URL.Query().Get("course"); got != "5" {
			t.Errorf("course query = %q, want 5", got)
		}
		json.NewEncoder(writer).Encode([]Quiz{{ID: 1, Title: "Quiz A", Course: 5, DurationMinutes: 10}})
	}), "tok")

	quizzes, err := session.QuizzesByCourse(context.Background(), 5)
	if err != nil {
		t.Fatalf("QuizzesByCourse failed: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Title != "Quiz A" {
		t.Errorf("unexpected quizzes: %+v", quizzes)
	}
}

func TestDeleteCourse(t *testing.T) {
	session := testSession(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodDelete || request.URL.Path != "/courses/4/" {
			t.Errorf("unexpected request: %s %s", request.Method, request.URL.Path)
		}
		writer.WriteHeader(http.StatusNoContent)
	}), "tok")

	if err := session.DeleteCourse(context.Background(), 4); err != nil {
		t.Fatalf("DeleteCourse failed: %v", err)
	}
}
