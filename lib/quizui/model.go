// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

package quizui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/oqes-foundation/oqes/lib/api"
	"github.com/oqes-foundation/oqes/lib/attempt"
	"github.com/oqes-foundation/oqes/lib/clock"
	"github.com/oqes-foundation/oqes/lib/session"
)

// screen identifies which view the model is currently showing.
type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenCourses
	screenQuizzes
	screenTake
)

// screenRoute maps a screen to its access-control description. The
// course browser is the home screen for both roles; quiz-taking is
// student-only.
func screenRoute(target screen) session.Route {
	switch target {
	case screenLogin:
		return session.Route{Name: "login"}
	case screenQuizzes:
		return session.Route{Name: "quizzes", Protected: true}
	case screenTake:
		return session.Route{
			Name:         "take-quiz",
			Protected:    true,
			AllowedRoles: []api.Role{api.RoleStudent},
		}
	default:
		return session.Route{Name: "courses", Protected: true}
	}
}

// Model is the top-level bubbletea model for the OQES TUI.
type Model struct {
	manager *session.Manager
	clk     clock.Clock
	logger  *slog.Logger
	theme   Theme
	keys    KeyMap

	width  int
	height int

	screen screen

	// Destination preserved when an anonymous user is redirected to
	// the login form. Navigated to after a successful login.
	pendingScreen screen
	pendingQuiz   int64

	// Transient status line (errors, confirmations). Cleared on the
	// next navigation.
	statusLine  string
	statusError bool

	login   loginForm
	courses courseListView
	quizzes quizListView
	take    *takeView
	confirm *confirmPrompt

	// StartQuiz jumps straight into an attempt after login, used by
	// the "take" CLI command.
	startQuiz int64
}

// Config carries the dependencies the TUI needs.
type Config struct {
	Manager *session.Manager
	Clock   clock.Clock // nil means the real clock
	Logger  *slog.Logger
	Theme   *Theme // nil means DefaultTheme

	// StartQuiz, when nonzero, navigates directly to the quiz-taking
	// view for that quiz once the session is ready.
	StartQuiz int64
}

// New builds the top-level model. The session manager must already be
// constructed; Init runs its restore.
func New(config Config) Model {
	theme := DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		manager:   config.Manager,
		clk:       clk,
		logger:    logger,
		theme:     theme,
		keys:      DefaultKeyMap,
		screen:    screenLoading,
		login:     newLoginForm(theme),
		courses:   newCourseListView(theme),
		quizzes:   newQuizListView(theme),
		startQuiz: config.StartQuiz,
	}
}

// --- messages ---

type sessionReadyMsg struct{}

type loginResultMsg struct{ err error }

type coursesLoadedMsg struct {
	courses []api.Course
	err     error
}

type quizzesLoadedMsg struct {
	courseID int64
	quizzes  []api.Quiz
	err      error
}

type courseDeletedMsg struct{ err error }

type quizDeletedMsg struct {
	courseID int64
	err      error
}

type attemptStartedMsg struct {
	controller *attempt.Controller
	err        error
}

type attemptEventMsg struct {
	controller *attempt.Controller
	event      attempt.Event
	closed     bool
}

// --- commands ---

func (model Model) restoreSession() tea.Cmd {
	manager := model.manager
	return func() tea.Msg {
		manager.Restore(context.Background())
		return sessionReadyMsg{}
	}
}

func (model Model) loadCourses() tea.Cmd {
	apiSession, err := model.manager.RequireAPI()
	if err != nil {
		return func() tea.Msg { return coursesLoadedMsg{err: err} }
	}
	return func() tea.Msg {
		courses, err := apiSession.Courses(context.Background())
		return coursesLoadedMsg{courses: courses, err: err}
	}
}

func (model Model) loadQuizzes(courseID int64) tea.Cmd {
	apiSession, err := model.manager.RequireAPI()
	if err != nil {
		return func() tea.Msg { return quizzesLoadedMsg{courseID: courseID, err: err} }
	}
	return func() tea.Msg {
		quizzes, err := apiSession.QuizzesByCourse(context.Background(), courseID)
		return quizzesLoadedMsg{courseID: courseID, quizzes: quizzes, err: err}
	}
}

func (model Model) startAttempt(quizID int64) tea.Cmd {
	apiSession, err := model.manager.RequireAPI()
	if err != nil {
		return func() tea.Msg { return attemptStartedMsg{err: err} }
	}
	clk := model.clk
	logger := model.logger
	return func() tea.Msg {
		controller := attempt.New(apiSession, clk, logger)
		if err := controller.Start(context.Background(), quizID); err != nil {
			controller.Close()
			return attemptStartedMsg{err: err}
		}
		return attemptStartedMsg{controller: controller}
	}
}

// listenAttempt blocks on the controller's event stream and delivers
// the next event. Reissued from Update after every delivery.
func listenAttempt(controller *attempt.Controller) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-controller.Events()
		if !ok {
			return attemptEventMsg{controller: controller, closed: true}
		}
		return attemptEventMsg{controller: controller, event: event}
	}
}

// --- bubbletea interface ---

func (model Model) Init() tea.Cmd {
	return model.restoreSession()
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case tea.KeyMsg:
		if key.Matches(message, model.keys.Quit) {
			return model.quit()
		}
		return model.handleKey(message)

	case sessionReadyMsg:
		if model.startQuiz != 0 {
			quizID := model.startQuiz
			model.startQuiz = 0
			return model.navigateTake(quizID)
		}
		return model.navigate(screenCourses)

	case loginResultMsg:
		return model.handleLoginResult(message)

	case coursesLoadedMsg:
		if message.err != nil {
			model.setError(fmt.Sprintf("loading courses: %v", message.err))
			return model, nil
		}
		model.courses.setCourses(message.courses, model.manager.User())
		return model, nil

	case quizzesLoadedMsg:
		if message.err != nil {
			model.setError(fmt.Sprintf("loading quizzes: %v", message.err))
			return model, nil
		}
		model.quizzes.setQuizzes(message.courseID, message.quizzes, model.manager.User())
		return model, nil

	case courseDeletedMsg:
		if message.err != nil {
			model.setError(fmt.Sprintf("deleting course: %v", message.err))
			return model, nil
		}
		model.setStatus("course deleted")
		return model, model.loadCourses()

	case quizDeletedMsg:
		if message.err != nil {
			model.setError(fmt.Sprintf("deleting quiz: %v", message.err))
			return model, nil
		}
		model.setStatus("quiz deleted")
		return model, model.loadQuizzes(message.courseID)

	case attemptStartedMsg:
		if message.err != nil {
			model.setError(fmt.Sprintf("starting quiz: %v", message.err))
			model.screen = screenQuizzes
			return model, nil
		}
		model.take = newTakeView(message.controller, model.theme, model.keys)
		model.screen = screenTake
		return model, listenAttempt(message.controller)

	case attemptEventMsg:
		// Events from a superseded controller are dropped.
		if model.take == nil || message.controller != model.take.controller {
			return model, nil
		}
		if message.closed {
			return model, nil
		}
		model.take.apply(message.event)
		return model, listenAttempt(message.controller)
	}

	return model, nil
}

func (model Model) View() string {
	var body string
	switch model.screen {
	case screenLoading:
		body = model.theme.faint("restoring session...")
	case screenLogin:
		body = model.login.view(model.width)
	case screenCourses:
		body = model.courses.view(model.width, model.keys)
	case screenQuizzes:
		body = model.quizzes.view(model.width, model.keys)
	case screenTake:
		if model.take != nil {
			body = model.take.view(model.width)
		}
	}

	sections := []string{model.header(), body}
	if model.confirm != nil {
		sections = append(sections, model.confirm.view())
	}
	if model.statusLine != "" {
		sections = append(sections, model.renderStatus())
	}
	return strings.Join(sections, "\n")
}

// --- navigation ---

// navigate runs the route guard for the target screen and acts on its
// decision: wait, redirect to login (remembering the destination),
// bounce to home, or proceed and kick off the screen's data load.
func (model Model) navigate(target screen) (tea.Model, tea.Cmd) {
	model.clearStatus()
	switch model.manager.Guard(screenRoute(target)) {
	case session.DecisionWait:
		model.screen = screenLoading
		return model, nil
	case session.DecisionLogin:
		model.pendingScreen = target
		model.screen = screenLogin
		model.login.reset()
		return model, model.login.focusCmd()
	case session.DecisionHome:
		return model.enter(screenCourses)
	default:
		return model.enter(target)
	}
}

// navigateTake is navigation to the quiz-taking screen for a specific
// quiz, preserved across a login redirect.
func (model Model) navigateTake(quizID int64) (tea.Model, tea.Cmd) {
	model.clearStatus()
	switch model.manager.Guard(screenRoute(screenTake)) {
	case session.DecisionWait:
		model.screen = screenLoading
		return model, nil
	case session.DecisionLogin:
		model.pendingScreen = screenTake
		model.pendingQuiz = quizID
		model.screen = screenLogin
		model.login.reset()
		return model, model.login.focusCmd()
	case session.DecisionHome:
		model.setError("only students can take quizzes")
		return model.enter(screenCourses)
	default:
		model.screen = screenLoading
		return model, model.startAttempt(quizID)
	}
}

// enter switches to an already-authorized screen and starts its load.
func (model Model) enter(target screen) (tea.Model, tea.Cmd) {
	model.screen = target
	switch target {
	case screenCourses:
		return model, model.loadCourses()
	case screenQuizzes:
		return model, model.loadQuizzes(model.quizzes.courseID)
	default:
		return model, nil
	}
}

func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	model.login.busy = false
	if message.err != nil {
		model.login.errorLine = loginErrorText(message.err)
		return model, nil
	}
	target := model.pendingScreen
	quizID := model.pendingQuiz
	model.pendingScreen = screenCourses
	model.pendingQuiz = 0
	if target == screenTake && quizID != 0 {
		return model.navigateTake(quizID)
	}
	if target == screenLoading || target == screenLogin {
		target = screenCourses
	}
	return model.navigate(target)
}

// loginErrorText flattens an authentication failure into a one-line
// message suitable for the form.
func loginErrorText(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason
	}
	return err.Error()
}

// --- key routing ---

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.confirm != nil {
		return model.handleConfirmKey(message)
	}

	switch model.screen {
	case screenLogin:
		return model.handleLoginKey(message)
	case screenCourses:
		return model.handleCoursesKey(message)
	case screenQuizzes:
		return model.handleQuizzesKey(message)
	case screenTake:
		return model.handleTakeKey(message)
	}
	return model, nil
}

func (model Model) quit() (tea.Model, tea.Cmd) {
	if model.take != nil {
		model.take.controller.Close()
	}
	return model, tea.Quit
}

// --- chrome ---

func (model Model) header() string {
	title := "OQES"
	user := model.manager.User()
	if user != nil {
		title += "  " + model.theme.faint(fmt.Sprintf("%s (%s)", user.Username, user.Role))
	}
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.HeaderForeground).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(model.theme.BorderColor)
	return style.Render(title)
}

func (model *Model) setError(text string) {
	model.statusLine = text
	model.statusError = true
}

func (model *Model) setStatus(text string) {
	model.statusLine = text
	model.statusError = false
}

func (model *Model) clearStatus() {
	model.statusLine = ""
	model.statusError = false
}

func (model Model) renderStatus() string {
	color := model.theme.FaintText
	if model.statusError {
		color = model.theme.Error
	}
	return lipgloss.NewStyle().Foreground(color).Render(model.statusLine)
}

func (theme Theme) faint(text string) string {
	return lipgloss.NewStyle().Foreground(theme.FaintText).Render(text)
}
