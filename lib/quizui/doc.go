// Copyright 2026 The OQES Authors
// SPDX-License-Identifier: Apache-2.0

// Package quizui is the terminal front-end for OQES: the login and
// registration forms, the course and quiz browsers for both roles, and
// the timed quiz-taking view.
//
// The top-level Model is a bubbletea program that plays the role the
// router plays in a browser client. Every navigation passes through
// the session route guard: while the session is bootstrapping the UI
// shows a loading screen and refuses navigation; an anonymous user
// headed for a protected screen is redirected to the login form with
// the original destination preserved, and is sent there after a
// successful login; a user whose role doesn't match the screen's
// allowed set lands back on home.
//
// The quiz-taking view consumes the attempt controller's event stream.
// The instant the attempt state leaves "in progress", whether by the
// user pressing submit or by the countdown reaching zero, every
// answer control and the submit action render disabled and stop
// responding to input.
package quizui
