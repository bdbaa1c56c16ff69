// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package gemmtest

// Reporter receives accuracy violations. *testing.T, *testing.B and testing.TB implement it.
//
// Whether a violation stops the test is up to the Reporter: with *testing.T's (non-fatal)
// Errorf, TestVariableTile carries on testing the remaining tile shapes.
type Reporter interface {
	Helper()
	Errorf(format string, args ...any)
}
