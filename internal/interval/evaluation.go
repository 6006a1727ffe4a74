package interval

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEvaluation is returned by ParseEvaluation for unrecognised names.
var ErrUnknownEvaluation = errors.New("unknown evaluation result")

// EvaluationResult is how the user grades a finished Pomodoro.
type EvaluationResult string

const (
	// Distracted: attention went to something that could have waited.
	Distracted EvaluationResult = "distracted"
	// Interrupted: something legitimately more important came up.
	Interrupted EvaluationResult = "interrupted"
	// Focused: the user stayed on the intention.
	Focused EvaluationResult = "focused"
	// Achieved: the intention's goal was reached.
	Achieved EvaluationResult = "achieved"
)

// Evaluations lists every result from worst to best.
var Evaluations = []EvaluationResult{Distracted, Interrupted, Focused, Achieved}

// Points is the score awarded for the result. Unknown results score zero.
func (r EvaluationResult) Points() float64 {
	switch r {
	case Distracted:
		return 0.1
	case Interrupted:
		return 0.2
	case Focused:
		return 1.0
	case Achieved:
		return 1.25
	}
	return 0
}

// Valid reports whether r is one of the four known results.
func (r EvaluationResult) Valid() bool {
	switch r {
	case Distracted, Interrupted, Focused, Achieved:
		return true
	}
	return false
}

func (r EvaluationResult) String() string { return string(r) }

// ParseEvaluation accepts a result name, case-insensitively.
func ParseEvaluation(s string) (EvaluationResult, error) {
	r := EvaluationResult(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownEvaluation)
	}
	return r, nil
}
