package models

import "time"

// SubtaskRecord is one decomposed subtask in a canonical outcome.
type SubtaskRecord struct {
	// ID is the short subtask identifier.
	ID string `json:"id"`
	// Goal is the subtask's objective text.
	Goal string `json:"goal"`
	// Result is the subtask's result text.
	Result string `json:"result"`
}

// CanonicalOutcome is the normalized result of one provider's solve.
type CanonicalOutcome struct {
	// Answer is the final answer text.
	Answer string
	// Atomic is true when the solve terminated without decomposition.
	// It is derived solely from the engine node's type tag, independent
	// of whether subtasks are present.
	Atomic bool
	// Subtasks are the immediate children of the solve, in engine order.
	Subtasks []SubtaskRecord
}

// AggregateOutcome combines canonical outcomes from multiple providers.
type AggregateOutcome struct {
	// Answer is each provider's answer prefixed with its label.
	Answer string
	// Atomic is true iff the combined subtask list is empty.
	Atomic bool
	// Subtasks concatenates each provider's subtasks in canonical order.
	Subtasks []SubtaskRecord
	// Provider joins the contributing provider labels.
	Provider string
	// Duration is the wall-clock time of the whole dispatch.
	Duration time.Duration
}
