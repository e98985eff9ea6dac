package dispatch

import (
	"strings"

	"github.com/sentientlabs/romagate/pkg/models"
)

// answerSeparator joins per-provider answer blocks in a merged answer.
const answerSeparator = "\n\n---\n\n"

// LabeledOutcome pairs a canonical outcome with its provider label.
type LabeledOutcome struct {
	Label   string
	Outcome models.CanonicalOutcome
}

// Merge combines canonical outcomes from multiple providers into one
// aggregate. Outcomes must already be in canonical order (the order
// providers were declared in the request); Merge preserves it, which
// makes the merged response reproducible regardless of which unit
// finished first.
func Merge(outcomes []LabeledOutcome) models.AggregateOutcome {
	blocks := make([]string, 0, len(outcomes))
	labels := make([]string, 0, len(outcomes))
	subtasks := make([]models.SubtaskRecord, 0)

	for _, lo := range outcomes {
		blocks = append(blocks, "["+lo.Label+"]\n"+lo.Outcome.Answer)
		labels = append(labels, lo.Label)
		subtasks = append(subtasks, lo.Outcome.Subtasks...)
	}

	return models.AggregateOutcome{
		Answer:   strings.Join(blocks, answerSeparator),
		Atomic:   len(subtasks) == 0,
		Subtasks: subtasks,
		Provider: strings.Join(labels, " + "),
	}
}
