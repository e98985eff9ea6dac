package dispatch

import (
	"fmt"
	"strings"

	"github.com/sentientlabs/romagate/internal/engine"
	"github.com/sentientlabs/romagate/pkg/models"
)

// Normalize converts a raw engine result into a canonical outcome.
// It never fails: the engine's result shape is not independently
// validated, so missing fields degrade to empty strings instead of
// propagating errors.
func Normalize(raw engine.RawResult) models.CanonicalOutcome {
	if raw.Kind == engine.KindText || raw.Node == nil {
		return models.CanonicalOutcome{
			Answer:   raw.Text,
			Atomic:   true,
			Subtasks: []models.SubtaskRecord{},
		}
	}

	node := raw.Node

	answer := node.Result
	if answer == "" {
		answer = node.Goal
	}
	if answer == "" {
		answer = node.String()
	}

	// Atomicity comes from the type tag alone, not from whether
	// children happen to be present.
	atomic := !strings.Contains(strings.ToLower(node.NodeType), "plan")

	subtasks := make([]models.SubtaskRecord, 0, len(node.Subtasks))
	for i, child := range node.Subtasks {
		subtasks = append(subtasks, models.SubtaskRecord{
			ID:     subtaskID(child.TaskID, i),
			Goal:   child.Goal,
			Result: child.Result,
		})
	}

	return models.CanonicalOutcome{
		Answer:   answer,
		Atomic:   atomic,
		Subtasks: subtasks,
	}
}

// subtaskID shortens a task identifier to 8 characters, synthesizing
// t1, t2, ... when the engine supplied none.
func subtaskID(taskID string, index int) string {
	if taskID == "" {
		return fmt.Sprintf("t%d", index+1)
	}
	if len(taskID) > 8 {
		return taskID[:8]
	}
	return taskID
}
