// Package engine defines the boundary to the recursive decomposition
// engine. The engine is an opaque unit of work: it takes a prompt, a
// depth limit, and a role assignment, and eventually produces a raw
// result. It may be slow and is not assumed to support preemption.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentientlabs/romagate/pkg/models"
)

// Engine is the external decomposition engine's single entry point.
// Implementations must be safe for concurrent Solve calls with
// disjoint role assignments.
type Engine interface {
	Solve(ctx context.Context, prompt string, maxDepth int, roles models.RoleAssignment) (RawResult, error)
}

// ResultKind tags the two shapes a raw engine result can take.
type ResultKind int

const (
	// KindText is a plain answer string: the solve terminated without
	// decomposition.
	KindText ResultKind = iota
	// KindNode is a rich decomposition-tree node.
	KindNode
)

// RawResult is the engine's raw, unnormalized output. Exactly one of
// Text or Node is meaningful, selected by Kind. Only the normalizer is
// allowed to branch on this variant.
type RawResult struct {
	Kind ResultKind
	Text string
	Node *Node
}

// TextResult wraps a plain answer string.
func TextResult(s string) RawResult {
	return RawResult{Kind: KindText, Text: s}
}

// NodeResult wraps a decomposition node.
func NodeResult(n *Node) RawResult {
	return RawResult{Kind: KindNode, Node: n}
}

// Node is one node of a decomposition tree. All fields are optional:
// the engine's result shape is not independently validated, so
// consumers must tolerate missing values.
type Node struct {
	// TaskID identifies the node's task.
	TaskID string
	// Goal is the node's objective text.
	Goal string
	// Result is the node's result text.
	Result string
	// NodeType tags how the node was produced (e.g. "PLAN", "EXECUTE").
	NodeType string
	// Subtasks are the node's immediate children.
	Subtasks []Node
}

// String renders a terse description of the node for use when it has
// neither a result nor a goal to show.
func (n *Node) String() string {
	typ := n.NodeType
	if typ == "" {
		typ = "node"
	}
	var b strings.Builder
	b.WriteString(typ)
	if n.TaskID != "" {
		fmt.Fprintf(&b, " %s", n.TaskID)
	}
	fmt.Fprintf(&b, " (%d subtasks)", len(n.Subtasks))
	return b.String()
}
