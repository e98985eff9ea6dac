// Package roma implements the recursive solve loop behind the engine
// boundary: atomizer, planner, parallel executors, aggregator.
package roma

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sentientlabs/romagate/internal/engine"
	"github.com/sentientlabs/romagate/pkg/models"
)

// Solver runs the solve loop over role clients built per request.
type Solver struct {
	clients engine.ClientFactory
}

// New creates a Solver over a role client factory.
func New(clients engine.ClientFactory) *Solver {
	return &Solver{clients: clients}
}

// roleClients holds one client per solve role.
type roleClients struct {
	atomizer   engine.RoleClient
	planner    engine.RoleClient
	executor   engine.RoleClient
	aggregator engine.RoleClient
}

// Solve runs the loop: the atomizer classifies the prompt, atomic goals
// go straight to the executor, non-atomic goals are planned, executed
// in parallel, and aggregated. The result is a plain string for atomic
// solves and a decomposition node otherwise.
func (s *Solver) Solve(ctx context.Context, prompt string, maxDepth int, roles models.RoleAssignment) (engine.RawResult, error) {
	rc, err := s.buildClients(roles)
	if err != nil {
		return engine.RawResult{}, err
	}

	// At depth zero decomposition is disabled entirely.
	if maxDepth <= 0 {
		answer, err := rc.executor.Complete(ctx, executorSystem, prompt)
		if err != nil {
			return engine.RawResult{}, fmt.Errorf("executor: %w", err)
		}
		return engine.TextResult(answer), nil
	}

	atomic, err := s.classify(ctx, rc, prompt)
	if err != nil {
		return engine.RawResult{}, err
	}
	if atomic {
		answer, err := rc.executor.Complete(ctx, executorSystem, prompt)
		if err != nil {
			return engine.RawResult{}, fmt.Errorf("executor: %w", err)
		}
		return engine.TextResult(answer), nil
	}

	goals, err := s.plan(ctx, rc, prompt)
	if err != nil {
		return engine.RawResult{}, err
	}

	// Run subtasks in parallel. Deeper goals recurse with one less
	// level of decomposition available.
	results := make([]string, len(goals))
	g, gctx := errgroup.WithContext(ctx)
	for i, goal := range goals {
		g.Go(func() error {
			answer, err := s.solveText(gctx, rc, goal, maxDepth-1)
			if err != nil {
				return fmt.Errorf("subtask %d: %w", i+1, err)
			}
			results[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return engine.RawResult{}, err
	}

	answer, err := s.aggregate(ctx, rc, prompt, goals, results)
	if err != nil {
		return engine.RawResult{}, err
	}

	node := &engine.Node{
		TaskID:   uuid.New().String(),
		Goal:     prompt,
		Result:   answer,
		NodeType: "PLAN",
	}
	for i, goal := range goals {
		node.Subtasks = append(node.Subtasks, engine.Node{
			TaskID:   uuid.New().String(),
			Goal:     goal,
			Result:   results[i],
			NodeType: "EXECUTE",
		})
	}
	return engine.NodeResult(node), nil
}

// solveText answers one goal, recursing through classify/plan until the
// depth budget runs out. Only the answer text is kept: the dispatch
// layer reports immediate subtasks only.
func (s *Solver) solveText(ctx context.Context, rc *roleClients, goal string, depth int) (string, error) {
	if depth <= 0 {
		return rc.executor.Complete(ctx, executorSystem, goal)
	}

	atomic, err := s.classify(ctx, rc, goal)
	if err != nil {
		return "", err
	}
	if atomic {
		return rc.executor.Complete(ctx, executorSystem, goal)
	}

	goals, err := s.plan(ctx, rc, goal)
	if err != nil {
		return "", err
	}

	results := make([]string, len(goals))
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range goals {
		g.Go(func() error {
			answer, err := s.solveText(gctx, rc, sub, depth-1)
			if err != nil {
				return err
			}
			results[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	return s.aggregate(ctx, rc, goal, goals, results)
}

func (s *Solver) buildClients(roles models.RoleAssignment) (*roleClients, error) {
	rc := &roleClients{}
	for _, entry := range []struct {
		role models.Role
		dst  *engine.RoleClient
	}{
		{models.RoleAtomizer, &rc.atomizer},
		{models.RolePlanner, &rc.planner},
		{models.RoleExecutor, &rc.executor},
		{models.RoleAggregator, &rc.aggregator},
	} {
		ec, ok := roles[entry.role]
		if !ok {
			return nil, fmt.Errorf("role assignment missing %s", entry.role)
		}
		client, err := s.clients(ec)
		if err != nil {
			return nil, fmt.Errorf("build %s client: %w", entry.role, err)
		}
		*entry.dst = client
	}
	return rc, nil
}

// atomizerDecision is the JSON structure the atomizer returns.
type atomizerDecision struct {
	Decision string `json:"decision"`
}

// classify asks the atomizer whether a goal is atomic. Malformed
// replies count as atomic: a direct answer is the safe degradation.
func (s *Solver) classify(ctx context.Context, rc *roleClients, goal string) (bool, error) {
	reply, err := rc.atomizer.Complete(ctx, "", fmt.Sprintf(atomizerPrompt, goal))
	if err != nil {
		return false, fmt.Errorf("atomizer: %w", err)
	}

	jsonStart := strings.Index(reply, "{")
	jsonEnd := strings.LastIndex(reply, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return true, nil
	}

	var decision atomizerDecision
	if err := json.Unmarshal([]byte(reply[jsonStart:jsonEnd+1]), &decision); err != nil {
		return true, nil
	}
	return !strings.EqualFold(decision.Decision, "plan"), nil
}

// plannedSubtask is one entry of the planner's JSON array.
type plannedSubtask struct {
	Goal string `json:"goal"`
}

// plan asks the planner for the subtask list.
func (s *Solver) plan(ctx context.Context, rc *roleClients, goal string) ([]string, error) {
	reply, err := rc.planner.Complete(ctx, "", fmt.Sprintf(plannerPrompt, goal))
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}

	jsonStart := strings.Index(reply, "[")
	jsonEnd := strings.LastIndex(reply, "]")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("no JSON array in planner response (%d chars)", len(reply))
	}

	var planned []plannedSubtask
	if err := json.Unmarshal([]byte(reply[jsonStart:jsonEnd+1]), &planned); err != nil {
		return nil, fmt.Errorf("unmarshal planner response: %w", err)
	}

	var goals []string
	for _, p := range planned {
		if strings.TrimSpace(p.Goal) != "" {
			goals = append(goals, p.Goal)
		}
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("planner returned no subtasks")
	}
	return goals, nil
}

// aggregate combines subtask results into the final answer.
func (s *Solver) aggregate(ctx context.Context, rc *roleClients, goal string, goals, results []string) (string, error) {
	var findings strings.Builder
	for i, sub := range goals {
		fmt.Fprintf(&findings, "%d. %s\n%s\n\n", i+1, sub, results[i])
	}

	answer, err := rc.aggregator.Complete(ctx, "", fmt.Sprintf(aggregatorPrompt, goal, findings.String()))
	if err != nil {
		return "", fmt.Errorf("aggregator: %w", err)
	}
	return answer, nil
}
