package workflow

import (
	"context"
	"fmt"

	"TradeCore/internal/domain/repository"
	"TradeCore/pkg/logger"
)

// StepFunc is a pure step of the graph: it reads the snapshot and returns a
// partial update. A returned error is replaced at the step boundary with the
// step's neutral default; only a panic aborts the run.
type StepFunc func(ctx context.Context, s *Snapshot) (Update, error)

// Node is a named step with its dependencies and neutral fallback.
type Node struct {
	Name    string
	Deps    []string
	Run     StepFunc
	Neutral Update
}

// Graph is a fixed dependency graph of steps. Steps with no data dependency
// on each other run concurrently; the final state is assembled by applying
// every node's update in declared order, so results are deterministic.
type Graph struct {
	nodes     []Node
	index     map[string]int
	ancestors []map[int]struct{}

	log     *logger.Logger
	metrics repository.Metrics
}

// NewGraph builds and validates the graph. Node order is the declared merge
// order for order-sensitive fields.
func NewGraph(nodes []Node, log *logger.Logger, metrics repository.Metrics) (*Graph, error) {
	g := &Graph{
		nodes:   nodes,
		index:   make(map[string]int, len(nodes)),
		log:     log,
		metrics: metrics,
	}

	for i, n := range nodes {
		if _, dup := g.index[n.Name]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.Name)
		}
		g.index[n.Name] = i
	}

	// Dependencies must be declared before their dependents; this both
	// rejects cycles and fixes the merge order.
	g.ancestors = make([]map[int]struct{}, len(nodes))
	for i, n := range nodes {
		anc := make(map[int]struct{})
		for _, dep := range n.Deps {
			j, ok := g.index[dep]
			if !ok {
				return nil, fmt.Errorf("node %q depends on unknown node %q", n.Name, dep)
			}
			if j >= i {
				return nil, fmt.Errorf("node %q depends on later node %q", n.Name, dep)
			}
			anc[j] = struct{}{}
			for a := range g.ancestors[j] {
				anc[a] = struct{}{}
			}
		}
		g.ancestors[i] = anc
	}

	return g, nil
}

type stepOutcome struct {
	idx int
	upd Update
	err error
}

// Run executes the graph over the base snapshot. Each node starts as soon as
// all of its dependencies have finished (AND-join) and sees a snapshot built
// from its ancestor closure in declared order. A panicking step aborts the
// whole run; any other step failure degrades to the node's neutral default.
func (g *Graph) Run(ctx context.Context, base Snapshot) (*Snapshot, error) {
	n := len(g.nodes)
	results := make([]Update, n)
	done := make([]bool, n)
	launched := make([]bool, n)
	outcomes := make(chan stepOutcome, n)

	running := 0
	for {
		for i := range g.nodes {
			if launched[i] || !g.ready(i, done) {
				continue
			}
			launched[i] = true
			running++

			input := g.snapshotFor(i, base, results, done)
			go func(idx int, in Snapshot) {
				upd, err := g.runNode(ctx, idx, &in)
				outcomes <- stepOutcome{idx: idx, upd: upd, err: err}
			}(i, input)
		}

		if running == 0 {
			break
		}

		o := <-outcomes
		running--
		if o.err != nil {
			return nil, o.err
		}
		results[o.idx] = o.upd
		done[o.idx] = true
	}

	final := base
	for i := range g.nodes {
		final.apply(results[i])
	}
	return &final, nil
}

func (g *Graph) ready(i int, done []bool) bool {
	for _, dep := range g.nodes[i].Deps {
		if !done[g.index[dep]] {
			return false
		}
	}
	return true
}

// snapshotFor builds a node's input from its transitive dependencies,
// applied in declared order.
func (g *Graph) snapshotFor(i int, base Snapshot, results []Update, done []bool) Snapshot {
	s := base
	for j := 0; j < i; j++ {
		if _, ok := g.ancestors[i][j]; ok && done[j] {
			s.apply(results[j])
		}
	}
	return s
}

// runNode invokes the step, converting errors into the neutral default and
// panics into a run-fatal error.
func (g *Graph) runNode(ctx context.Context, idx int, in *Snapshot) (upd Update, err error) {
	node := g.nodes[idx]

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %s panicked: %v", node.Name, r)
		}
	}()

	upd, stepErr := node.Run(ctx, in)
	if stepErr != nil {
		g.log.Warn("step degraded to neutral default",
			logger.String("step", node.Name),
			logger.Error(stepErr),
		)
		g.metrics.RecordStepError(node.Name)
		return node.Neutral, nil
	}
	return upd, nil
}
