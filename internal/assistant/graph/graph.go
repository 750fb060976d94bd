// Package graph is the minimal node/dispatch/engine framework the task
// agents and the supervisor run on. It intentionally does not generalize
// beyond what the orchestration needs: named nodes with a step function,
// static fan-out/fan-in, and a single entry point per invocation. State
// updates are not threaded through return values — nodes close over shared,
// reference-typed domain state (session, task plan) and mutate it in
// place, per the "last-writer-with-identity" merge policy the orchestration
// requires.
package graph

import (
	"context"
	"errors"
	"sync"
)

var errUnknownNextKind = errors.New("graph: node returned an unknown NextKind")

// Node is one step of a state machine: it runs its work against whatever
// state it closed over and returns where to go next.
type Node func(ctx context.Context) (Next, error)

// NextKind discriminates the outcomes a Node can return.
type NextKind int

const (
	// Continue proceeds to another Node in the same chain.
	Continue NextKind = iota
	// Terminal ends this chain successfully.
	Terminal
	// FanOut runs Dispatches concurrently, then proceeds to Continuation
	// once every dispatch has reached its own Terminal.
	FanOut
)

// Dispatch is one concurrent branch spawned by a FanOut.
type Dispatch struct {
	// Name identifies the branch for error reporting; it has no routing
	// meaning to the engine.
	Name  string
	Entry Node
}

// Next is the control-flow outcome of running a Node.
type Next struct {
	Kind         NextKind
	Node         Node       // valid when Kind == Continue
	Dispatches   []Dispatch // valid when Kind == FanOut
	Continuation Node       // valid when Kind == FanOut
}

// ContinueTo builds a Next that proceeds to node.
func ContinueTo(node Node) Next { return Next{Kind: Continue, Node: node} }

// End builds a Next that terminates the chain.
func End() Next { return Next{Kind: Terminal} }

// FanOutTo builds a Next that runs dispatches concurrently and then
// continues at continuation once all of them terminate.
func FanOutTo(dispatches []Dispatch, continuation Node) Next {
	return Next{Kind: FanOut, Dispatches: dispatches, Continuation: continuation}
}

// DispatchError reports that one fan-out branch failed.
type DispatchError struct {
	Name  string
	Cause error
}

func (e *DispatchError) Error() string {
	return "graph: branch " + e.Name + ": " + e.Cause.Error()
}

func (e *DispatchError) Unwrap() error { return e.Cause }

// Engine runs chains of Nodes starting from a single entry point per
// invocation, bounding how many fan-out branches run concurrently. Engine
// is safe for concurrent use: each Run call is independent.
type Engine struct {
	maxConcurrentBranches int
}

// defaultMaxConcurrentBranches bounds fan-out width when the caller does not
// configure one explicitly, mirroring the bounded-parallelism default the
// teacher's swarm executor uses for its own agent stages.
const defaultMaxConcurrentBranches = 8

// NewEngine builds an Engine. maxConcurrentBranches <= 0 uses a default.
func NewEngine(maxConcurrentBranches int) *Engine {
	if maxConcurrentBranches <= 0 {
		maxConcurrentBranches = defaultMaxConcurrentBranches
	}
	return &Engine{maxConcurrentBranches: maxConcurrentBranches}
}

// Run executes entry to completion: it follows Continue edges, and on
// FanOut runs every dispatch concurrently (each to its own completion via a
// recursive Run), cancels the remaining dispatches on the first error, and
// otherwise proceeds to the FanOut's Continuation.
func (e *Engine) Run(ctx context.Context, entry Node) error {
	node := entry
	for {
		next, err := node(ctx)
		if err != nil {
			return err
		}
		switch next.Kind {
		case Terminal:
			return nil
		case Continue:
			node = next.Node
		case FanOut:
			if err := e.runFanOut(ctx, next.Dispatches); err != nil {
				return err
			}
			node = next.Continuation
		default:
			return &DispatchError{Name: "<engine>", Cause: errUnknownNextKind}
		}
	}
}

func (e *Engine) runFanOut(ctx context.Context, dispatches []Dispatch) error {
	if len(dispatches) == 0 {
		return nil
	}

	branchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, e.maxConcurrentBranches)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, d := range dispatches {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-branchCtx.Done():
				return
			}
			defer func() { <-sem }()

			if err := e.Run(branchCtx, d.Entry); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &DispatchError{Name: d.Name, Cause: err}
					cancel()
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return firstErr
}
