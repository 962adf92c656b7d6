package goap

import (
	"container/heap"
	"fmt"
	"math"
	"sort"
	"strings"
)

// PlannerConfig tunes the A* search. Zero values are replaced with the
// documented defaults by NewPlanner.
type PlannerConfig struct {
	// MaxIterations bounds the number of dequeues before the search gives
	// up. Default 1000.
	MaxIterations int
	// Debug is carried in the config; the planner does not read it and
	// Plan emits no per-node logging.
	Debug bool
	// CanonicalKeys is the domain-supplied whitelist of fact-keys that
	// participate in the canonical state key used for closed-set
	// deduplication. Facts outside this whitelist are omitted from the
	// key, a deliberate lossy dedup the executor's drift detector
	// compensates for.
	CanonicalKeys []string
	// AverageActionCost weights the numeric-target distance-to-actions
	// estimate in the heuristic. Default 3.
	AverageActionCost float64
	// UnsatisfiedConditionPenalty is the fixed heuristic contribution of
	// an unsatisfied condition that carries no NumericTarget. Default 5.
	UnsatisfiedConditionPenalty float64
}

const (
	defaultMaxIterations               = 1000
	defaultAverageActionCost           = 3.0
	defaultUnsatisfiedConditionPenalty = 5.0
)

func (c PlannerConfig) withDefaults() PlannerConfig {
	if c.MaxIterations <= 0 {
		c.MaxIterations = defaultMaxIterations
	}
	if c.AverageActionCost <= 0 {
		c.AverageActionCost = defaultAverageActionCost
	}
	if c.UnsatisfiedConditionPenalty <= 0 {
		c.UnsatisfiedConditionPenalty = defaultUnsatisfiedConditionPenalty
	}
	return c
}

// PlanResult is the planner's output: either a successful plan or a
// diagnostic failure. The planner never returns an error; failure is
// always surfaced as Success=false.
type PlanResult struct {
	Success       bool
	Plan          []*Action
	TotalCost     float64
	NodesExplored int
}

// Planner runs A* search over symbolic WorldStates using Actions as edges.
type Planner struct {
	Actions []*Action
	config  PlannerConfig
}

// NewPlanner constructs a Planner over actions with the given config.
func NewPlanner(actions []*Action, config PlannerConfig) *Planner {
	return &Planner{Actions: actions, config: config.withDefaults()}
}

// planNode is one entry in the open/closed sets. seq breaks ties in f by
// insertion order, keeping search order deterministic.
type planNode struct {
	state  *WorldState
	key    string
	action *Action // edge taken to reach this node; nil at the root
	parent *planNode
	g      float64
	h      float64
	seq    int
	index  int // heap index, maintained by container/heap
}

func (n *planNode) f() float64 { return n.g + n.h }

// nodeHeap is a min-heap on f, tie-broken by seq (stable insertion order).
type nodeHeap []*planNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f() != h[j].f() {
		return h[i].f() < h[j].f()
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*planNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*h = old[:last]
	return n
}

// Plan searches for the cheapest-found sequence of actions taking start to
// a state satisfying goal. It never returns an error; a failed search is
// reported as PlanResult{Success: false}.
func (p *Planner) Plan(start *WorldState, goal *Goal) PlanResult {
	if goal.Satisfied(start) {
		return PlanResult{Success: true, Plan: []*Action{}, TotalCost: 0, NodesExplored: 0}
	}

	config := p.config
	root := &planNode{state: start, key: p.canonicalKey(start), g: 0, h: p.heuristic(start, goal)}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, root)

	openByKey := map[string]*planNode{root.key: root}
	closed := map[string]struct{}{}

	seq := 1
	explored := 0

	for open.Len() > 0 && explored < config.MaxIterations {
		current := heap.Pop(open).(*planNode)
		delete(openByKey, current.key)
		explored++

		if goal.Satisfied(current.state) {
			return p.reconstruct(current, explored)
		}

		closed[current.key] = struct{}{}

		for _, action := range p.Actions {
			if !action.Applicable(current.state) {
				continue
			}

			successor := action.ApplyEffects(current.state)
			key := p.canonicalKey(successor)

			if _, done := closed[key]; done {
				continue
			}

			gPrime := current.g + action.Cost(current.state)

			if existing, inOpen := openByKey[key]; inOpen {
				if existing.g <= gPrime {
					continue
				}
				p.removeFromOpen(open, openByKey, existing)
			}

			node := &planNode{
				state:  successor,
				key:    key,
				action: action,
				parent: current,
				g:      gPrime,
				h:      p.heuristic(successor, goal),
				seq:    seq,
			}
			seq++
			heap.Push(open, node)
			openByKey[key] = node
		}
	}

	return PlanResult{Success: false, Plan: nil, TotalCost: 0, NodesExplored: explored}
}

func (p *Planner) removeFromOpen(open *nodeHeap, byKey map[string]*planNode, n *planNode) {
	heap.Remove(open, n.index)
	delete(byKey, n.key)
}

func (p *Planner) reconstruct(goalNode *planNode, explored int) PlanResult {
	var plan []*Action
	cost := goalNode.g
	for n := goalNode; n.action != nil; n = n.parent {
		plan = append([]*Action{n.action}, plan...)
	}
	if plan == nil {
		plan = []*Action{}
	}
	return PlanResult{Success: true, Plan: plan, TotalCost: cost, NodesExplored: explored}
}

// canonicalKey builds a deterministic string over the configured whitelist
// of fact-keys. Keys outside the whitelist never participate in dedup.
func (p *Planner) canonicalKey(ws *WorldState) string {
	if len(p.config.CanonicalKeys) == 0 {
		return p.canonicalKeyAllKeys(ws)
	}
	keys := make([]string, len(p.config.CanonicalKeys))
	copy(keys, p.config.CanonicalKeys)
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		writeFact(&b, k, ws.Get(k))
	}
	return b.String()
}

// canonicalKeyAllKeys is the fallback used when no whitelist is configured:
// every present fact participates. Domains should always configure a
// whitelist; this keeps the planner usable without one.
func (p *Planner) canonicalKeyAllKeys(ws *WorldState) string {
	keys := ws.Keys()
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		writeFact(&b, k, ws.Get(k))
	}
	return b.String()
}

func writeFact(b *strings.Builder, key string, v FactValue) {
	b.WriteString(key)
	b.WriteByte(':')
	switch v.Kind() {
	case FactBool:
		bv, _ := v.AsBool()
		fmt.Fprintf(b, "%t", bv)
	case FactNumber:
		nv, _ := v.AsNumber()
		fmt.Fprintf(b, "%g", nv)
	case FactString:
		sv, _ := v.AsString()
		b.WriteString(sv)
	default:
		b.WriteString("nil")
	}
	b.WriteByte(';')
}

// heuristic estimates the remaining cost from ws to satisfying goal. It is
// not strictly admissible (the average-action-cost weighting can
// over-estimate) but guides search well in practice; found plans are good,
// not guaranteed optimal.
func (p *Planner) heuristic(ws *WorldState, goal *Goal) float64 {
	total := 0.0
	for _, c := range goal.Conditions {
		if c.Satisfied(ws) {
			continue
		}
		if c.NumericTarget == nil {
			total += p.config.UnsatisfiedConditionPenalty
			continue
		}
		current := ws.GetNumber(c.Key)
		distance := numericDistance(current, *c.NumericTarget)
		if distance <= 0 {
			continue
		}
		delta := math.Abs(c.NumericTarget.EstimatedDelta)
		if delta == 0 {
			total += p.config.UnsatisfiedConditionPenalty
			continue
		}
		actions := math.Ceil(distance / delta)
		total += actions * p.config.AverageActionCost
	}
	return total
}

func numericDistance(current float64, target NumericTarget) float64 {
	switch target.Comparison {
	case GTE:
		return math.Max(0, target.Value-current)
	case LTE:
		return math.Max(0, current-target.Value)
	case EQ:
		return math.Abs(target.Value - current)
	default:
		return 0
	}
}
