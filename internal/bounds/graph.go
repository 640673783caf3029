package bounds

// VarGraph is a directed graph whose nodes are Keys and whose edges are
// value-flow assignments (§3 "a directed graph ProgVarGraph whose nodes are
// BoundsKeys and whose edges are value-flow assignments"). The same shape
// backs both the intra-procedural ProgVarGraph and the two context-sensitive
// twins (§3 (b)).
type VarGraph struct {
	succ map[Key]map[Key]bool
	pred map[Key]map[Key]bool
}

func newVarGraph() *VarGraph {
	return &VarGraph{succ: make(map[Key]map[Key]bool), pred: make(map[Key]map[Key]bool)}
}

func (g *VarGraph) addNode(k Key) {
	if _, ok := g.succ[k]; !ok {
		g.succ[k] = make(map[Key]bool)
		g.pred[k] = make(map[Key]bool)
	}
}

// AddEdge records a value-flow edge from src to dst (an assignment
// src -> dst, i.e. dst may take src's bound).
func (g *VarGraph) AddEdge(src, dst Key) {
	g.addNode(src)
	g.addNode(dst)
	g.succ[src][dst] = true
	g.pred[dst][src] = true
}

// AddBidirectionalEdge records edges in both directions (§4.8.1 "Each
// value-flow assignment adds a directed edge in ProgVarGraph (bidirectional
// unless one side is a function return)").
func (g *VarGraph) AddBidirectionalEdge(a, b Key) {
	g.AddEdge(a, b)
	g.AddEdge(b, a)
}

// Predecessors returns every node with an edge into k.
func (g *VarGraph) Predecessors(k Key) []Key {
	out := make([]Key, 0, len(g.pred[k]))
	for p := range g.pred[k] {
		out = append(out, p)
	}
	return out
}

// Successors returns every node k has an edge into.
func (g *VarGraph) Successors(k Key) []Key {
	out := make([]Key, 0, len(g.succ[k]))
	for s := range g.succ[k] {
		out = append(out, s)
	}
	return out
}

// Nodes returns every node currently in the graph.
func (g *VarGraph) Nodes() []Key {
	out := make([]Key, 0, len(g.succ))
	for k := range g.succ {
		out = append(out, k)
	}
	return out
}

// ReachableFrom performs a breadth-first walk from src, calling visit for
// every reachable node (including src). visit returning false prunes that
// node's successors from further exploration — used by §4.8.3's
// scope-reachability check to stop at the boundary of the destination's
// scope ("reachable ... passing only through variables in d's scope").
func (g *VarGraph) ReachableFrom(src Key, visit func(Key) bool) {
	seen := map[Key]bool{src: true}
	queue := []Key{src}
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		if !visit(k) {
			continue
		}
		for _, s := range g.Successors(k) {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
}
