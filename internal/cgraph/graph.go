// Package cgraph implements the two constraint sub-graphs the solver walks
// (§4.2): one for the checked sub-order, one for the ptr-type sub-order.
// Vertex identity is shared across Var and Const atoms in both graphs; each
// asserted Geq(lhs, rhs) becomes a directed edge from the smaller to the
// larger atom in its sub-order, so propagation runs "uphill" from a
// worklist of known atoms.
//
// Grounded on clang/include/clang/CConv/ConstraintsGraph.h's pair of
// DirectedGraph instances (Chk/Ptype) in original_source, expressed in the
// teacher's plain-struct-with-maps style (no generic graph library is used
// anywhere in the teacher, so none is introduced here).
package cgraph

import (
	"strconv"

	"github.com/funvibe/checkedc-infer/internal/atoms"
	"github.com/funvibe/checkedc-infer/internal/constraints"
)

func vkey(a atoms.Atom) string {
	if c, ok := atoms.AsConst(a); ok {
		return "c:" + c.String()
	}
	v := a.(atoms.VarAtom)
	return "v:" + strconv.Itoa(v.ID)
}

// subGraph is one of the two adjacency structures, keyed by vertex key
// rather than atom value so Const and Var atoms can share one vertex space.
type subGraph struct {
	atomOf map[string]atoms.Atom
	succ   map[string]map[string]bool
	pred   map[string]map[string]bool
}

func newSubGraph() *subGraph {
	return &subGraph{
		atomOf: make(map[string]atoms.Atom),
		succ:   make(map[string]map[string]bool),
		pred:   make(map[string]map[string]bool),
	}
}

func (g *subGraph) addVertex(a atoms.Atom) {
	k := vkey(a)
	if _, ok := g.atomOf[k]; ok {
		return
	}
	g.atomOf[k] = a
	g.succ[k] = make(map[string]bool)
	g.pred[k] = make(map[string]bool)
}

func (g *subGraph) addEdge(smaller, larger atoms.Atom) {
	g.addVertex(smaller)
	g.addVertex(larger)
	sk, lk := vkey(smaller), vkey(larger)
	g.succ[sk][lk] = true
	g.pred[lk][sk] = true
}

func (g *subGraph) successors(a atoms.Atom) []atoms.Atom {
	k := vkey(a)
	out := make([]atoms.Atom, 0, len(g.succ[k]))
	for sk := range g.succ[k] {
		out = append(out, g.atomOf[sk])
	}
	return out
}

func (g *subGraph) predecessors(a atoms.Atom) []atoms.Atom {
	k := vkey(a)
	out := make([]atoms.Atom, 0, len(g.pred[k]))
	for pk := range g.pred[k] {
		out = append(out, g.atomOf[pk])
	}
	return out
}

// Graph holds the Checked and Ptype sub-graphs (§4.2). It is rebuilt from a
// constraints.Constraints snapshot each time the solver runs, so stale edges
// from a removed Geq (§4.9) never linger.
type Graph struct {
	checked *subGraph
	ptype   *subGraph
}

// Build constructs both sub-graphs from every Geq currently asserted in cs.
// Implies edges are added lazily by the solver as premises fire (§4.3.1
// step 4), via AddImpliedEdge.
func Build(cs *constraints.Constraints) *Graph {
	g := &Graph{checked: newSubGraph(), ptype: newSubGraph()}
	for _, v := range cs.Vars() {
		g.checked.addVertex(v)
		g.ptype.addVertex(v)
	}
	for _, geq := range cs.Geqs() {
		g.addGeq(geq)
	}
	return g
}

func (g *Graph) addGeq(geq constraints.Geq) {
	sg := g.sub(geq.Sub)
	sg.addEdge(geq.Rhs, geq.Lhs) // edge points from smaller (rhs) to larger (lhs)
}

func (g *Graph) sub(s constraints.SubOrder) *subGraph {
	if s == constraints.Checked {
		return g.checked
	}
	return g.ptype
}

// AddImpliedEdge installs the conclusion edge of a fired Implies (§4.3.1
// step 4) into the appropriate sub-graph.
func (g *Graph) AddImpliedEdge(geq constraints.Geq) {
	g.addGeq(geq)
}

// Successors returns every vertex B such that an edge A->B exists in the
// given sub-order, i.e. every atom directly required to be >= A.
func (g *Graph) Successors(a atoms.Atom, sub constraints.SubOrder) []atoms.Atom {
	return g.sub(sub).successors(a)
}

// Predecessors returns every vertex whose edge points into a.
func (g *Graph) Predecessors(a atoms.Atom, sub constraints.SubOrder) []atoms.Atom {
	return g.sub(sub).predecessors(a)
}

// Vertices returns every known atom in the given sub-order's vertex space.
func (g *Graph) Vertices(sub constraints.SubOrder) []atoms.Atom {
	sg := g.sub(sub)
	out := make([]atoms.Atom, 0, len(sg.atomOf))
	for _, a := range sg.atomOf {
		out = append(out, a)
	}
	return out
}
