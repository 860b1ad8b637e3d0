// Package depgraph implements §4.7: a whole-repo module dependency graph with
// iterative (explicit-stack) cycle detection and afferent/efferent coupling.
// Grounded on original_source/src/debt/circular.rs for the explicit frame-stack
// algorithm; the frames here are (module, is_entering) only: entering a module
// pushes a frame for every unvisited dependency at once, and no frame records
// a position within a dependency list. Also grounded on
// analyzer/linage/utils.go's Merge for the plain-map adjacency-building idiom.
package depgraph

import "sort"

// Graph is a directed module dependency graph: an edge from A to B means A
// imports B. Self-edges are retained per §4.7.
type Graph struct {
	adjacency map[string][]string
	modules   []string
	seen      map[string]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{adjacency: map[string][]string{}, seen: map[string]bool{}}
}

// AddModule registers module if not already present.
func (g *Graph) AddModule(module string) {
	if g.seen[module] {
		return
	}
	g.seen[module] = true
	g.modules = append(g.modules, module)
	g.adjacency[module] = nil
}

// AddDependency adds a directed edge from -> to, registering both endpoints.
func (g *Graph) AddDependency(from, to string) {
	g.AddModule(from)
	g.AddModule(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Modules returns every registered module, in insertion order.
func (g *Graph) Modules() []string {
	out := make([]string, len(g.modules))
	copy(out, g.modules)
	return out
}

// Dependencies returns module's outgoing edges.
func (g *Graph) Dependencies(module string) []string {
	return g.adjacency[module]
}

// Dependents returns every module with an edge into module (excluding module
// itself, since a self-edge isn't a "dependent").
func (g *Graph) Dependents(module string) []string {
	var out []string
	for _, m := range g.modules {
		if m == module {
			continue
		}
		for _, d := range g.adjacency[m] {
			if d == module {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// Coupling is the afferent/efferent coupling count for one module.
type Coupling struct {
	Module    string
	Afferent  int // modules depending on this one
	Efferent  int // this module's outgoing edges
}

// CouplingMetrics computes §4.7's per-module coupling and the graph-wide edge
// total.
func (g *Graph) CouplingMetrics() (metrics []Coupling, totalEdges int) {
	for _, m := range g.modules {
		totalEdges += len(g.adjacency[m])
	}
	for _, m := range g.modules {
		metrics = append(metrics, Coupling{
			Module:   m,
			Afferent: len(g.Dependents(m)),
			Efferent: len(g.adjacency[m]),
		})
	}
	return metrics, totalEdges
}

// Cycle is one detected circular-dependency chain, in path order.
type Cycle struct {
	Modules []string
}

type frame struct {
	module     string
	isEntering bool
}

// DetectCycles runs the §4.7 iterative DFS: an explicit stack of
// (module, is_entering) frames, never recursing, with a companion path slice
// used to slice out the cycle when a dependency is already on-stack.
func (g *Graph) DetectCycles() []Cycle {
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var cycles []Cycle

	for _, start := range g.modules {
		if visited[start] {
			continue
		}
		g.dfsIterative(start, visited, onStack, &cycles)
	}
	return cycles
}

func (g *Graph) dfsIterative(start string, visited, onStack map[string]bool, cycles *[]Cycle) {
	stack := []frame{{module: start, isEntering: true}}
	var path []string

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.isEntering {
			visited[f.module] = true
			onStack[f.module] = true
			path = append(path, f.module)

			// return frame, popped after every dependency below has been processed
			stack = append(stack, frame{module: f.module, isEntering: false})

			deps := g.adjacency[f.module]
			for i := len(deps) - 1; i >= 0; i-- {
				dep := deps[i]
				switch {
				case !visited[dep]:
					stack = append(stack, frame{module: dep, isEntering: true})
				case onStack[dep]:
					if start := indexOf(path, dep); start >= 0 {
						cycle := make([]string, len(path)-start)
						copy(cycle, path[start:])
						*cycles = append(*cycles, Cycle{Modules: cycle})
					}
				}
			}
		} else {
			path = path[:len(path)-1]
			onStack[f.module] = false
		}
	}
}

func indexOf(path []string, m string) int {
	for i, p := range path {
		if p == m {
			return i
		}
	}
	return -1
}

// SortedModules returns the graph's modules in a canonical (lexical) order,
// for deterministic report output.
func (g *Graph) SortedModules() []string {
	out := g.Modules()
	sort.Strings(out)
	return out
}
