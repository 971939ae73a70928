package pack

import (
	"sort"

	"github.com/gammazero/toposort"

	"github.com/Iron-Ham/planpack/internal/errors"
)

// Graph is the dependency view of a document's tasks.
//
// Edges come from depends_on only; concurrent_with is a scheduling hint, not
// an ordering constraint. References to ids not defined in the document
// (declared externals and dangling ids alike) carry no edge: externals are
// satisfied outside the pack, and dangling ids are the reference pass's
// finding, not the graph's.
type Graph struct {
	ids       []string            // document order, empty ids skipped
	dependsOn map[string][]string // id -> in-document dependency ids
}

// NewGraph builds the dependency graph of a loaded document.
func NewGraph(doc *Document) *Graph {
	graph := &Graph{dependsOn: make(map[string][]string)}
	byID := doc.tasksByID()

	seen := make(map[string]bool, len(doc.Tasks))
	for i := range doc.Tasks {
		task := &doc.Tasks[i]
		if task.ID == "" || seen[task.ID] {
			continue
		}
		seen[task.ID] = true
		graph.ids = append(graph.ids, task.ID)

		// Self-edges are kept so they surface as cycles; duplicate entries
		// collapse to one edge.
		for _, dep := range byID[task.ID].DependsOn {
			if _, ok := byID[dep]; ok && !containsString(graph.dependsOn[task.ID], dep) {
				graph.dependsOn[task.ID] = append(graph.dependsOn[task.ID], dep)
			}
		}
	}
	return graph
}

// Len returns the number of tasks in the graph.
func (g *Graph) Len() int {
	return len(g.ids)
}

// Order returns a topological order of the task ids: every task appears
// after all of its in-document dependencies. Returns an error wrapping
// errors.ErrGraphCycle when the dependency graph has a cycle.
func (g *Graph) Order() ([]string, error) {
	var edges []toposort.Edge
	for _, id := range g.ids {
		deps := g.dependsOn[id]
		if len(deps) == 0 {
			edges = append(edges, toposort.Edge{nil, id})
			continue
		}
		for _, dep := range deps {
			edges = append(edges, toposort.Edge{dep, id})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, errors.Wrap(errors.ErrGraphCycle, err.Error())
	}

	order := make([]string, 0, len(g.ids))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(string))
		}
	}
	return order, nil
}

// Tiers groups the tasks into execution tiers: every task in tier n depends
// only on tasks in tiers below n, so each tier can run in parallel once the
// previous ones finish. Ids within a tier are sorted. Returns an error
// wrapping errors.ErrGraphCycle when no valid tiering exists.
func (g *Graph) Tiers() ([][]string, error) {
	inDegree := make(map[string]int, len(g.ids))
	for _, id := range g.ids {
		inDegree[id] = len(g.dependsOn[id])
	}

	var tiers [][]string
	completed := make(map[string]bool, len(g.ids))

	for len(completed) < len(g.ids) {
		var tier []string
		for _, id := range g.ids {
			if !completed[id] && inDegree[id] == 0 {
				tier = append(tier, id)
			}
		}
		if len(tier) == 0 {
			remaining := make([]string, 0, len(g.ids)-len(completed))
			for _, id := range g.ids {
				if !completed[id] {
					remaining = append(remaining, id)
				}
			}
			sort.Strings(remaining)
			return nil, errors.Wrapf(errors.ErrGraphCycle, "tasks %v cannot be scheduled", remaining)
		}
		sort.Strings(tier)
		tiers = append(tiers, tier)

		for _, done := range tier {
			completed[done] = true
			for _, id := range g.ids {
				if containsString(g.dependsOn[id], done) {
					inDegree[id]--
				}
			}
		}
	}
	return tiers, nil
}
