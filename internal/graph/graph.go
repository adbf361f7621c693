// Package graph builds the markup-to-controller usage graph and ranks
// controllers with PageRank.
package graph

import (
	"math"
	"sort"

	"github.com/phobologic/stimref/internal/model"
)

// BuildGraph creates markup → controller edges from resolved usages.
// Each edge lists the identifiers it was reached through.
func BuildGraph(usages []model.Usage) []model.Dependency {
	type edgeKey struct{ src, tgt string }
	edgeIDs := make(map[edgeKey][]string)

	for i := range usages {
		u := &usages[i]
		if u.Target == "" || u.File == u.Target {
			continue
		}
		key := edgeKey{u.File, u.Target}
		// Only add identifier if not already present
		if !contains(edgeIDs[key], u.Identifier) {
			edgeIDs[key] = append(edgeIDs[key], u.Identifier)
		}
	}

	var deps []model.Dependency
	for key, ids := range edgeIDs {
		sort.Strings(ids)
		deps = append(deps, model.Dependency{
			Source:      key.src,
			Target:      key.tgt,
			Identifiers: ids,
		})
	}

	// Sort for deterministic output
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Source != deps[j].Source {
			return deps[i].Source < deps[j].Source
		}
		return deps[i].Target < deps[j].Target
	})

	return deps
}

// CountReferences sets References on every controller to the number of
// usages that target its file.
func CountReferences(controllers []model.ControllerUsage, usages []model.Usage) {
	counts := make(map[string]int)
	for i := range usages {
		counts[usages[i].Target]++
	}
	for i := range controllers {
		controllers[i].References = counts[controllers[i].File]
	}
}

// Rank applies PageRank over markup and controller files and sorts
// controllers by rank descending, then by identifier.
func Rank(controllers []model.ControllerUsage, deps []model.Dependency) {
	if len(controllers) == 0 {
		return
	}

	if len(deps) == 0 {
		uniform := 1.0 / float64(len(controllers))
		for i := range controllers {
			controllers[i].Rank = uniform
		}
		sortControllers(controllers)
		return
	}

	// Edge from source to target means the markup file uses the controller.
	outEdges := make(map[string][]string) // node → list of targets (with repeats for multi-edges)
	outDegree := make(map[string]int)     // total out-edges per node
	nodes := make(map[string]struct{})

	for i := range controllers {
		nodes[controllers[i].File] = struct{}{}
	}

	for _, d := range deps {
		nodes[d.Source] = struct{}{}
		nodes[d.Target] = struct{}{}
		// Each identifier is an edge
		for range d.Identifiers {
			outEdges[d.Source] = append(outEdges[d.Source], d.Target)
			outDegree[d.Source]++
		}
	}

	ranks := pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)

	for i := range controllers {
		controllers[i].Rank = ranks[controllers[i].File]
	}
	sortControllers(controllers)
}

func sortControllers(controllers []model.ControllerUsage) {
	sort.SliceStable(controllers, func(i, j int) bool {
		if controllers[i].Rank != controllers[j].Rank {
			return controllers[i].Rank > controllers[j].Rank
		}
		return controllers[i].Identifier < controllers[j].Identifier
	})
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling nodes (controllers, unused markup) spread evenly
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		for src, targets := range outEdges {
			contrib := alpha * rank[src] / float64(outDegree[src])
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
