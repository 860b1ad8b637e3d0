package behavioral

import (
	"sort"
	"strconv"
)

// MethodCluster is one grouped unit of a behavioral split proposal.
type MethodCluster struct {
	Category       Category
	Methods        []string
	Cohesion       float64
	FieldsAccessed []string
	InternalCalls  int
	ExternalCalls  int
}

const (
	louvainMaxIterations = 10
	louvainMaxMethods    = 200
	minClusterSize       = 3
	minCohesion          = 0.2
)

// edgeCounts counts the directed edges touching member, split into internal
// (both endpoints in `members`) and external (exactly one endpoint in
// `members`) — the ratio §4.8 optimizes per tentative move.
func edgeCounts(adjacency map[EdgeKey]int, member string, members map[string]bool) (internal, external int) {
	for k, count := range adjacency {
		touches := k.Caller == member || k.Callee == member
		if !touches {
			continue
		}
		other := k.Caller
		if other == member {
			other = k.Callee
		}
		if members[other] {
			internal += count
		} else {
			external += count
		}
	}
	return internal, external
}

func cohesionOf(adjacency map[EdgeKey]int, members map[string]bool) (cohesion float64, internal, external int) {
	for k, count := range adjacency {
		callerIn := members[k.Caller]
		calleeIn := members[k.Callee]
		switch {
		case callerIn && calleeIn:
			internal += count
		case callerIn || calleeIn:
			external += count
		}
	}
	if internal+external == 0 {
		return 0, internal, external
	}
	return float64(internal) / float64(internal+external), internal, external
}

// DetectCommunities runs §4.8's simplified Louvain-style local search:
// each method starts in its own cluster, then methods are greedily moved to
// whichever cluster (including staying put) maximizes the method's own
// internal/(internal+external) call ratio, iterated to a fixed point capped
// at 10 iterations. Graphs over 200 methods skip clustering (the caller falls
// back to the plain categorical grouping).
func DetectCommunities(methodNames []string, adjacency map[EdgeKey]int) map[string][]string {
	if len(methodNames) > louvainMaxMethods {
		return nil
	}
	assignment := map[string]int{}
	for i, m := range methodNames {
		assignment[m] = i
	}

	membersOf := func(cluster int) map[string]bool {
		out := map[string]bool{}
		for m, c := range assignment {
			if c == cluster {
				out[m] = true
			}
		}
		return out
	}

	for iter := 0; iter < louvainMaxIterations; iter++ {
		changed := false
		clusterIDSet := map[int]bool{}
		for _, c := range assignment {
			clusterIDSet[c] = true
		}
		clusterIDs := make([]int, 0, len(clusterIDSet))
		for c := range clusterIDSet {
			clusterIDs = append(clusterIDs, c)
		}
		sort.Ints(clusterIDs)
		for _, m := range methodNames {
			bestCluster := assignment[m]
			bestScore := -1.0
			for _, c := range clusterIDs {
				trial := membersOf(c)
				if c != assignment[m] {
					trial[m] = true
				}
				internal, external := edgeCounts(adjacency, m, trial)
				score := 0.0
				if internal+external > 0 {
					score = float64(internal) / float64(internal+external)
				}
				if score > bestScore {
					bestScore = score
					bestCluster = c
				}
			}
			if bestCluster != assignment[m] {
				assignment[m] = bestCluster
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	groups := map[int][]string{}
	for _, m := range methodNames {
		c := assignment[m]
		groups[c] = append(groups[c], m)
	}
	out := map[string][]string{}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for i, id := range ids {
		members := groups[id]
		sort.Strings(members)
		out[clusterLabel(i)] = members
	}
	return out
}

func clusterLabel(i int) string {
	return "cluster-" + strconv.Itoa(i)
}

// HybridClusters starts from behavioral categories; any category with more
// than 5 methods gets refined via community detection, with methods dropped
// by the refinement's size/cohesion filters recovered back into the
// category-level cluster.
func HybridClusters(methods []Method, adjacency map[EdgeKey]int) []MethodCluster {
	byCategory := map[Category][]string{}
	for _, m := range methods {
		cat := CategorizeMethod(m.Name)
		byCategory[cat] = append(byCategory[cat], m.Name)
	}

	var clusters []MethodCluster
	for cat, names := range byCategory {
		sort.Strings(names)
		if len(names) <= 5 {
			clusters = append(clusters, buildCluster(cat, names, adjacency))
			continue
		}

		refined := DetectCommunities(names, adjacency)
		if refined == nil {
			clusters = append(clusters, buildCluster(cat, names, adjacency))
			continue
		}

		accounted := map[string]bool{}
		var subclusters []MethodCluster
		for _, label := range sortedKeys(refined) {
			members := refined[label]
			cluster := buildCluster(cat, members, adjacency)
			if len(members) < minClusterSize || cluster.Cohesion < minCohesion {
				continue
			}
			subclusters = append(subclusters, cluster)
			for _, m := range members {
				accounted[m] = true
			}
		}

		var lost []string
		for _, m := range names {
			if !accounted[m] {
				lost = append(lost, m)
			}
		}
		if len(lost) > 0 {
			subclusters = append(subclusters, buildCluster(cat, lost, adjacency))
		}
		clusters = append(clusters, subclusters...)
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Category != clusters[j].Category {
			return clusters[i].Category < clusters[j].Category
		}
		return clusters[i].Methods[0] < clusters[j].Methods[0]
	})
	return clusters
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildCluster(cat Category, members []string, adjacency map[EdgeKey]int) MethodCluster {
	memberSet := map[string]bool{}
	for _, m := range members {
		memberSet[m] = true
	}
	cohesion, internal, external := cohesionOf(adjacency, memberSet)
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return MethodCluster{
		Category:      cat,
		Methods:       sorted,
		Cohesion:      cohesion,
		InternalCalls: internal,
		ExternalCalls: external,
	}
}
