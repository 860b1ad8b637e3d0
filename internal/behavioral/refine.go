package behavioral

import "sort"

const (
	domainSubdivideThreshold = 15
	utilitiesMergeThreshold  = minClusterSize
)

// Refine applies §4.8's production refinement pass on top of raw clusters:
// test methods are dropped from any non-test cluster, Domain clusters larger
// than 15 methods are subdivided by verb prefix, clusters left with fewer
// than 3 methods are folded into a single Utilities cluster, clusters that
// share the same category are merged, and every input method is guaranteed
// to appear in exactly one output cluster.
func Refine(clusters []MethodCluster, methods []Method, adjacency map[EdgeKey]int) []MethodCluster {
	isTest := map[string]bool{}
	all := map[string]bool{}
	for _, m := range methods {
		all[m.Name] = true
		if m.IsTest {
			isTest[m.Name] = true
		}
	}

	filtered := make([]MethodCluster, 0, len(clusters))
	for _, c := range clusters {
		kept := c.Methods[:0:0]
		for _, m := range c.Methods {
			if isTest[m] {
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == 0 {
			continue
		}
		c.Methods = kept
		filtered = append(filtered, c)
	}

	var subdivided []MethodCluster
	for _, c := range filtered {
		if isDomain(c.Category) && len(c.Methods) > domainSubdivideThreshold {
			subdivided = append(subdivided, subdivideByVerb(c, adjacency)...)
			continue
		}
		subdivided = append(subdivided, c)
	}

	merged := mergeByCategory(subdivided, adjacency)

	var kept []MethodCluster
	var strays []string
	for _, c := range merged {
		if len(c.Methods) < utilitiesMergeThreshold {
			strays = append(strays, c.Methods...)
			continue
		}
		kept = append(kept, c)
	}

	accounted := map[string]bool{}
	for _, c := range kept {
		for _, m := range c.Methods {
			accounted[m] = true
		}
	}
	for name := range all {
		if isTest[name] {
			continue
		}
		if !accounted[name] {
			strays = append(strays, name)
		}
	}
	if len(strays) > 0 {
		sort.Strings(strays)
		kept = append(kept, buildCluster(Category("Utilities"), strays, adjacency))
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Category != kept[j].Category {
			return kept[i].Category < kept[j].Category
		}
		return kept[i].Methods[0] < kept[j].Methods[0]
	})
	return kept
}

func isDomain(c Category) bool {
	s := string(c)
	return len(s) >= 7 && s[:7] == "Domain:"
}

// subdivideByVerb splits an oversized Domain cluster into sub-clusters keyed
// by the method name's leading verb token (the text up to its first
// underscore after the domain prefix), e.g. payment_validate_x and
// payment_process_y land in different sub-clusters.
func subdivideByVerb(c MethodCluster, adjacency map[EdgeKey]int) []MethodCluster {
	byVerb := map[string][]string{}
	for _, m := range c.Methods {
		byVerb[verbOf(m)] = append(byVerb[verbOf(m)], m)
	}
	verbs := make([]string, 0, len(byVerb))
	for v := range byVerb {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)

	var out []MethodCluster
	for _, v := range verbs {
		out = append(out, buildCluster(Category(string(c.Category)+":"+v), byVerb[v], adjacency))
	}
	return out
}

func verbOf(name string) string {
	lower := name
	first := -1
	for i := 0; i < len(lower); i++ {
		if lower[i] == '_' {
			if first == -1 {
				first = i
				continue
			}
			return lower[first+1 : i]
		}
	}
	if first == -1 || first+1 >= len(lower) {
		return lower
	}
	return lower[first+1:]
}

func mergeByCategory(clusters []MethodCluster, adjacency map[EdgeKey]int) []MethodCluster {
	byCategory := map[Category][]string{}
	order := []Category{}
	for _, c := range clusters {
		if _, seen := byCategory[c.Category]; !seen {
			order = append(order, c.Category)
		}
		byCategory[c.Category] = append(byCategory[c.Category], c.Methods...)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	out := make([]MethodCluster, 0, len(order))
	for _, cat := range order {
		out = append(out, buildCluster(cat, byCategory[cat], adjacency))
	}
	return out
}
