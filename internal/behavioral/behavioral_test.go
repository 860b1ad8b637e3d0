package behavioral

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/debtmap/internal/cfgbuild"
)

func TestCategorizeMethodPrecedence(t *testing.T) {
	assert.Equal(t, Construction, CategorizeMethod("new_user"))
	assert.Equal(t, Lifecycle, CategorizeMethod("init_pool"))
	assert.Equal(t, Parsing, CategorizeMethod("parse_header"))
	assert.Equal(t, Persistence, CategorizeMethod("save_record"))
	assert.Equal(t, Validation, CategorizeMethod("is_valid"))
	assert.Equal(t, Rendering, CategorizeMethod("render_page"))
	assert.Equal(t, EventHandling, CategorizeMethod("on_click"))
	assert.Equal(t, Filtering, CategorizeMethod("filter_rows"))
	assert.Equal(t, Transformation, CategorizeMethod("transform_payload"))
	assert.Equal(t, DataAccess, CategorizeMethod("get_name"))
	assert.Equal(t, StateManagement, CategorizeMethod("update_state"))
	assert.Equal(t, Processing, CategorizeMethod("process_batch"))
	assert.Equal(t, Communication, CategorizeMethod("send_event"))
	assert.Equal(t, Domain("payment"), CategorizeMethod("payment_authorize"))
}

func TestCategorizeMethodConstructionWinsOverDataAccess(t *testing.T) {
	// "new_get_handler" starts with "new", which precedes get_/DataAccess
	// in the fixed ordering.
	assert.Equal(t, Construction, CategorizeMethod("new_get_handler"))
}

func TestDisplayNameHumanizesCamelCase(t *testing.T) {
	assert.Equal(t, "Event Handling", EventHandling.DisplayName())
	assert.Equal(t, "Payment", Domain("payment").DisplayName())
}

func callExpr(name string) cfgbuild.Expr {
	return cfgbuild.Expr{Tag: cfgbuild.ECall, FuncName: name}
}

func selfCall(method string) cfgbuild.Expr {
	return cfgbuild.Expr{
		Tag:      cfgbuild.EMethodCall,
		Receiver: &cfgbuild.Expr{Tag: cfgbuild.EIdent, Name: "self"},
		Method:   method,
	}
}

func exprStmt(e cfgbuild.Expr) cfgbuild.Stmt {
	return cfgbuild.Stmt{Tag: cfgbuild.SExprStmt, Expr: &e}
}

func TestBuildAdjacencyRecordsSelfCallsAndFreeCalls(t *testing.T) {
	methods := []Method{
		{Name: "a", Body: []cfgbuild.Stmt{exprStmt(selfCall("b")), exprStmt(callExpr("c"))}},
		{Name: "b", Body: nil},
		{Name: "c", Body: nil},
	}
	adjacency := BuildAdjacency(methods)
	assert.Equal(t, 1, adjacency[EdgeKey{Caller: "a", Callee: "b"}])
	assert.Equal(t, 1, adjacency[EdgeKey{Caller: "a", Callee: "c"}])
	assert.Len(t, adjacency, 2)
}

func TestBuildAdjacencyIgnoresSelfRecursionAndUnknownCallees(t *testing.T) {
	methods := []Method{
		{Name: "a", Body: []cfgbuild.Stmt{exprStmt(callExpr("a")), exprStmt(callExpr("unknown"))}},
	}
	adjacency := BuildAdjacency(methods)
	assert.Empty(t, adjacency)
}

func TestBuildAdjacencyWalksNestedIfAndWhile(t *testing.T) {
	inner := exprStmt(selfCall("helper"))
	methods := []Method{
		{Name: "a", Body: []cfgbuild.Stmt{
			{Tag: cfgbuild.SIf, Cond: &cfgbuild.Expr{Tag: cfgbuild.ELiteral}, Then: []cfgbuild.Stmt{inner}},
		}},
		{Name: "helper", Body: nil},
	}
	adjacency := BuildAdjacency(methods)
	assert.Equal(t, 1, adjacency[EdgeKey{Caller: "a", Callee: "helper"}])
}

func TestDetectCommunitiesSeparatesDisjointPairs(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	adjacency := map[EdgeKey]int{
		{Caller: "a", Callee: "b"}: 5,
		{Caller: "b", Callee: "a"}: 5,
		{Caller: "c", Callee: "d"}: 5,
		{Caller: "d", Callee: "c"}: 5,
	}
	groups := DetectCommunities(names, adjacency)
	// Two disjoint call pairs should never end up sharing a cluster.
	memberOf := map[string]string{}
	for label, members := range groups {
		for _, m := range members {
			memberOf[m] = label
		}
	}
	assert.Equal(t, memberOf["a"], memberOf["b"])
	assert.Equal(t, memberOf["c"], memberOf["d"])
	assert.NotEqual(t, memberOf["a"], memberOf["c"])
}

func TestDetectCommunitiesSkipsOversizedInput(t *testing.T) {
	names := make([]string, louvainMaxMethods+1)
	for i := range names {
		names[i] = "m"
	}
	assert.Nil(t, DetectCommunities(names, nil))
}

func TestCohesionOfComputesInternalOverTotalRatio(t *testing.T) {
	adjacency := map[EdgeKey]int{
		{Caller: "a", Callee: "b"}: 1,
		{Caller: "a", Callee: "x"}: 1,
	}
	cohesion, internal, external := cohesionOf(adjacency, map[string]bool{"a": true, "b": true})
	assert.Equal(t, 1, internal)
	assert.Equal(t, 1, external)
	assert.InDelta(t, 0.5, cohesion, 0.0001)
}

func TestHybridClustersKeepsSmallCategoriesIntact(t *testing.T) {
	methods := []Method{
		{Name: "new_a", Body: nil},
		{Name: "new_b", Body: nil},
	}
	clusters := HybridClusters(methods, nil)
	if assert.Len(t, clusters, 1) {
		assert.Equal(t, Construction, clusters[0].Category)
		assert.ElementsMatch(t, []string{"new_a", "new_b"}, clusters[0].Methods)
	}
}

func TestHybridClustersRefinesLargeCategoryAndRecoversLost(t *testing.T) {
	var methods []Method
	adjacency := map[EdgeKey]int{}
	// Six Processing methods: two internally-wired pairs plus two isolated
	// methods with no edges at all (recovered, not lost).
	for _, pair := range [][2]string{{"process_a1", "process_a2"}, {"process_b1", "process_b2"}} {
		methods = append(methods, Method{Name: pair[0]}, Method{Name: pair[1]})
		adjacency[EdgeKey{Caller: pair[0], Callee: pair[1]}] = 3
		adjacency[EdgeKey{Caller: pair[1], Callee: pair[0]}] = 3
	}
	methods = append(methods, Method{Name: "process_c1"}, Method{Name: "process_c2"})

	clusters := HybridClusters(methods, adjacency)
	total := 0
	for _, c := range clusters {
		total += len(c.Methods)
		assert.Equal(t, Processing, c.Category)
	}
	assert.Equal(t, len(methods), total)
}

func TestRefineDropsTestMethodsAndGuaranteesCoverage(t *testing.T) {
	methods := []Method{
		{Name: "new_widget", Body: nil, IsTest: false},
		{Name: "test_new_widget", Body: nil, IsTest: true},
	}
	clusters := []MethodCluster{
		{Category: Construction, Methods: []string{"new_widget", "test_new_widget"}},
	}
	refined := Refine(clusters, methods, nil)
	var all []string
	for _, c := range refined {
		all = append(all, c.Methods...)
	}
	assert.ElementsMatch(t, []string{"new_widget"}, all)
}

func TestRefineMergesUndersizedClustersIntoUtilities(t *testing.T) {
	methods := []Method{
		{Name: "new_a"},
		{Name: "send_b"},
	}
	clusters := []MethodCluster{
		{Category: Construction, Methods: []string{"new_a"}},
		{Category: Communication, Methods: []string{"send_b"}},
	}
	refined := Refine(clusters, methods, nil)
	if assert.Len(t, refined, 1) {
		assert.Equal(t, Category("Utilities"), refined[0].Category)
		assert.ElementsMatch(t, []string{"new_a", "send_b"}, refined[0].Methods)
	}
}

func TestRefineSubdividesOversizedDomainClusterByVerb(t *testing.T) {
	var methods []Method
	var names []string
	for i := 0; i < 9; i++ {
		names = append(names, "payment_validate_x")
	}
	for i := 0; i < 9; i++ {
		names = append(names, "payment_process_y")
	}
	for i, n := range names {
		methods = append(methods, Method{Name: n + itoaForTest(i)})
	}
	var flatNames []string
	for _, m := range methods {
		flatNames = append(flatNames, m.Name)
	}
	clusters := []MethodCluster{{Category: Domain("payment"), Methods: flatNames}}
	refined := Refine(clusters, methods, nil)
	assert.True(t, len(refined) >= 2)
	total := 0
	for _, c := range refined {
		total += len(c.Methods)
	}
	assert.Equal(t, len(methods), total)
}

func itoaForTest(i int) string {
	digits := []byte{byte('0' + i/10), byte('0' + i%10)}
	return string(digits)
}

func TestRecommendSplitsRanksLowCouplingFirst(t *testing.T) {
	clusters := []MethodCluster{
		{Category: Processing, Methods: []string{"a", "b"}, InternalCalls: 1, ExternalCalls: 9},
		{Category: Construction, Methods: []string{"c", "d"}, InternalCalls: 9, ExternalCalls: 1},
	}
	recs := RecommendSplits(clusters)
	if assert.Len(t, recs, 2) {
		assert.Equal(t, "Construction", recs[0].Component)
		assert.Equal(t, difficultyEasy, recs[0].Difficulty)
		assert.Equal(t, "Processing", recs[1].Component)
		assert.Equal(t, difficultyHard, recs[1].Difficulty)
	}
}

func TestRecommendSplitsEstimatesLinesFromMethodCount(t *testing.T) {
	clusters := []MethodCluster{
		{Category: Parsing, Methods: []string{"a", "b", "c"}},
	}
	recs := RecommendSplits(clusters)
	assert.Equal(t, 3*avgEstimatedLinesPerMethod, recs[0].EstimatedLines)
	assert.Equal(t, "parsing_module", recs[0].SuggestedModuleName)
}
