package smells

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/debtmap/internal/antipattern"
	"github.com/viant/debtmap/internal/cfgbuild"
	"github.com/viant/debtmap/internal/debt"
)

func exprPtr(e cfgbuild.Expr) *cfgbuild.Expr { return &e }

func TestDetectLongParameterListSeverity(t *testing.T) {
	medium := antipattern.FunctionInfo{Name: "f", File: "a.rs", Params: 6}
	high := antipattern.FunctionInfo{Name: "g", File: "a.rs", Params: 11}
	items := DetectLongParameterList(medium)
	assert.Equal(t, debt.Medium, items[0].Priority)
	items = DetectLongParameterList(high)
	assert.Equal(t, debt.High, items[0].Priority)
	assert.Empty(t, DetectLongParameterList(antipattern.FunctionInfo{Params: 5}))
}

func TestDetectLongMethodSeverity(t *testing.T) {
	assert.Equal(t, debt.Medium, DetectLongMethod(antipattern.FunctionInfo{Length: 51})[0].Priority)
	assert.Equal(t, debt.High, DetectLongMethod(antipattern.FunctionInfo{Length: 101})[0].Priority)
}

func TestDetectDeepNestingSeverity(t *testing.T) {
	assert.Equal(t, debt.Medium, DetectDeepNesting(antipattern.FunctionInfo{Nesting: 5})[0].Priority)
	assert.Equal(t, debt.High, DetectDeepNesting(antipattern.FunctionInfo{Nesting: 9})[0].Priority)
}

func TestDetectLargeModuleSeverity(t *testing.T) {
	assert.Equal(t, debt.Medium, DetectLargeModule("a.rs", 301)[0].Priority)
	assert.Equal(t, debt.High, DetectLargeModule("a.rs", 601)[0].Priority)
	assert.Empty(t, DetectLargeModule("a.rs", 300))
}

func TestDetectFeatureEnvyFlagsDominantOtherReceiver(t *testing.T) {
	body := []cfgbuild.Stmt{}
	for i := 0; i < 4; i++ {
		body = append(body, cfgbuild.Stmt{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.EMethodCall, Method: "get", Receiver: exprPtr(cfgbuild.Ident("other")),
		})})
	}
	body = append(body, cfgbuild.Stmt{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
		Tag: cfgbuild.EMethodCall, Method: "touch", Receiver: exprPtr(cfgbuild.Ident("self")),
	})})
	fn := antipattern.FunctionInfo{Name: "f", File: "a.rs", Body: body}
	items := DetectFeatureEnvy(fn)
	assert.Len(t, items, 1)
}

func TestDetectFeatureEnvyIgnoresBalancedUsage(t *testing.T) {
	body := []cfgbuild.Stmt{
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "get", Receiver: exprPtr(cfgbuild.Ident("other"))})},
		{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{Tag: cfgbuild.EMethodCall, Method: "touch", Receiver: exprPtr(cfgbuild.Ident("self"))})},
	}
	fn := antipattern.FunctionInfo{Name: "f", File: "a.rs", Body: body}
	assert.Empty(t, DetectFeatureEnvy(fn))
}

func TestDetectDataClumpsPairsSameFileLargeFunctions(t *testing.T) {
	fns := []antipattern.FunctionInfo{
		{Name: "a", File: "x.rs", Length: 40},
		{Name: "b", File: "x.rs", Length: 35},
		{Name: "c", File: "y.rs", Length: 50},
	}
	items := DetectDataClumps(fns)
	assert.Len(t, items, 1)
}

func TestDetectMagicValueFlagsNonObviousComparisonConstant(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "f", File: "a.rs",
		Body: []cfgbuild.Stmt{{Tag: cfgbuild.SIf, Cond: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.EBinary, Op: ">", Left: exprPtr(cfgbuild.Ident("x")), Right: exprPtr(cfgbuild.NumericLiteral(42)),
		})}},
	}
	items := DetectMagicValue(fn)
	assert.Len(t, items, 1)
}

func TestDetectMagicValueIgnoresAllowedConstants(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "f", File: "a.rs",
		Body: []cfgbuild.Stmt{{Tag: cfgbuild.SIf, Cond: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.EBinary, Op: ">", Left: exprPtr(cfgbuild.Ident("x")), Right: exprPtr(cfgbuild.NumericLiteral(1)),
		})}},
	}
	assert.Empty(t, DetectMagicValue(fn))
}

func TestDetectPrimitiveObsessionRequiresParamTypes(t *testing.T) {
	fn := antipattern.FunctionInfo{Name: "f", File: "a.rs"}
	assert.Empty(t, DetectPrimitiveObsession(fn, nil))
	items := DetectPrimitiveObsession(fn, []string{"string", "int", "bool", "f64"})
	assert.Len(t, items, 1)
}

func TestDetectStructInitializationPatternRecognizesConstructor(t *testing.T) {
	fields := make([]string, 16)
	for i := range fields {
		fields[i] = "field"
	}
	fn := antipattern.FunctionInfo{
		Name: "new_config", File: "a.rs", Length: 18, Nesting: 1,
		Body: []cfgbuild.Stmt{{Tag: cfgbuild.SReturn, Value: exprPtr(cfgbuild.StructLiteral("Config", fields))}},
	}
	count, confidence, ok := DetectStructInitializationPattern(fn)
	assert.True(t, ok)
	assert.Equal(t, 16, count)
	assert.Greater(t, confidence, 0.0)
}

func TestDetectStructInitializationPatternRejectsLowFieldCount(t *testing.T) {
	fn := antipattern.FunctionInfo{
		Name: "new_thing", File: "a.rs", Length: 5, Nesting: 1,
		Body: []cfgbuild.Stmt{{Tag: cfgbuild.SReturn, Value: exprPtr(cfgbuild.StructLiteral("Thing", []string{"a", "b"}))}},
	}
	_, _, ok := DetectStructInitializationPattern(fn)
	assert.False(t, ok)
}

func TestDetectDuplicateStringLiteralFlagsRepeatedLiteral(t *testing.T) {
	body := []cfgbuild.Stmt{}
	for i := 0; i < 3; i++ {
		body = append(body, cfgbuild.Stmt{Tag: cfgbuild.SExprStmt, Expr: exprPtr(cfgbuild.Expr{
			Tag: cfgbuild.ECall, FuncName: "log", Args: []cfgbuild.Expr{cfgbuild.StringLiteral("connection failed")},
		})})
	}
	fn := antipattern.FunctionInfo{Name: "f", File: "a.rs", Body: body}
	items := DetectDuplicateStringLiteral(fn)
	assert.Len(t, items, 1)
}

func TestDetectBooleanParameterTrapFlagsTwoOrMoreBoolParams(t *testing.T) {
	fn := antipattern.FunctionInfo{Name: "f", File: "a.rs"}
	assert.Empty(t, DetectBooleanParameterTrap(fn, []string{"bool", "string"}))
	items := DetectBooleanParameterTrap(fn, []string{"bool", "bool", "string"})
	assert.Len(t, items, 1)
}

func TestDetectGodObjectFlagsAboveThreshold(t *testing.T) {
	assert.Empty(t, DetectGodObject("Big", "a.rs", 1, 20))
	items := DetectGodObject("Big", "a.rs", 1, 21)
	assert.Len(t, items, 1)
	assert.Equal(t, "21", items[0].Context["method_count"])
}
