package context

import "testing"

func TestClassifyModuleFromPath(t *testing.T) {
	cases := map[string]ModuleType{
		"internal/foo/bar_test.go":    Test,
		"internal/foo/bar_bench.go":   Benchmark,
		"examples/quickstart/main.go": Example,
		"docs/guide.go":               Documentation,
		"internal/util/strings.go":    Utility,
		"internal/config/config.go":   Infrastructure,
		"internal/foo/bar.go":         Production,
	}
	for path, want := range cases {
		if got := classifyModule(path); got != want {
			t.Errorf("classifyModule(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestClassifyIntentFromName(t *testing.T) {
	cases := map[string]FunctionIntent{
		"setup_database":   Setup,
		"TeardownServer":    Teardown,
		"validate_input":   Validation,
		"transform_record": DataTransformation,
		"read_file":        IOWrapper,
		"handle_error_log": ErrorHandling,
		"configure_client": Configuration,
		"process_batch":    BusinessLogic,
		"mystery_fn":       Unknown,
	}
	for name, want := range cases {
		if got := classifyIntent(name); got != want {
			t.Errorf("classifyIntent(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestDeriveProductionBusinessLogicIsCriticalAndHighSensitivity(t *testing.T) {
	ctx := Derive("internal/billing/charge.go", "process_payment")
	if ctx.ModuleType != Production {
		t.Fatalf("ModuleType = %v, want Production", ctx.ModuleType)
	}
	if ctx.FunctionIntent != BusinessLogic {
		t.Fatalf("FunctionIntent = %v, want BusinessLogic", ctx.FunctionIntent)
	}
	if ctx.BusinessCriticality != Critical {
		t.Fatalf("BusinessCriticality = %v, want Critical", ctx.BusinessCriticality)
	}
	if ctx.PerformanceSensitivity != High {
		t.Fatalf("PerformanceSensitivity = %v, want High", ctx.PerformanceSensitivity)
	}
}

func TestDeriveTestModuleIsDevelopmentAndIrrelevant(t *testing.T) {
	ctx := Derive("internal/billing/charge_test.go", "setup_fixture")
	if ctx.ModuleType != Test {
		t.Fatalf("ModuleType = %v, want Test", ctx.ModuleType)
	}
	if ctx.BusinessCriticality != Development {
		t.Fatalf("BusinessCriticality = %v, want Development", ctx.BusinessCriticality)
	}
	if ctx.PerformanceSensitivity != Irrelevant {
		t.Fatalf("PerformanceSensitivity = %v, want Irrelevant", ctx.PerformanceSensitivity)
	}
}

func TestDeriveSetsAConfidenceValue(t *testing.T) {
	ctx := Derive("main.go", "run")
	if ctx.Confidence <= 0 || ctx.Confidence > 1 {
		t.Fatalf("Confidence = %v, want in (0,1]", ctx.Confidence)
	}
}
