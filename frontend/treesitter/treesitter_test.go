package treesitter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/debtmap/frontend/treesitter"
)

const sampleJS = `import fmt from "fmt";

function longParams(a, b, c, d, e, f) {
	if (a > 0) {
		return b + c;
	} else {
		return d + e + f;
	}
}

const helper = (x) => {
	switch (x) {
		case 1:
			return 1;
		default:
			return 0;
	}
};

class Widget {
	render(props) {
		return props.count;
	}
}
`

func TestMatchesOnlyJavaScriptFiles(t *testing.T) {
	fe := treesitter.New()
	assert.True(t, fe.Matches("src/app.js"))
	assert.True(t, fe.Matches("src/app.jsx"))
	assert.False(t, fe.Matches("src/app.ts"))
	assert.False(t, fe.Matches("src/app.py"))
}

func TestParseExtractsFunctionsArrowsAndMethods(t *testing.T) {
	fe := treesitter.New()
	unit, err := fe.Parse("app.js", []byte(sampleJS))
	require.NoError(t, err)

	assert.Equal(t, "app", unit.Module)
	assert.Contains(t, unit.Imports, "fmt")
	require.Len(t, unit.Functions, 3)

	names := map[string]bool{}
	for _, fn := range unit.Functions {
		names[fn.Name] = true
	}
	assert.True(t, names["longParams"])
	assert.True(t, names["helper"])
	assert.True(t, names["render"])

	for _, fn := range unit.Functions {
		if fn.Name == "longParams" {
			assert.Equal(t, 6, fn.Params)
			assert.NotEmpty(t, fn.Body)
		}
		if fn.Name == "render" {
			assert.Equal(t, "Widget", fn.Receiver)
		}
	}
}
