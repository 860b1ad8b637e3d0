package suppression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/debtmap/internal/debt"
)

func TestParseBlockSuppression(t *testing.T) {
	content := "\n// debtmap:ignore-start\n// TODO: suppressed\n// FIXME: also suppressed\n// debtmap:ignore-end\n// TODO: not suppressed\n"
	ctx := Parse(content, Go, "test.go")

	assert.Len(t, ctx.blocks, 1)
	assert.Equal(t, 2, ctx.blocks[0].StartLine)
	assert.Equal(t, 5, ctx.blocks[0].EndLine)
	assert.True(t, ctx.IsSuppressed(3, debt.TodoFixme))
	assert.True(t, ctx.IsSuppressed(4, debt.TodoFixme))
	assert.False(t, ctx.IsSuppressed(6, debt.TodoFixme))
}

func TestParseLineSuppression(t *testing.T) {
	content := "\n// TODO: not suppressed\n// TODO: suppressed // debtmap:ignore\n// FIXME: also not suppressed\n"
	ctx := Parse(content, Go, "test.go")

	assert.False(t, ctx.IsSuppressed(2, debt.TodoFixme))
	assert.True(t, ctx.IsSuppressed(3, debt.TodoFixme))
	assert.False(t, ctx.IsSuppressed(4, debt.TodoFixme))
}

func TestParseNextLineSuppression(t *testing.T) {
	content := "\n// debtmap:ignore-next-line\n// TODO: suppressed\n// TODO: not suppressed\n"
	ctx := Parse(content, Go, "test.go")

	assert.True(t, ctx.IsSuppressed(3, debt.TodoFixme))
	assert.False(t, ctx.IsSuppressed(4, debt.TodoFixme))
}

func TestTypeSpecificSuppression(t *testing.T) {
	content := "\n// debtmap:ignore-start[todo]\n// TODO: suppressed\n// code smell: not suppressed\n// debtmap:ignore-end\n"
	ctx := Parse(content, Go, "test.go")

	assert.True(t, ctx.IsSuppressed(3, debt.TodoFixme))
	assert.False(t, ctx.IsSuppressed(4, debt.CodeSmell))
}

func TestSuppressionWithReason(t *testing.T) {
	content := "\n// debtmap:ignore-start -- test fixture\n// TODO: suppressed with reason\n// debtmap:ignore-end\n"
	ctx := Parse(content, Go, "test.go")

	assert.Equal(t, "test fixture", ctx.blocks[0].Reason)
}

func TestUnclosedBlockIsRecordedNotFatal(t *testing.T) {
	content := "\n// debtmap:ignore-start\n// TODO: in unclosed block\n"
	ctx := Parse(content, Go, "test.go")

	if assert.Len(t, ctx.Unclosed, 1) {
		assert.Equal(t, 2, ctx.Unclosed[0].StartLine)
		assert.Equal(t, "test.go", ctx.Unclosed[0].File)
	}
	assert.Empty(t, ctx.blocks)
}

func TestPythonCommentSyntax(t *testing.T) {
	content := "\n# debtmap:ignore-start\n# TODO: python todo\n# debtmap:ignore-end\n"
	ctx := Parse(content, Python, "test.py")

	assert.Len(t, ctx.blocks, 1)
	assert.True(t, ctx.IsSuppressed(3, debt.TodoFixme))
}

func TestPythonFileIgnoresSlashComments(t *testing.T) {
	content := "\n// debtmap:ignore-start\n// TODO: not suppressed, wrong comment style\n// debtmap:ignore-end\n"
	ctx := Parse(content, Python, "test.py")

	assert.Empty(t, ctx.blocks)
	assert.False(t, ctx.IsSuppressed(3, debt.TodoFixme))
}

func TestWildcardSuppressionMatchesAnyType(t *testing.T) {
	content := "// TODO: test // debtmap:ignore[*]"
	ctx := Parse(content, Go, "test.go")

	assert.True(t, ctx.IsSuppressed(1, debt.TodoFixme))
	assert.True(t, ctx.IsSuppressed(1, debt.CodeSmell))
	assert.True(t, ctx.IsSuppressed(1, debt.Complexity))
}

func TestStatsCountsBlocksAndRulesByType(t *testing.T) {
	content := "\n// debtmap:ignore-start[complexity]\n// x\n// debtmap:ignore-end\n// debtmap:ignore[dependency]\n"
	ctx := Parse(content, Go, "test.go")
	stats := ctx.Stats()

	assert.Equal(t, 2, stats.TotalSuppressions)
	assert.Equal(t, 1, stats.ByType[debt.Complexity])
	assert.Equal(t, 1, stats.ByType[debt.Dependency])
}

func TestIsSuppressedFalseWhenNoComments(t *testing.T) {
	ctx := Parse("func main() {}\n", Go, "test.go")
	assert.False(t, ctx.IsSuppressed(1, debt.TodoFixme))
}
