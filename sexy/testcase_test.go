package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Variables

## Test: immutable variable
` + fence + `ember-tree
(program (var x i32 5))
` + fence + `
` + fence + `diagnostics
` + fence + `

## Test: redeclaration
` + fence + `ember-tree
(program
  (var x i32 5)
  (var x i32 6))
` + fence + `
` + fence + `diagnostics
3:3: Semantic error: 'x' is defined multiple times
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "immutable variable")
	be.Equal(t, tc1.Input, "(program (var x i32 5))")
	be.Equal(t, tc1.InputType, InputTypeEmberTree)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeDiagnostics)
	be.Equal(t, tc1.Assertions[0].Content, "")

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "redeclaration")
	be.Equal(t, tc2.Input, "(program\n  (var x i32 5)\n  (var x i32 6))")
	be.Equal(t, tc2.Assertions[0].Content, "3:3: Semantic error: 'x' is defined multiple times")
}

func TestExtractTestCases_MultipleAssertions(t *testing.T) {
	markdown := `## Test: enum value
` + fence + `ember-tree
(program (enum E (value One 4)) (var e E (path E One)))
` + fence + `
` + fence + `tree
(program (enum ...) (var e E (int E 4)))
` + fence + `
` + fence + `symbols
enum E { One = 4 }
local e: E
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeTree)
	be.True(t, tc.Assertions[0].Pattern != nil)
	be.Equal(t, tc.Assertions[0].Pattern.Head(), "program")
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeSymbols)
	be.True(t, tc.Assertions[1].Pattern == nil)
	be.Equal(t, tc.Assertions[1].Content, "enum E { One = 4 }\nlocal e: E")
}

func TestExtractTestCases_InputLine(t *testing.T) {
	markdown := "# Title\n\n## Test: lines\n" + fence + "ember-tree\n(program)\n" + fence + "\n" + fence + "diagnostics\n" + fence + "\n"

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].InputLine, 5)
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Some document

This is just regular markdown content.

## Regular heading

No test cases here.`

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_InvalidTreeAssertion(t *testing.T) {
	markdown := `## Test: invalid pattern
` + fence + `ember-tree
(program)
` + fence + `
` + fence + `tree
(unclosed list
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "failed to parse tree assertion"))
	be.True(t, strings.Contains(err.Error(), "line"))
}

func TestExtractTestCases_FenceOutsideTestCase(t *testing.T) {
	tests := []struct {
		name      string
		markdown  string
		fenceType string
	}{
		{"input fence outside test", "# Document\n\n```ember-tree\n(program)\n```\n", "ember-tree"},
		{"diagnostics fence outside test", "# Document\n\n```diagnostics\n```\n", "diagnostics"},
		{"tree fence outside test", "# Document\n\n```tree\n(program)\n```\n", "tree"},
		{"symbols fence outside test", "# Document\n\n```symbols\nfn main() -> ()\n```\n", "symbols"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ExtractTestCases(test.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), test.fenceType+" fence found outside of test case"))
			be.True(t, strings.Contains(err.Error(), "line"))
		})
	}
}

func TestExtractTestCases_UnknownFenceOutsideTest(t *testing.T) {
	markdown := "# Document\n\n" + fence + "go\nfunc main() {}\n" + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'go' found outside of test case"))
}

func TestExtractTestCases_UnknownFenceInTest(t *testing.T) {
	markdown := `## Test: with unknown fence
` + fence + `ember-tree
(program)
` + fence + `
` + fence + `c
int main(void) { return 0; }
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "unknown fence language 'c'"))
	be.True(t, strings.Contains(err.Error(), "line"))
}

func TestExtractTestCases_TestMissingInputFence(t *testing.T) {
	markdown := `## Test: no input
` + fence + `diagnostics
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'no input' has no input fence"))
}

func TestExtractTestCases_TestMissingAssertionFence(t *testing.T) {
	markdown := `## Test: no assertions
` + fence + `ember-tree
(program)
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'no assertions' has no assertion fences"))
}

func TestExtractTestCases_MultipleInputFences(t *testing.T) {
	markdown := `## Test: multiple inputs
` + fence + `ember-tree
(program)
` + fence + `
` + fence + `ember-tree
(program (var x i32 1))
` + fence + `
` + fence + `diagnostics
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "multiple input fences found"))
}

func TestExtractTestCases_AllowFencesWithoutLanguage(t *testing.T) {
	markdown := `# Document with generic code block

` + fence + `
some notes
` + fence + `

## Test: valid test
` + fence + `ember-tree
(program)
` + fence + `
` + fence + `diagnostics
` + fence + `

` + fence + `
more notes in test
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, testCases[0].Name, "valid test")
	be.Equal(t, len(testCases[0].Assertions), 1)
}

func TestExtractTestCases_ErrorInSecondTest(t *testing.T) {
	markdown := `## Test: first test
` + fence + `ember-tree
(program)
` + fence + `
` + fence + `diagnostics
` + fence + `

## Test: second test missing input
` + fence + `diagnostics
` + fence

	_, err := ExtractTestCases(markdown)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "test 'second test missing input' has no input fence"))
}
