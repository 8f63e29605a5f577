package semantic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/emberlang/ember/ast"
	"github.com/emberlang/ember/diag"
	"github.com/nalgeon/be"
)

func analyze(t *testing.T, src string, cfg Config) Result {
	t.Helper()
	tree, err := ast.Parse(src, "")
	be.Err(t, err, nil)
	return Analyze(tree, cfg)
}

// messages returns the diagnostic texts of r in order.
func messages(r Result) []string {
	var out []string
	for _, d := range r.Diagnostics.Items() {
		out = append(out, d.Text)
	}
	return out
}

// expect analyzes src with the default configuration and compares the
// diagnostic texts.
func expect(t *testing.T, src string, want ...string) Result {
	t.Helper()
	r := analyze(t, src, DefaultConfig())
	be.Equal(t, messages(r), want)
	return r
}

func errorText(format string, args ...any) string {
	return diag.Error.Prefix() + fmt.Sprintf(format, args...)
}

func warningText(format string, args ...any) string {
	return diag.Warning.Prefix() + fmt.Sprintf(format, args...)
}

func TestAnalyzeEmptyProgram(t *testing.T) {
	r := expect(t, `(program)`)
	be.Equal(t, r.Table.Dump(), "")
	be.Equal(t, r.Tree.Kind, ast.KindProgram)
}

func TestAnalyzeNilTree(t *testing.T) {
	r := Analyze(nil, Config{Unit: "main.etree"})
	be.Equal(t, r.Diagnostics.Len(), 1)
	be.Equal(t, r.Diagnostics.String(), "main.etree:0:0: "+errorText(msgInternal, "expected a program"))
}

func TestNewAppliesDefaults(t *testing.T) {
	a := New(Config{})
	be.Equal(t, a.cfg.MaxDepth, DefaultConfig().MaxDepth)
	be.Equal(t, a.cfg.Jobs, 1)
}

func TestRedefinition(t *testing.T) {
	expect(t, `(program (var x i32 1) (var x i32 2))`,
		errorText(msgRedefined, "x"))
}

func TestRedefinitionLocation(t *testing.T) {
	r := analyze(t, "(program\n  (struct S)\n  (enum S))", DefaultConfig())
	be.Equal(t, r.Diagnostics.String(), "3:3: "+errorText(msgRedefined, "S"))
}

func TestShadowingOuterNameIsRedefinition(t *testing.T) {
	expect(t, `(program
  (var x i32 1)
  (fn main (params) () (block (var x i32 2))))`,
		errorText(msgRedefined, "x"))
}

func TestDuplicateParameter(t *testing.T) {
	expect(t, `(program (fn f (params (a i32) (a u8)) () (block)))`,
		errorText(msgRedefined, "a"))
}

func TestLoopScopeDoesNotLeak(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (while true (block (var x i32 1)))
      (assign = x 2))))`,
		errorText(msgNotFound, "x"))
}

func TestBlockScopeDoesNotLeak(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (block (var y i32 1))
      (var z i32 y))))`,
		errorText(msgNotFound, "y"))
}

func TestIfBranchDoesNotOpenScope(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block
      (if true (block (var x i32 1)))
      (var y i32 x))))`)
}

func TestStaticDefinitionsOutliveTheirScope(t *testing.T) {
	r := expect(t, `(program
  (fn main (params) ()
    (block
      (struct Inner (field a i32))
      (var i Inner (lit Inner {a: 1})))))`)
	be.True(t, strings.Contains(r.Table.Dump(), "struct Inner { a: i32 }"))
}

func TestFunctionsSeeThemselves(t *testing.T) {
	expect(t, `(program
  (fn fact (params (n i32)) i32
    (block (return (binary * n (call fact (binary - n 1)))))))`)
}

func TestBreakOutsideLoop(t *testing.T) {
	expect(t, `(program (fn main (params) () (block (break) (continue))))`,
		errorText(msgOutsideLoop, "break"),
		errorText(msgOutsideLoop, "continue"))
}

func TestBreakInsideLoop(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block (loop (block (if true (block (break)) (block (continue))))))))`)
}

func TestReturnOutsideFunction(t *testing.T) {
	expect(t, `(program (return 1))`, errorText(msgOutsideFunction))
}

func TestReturnType(t *testing.T) {
	expect(t, `(program
  (fn f (params) i32 (block (return true)))
  (fn g (params) i32 (block (return)))
  (fn h (params) () (block (return))))`,
		errorText(msgMismatch, "i32", "bool"),
		errorText(msgMismatch, "i32", "()"))
}

func TestUnknownType(t *testing.T) {
	expect(t, `(program
  (fn f (params) () (block))
  (var a Missing)
  (var b f))`,
		errorText(msgTypeNotFound, "Missing"),
		errorText(msgExpected, "type", "function", "f"))
}

func TestUninitializedUse(t *testing.T) {
	r := expect(t, `(program
  (fn main (params) ()
    (block (var x i32) (var y i32 x))))`,
		warningText(msgUninitialized, "x"))
	be.True(t, !r.Diagnostics.HasErrors())
}

func TestFirstAssignmentInitializes(t *testing.T) {
	expect(t, `(program
  (fn main (params) ()
    (block (var x i32) (assign = x 1) (var y i32 x) (assign = x 2))))`,
		errorText(msgConstMutation, "x"))
}

func TestStaticIsZeroInitialized(t *testing.T) {
	expect(t, `(program
  (static mut counter i32)
  (fn main (params) () (block (assign += counter 1))))`)
}

func TestExtern(t *testing.T) {
	r := expect(t, `(program
  (extern
    (fn ^{variadic: true} printf (params (fmt str)) i32)
    (var errno i32))
  (fn main (params) () (block (call printf "%d %d" 1 2) (var e i32 errno))))`)
	be.True(t, strings.Contains(r.Table.Dump(), "extern fn printf(fmt: str, ...) -> i32"))
}

func TestExternErrors(t *testing.T) {
	expect(t, `(program
  (extern
    (fn f (params) () (block))
    (var v i32 1)
    (struct S)))`,
		errorText(msgExternBody, "f"),
		errorText(msgExternInit, "v"),
		errorText(msgExternItem))
}

func TestDepthLimit(t *testing.T) {
	src := `(program (var x i32 (binary + 1 (binary + 1 (binary + 1 (binary + 1 (binary + 1 (binary + 1 1))))))))`
	r := analyze(t, src, Config{MaxDepth: 5})
	be.Equal(t, messages(r), []string{errorText(msgTooDeep, 5)})

	r = analyze(t, src, DefaultConfig())
	be.Equal(t, r.Diagnostics.Len(), 0)
}

func TestDiagnosticsAreSorted(t *testing.T) {
	r := analyze(t, "(program\n  (module m\n    (var a i32 true))\n  (var b i32 false)\n  (var c u8 \"s\"))", DefaultConfig())
	lines := strings.Split(r.Diagnostics.String(), "\n")
	be.Equal(t, len(lines), 3)
	be.True(t, strings.HasPrefix(lines[0], "3:"))
	be.True(t, strings.HasPrefix(lines[1], "4:"))
	be.True(t, strings.HasPrefix(lines[2], "5:"))
}

const modulesSource = `(program
  (module a
    (struct P (field x i32))
    (var bad i32 true)
    (module inner (fn f (params) i32 (block (return 1)))))
  (module b
    (enum E (value One) (value Two 7))
    (var e E (path E Three)))
  (module c
    (variant V (arm None) (arm-tuple Some i32))
    (var v V (path V (call Some 1 2))))
  (var p a::P (path a (lit P {x: 1})))
  (var n i32 (path a inner (call f))))`

func TestParallelModulesMatchSequential(t *testing.T) {
	seq := analyze(t, modulesSource, Config{Jobs: 1})
	for _, jobs := range []int{2, 3, 8} {
		par := analyze(t, modulesSource, Config{Jobs: jobs})
		be.Equal(t, par.Diagnostics.String(), seq.Diagnostics.String())
		be.Equal(t, par.Table.Dump(), seq.Table.Dump())
		be.Equal(t, ast.Format(par.Tree), ast.Format(seq.Tree))
	}
	be.Equal(t, seq.Diagnostics.Len(), 3)
}

func TestPayloadStructCollidesWithUserStruct(t *testing.T) {
	r := expect(t, `(program
  (struct V__A (field q i32))
  (variant V (arm-tuple A i32)))`,
		errorText(msgRedefined, "V__A"))
	be.True(t, strings.Contains(r.Table.Dump(), "struct V__A { q: i32 }\n"))

	expect(t, `(program
  (variant W (arm-tuple A i32))
  (struct W__A (field q i32)))`,
		errorText(msgRedefined, "W__A"))
}
