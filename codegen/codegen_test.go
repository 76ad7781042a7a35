package codegen_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikaelliljedahl/flowlang/codegen"
	"github.com/mikaelliljedahl/flowlang/driver"
	"github.com/mikaelliljedahl/flowlang/utils"
	"github.com/sebdah/goldie/v2"
)

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Errorf("failed to find test files: %v", err)
		return
	}

	for _, testfile := range testfiles {
		source, err := os.ReadFile(testfile)
		if err != nil {
			t.Errorf("failed to read %s: %v", testfile, err)
			return
		}

		unit, err := driver.Compile(string(source), codegen.Options{})
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			return
		}

		name := strings.TrimSuffix(filepath.Base(testfile), ".flow")
		g := goldie.New(t)
		g.Assert(t, name, []byte(unit.Source))
	}
}

func generate(t *testing.T, source string, opts codegen.Options) string {
	t.Helper()
	unit, err := driver.Compile(source, opts)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	return unit.Source
}

func TestNamespaceOption(t *testing.T) {
	t.Parallel()

	source := generate(t, "function f() -> int {\n    return 1\n}", codegen.Options{Namespace: "Acme.Lang"})
	if !strings.Contains(source, "namespace Acme.Lang") {
		t.Errorf("namespace option ignored:\n%s", source)
	}
}

func TestIndentOption(t *testing.T) {
	t.Parallel()

	source := generate(t, "function f() -> int {\n    return 1\n}", codegen.Options{Indent: 2})
	if !strings.Contains(source, "\n  public static class Program") {
		t.Errorf("indent option ignored:\n%s", source)
	}
}

func TestOptionCarrierEmitted(t *testing.T) {
	t.Parallel()

	source := generate(t, "function f(o: Option<int>) -> int {\n    return 1\n}", codegen.Options{})
	if !strings.Contains(source, "public sealed class Option<TValue>") {
		t.Errorf("Option carrier missing:\n%s", source)
	}
	if strings.Contains(source, "class Result<") {
		t.Errorf("Result carrier emitted without any use:\n%s", source)
	}
}

func TestCarriersOmittedWhenUnused(t *testing.T) {
	t.Parallel()

	source := generate(t, "function f() -> int {\n    return 1\n}", codegen.Options{})
	if strings.Contains(source, "sealed class") {
		t.Errorf("carrier types emitted without any use:\n%s", source)
	}
}

func TestFloatLiteralsKeepSourceForm(t *testing.T) {
	t.Parallel()

	source := generate(t, "function half() -> float {\n    return 0.5\n}", codegen.Options{})
	if !strings.Contains(source, "public static double half()") {
		t.Errorf("float not mapped to double:\n%s", source)
	}
	if !strings.Contains(source, "return 0.5;") {
		t.Errorf("float literal not emitted verbatim:\n%s", source)
	}
}

func TestGroupingPreserved(t *testing.T) {
	t.Parallel()

	source := generate(t, "function f(a: int, b: int, c: int) -> int {\n    return (a + b) * c\n}", codegen.Options{})
	if !strings.Contains(source, "return (a + b) * c;") {
		t.Errorf("grouping lost:\n%s", source)
	}
}

func TestStringEscapesRoundTrip(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f() -> string {
    return "line\n\"quoted\""
}`, codegen.Options{})
	if !strings.Contains(source, `return "line\n\"quoted\"";`) {
		t.Errorf("escapes not re-emitted:\n%s", source)
	}
}

func TestBarePropagateStatement(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f(flag: bool) -> Result<int, string> {
    g(flag)?
    return Ok(1)
}`, codegen.Options{})
	for _, want := range []string{
		"var _result0 = g(flag);",
		"if (!_result0.IsSuccess)",
		"return Result<int, string>.Error(_result0.ErrorValue);",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("missing %q in:\n%s", want, source)
		}
	}
}

func TestMatchOnCallScrutinee(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f(flag: bool) -> int {
    return match g(flag) {
        Ok(v) -> v,
        Error(e) -> 0
    }
}`, codegen.Options{})
	for _, want := range []string{
		"var _match0 = g(flag);",
		"if (_match0.IsSuccess)",
		"var v = _match0.Value;",
		"var e = _match0.ErrorValue;",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("missing %q in:\n%s", want, source)
		}
	}
}

func TestMatchAssignSink(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f(r: Result<int, string>) -> int {
    let x: int = match r {
        Ok(v) -> v,
        Error(e) -> 0
    }
    return x
}`, codegen.Options{})
	for _, want := range []string{
		"int x;",
		"x = v;",
		"x = 0;",
		"return x;",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("missing %q in:\n%s", want, source)
		}
	}
}

// A duplicate arm keeps its unconditional else tail: the chain must
// still cover both payload kinds on every path.
func TestDuplicateArmKeepsElseTail(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f(r: Result<int, string>) -> int {
    return match r {
        Ok(v) -> v,
        Error(e) -> 0,
        Ok(w) -> w
    }
}`, codegen.Options{})
	if strings.Contains(source, "else if (r.IsSuccess)") {
		t.Errorf("final arm emitted behind a condition, leaving a path without a return:\n%s", source)
	}
	if !strings.Contains(source, "var w = r.Value;") {
		t.Errorf("final arm body missing:\n%s", source)
	}
}

func TestInterpolationLiteralBraces(t *testing.T) {
	t.Parallel()

	source := generate(t, `function f(x: int) -> string {
    return $"a } b {x}"
}

function g() -> string {
    return $"just }"
}`, codegen.Options{})
	if !strings.Contains(source, `return string.Format("a }} b {0}", x);`) {
		t.Errorf("literal brace not escaped for string.Format:\n%s", source)
	}
	if !strings.Contains(source, `return "just }";`) {
		t.Errorf("plain string path should keep braces verbatim:\n%s", source)
	}
}

// A tree that skipped validation can still be rejected; the generator
// refuses `?` outside a lowerable position instead of emitting
// invalid output.
func TestExprPositionPropagateRejected(t *testing.T) {
	t.Parallel()

	program, err := driver.Parse(`function f() -> Result<int, string> {
    return Ok(g()? + 1)
}`)
	if err != nil {
		t.Fatal(err)
	}

	_, err = codegen.Generate(program)
	var genErr codegen.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestPropagateOutsideResultFunction(t *testing.T) {
	t.Parallel()

	program, err := driver.Parse(`function f(flag: bool) -> int {
    let x = g(flag)?
    return x
}`)
	if err != nil {
		t.Fatal(err)
	}

	_, err = codegen.Generate(program)
	var genErr codegen.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !strings.Contains(genErr.Error(), "must return a Result type") {
		t.Errorf("unhelpful message: %v", genErr)
	}
}
