package driver_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/mikaelliljedahl/flowlang/codegen"
	"github.com/mikaelliljedahl/flowlang/diag"
	"github.com/mikaelliljedahl/flowlang/driver"
)

func compile(t *testing.T, source string) codegen.Unit {
	t.Helper()
	unit, err := driver.Compile(source, codegen.Options{})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	return unit
}

func TestCompileSimpleFunction(t *testing.T) {
	t.Parallel()

	unit := compile(t, `function add(a: int, b: int) -> int {
    return a + b
}`)
	for _, want := range []string{
		"public static int add(int a, int b)",
		"return a + b;",
		"/// Effects: none",
	} {
		if !strings.Contains(unit.Source, want) {
			t.Errorf("missing %q in:\n%s", want, unit.Source)
		}
	}
}

func TestCompileResultFunction(t *testing.T) {
	t.Parallel()

	unit := compile(t, `function divide(a: int, b: int) -> Result<int, string> {
    if b == 0 {
        return Error("Division by zero")
    }
    return Ok(a / b)
}`)
	for _, want := range []string{
		"public sealed class Result<TValue, TError>",
		"public static Result<int, string> divide(int a, int b)",
		"if (b == 0)",
		`return Result<int, string>.Error("Division by zero");`,
		"return Result<int, string>.Ok(a / b);",
	} {
		if !strings.Contains(unit.Source, want) {
			t.Errorf("missing %q in:\n%s", want, unit.Source)
		}
	}
}

func TestCompilePropagation(t *testing.T) {
	t.Parallel()

	unit := compile(t, `function chain(flag: bool) -> Result<int, string> {
    let x = risky(flag)?
    return Ok(x + 1)
}`)
	for _, want := range []string{
		"var x_result = risky(flag);",
		"if (!x_result.IsSuccess)",
		"return Result<int, string>.Error(x_result.ErrorValue);",
		"var x = x_result.Value;",
	} {
		if !strings.Contains(unit.Source, want) {
			t.Errorf("missing %q in:\n%s", want, unit.Source)
		}
	}
}

func TestCompileCollapsesDuplicateEffects(t *testing.T) {
	t.Parallel()

	unit := compile(t, `function f() uses [Database, Database, Logging] -> int {
    return 1
}`)
	if !strings.Contains(unit.Source, "/// Effects: Database, Logging") {
		t.Errorf("effect documentation wrong:\n%s", unit.Source)
	}
	if strings.Count(unit.Source, "Database") != 1 {
		t.Errorf("duplicate effect not collapsed:\n%s", unit.Source)
	}
}

func TestCheckerErrorsAbortGeneration(t *testing.T) {
	t.Parallel()

	unit, err := driver.Compile(`pure function f() uses [Database] -> int {
    return 1
}`, codegen.Options{})
	if !errors.Is(err, driver.ErrDiagnostics) {
		t.Fatalf("expected ErrDiagnostics, got %v", err)
	}
	if unit.Source != "" {
		t.Errorf("code generated despite checker errors:\n%s", unit.Source)
	}
	if !diag.HasErrors(unit.Diagnostics) {
		t.Errorf("no error diagnostics carried: %v", unit.Diagnostics)
	}
}

func TestWarningsDoNotAbort(t *testing.T) {
	t.Parallel()

	unit, err := driver.Compile(`function f(r: Result<int, string>) -> int {
    return match r {
        Ok(v) -> v,
        Ok(w) -> w,
        Error(e) -> 0
    }
}`, codegen.Options{})
	if err != nil {
		t.Fatalf("warning aborted compilation: %v", err)
	}
	if len(unit.Diagnostics) != 1 || unit.Diagnostics[0].Severity != diag.SeverityWarning {
		t.Errorf("expected one warning, got %v", unit.Diagnostics)
	}
	if unit.Source == "" {
		t.Errorf("no code generated")
	}
}

func TestCompileModuleVisibility(t *testing.T) {
	t.Parallel()

	unit := compile(t, `module MathUtils {
    export { twice }

    function twice(x: int) -> int {
        return x * 2
    }

    function helper(x: int) -> int {
        return x + 1
    }
}`)
	for _, want := range []string{
		"public static class MathUtils",
		"public static int twice(int x)",
		"private static int helper(int x)",
	} {
		if !strings.Contains(unit.Source, want) {
			t.Errorf("missing %q in:\n%s", want, unit.Source)
		}
	}
}

func TestCompileReportsLexError(t *testing.T) {
	t.Parallel()

	_, err := driver.Compile("let x = @", codegen.Options{})
	if err == nil || !strings.Contains(err.Error(), "lex:") {
		t.Errorf("expected lex error, got %v", err)
	}
}

func TestCompileReportsParseError(t *testing.T) {
	t.Parallel()

	_, err := driver.Compile("function () -> int {\n}", codegen.Options{})
	if err == nil || !strings.Contains(err.Error(), "parse:") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	diagnostics, err := driver.Check(`function f() uses [NotARealEffect] -> int {
    return 1
}`)
	if err != nil {
		t.Fatal(err)
	}
	if len(diagnostics) != 1 || diagnostics[0].Code != diag.CodeUnknownEffect {
		t.Errorf("expected one unknown-effect diagnostic, got %v", diagnostics)
	}
}

func TestSessionKeepsLastGoodTree(t *testing.T) {
	t.Parallel()

	session := driver.NewSession()
	good, err := session.Update("function f() -> int {\n    return 1\n}")
	if err != nil {
		t.Fatal(err)
	}
	if good == nil {
		t.Fatal("no tree after successful update")
	}

	kept, err := session.Update("function f( {")
	if err == nil {
		t.Fatal("broken source accepted")
	}
	if kept != good {
		t.Errorf("previous tree not kept across a failed update")
	}
	if session.Program() != good {
		t.Errorf("Program() does not return the last good tree")
	}
}
