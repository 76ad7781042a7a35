package codegen

import (
	"strings"

	"github.com/mikaelliljedahl/flowlang/ast"
)

// csType maps a FlowLang type reference to C# source text.
func csType(node ast.Node) (string, error) {
	ref, ok := node.(*ast.TypeRef)
	if !ok {
		return "", GenerationError{Node: node, Message: "unsupported type node"}
	}

	name := ref.Name.Lexeme
	switch name {
	case "int":
		name = "int"
	case "float":
		name = "double"
	case "string":
		name = "string"
	case "bool":
		name = "bool"
	case "void":
		name = "void"
	}

	if len(ref.Args) == 0 {
		return name, nil
	}

	args := make([]string, len(ref.Args))
	for i, arg := range ref.Args {
		mapped, err := csType(arg)
		if err != nil {
			return "", err
		}
		args[i] = mapped
	}

	return name + "<" + strings.Join(args, ", ") + ">", nil
}

// csQuote renders s as a C# string literal. Only the escape set the
// lexer accepts needs mapping back out.
func csQuote(s string) string {
	var b strings.Builder
	b.WriteString("\"")
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("\"")
	return b.String()
}

// escapeFormatBraces doubles braces so literal text passes through a
// .NET composite format string unchanged.
func escapeFormatBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "{{")
	return strings.ReplaceAll(s, "}", "}}")
}

// emitResultType writes the canonical Result carrier. One physical
// representation, used everywhere Ok/Error literals, `?` propagation
// and match expressions are lowered.
func emitResultType(e *emitter) {
	e.line("public sealed class Result<TValue, TError>")
	e.open()
	e.line("public bool IsSuccess { get; }")
	e.line("public TValue Value { get; }")
	e.line("public TError ErrorValue { get; }")
	e.blank()
	e.line("private Result(bool isSuccess, TValue value, TError errorValue)")
	e.open()
	e.line("IsSuccess = isSuccess;")
	e.line("Value = value;")
	e.line("ErrorValue = errorValue;")
	e.close()
	e.blank()
	e.line("public static Result<TValue, TError> Ok(TValue value)")
	e.open()
	e.line("return new Result<TValue, TError>(true, value, default(TError));")
	e.close()
	e.blank()
	e.line("public static Result<TValue, TError> Error(TError error)")
	e.open()
	e.line("return new Result<TValue, TError>(false, default(TValue), error);")
	e.close()
	e.close()
}

func emitOptionType(e *emitter) {
	e.line("public sealed class Option<TValue>")
	e.open()
	e.line("public bool IsSome { get; }")
	e.line("public TValue Value { get; }")
	e.blank()
	e.line("private Option(bool isSome, TValue value)")
	e.open()
	e.line("IsSome = isSome;")
	e.line("Value = value;")
	e.close()
	e.blank()
	e.line("public static Option<TValue> Some(TValue value)")
	e.open()
	e.line("return new Option<TValue>(true, value);")
	e.close()
	e.blank()
	e.line("public static Option<TValue> None()")
	e.open()
	e.line("return new Option<TValue>(false, default(TValue));")
	e.close()
	e.close()
}
