package diag

import "fmt"

// Stage identifies which compiler phase produced the diagnostic.
type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageChecker Stage = "checker"
	StageCodegen Stage = "codegen"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	CodePureWithEffects    Code = "CHECK_PURE_WITH_EFFECTS"
	CodeUnknownEffect      Code = "CHECK_UNKNOWN_EFFECT"
	CodeDuplicateMatchCase Code = "CHECK_DUPLICATE_MATCH_CASE"
	CodeNonExhaustiveMatch Code = "CHECK_NONEXHAUSTIVE_MATCH"
	CodeMatchArmNoValue    Code = "CHECK_MATCH_ARM_NO_VALUE"
	CodeUnboundMatch       Code = "CHECK_UNBOUND_MATCH"
	CodeUnboundPropagate   Code = "CHECK_UNBOUND_PROPAGATE"
	CodeUntypedMatchLet    Code = "CHECK_UNTYPED_MATCH_LET"

	CodeGenUnsupportedNode Code = "CODEGEN_UNSUPPORTED_NODE"
	CodeGenUnsupportedType Code = "CODEGEN_UNSUPPORTED_TYPE"
)

// Span is a location in FlowLang source.
type Span struct {
	Line   int
	Column int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a compiler diagnostic surfaced to end-users. Function
// names the declaration the diagnostic was raised in, when known.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	Function string
}

func (d Diagnostic) String() string {
	where := ""
	if d.Span.IsValid() {
		where = d.Span.String() + ": "
	}
	if d.Function != "" {
		return fmt.Sprintf("%s%s: in function `%s`: %s", where, d.Severity, d.Function, d.Message)
	}
	return fmt.Sprintf("%s%s: %s", where, d.Severity, d.Message)
}

// HasErrors reports whether any diagnostic is error severity.
func HasErrors(diagnostics []Diagnostic) bool {
	for _, d := range diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
