package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mikaelliljedahl/flowlang/token"
	"github.com/mikaelliljedahl/flowlang/utils"
)

func TestPosError(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	err := utils.PosError{
		Where: token.Token{Kind: token.IDENT, Lexeme: "x", Line: 3, Column: 7},
		Err:   inner,
	}
	if err.Error() != "at 3:7: `x`, boom" {
		t.Errorf("wrong message: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Errorf("inner error not unwrapped")
	}

	atEnd := utils.PosError{Where: token.Token{Kind: token.EOF}, Err: inner}
	if atEnd.Error() != "at end: boom" {
		t.Errorf("wrong message: %s", atEnd.Error())
	}
}

func TestReadTestDataDropsDisabled(t *testing.T) {
	t.Parallel()

	src := `- label: on
  enable: true
  input: a
- label: off
  enable: false
  input: b
`
	data := utils.ReadTestData([]byte(src))
	if len(data) != 1 || data[0].Label != "on" {
		t.Errorf("disabled cases not dropped: %v", data)
	}
}

func TestFindSourceFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.flow", "nested/b.flow", "c.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := utils.FindSourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 source files, got %v", files)
	}
}
