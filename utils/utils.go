package utils

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mikaelliljedahl/flowlang/token"
	"gopkg.in/yaml.v3"
)

// PosError decorates an error with the token it was raised at.
type PosError struct {
	Where token.Token
	Err   error
}

func (e PosError) Error() string {
	return MsgAt(e.Where, e.Err.Error())
}

func (e PosError) Unwrap() error {
	return e.Err
}

// MsgAt prefixes msg with the position of t.
func MsgAt(t token.Token, msg string) string {
	if t.Kind == token.EOF {
		return fmt.Sprintf("at end: %s", msg)
	}
	return fmt.Sprintf("at %d:%d: `%s`, %s", t.Line, t.Column, t.Lexeme, msg)
}

type TestData struct {
	Label    string
	Enable   bool
	Input    string
	Expected map[string]string
}

// ReadTestData parses YAML test-case tables and drops disabled cases.
func ReadTestData(s []byte) []TestData {
	var data []TestData
	if err := yaml.Unmarshal(s, &data); err != nil {
		panic(err)
	}

	i := 0
	for _, d := range data {
		if d.Enable {
			data[i] = d
			i++
		}
	}
	data = data[:i]

	return data
}

// FindSourceFiles returns every .flow file under dir.
func FindSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".flow") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	return files, nil
}
