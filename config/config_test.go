package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mikaelliljedahl/flowlang/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	content := "namespace: Acme.Lang\noutput: gen/out.cs\nindent: 2\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Namespace != "Acme.Lang" || cfg.Output != "gen/out.cs" || cfg.Indent != 2 {
		t.Errorf("wrong config: %+v", cfg)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("output: out.cs\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Namespace != config.Default().Namespace {
		t.Errorf("namespace not defaulted: %+v", cfg)
	}
	if cfg.Indent != config.Default().Indent {
		t.Errorf("indent not defaulted: %+v", cfg)
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg != config.Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte("namespace: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Errorf("malformed config accepted")
	}
}
