package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initTestCLI struct {
	Level string   `default:"warn"`
	Path  []string `name:"path"`
	Max   int      `default:"0"     name:"max-combinations"`
	Quiet bool     `name:"quiet"`
	Hide  string   `default:"x"     hidden:""`
	Pprof string   `name:"pprof-mode"`
}

func initContext(
	t *testing.T,
	confPath string,
	args ...string,
) context.Context {
	t.Helper()

	var cli initTestCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func readConfig(t *testing.T, path string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, data)
	}

	return doc
}

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

			if tt.exists {
				if err := os.MkdirAll(filepath.Dir(confPath), 0o700); err != nil {
					t.Fatal(err)
				}

				if err := os.WriteFile(confPath, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--level=debug")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				if doc := readConfig(t, confPath); doc["old"] != true {
					t.Errorf("existing file was modified: %v", doc)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			doc := readConfig(t, confPath)
			if doc["level"] != "debug" {
				t.Errorf("level = %v, want debug", doc["level"])
			}

			if _, ok := doc["old"]; ok {
				t.Error("stale key survived overwrite")
			}
		})
	}
}

func TestInitRun_Values(t *testing.T) {
	t.Parallel()

	confPath := filepath.Join(t.TempDir(), "config.yaml")
	ctx := initContext(t, confPath,
		"--path=/a", "--path=/b", "--max-combinations=64", "--pprof-mode=cpu")

	if err := (&Init{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	doc := readConfig(t, confPath)

	paths, ok := doc["path"].([]any)
	if !ok || len(paths) != 2 || paths[0] != "/a" || paths[1] != "/b" {
		t.Errorf("path = %#v, want [/a /b]", doc["path"])
	}

	if n := fmt.Sprint(doc["max-combinations"]); n != "64" {
		t.Errorf("max-combinations = %#v, want 64", doc["max-combinations"])
	}

	if doc["quiet"] != false {
		t.Errorf("quiet = %#v, want false", doc["quiet"])
	}

	for _, key := range []string{"help", "hide", "pprof-mode"} {
		if _, ok := doc[key]; ok {
			t.Errorf("config contains ignored flag %q", key)
		}
	}
}

func TestInitRun_NoContext(t *testing.T) {
	t.Parallel()

	err := (&Init{}).Run(t.Context())
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}

func TestInitRun_UnwritablePath(t *testing.T) {
	t.Parallel()

	// A regular file where a parent directory is expected.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")

	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := initContext(t, filepath.Join(blocker, "config.yaml"))

	err := (&Init{}).Run(ctx)
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() error = %v, want ErrWriteConfig", err)
	}
}

func TestConfigValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     any
		want   any
		wantOK bool
	}{
		{name: "nil", in: nil},
		{name: "bool", in: true, want: true, wantOK: true},
		{name: "int", in: 42, want: 42, wantOK: true},
		{name: "float", in: 0.5, want: 0.5, wantOK: true},
		{name: "string", in: "x", want: "x", wantOK: true},
		{name: "empty_string", in: ""},
		{name: "strings", in: []string{"a"}, want: []string{"a"}, wantOK: true},
		{name: "empty_strings", in: []string{}},
		{name: "other", in: []int{1, 2}, want: "[1 2]", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := configValue(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("configValue(%#v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}

			if !ok {
				return
			}

			if s, isSlice := tt.want.([]string); isSlice {
				g, _ := got.([]string)
				if len(g) != len(s) || g[0] != s[0] {
					t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
				}

				return
			}

			if got != tt.want {
				t.Errorf("configValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
