package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
	"github.com/panbanda/selectorlint/pkg/config"
)

func init() {
	color.NoColor = true
}

// TestGetPaths verifies path handling from CLI arguments.
func TestGetPaths(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"no args defaults to current dir", []string{}, []string{"."}},
		{"single path", []string{"/foo/bar"}, []string{"/foo/bar"}},
		{"multiple paths", []string{"/foo", "/bar"}, []string{"/foo", "/bar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			app := &cli.App{
				Action: func(c *cli.Context) error {
					got = getPaths(c)
					return nil
				},
			}
			if err := app.Run(append([]string{"test"}, tt.args...)); err != nil {
				t.Fatal(err)
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("getPaths() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPolicyOverrides(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    map[string]any
		wantErr bool
	}{
		{"none", nil, map[string]any{}, false},
		{"options json", []string{"--options", `{"allowIds": true}`}, map[string]any{"allowIds": true}, false},
		{"flags", []string{"--allow-tags", "--allow-classes"}, map[string]any{"allowTags": true, "disallowClasses": false}, false},
		{"flag wins over json", []string{"--options", `{"allowIds": true}`, "--allow-ids=false"}, map[string]any{"allowIds": false}, false},
		{"bad json", []string{"--options", `{allowIds}`}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			var gotErr error
			cmd := checkCmd()
			cmd.Action = func(c *cli.Context) error {
				got, gotErr = policyOverrides(c)
				return nil
			}
			app := &cli.App{Commands: []*cli.Command{cmd}}
			if err := app.Run(append([]string{"test", "check"}, tt.args...)); err != nil {
				t.Fatal(err)
			}
			if tt.wantErr {
				if gotErr == nil {
					t.Error("expected error")
				}
				return
			}
			if gotErr != nil {
				t.Fatal(gotErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("policyOverrides() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("policyOverrides()[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

// checkFixture writes a project with one clean and one failing file and an
// empty config, and returns the project dir and config path.
func checkFixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "e2e", "login.spec.js"), "By.css('.btn');\nBy.css('#login');\n")
	writeTestFile(t, filepath.Join(dir, "e2e", "clean.spec.ts"), "By.css('[data-test=\"ok\"]');\n")
	cfg := filepath.Join(t.TempDir(), "selectorlint.toml")
	writeTestFile(t, cfg, "")
	return dir, cfg
}

func runCheck(t *testing.T, cfg string, args ...string) (bycss.Analysis, error) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.json")
	argv := append([]string{"selectorlint", "-c", cfg, "-f", "json", "-o", out, "check", "--no-progress"}, args...)
	runErr := newApp().Run(argv)

	var a bycss.Analysis
	data, err := os.ReadFile(out)
	if err != nil {
		return a, runErr
	}
	if err := json.Unmarshal(data, &a); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, data)
	}
	return a, runErr
}

func TestCheckCommand(t *testing.T) {
	dir, cfg := checkFixture(t)

	a, err := runCheck(t, cfg, dir)
	var findings *findingsError
	if !errors.As(err, &findings) {
		t.Fatalf("check error = %v, want findingsError", err)
	}
	if findings.count != 2 {
		t.Errorf("findings.count = %d, want 2", findings.count)
	}
	if len(a.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(a.Diagnostics))
	}
	if a.Diagnostics[0].Kind != "noClasses" || a.Diagnostics[1].Kind != "noIds" {
		t.Errorf("kinds = %s, %s", a.Diagnostics[0].Kind, a.Diagnostics[1].Kind)
	}
	if a.Summary.FilesAnalyzed != 2 {
		t.Errorf("FilesAnalyzed = %d, want 2", a.Summary.FilesAnalyzed)
	}
}

func TestCheckCommandNoFail(t *testing.T) {
	dir, cfg := checkFixture(t)

	a, err := runCheck(t, cfg, "--no-fail", dir)
	if err != nil {
		t.Fatalf("check --no-fail error = %v", err)
	}
	if a.Summary.TotalDiagnostics != 2 {
		t.Errorf("TotalDiagnostics = %d, want 2", a.Summary.TotalDiagnostics)
	}
}

func TestCheckCommandPolicyFlags(t *testing.T) {
	dir, cfg := checkFixture(t)

	a, err := runCheck(t, cfg, "--allow-ids", "--allow-classes", dir)
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if a.Summary.TotalDiagnostics != 0 {
		t.Errorf("TotalDiagnostics = %d, want 0", a.Summary.TotalDiagnostics)
	}
}

func TestCheckCommandErrors(t *testing.T) {
	dir, cfg := checkFixture(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown option", []string{"--options", `{"allowClasses": true}`, dir}},
		{"non-boolean option", []string{"--options", `{"allowIds": "yes"}`, dir}},
		{"changed with ref", []string{"--changed", "--ref", "HEAD", dir}},
		{"missing path", []string{filepath.Join(dir, "missing")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCheck(t, cfg, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			var findings *findingsError
			if errors.As(err, &findings) {
				t.Errorf("got findingsError, want a usage error: %v", err)
			}
		})
	}
}

func TestCheckCommandNoFiles(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "selectorlint.toml")
	writeTestFile(t, cfg, "")

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	if err := app.Run([]string{"selectorlint", "-c", cfg, "check", "--no-progress", t.TempDir()}); err != nil {
		t.Fatalf("check on empty dir error = %v", err)
	}
	if stderr.String() != "No JavaScript or TypeScript files found\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should stay empty, got %q", stdout.String())
	}
}

func TestRulesReport(t *testing.T) {
	report, err := rulesReport()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := output.NewWriterFormatter(output.FormatText, &buf, false).Output(report); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	for _, want := range []string{"no-classes-by-css", "noClasses", "noTags", "noIds", "disallowClasses"} {
		if !strings.Contains(text, want) {
			t.Errorf("rules text missing %q:\n%s", want, text)
		}
	}

	data, ok := report.RenderData().(ruleData)
	if !ok {
		t.Fatalf("RenderData() = %T, want ruleData", report.RenderData())
	}
	if data.Schema["additionalProperties"] != false {
		t.Errorf("schema additionalProperties = %v, want false", data.Schema["additionalProperties"])
	}
	if !data.Defaults.DisallowClasses || data.Defaults.AllowIDs || data.Defaults.AllowTags {
		t.Errorf("Defaults = %+v", data.Defaults)
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "selectorlint.toml")

	if err := newApp().Run([]string{"selectorlint", "init", "--file", path}); err != nil {
		t.Fatalf("init error = %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Policy != config.DefaultConfig().Policy {
		t.Errorf("Policy = %+v, want defaults", cfg.Policy)
	}

	if err := newApp().Run([]string{"selectorlint", "init", "--file", path}); err == nil {
		t.Error("init over an existing file should fail without --force")
	}
	if err := newApp().Run([]string{"selectorlint", "init", "--file", path, "--force"}); err != nil {
		t.Errorf("init --force error = %v", err)
	}
}

func TestEncodeConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		as   string
		want string
	}{
		{"toml", "allowIds = false"},
		{"yaml", "disallowClasses: true"},
		{"json", `"disallowClasses": true`},
	}

	for _, tt := range tests {
		t.Run(tt.as, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encodeConfig(&buf, cfg, tt.as); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("encodeConfig(%s) missing %q:\n%s", tt.as, tt.want, buf.String())
			}
		})
	}

	if err := encodeConfig(&bytes.Buffer{}, cfg, "ini"); err == nil {
		t.Error("encodeConfig(ini) should fail")
	}
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	writeTestFile(t, good, "[policy]\nallowTags = true\n")
	writeTestFile(t, bad, "[policy]\nallowClasses = true\n")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	if err := app.Run([]string{"selectorlint", "-c", good, "config", "validate"}); err != nil {
		t.Errorf("validate(good) error = %v", err)
	}
	if want := "Configuration valid: " + good + "\n"; out.String() != want {
		t.Errorf("validate(good) output = %q, want %q", out.String(), want)
	}

	out.Reset()
	app = newApp()
	app.Writer = &out
	if err := app.Run([]string{"selectorlint", "-c", bad, "config", "validate"}); err == nil {
		t.Error("validate(bad) should fail")
	}
	if !strings.HasPrefix(out.String(), "Configuration validation failed:\n  - ") {
		t.Errorf("validate(bad) output = %q", out.String())
	}
}

func TestConfigShow(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "selectorlint.toml")
	writeTestFile(t, cfgPath, "[policy]\nallowTags = true\n")

	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	if err := app.Run([]string{"selectorlint", "-c", cfgPath, "config", "show"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "# Configuration from: "+cfgPath) {
		t.Errorf("show output missing source line:\n%s", out)
	}
	if !strings.Contains(out, "allowTags = true") {
		t.Errorf("show output missing override:\n%s", out)
	}
}

func TestMCPManifestCommand(t *testing.T) {
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	if err := app.Run([]string{"selectorlint", "mcp", "manifest"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "io.github.panbanda/selectorlint") {
		t.Errorf("manifest output:\n%s", buf.String())
	}
}

func TestCacheCommands(t *testing.T) {
	dir, _ := checkFixture(t)
	cacheDir := filepath.Join(t.TempDir(), "cache")
	cfg := filepath.Join(t.TempDir(), "selectorlint.toml")
	writeTestFile(t, cfg, "[cache]\nenabled = true\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n")

	first, _ := runCheck(t, cfg, "--no-fail", dir)
	second, _ := runCheck(t, cfg, "--no-fail", dir)
	if len(first.Diagnostics) != 2 || len(second.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %d then %d, want 2 both times", len(first.Diagnostics), len(second.Diagnostics))
	}

	out := filepath.Join(t.TempDir(), "stats.json")
	if err := newApp().Run([]string{"selectorlint", "-c", cfg, "-f", "json", "-o", out, "cache", "stats"}); err != nil {
		t.Fatal(err)
	}
	var stats struct {
		Entries int `json:"entries"`
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("decoding stats: %v\n%s", err, data)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}

	if err := newApp().Run([]string{"selectorlint", "-c", cfg, "cache", "clear"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("cache clear should remove the cache dir")
	}

	if err := newApp().Run([]string{"selectorlint", "-c", cfg, "--no-cache", "-f", "json", "-o", out, "check", "--no-progress", "--no-fail", dir}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("--no-cache should not create the cache dir")
	}
}

func TestResolveRemotes_LocalPaths(t *testing.T) {
	dir := t.TempDir()
	paths, cleanup, err := resolveRemotes(context.Background(), []string{dir, "."}, io.Discard, false, true)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	if len(paths) != 2 || paths[0] != dir || paths[1] != "." {
		t.Errorf("resolveRemotes() = %v, want local paths unchanged", paths)
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
