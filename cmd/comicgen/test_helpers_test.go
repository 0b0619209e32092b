package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	root       string
	stateDir   string
	configPath string
}

func (e cliTestEnv) path(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

// setupCLITestEnv writes a config rooted in a temp site with the given comic
// images and annotation lines.
func setupCLITestEnv(t *testing.T, images []string, annotations ...string) cliTestEnv {
	t.Helper()
	t.Setenv("COMICGEN_BASE_URL", "")

	base := t.TempDir()
	env := cliTestEnv{
		root:       filepath.Join(base, "site"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "comicgen.toml"),
	}

	config := fmt.Sprintf(`[site]
title = "Test Comics"
base_url = "https://comics.example.com/"
root = %q

[paths]
state_dir = %q

[history]
keep = 5
`, env.root, env.stateDir)
	writeTestFile(t, env.configPath, config)

	if err := os.MkdirAll(env.path("asset/cc"), 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	for _, name := range images {
		writeTestFile(t, env.path("asset/cc/"+name), "png")
	}
	var alt strings.Builder
	for _, line := range annotations {
		alt.WriteString(line)
		alt.WriteByte('\n')
	}
	writeTestFile(t, env.path("alt_text.txt"), alt.String())
	return env
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output string, substrings ...string) {
	t.Helper()
	for _, s := range substrings {
		if !strings.Contains(output, s) {
			t.Fatalf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}
