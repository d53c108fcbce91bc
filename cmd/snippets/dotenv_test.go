// ABOUTME: Tests for the .env file loader that reads KEY=VALUE pairs into the process environment.
// ABOUTME: Covers plain values, quoted values, comments, and no-clobber behavior.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDotEnvSetsVariables(t *testing.T) {
	path := writeTempEnv(t, "TEST_SNIPPETS_A=hello\nexport TEST_SNIPPETS_B=\"wide world\"\n")
	t.Setenv("TEST_SNIPPETS_A", "")
	t.Setenv("TEST_SNIPPETS_B", "")
	os.Unsetenv("TEST_SNIPPETS_A")
	os.Unsetenv("TEST_SNIPPETS_B")

	loadDotEnv(path)

	if got := os.Getenv("TEST_SNIPPETS_A"); got != "hello" {
		t.Errorf("expected TEST_SNIPPETS_A=hello, got %q", got)
	}
	if got := os.Getenv("TEST_SNIPPETS_B"); got != "wide world" {
		t.Errorf("expected quoted export value, got %q", got)
	}
}

func TestLoadDotEnvSkipsCommentsAndBlankLines(t *testing.T) {
	path := writeTempEnv(t, "# a comment\n\nTEST_SNIPPETS_C='single'\nnot a pair\n")
	t.Setenv("TEST_SNIPPETS_C", "")
	os.Unsetenv("TEST_SNIPPETS_C")

	loadDotEnv(path)

	if got := os.Getenv("TEST_SNIPPETS_C"); got != "single" {
		t.Errorf("expected TEST_SNIPPETS_C=single, got %q", got)
	}
}

func TestLoadDotEnvNeverClobbers(t *testing.T) {
	path := writeTempEnv(t, "TEST_SNIPPETS_D=from_file\n")
	t.Setenv("TEST_SNIPPETS_D", "already_set")

	loadDotEnv(path)

	if got := os.Getenv("TEST_SNIPPETS_D"); got != "already_set" {
		t.Errorf("existing value clobbered: %q", got)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	// Must not panic or create anything.
	loadDotEnv(filepath.Join(t.TempDir(), "no-such.env"))
}

func TestLoadDotEnvValueWithEquals(t *testing.T) {
	path := writeTempEnv(t, "TEST_SNIPPETS_E=a=b=c\n")
	t.Setenv("TEST_SNIPPETS_E", "")
	os.Unsetenv("TEST_SNIPPETS_E")

	loadDotEnv(path)

	if got := os.Getenv("TEST_SNIPPETS_E"); got != "a=b=c" {
		t.Errorf("expected value with equals preserved, got %q", got)
	}
}
