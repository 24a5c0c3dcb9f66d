package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chocodash/internal/config"
)

// unsetEnv clears keys for the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if old, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, old) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("db", defaultDBPath, "")
	cmd.Flags().String("ssh", ":23234", "")
	cmd.Flags().String("http", ":8080", "")
	return cmd
}

func TestEnvFileSetsFlagDefaults(t *testing.T) {
	dir := t.TempDir()
	env := "CHOCODASH_DB=/tmp/from_env.db\nCHOCODASH_HTTP_ADDR=:9999\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Chdir(dir)
	unsetEnv(t, config.EnvDBPath, config.EnvSSHAddr, config.EnvHTTPAddr)

	cmd := testCommand()
	if err := cmd.ParseFlags([]string{"--http", ":7000"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if err := applyEnvDefaults(cmd.Flags()); err != nil {
		t.Fatalf("applyEnvDefaults() error = %v", err)
	}

	tests := []struct {
		flag string
		want string
	}{
		{"db", "/tmp/from_env.db"},
		{"http", ":7000"},
		{"ssh", ":23234"},
	}
	for _, tt := range tests {
		got, err := cmd.Flags().GetString(tt.flag)
		if err != nil {
			t.Fatalf("GetString(%q) error = %v", tt.flag, err)
		}
		if got != tt.want {
			t.Errorf("--%s = %q, expected %q", tt.flag, got, tt.want)
		}
	}
}

func TestNoEnvFileKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetEnv(t, config.EnvDBPath, config.EnvSSHAddr, config.EnvHTTPAddr)

	cmd := testCommand()
	if err := applyEnvDefaults(cmd.Flags()); err != nil {
		t.Fatalf("applyEnvDefaults() error = %v", err)
	}
	if got, _ := cmd.Flags().GetString("db"); got != defaultDBPath {
		t.Errorf("--db = %q, expected %q", got, defaultDBPath)
	}
}
