package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/errors"
)

func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	c := New(&bytes.Buffer{}, LogInfo)
	c.out = &out
	return c, &out
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c, _ := newTestCLI(t)
	root := c.RootCommand()

	for _, name := range []string{"render", "watch", "serve", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestLoadConfigDefault(t *testing.T) {
	c, _ := newTestCLI(t)
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Hot != cycle.DefaultBranch {
		t.Errorf("Hot = %v, want default", cfg.Hot)
	}
}

func TestLoadConfigFromXDG(t *testing.T) {
	c, _ := newTestCLI(t)
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(`hot = "bottom"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Hot != cycle.Bottom {
		t.Errorf("Hot = %v, want bottom", cfg.Hot)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	c, _ := newTestCLI(t)
	c.configPath = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := c.loadConfig(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("loadConfig() = %v, want INVALID_CONFIG", err)
	}
}
