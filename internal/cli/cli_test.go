package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/pipeline"
)

func quietCLI() *CLI {
	return &CLI{Logger: log.New(io.Discard)}
}

func TestRootCommand(t *testing.T) {
	root := quietCLI().RootCommand()
	if root.Use != appName {
		t.Errorf("Use = %q, want %q", root.Use, appName)
	}

	want := []string{"render", "read", "scales", "tui", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug output missing after SetLogLevel: %q", buf.String())
	}
}

func TestLoadInstrument(t *testing.T) {
	spec, err := loadInstrument("")
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != instrument.ClassicName {
		t.Errorf("default instrument = %q, want %q", spec.Name, instrument.ClassicName)
	}

	spec, err = loadInstrument(filepath.Join("..", "..", "examples", "mannheim.toml"))
	if err != nil {
		t.Fatalf("load mannheim: %v", err)
	}
	if len(spec.Scales) == 0 {
		t.Error("mannheim has no scales")
	}

	if _, err := loadInstrument(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCompletionCommand(t *testing.T) {
	root := quietCLI().RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), appName) {
		t.Error("completion script does not mention the command")
	}
}

func TestPrintReadings(t *testing.T) {
	rule, _, err := pipeline.NewRunner(nil, nil, log.New(io.Discard)).Build(context.Background(),
		pipeline.Options{Instrument: instrument.Classic()})
	if err != nil {
		t.Fatal(err)
	}
	rule.SetCursorPosition(300)

	var buf bytes.Buffer
	if err := printReadings(&buf, rule, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Cursor", "Scale", "Exact", "A", "B", "C", "D"} {
		if !strings.Contains(out, want) {
			t.Errorf("readout missing %q:\n%s", want, out)
		}
	}
}

func TestPrintScales(t *testing.T) {
	var buf bytes.Buffer
	if err := printScales(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"tenths", "fiveHundredths", "singleDecadeLog", "twoDecadeLog"} {
		if !strings.Contains(out, want) {
			t.Errorf("scales output missing %q", want)
		}
	}
}

func TestMain(m *testing.M) {
	// Keep the developer's cache untouched by tests that render.
	dir, err := os.MkdirTemp("", "sliderule-cli-test")
	if err != nil {
		panic(err)
	}
	os.Setenv("XDG_CACHE_HOME", dir)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
