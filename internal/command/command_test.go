package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
	"github.com/funny233-github/paticle-life/internal/sim"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	cfg := config.Default()
	cfg.ParticleCount = 20
	engine, err := sim.New(cfg, nil, particle.PlaceUniform, 1)
	if err != nil {
		t.Fatal(err)
	}
	return &Dispatcher{Engine: engine}
}

// exec runs one command and fails the test on a dispatch error.
func exec(t *testing.T, d *Dispatcher, line string) string {
	t.Helper()
	out, err := d.Execute(line)
	if err != nil {
		t.Fatalf("%q: %v", line, err)
	}
	return out
}

func TestExecuteEmptyLine(t *testing.T) {
	d := newDispatcher(t)
	out, err := d.Execute("   ")
	if err != nil || out != "" {
		t.Fatalf("blank line: out %q err %v", out, err)
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	d := newDispatcher(t)
	if _, err := d.Execute("launch"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestSetScalarFields(t *testing.T) {
	d := newDispatcher(t)

	exec(t, d, "set d1 12")
	exec(t, d, "set d2 40")
	exec(t, d, "set d3 80")
	exec(t, d, "set repel_force 55")
	exec(t, d, "set half_life 0.2")
	exec(t, d, "set dt 0.05")
	exec(t, d, "set boundary 800 600")
	exec(t, d, "set particle_count 5")

	cfg := d.Engine.Config()
	if cfg.D1 != 12 || cfg.D2 != 40 || cfg.D3 != 80 {
		t.Fatalf("distances not applied: %+v", cfg)
	}
	if cfg.RepelForce != 55 || cfg.HalfLife != 0.2 || cfg.Dt != 0.05 {
		t.Fatalf("scalars not applied: %+v", cfg)
	}
	if cfg.MapWidth != 800 || cfg.MapHeight != 600 {
		t.Fatalf("boundary not applied: %+v", cfg)
	}
	if cfg.ParticleCount != 5 {
		t.Fatalf("particle_count not applied: %+v", cfg)
	}
}

func TestSetRejectsInvalid(t *testing.T) {
	d := newDispatcher(t)
	before := d.Engine.Config()

	for _, line := range []string{
		"set d1 0",
		"set d1 9999", // above d3
		"set dt -1",
		"set boundary 0 100",
		"set particle_count -3",
		"set repel_force abc",
		"set nosuchfield 1",
		"set d1",
	} {
		if _, err := d.Execute(line); err == nil {
			t.Fatalf("%q: expected rejection", line)
		}
	}
	if d.Engine.Config() != before {
		t.Fatal("rejected commands mutated the config")
	}
}

func TestInteractionCommand(t *testing.T) {
	d := newDispatcher(t)

	exec(t, d, "interaction red blue 0.5")
	d.Engine.Step()
	if got := d.Engine.Table().Get(particle.Red, particle.Blue); got != 0.5 {
		t.Fatalf("cell = %v, want 0.5", got)
	}

	for _, line := range []string{
		"interaction red blue",
		"interaction nosuchtype blue 1",
		"interaction red nosuchtype 1",
		"interaction red blue notanumber",
	} {
		if _, err := d.Execute(line); err == nil {
			t.Fatalf("%q: expected rejection", line)
		}
	}
}

func TestRandomInteraction(t *testing.T) {
	d := newDispatcher(t)

	exec(t, d, "random_interaction 0.5")
	d.Engine.Step()

	nonZero := false
	table := d.Engine.Table()
	for _, a := range particle.AllTypes() {
		for _, b := range particle.AllTypes() {
			v := table.Get(a, b)
			if v < -0.5 || v > 0.5 {
				t.Fatalf("cell (%s, %s) = %v outside limit", a, b, v)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Fatal("table still all zero after randomize")
	}

	if _, err := d.Execute("random_interaction -1"); err == nil {
		t.Fatal("negative limit must be rejected")
	}
}

func TestSaveAndResetInteraction(t *testing.T) {
	d := newDispatcher(t)
	path := filepath.Join(t.TempDir(), "matrix.csv")

	exec(t, d, "interaction teal lime 0.25")
	d.Engine.Step()
	exec(t, d, "save_interaction "+path)

	// Wipe the live table, then reload the saved one.
	exec(t, d, "random_interaction")
	d.Engine.Step()
	exec(t, d, "reset_interaction "+path)
	d.Engine.Step()

	if got := d.Engine.Table().Get(particle.Teal, particle.Lime); got != 0.25 {
		t.Fatalf("cell after reload = %v, want 0.25", got)
	}
}

func TestResetInteractionDefaultsToMatrixPath(t *testing.T) {
	d := newDispatcher(t)
	path := filepath.Join(t.TempDir(), "matrix.csv")
	if err := interaction.SaveFile(path, interaction.New()); err != nil {
		t.Fatal(err)
	}

	if _, err := d.Execute("reset_interaction"); err == nil {
		t.Fatal("no configured path must be rejected")
	}
	d.MatrixPath = path
	exec(t, d, "reset_interaction")
}

func TestResetInteractionBadFileLeavesTable(t *testing.T) {
	d := newDispatcher(t)
	exec(t, d, "interaction red red 1")
	d.Engine.Step()

	path := filepath.Join(t.TempDir(), "matrix.csv")
	if err := os.WriteFile(path, []byte("not,a,matrix\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Execute("reset_interaction " + path); err == nil {
		t.Fatal("malformed matrix must be rejected")
	}
	d.Engine.Step()
	if got := d.Engine.Table().Get(particle.Red, particle.Red); got != 1 {
		t.Fatalf("failed reload disturbed the table: %v", got)
	}
}

func TestPauseResumeToggle(t *testing.T) {
	d := newDispatcher(t)

	exec(t, d, "pause")
	d.Engine.Step()
	if !d.Engine.Paused() {
		t.Fatal("pause command ignored")
	}
	exec(t, d, "resume")
	d.Engine.Step()
	if d.Engine.Paused() {
		t.Fatal("resume command ignored")
	}
	exec(t, d, "toggle")
	d.Engine.Step()
	if !d.Engine.Paused() {
		t.Fatal("toggle command ignored")
	}
}

func TestRespawnCommand(t *testing.T) {
	d := newDispatcher(t)
	exec(t, d, "set particle_count 7")
	exec(t, d, "respawn_particle")
	d.Engine.Step()
	if d.Engine.Count() != 7 {
		t.Fatalf("count = %d, want 7", d.Engine.Count())
	}
}

func TestPrintFields(t *testing.T) {
	d := newDispatcher(t)

	tests := []struct {
		line string
		want string
	}{
		{"print boundary", "width"},
		{"print d", "d2"},
		{"print repel_force", "repel_force"},
		{"print half_life", "half_life"},
		{"print dt", "dt"},
		{"print particle_count", "live"},
		{"print config", "map"},
		{"print interactions", "src\\tgt"},
	}
	for _, tt := range tests {
		out := exec(t, d, tt.line)
		if !strings.Contains(out, tt.want) {
			t.Fatalf("%q output %q missing %q", tt.line, out, tt.want)
		}
	}

	if _, err := d.Execute("print nosuchfield"); err == nil {
		t.Fatal("unknown print field must be rejected")
	}
}

func TestHelpListsEveryCommand(t *testing.T) {
	d := newDispatcher(t)
	out := exec(t, d, "help")
	for _, cmd := range []string{"set", "print", "interaction", "reset_interaction", "random_interaction", "save_interaction", "respawn_particle", "pause"} {
		if !strings.Contains(out, cmd) {
			t.Fatalf("help missing %q", cmd)
		}
	}
}

func TestFormatTableShape(t *testing.T) {
	table := interaction.New()
	table.Set(particle.Red, particle.Blue, 0.5)

	out := FormatTable(table)
	lines := strings.Split(out, "\n")
	if len(lines) != particle.TypeCount+1 {
		t.Fatalf("rendered %d lines, want %d", len(lines), particle.TypeCount+1)
	}
	if !strings.Contains(out, "0.50") {
		t.Fatal("set cell missing from rendering")
	}
}
