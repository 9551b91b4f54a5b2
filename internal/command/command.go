// Package command implements the text command surface for mutating a
// running simulation: parameter writes, interaction-table edits,
// respawn and pause. Every mutation routes through the engine's
// frame-boundary contract, never directly into simulation state.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/particle"
	"github.com/funny233-github/paticle-life/internal/sim"
)

// Dispatcher parses command lines and applies them to an engine.
type Dispatcher struct {
	Engine *sim.Engine
	// MatrixPath is the CSV file reset_interaction reloads when no
	// explicit path is given.
	MatrixPath string
}

const helpText = `commands:
  set boundary <width> <height>
  set d1|d2|d3|repel_force|half_life|dt <value>
  set particle_count <n>
  print config|boundary|d|repel_force|half_life|dt|particle_count|interactions
  interaction <target> <source> <value>
  reset_interaction [path]
  random_interaction [limit]
  save_interaction <path>
  respawn_particle
  pause | resume | toggle
  help`

// Execute runs one command line and returns the reply text. Errors are
// always local: a rejected command leaves the simulation untouched.
func (d *Dispatcher) Execute(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		return helpText, nil
	case "set":
		return d.set(args)
	case "print":
		return d.print(args)
	case "interaction":
		return d.interaction(args)
	case "reset_interaction":
		return d.resetInteraction(args)
	case "random_interaction":
		return d.randomInteraction(args)
	case "save_interaction":
		return d.saveInteraction(args)
	case "respawn_particle":
		d.Engine.Respawn()
		return "respawned all particles", nil
	case "pause":
		d.Engine.SetPaused(true)
		return "simulation paused", nil
	case "resume":
		d.Engine.SetPaused(false)
		return "simulation resumed", nil
	case "toggle":
		d.Engine.TogglePause()
		return "toggled particle update", nil
	}
	return "", fmt.Errorf("unknown command %q (try help)", cmd)
}

func (d *Dispatcher) set(args []string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("usage: set <field> <value...>")
	}
	field := args[0]

	if field == "boundary" {
		if len(args) != 3 {
			return "", fmt.Errorf("usage: set boundary <width> <height>")
		}
		w, err := parseFloat(args[1])
		if err != nil {
			return "", err
		}
		h, err := parseFloat(args[2])
		if err != nil {
			return "", err
		}
		if err := d.Engine.UpdateConfig(func(c *config.Config) error { return c.SetBoundary(w, h) }); err != nil {
			return "", err
		}
		return fmt.Sprintf("set map width: %.2f, height: %.2f", w, h), nil
	}

	if field == "particle_count" {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", fmt.Errorf("invalid count %q", args[1])
		}
		if err := d.Engine.UpdateConfig(func(c *config.Config) error { return c.SetParticleCount(n) }); err != nil {
			return "", err
		}
		return fmt.Sprintf("set particle_count to %d (takes effect on respawn)", n), nil
	}

	v, err := parseFloat(args[1])
	if err != nil {
		return "", err
	}

	var apply func(*config.Config) error
	switch field {
	case "d1":
		apply = func(c *config.Config) error { return c.SetD1(v) }
	case "d2":
		apply = func(c *config.Config) error { return c.SetD2(v) }
	case "d3":
		apply = func(c *config.Config) error { return c.SetD3(v) }
	case "repel_force":
		apply = func(c *config.Config) error { return c.SetRepelForce(v) }
	case "half_life":
		apply = func(c *config.Config) error { return c.SetHalfLife(v) }
	case "dt":
		apply = func(c *config.Config) error { return c.SetDt(v) }
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
	if err := d.Engine.UpdateConfig(apply); err != nil {
		return "", err
	}
	return fmt.Sprintf("set %s to %.3f", field, v), nil
}

func (d *Dispatcher) print(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: print <field>")
	}
	cfg := d.Engine.Config()

	switch args[0] {
	case "boundary":
		return fmt.Sprintf("map width: %.2f, height: %.2f", cfg.MapWidth, cfg.MapHeight), nil
	case "d":
		return fmt.Sprintf("d1: %.2f, d2: %.2f, d3: %.2f", cfg.D1, cfg.D2, cfg.D3), nil
	case "repel_force":
		return fmt.Sprintf("repel_force: %.2f", cfg.RepelForce), nil
	case "half_life":
		return fmt.Sprintf("half_life: %.3f", cfg.HalfLife), nil
	case "dt":
		return fmt.Sprintf("dt: %.3f", cfg.Dt), nil
	case "particle_count":
		return fmt.Sprintf("particle_count: %d (live: %d)", cfg.ParticleCount, d.Engine.Count()), nil
	case "config":
		return fmt.Sprintf(
			"particle_count: %d\nmap: %.2f x %.2f\nd1: %.2f  d2: %.2f  d3: %.2f\nrepel_force: %.2f\nhalf_life: %.3f\ndt: %.3f",
			cfg.ParticleCount, cfg.MapWidth, cfg.MapHeight,
			cfg.D1, cfg.D2, cfg.D3, cfg.RepelForce, cfg.HalfLife, cfg.Dt,
		), nil
	case "interactions":
		return FormatTable(d.Engine.Table()), nil
	}
	return "", fmt.Errorf("unknown field %q", args[0])
}

func (d *Dispatcher) interaction(args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("usage: interaction <target> <source> <value>")
	}
	target, err := particle.ParseType(args[0])
	if err != nil {
		return "", err
	}
	source, err := particle.ParseType(args[1])
	if err != nil {
		return "", err
	}
	v, err := parseFloat(args[2])
	if err != nil {
		return "", err
	}
	d.Engine.SetInteraction(target, source, v)
	return fmt.Sprintf("set interaction %s <- %s to %.3f", target, source, v), nil
}

func (d *Dispatcher) resetInteraction(args []string) (string, error) {
	path := d.MatrixPath
	if len(args) == 1 {
		path = args[0]
	} else if len(args) > 1 {
		return "", fmt.Errorf("usage: reset_interaction [path]")
	}
	if path == "" {
		return "", fmt.Errorf("no interaction matrix file configured")
	}

	table, err := interaction.LoadFile(path)
	if err != nil {
		return "", err
	}
	d.Engine.ResetInteractions(table)
	return fmt.Sprintf("reloaded interaction table from %s", path), nil
}

func (d *Dispatcher) randomInteraction(args []string) (string, error) {
	limit := 1.0
	if len(args) == 1 {
		v, err := parseFloat(args[0])
		if err != nil {
			return "", err
		}
		if v <= 0 {
			return "", fmt.Errorf("limit must be positive")
		}
		limit = v
	} else if len(args) > 1 {
		return "", fmt.Errorf("usage: random_interaction [limit]")
	}
	d.Engine.RandomizeInteractions(limit)
	return fmt.Sprintf("randomized interaction table in [-%.2f, %.2f]", limit, limit), nil
}

func (d *Dispatcher) saveInteraction(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: save_interaction <path>")
	}
	if err := interaction.SaveFile(args[0], d.Engine.Table()); err != nil {
		return "", err
	}
	return fmt.Sprintf("saved interaction table to %s", args[0]), nil
}

// FormatTable renders the full interaction matrix, rows as sources and
// columns as targets.
func FormatTable(t *interaction.Table) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 1, ' ', tabwriter.AlignRight)

	fmt.Fprint(w, "src\\tgt")
	for _, target := range particle.AllTypes() {
		fmt.Fprintf(w, "\t%s", target)
	}
	fmt.Fprintln(w)

	for _, source := range particle.AllTypes() {
		fmt.Fprint(w, source.String())
		for _, target := range particle.AllTypes() {
			fmt.Fprintf(w, "\t%.2f", t.Get(target, source))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}
