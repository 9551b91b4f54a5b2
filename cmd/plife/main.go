package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/funny233-github/paticle-life/internal/command"
	"github.com/funny233-github/paticle-life/internal/config"
	"github.com/funny233-github/paticle-life/internal/interaction"
	"github.com/funny233-github/paticle-life/internal/metrics"
	"github.com/funny233-github/paticle-life/internal/particle"
	"github.com/funny233-github/paticle-life/internal/sim"
	"github.com/funny233-github/paticle-life/internal/storage"
	"github.com/funny233-github/paticle-life/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	matrixPath string
	seed       int64
	steps      int
	frameRate  int
	clustered  bool
	saveRun    bool
	limit      float64

	particles  int
	mapWidth   float64
	mapHeight  float64
	d1, d2, d3 float64
	repelForce float64
	halfLife   float64
	dt         float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plife",
		Short: "typed particle life simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, args)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".plife", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "named config preset")
	rootCmd.PersistentFlags().StringVar(&matrixPath, "matrix", "", "interaction matrix CSV (random when empty)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().BoolVar(&clustered, "clustered", false, "spawn types in noise clusters")

	addConfigFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&particles, "particles", -1, "particle count")
		cmd.Flags().Float64Var(&mapWidth, "width", 0, "map width")
		cmd.Flags().Float64Var(&mapHeight, "height", 0, "map height")
		cmd.Flags().Float64Var(&d1, "d1", 0, "collision radius")
		cmd.Flags().Float64Var(&d2, "d2", 0, "interaction peak radius")
		cmd.Flags().Float64Var(&d3, "d3", 0, "interaction cutoff radius")
		cmd.Flags().Float64Var(&repelForce, "repel", -1, "collision repel force")
		cmd.Flags().Float64Var(&halfLife, "half-life", 0, "velocity damping half life")
		cmd.Flags().Float64Var(&dt, "dt", 0, "timestep")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report statistics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 1000, "number of physics steps")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "store run record under the data directory")
	addConfigFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal view and console",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	addConfigFlags(liveCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure steps per second",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 300, "number of physics steps")
	addConfigFlags(benchCmd)

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "interaction matrix tools",
	}
	matrixRandomCmd := &cobra.Command{
		Use:   "random [output.csv]",
		Short: "generate a random interaction matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := interaction.New()
			table.Randomize(limit, rand.New(rand.NewSource(seed)))
			if err := interaction.SaveFile(args[0], table); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	matrixRandomCmd.Flags().Float64Var(&limit, "limit", 1.0, "coefficient range [-limit, limit]")
	matrixPrintCmd := &cobra.Command{
		Use:   "print [matrix.csv]",
		Short: "print an interaction matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := interaction.LoadFile(args[0])
			if err != nil {
				return err
			}
			fmt.Println(command.FormatTable(table))
			return nil
		},
	}
	matrixCmd.AddCommand(matrixRandomCmd, matrixPrintCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.Presets[name]
				fmt.Printf("%-10s %d particles, %.0fx%.0f map\n", name, cfg.ParticleCount, cfg.MapWidth, cfg.MapHeight)
			}
		},
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, matrixCmd, presetsCmd, runsCmd, plotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig resolves preset, config file and flag overrides, in that
// order of increasing precedence.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return cfg, fmt.Errorf("unknown preset %q (known: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if f := cmd.Flags(); f != nil {
		if f.Changed("particles") {
			cfg.ParticleCount = particles
		}
		if f.Changed("width") {
			cfg.MapWidth = mapWidth
		}
		if f.Changed("height") {
			cfg.MapHeight = mapHeight
		}
		if f.Changed("d1") {
			cfg.D1 = d1
		}
		if f.Changed("d2") {
			cfg.D2 = d2
		}
		if f.Changed("d3") {
			cfg.D3 = d3
		}
		if f.Changed("repel") {
			cfg.RepelForce = repelForce
		}
		if f.Changed("half-life") {
			cfg.HalfLife = halfLife
		}
		if f.Changed("dt") {
			cfg.Dt = dt
		}
	}

	return cfg, cfg.Validate()
}

func buildEngine(cmd *cobra.Command) (*sim.Engine, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	var table *interaction.Table
	if matrixPath != "" {
		table, err = interaction.LoadFile(matrixPath)
		if err != nil {
			return nil, err
		}
	} else {
		table = interaction.New()
		table.Randomize(1.0, rand.New(rand.NewSource(seed)))
	}

	placement := particle.PlaceUniform
	if clustered {
		placement = particle.PlaceClustered
	}
	return sim.New(cfg, table, placement, seed)
}

func runLive(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	if frameRate == 0 {
		frameRate = 30
	}
	return tui.Run(engine, matrixPath, frameRate)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	meanSpeed := metrics.NewMeanSpeed()
	kinetic := metrics.NewKineticEnergy()
	maxSpeed := metrics.NewMaxSpeed()
	engine.AddMetric(meanSpeed)
	engine.AddMetric(kinetic)
	engine.AddMetric(maxSpeed)

	speedSeries := make([]float64, 0, steps)
	energySeries := make([]float64, 0, steps)
	engine.AddObserver(observerFunc(func(ps []particle.Particle, step int, t float64) {
		speedSeries = append(speedSeries, meanSpeed.Latest())
		energySeries = append(energySeries, kinetic.Latest())
	}))

	start := time.Now()
	if err := engine.Run(context.Background(), steps); err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%d steps, %d particles in %v (%.0f steps/s)\n\n",
		steps, engine.Count(), elapsed.Round(time.Millisecond),
		float64(steps)/elapsed.Seconds())

	if len(speedSeries) > 1 {
		fmt.Println("mean speed:")
		fmt.Println(asciigraph.Plot(speedSeries, asciigraph.Height(10), asciigraph.Width(70)))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mean_speed\t%.4f\n", meanSpeed.Value())
	fmt.Fprintf(w, "kinetic_energy\t%.4f\n", kinetic.Value())
	fmt.Fprintf(w, "max_speed\t%.4f\n", maxSpeed.Value())
	w.Flush()

	if saveRun {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(seed, steps, engine.Config(), map[string]float64{
			meanSpeed.Name(): meanSpeed.Value(),
			kinetic.Name():   kinetic.Value(),
			maxSpeed.Name():  maxSpeed.Value(),
		}, []storage.Series{
			{Name: meanSpeed.Name(), Values: speedSeries},
			{Name: kinetic.Name(), Values: energySeries},
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", runID)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := engine.Run(context.Background(), steps); err != nil {
		return err
	}
	elapsed := time.Since(start)

	perStep := elapsed / time.Duration(steps)
	fmt.Printf("%d particles: %d steps in %v (%v/step, %.0f steps/s)\n",
		engine.Count(), steps, elapsed.Round(time.Millisecond), perStep,
		float64(steps)/elapsed.Seconds())
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tPARTICLES\tMEAN SPEED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Steps,
			r.Config.ParticleCount, r.Metrics["mean_speed"])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	series, err := store.LoadSeries(args[0])
	if err != nil {
		return err
	}
	for _, s := range series {
		if len(s.Values) < 2 {
			continue
		}
		fmt.Printf("%s:\n", s.Name)
		fmt.Println(asciigraph.Plot(s.Values, asciigraph.Height(10), asciigraph.Width(70)))
		fmt.Println()
	}
	return nil
}

type observerFunc func(ps []particle.Particle, step int, t float64)

func (f observerFunc) OnStep(ps []particle.Particle, step int, t float64) { f(ps, step, t) }
