package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravlab/internal/analysis"
	"github.com/san-kum/gravlab/internal/config"
	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/export"
	"github.com/san-kum/gravlab/internal/metrics"
	"github.com/san-kum/gravlab/internal/spawn"
	"github.com/san-kum/gravlab/internal/storage"
	"github.com/san-kum/gravlab/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir       string
	dt            float64
	duration      float64
	gConst        float64
	theta         float64
	softening     float64
	maxVel        float64
	mode          string
	restitution   float64
	absorbBias    float64
	seed          int64
	deterministic bool
	sampleEvery   int
	hazardsOff    bool
	watch         bool
	frameRate     int
	configFile    string
	// SVG snapshot output
	outFile   string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravlab",
		Short: "gravitational n-body sandbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravlab", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&gConst, "g", config.DefaultG, "gravitational constant")
	runCmd.Flags().Float64Var(&theta, "theta", config.DefaultTheta, "opening angle")
	runCmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "plummer softening")
	runCmd.Flags().Float64Var(&maxVel, "max-vel", config.DefaultMaxVel, "velocity clamp (0 disables)")
	runCmd.Flags().StringVar(&mode, "mode", "", "collision mode (absorb, elastic)")
	runCmd.Flags().Float64Var(&restitution, "restitution", 0.8, "elastic restitution")
	runCmd.Flags().Float64Var(&absorbBias, "absorb-bias", 0.03, "absorb mass bonus")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	runCmd.Flags().BoolVar(&deterministic, "deterministic", false, "seeded reproducible run")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 25, "steps between diagnostic samples")
	runCmd.Flags().BoolVar(&hazardsOff, "no-hazards", false, "disable periodic hazard spawns")
	runCmd.Flags().BoolVar(&watch, "watch", false, "render frames while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate for --watch")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "render a scenario to SVG after simulating it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotScenario,
	}
	snapshotCmd.Flags().Float64Var(&duration, "time", 5.0, "simulated time before the snapshot")
	snapshotCmd.Flags().StringVar(&outFile, "out", "snapshot.svg", "output file")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 1200, "image width")
	snapshotCmd.Flags().IntVar(&svgHeight, "height", 900, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of run diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark stepping throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScenario,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSYSTEM\tG\tDT\tMODE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%.4f\t%s\n",
					name, cfg.System, cfg.G, cfg.Dt, cfg.CollisionMode)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, snapshotCmd, analyzeCmd, benchCmd, tuiCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig builds the effective config for a run: preset (or
// defaults), then config file, then explicitly set CLI flags.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	scenario := "custom"
	var cfg *config.Config

	if len(args) > 0 {
		scenario = args[0]
		cfg = config.GetPreset(scenario)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown scenario: %s (available: %v)", scenario, config.ListPresets())
		}
		c := *cfg
		cfg = &c
	} else {
		cfg = config.DefaultConfig()
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("g") {
		cfg.G = gConst
	}
	if f.Changed("theta") {
		cfg.Theta = theta
	}
	if f.Changed("softening") {
		cfg.Softening = softening
	}
	if f.Changed("max-vel") {
		cfg.MaxVel = maxVel
	}
	if f.Changed("mode") {
		cfg.CollisionMode = mode
	}
	if f.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if f.Changed("absorb-bias") {
		cfg.AbsorbBias = absorbBias
	}
	if f.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if f.Changed("deterministic") {
		cfg.Deterministic = deterministic
	}
	if f.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if hazardsOff {
		cfg.Hazards = false
	}

	return cfg, scenario, nil
}

// hazardObserver drives the timed hazard spawner from the step stream.
type hazardObserver struct {
	hazards *spawn.Hazards
	dt      float64
}

func (h *hazardObserver) OnStep(w *engine.World, t float64) {
	h.hazards.Update(w, h.dt, mgl64.Vec2{})
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	world := engine.NewWorld(settings)
	if err := cfg.Populate(world); err != nil {
		return err
	}

	runner := engine.NewRunner(world)
	runner.AddMetric(metrics.NewEnergy())
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewBodyCount())
	runner.AddMetric(metrics.NewAbsorbedMass())
	runner.AddMetric(metrics.NewContainment(10_000))

	if cfg.Hazards {
		runner.AddObserver(&hazardObserver{
			hazards: spawn.NewHazards(),
			dt:      settings.Dt * settings.TimeScale,
		})
	}

	var renderer *tui.LiveRenderer
	if watch {
		renderer = tui.NewLiveRenderer(scenario, frameRate)
		renderer.Start()
		defer renderer.Stop()
		runner.AddObserver(renderer)
	}

	if !watch {
		fmt.Printf("running %s with %d bodies...\n", scenario, len(world.Bodies))
	}
	start := time.Now()

	result, err := runner.Run(context.Background(), engine.RunConfig{
		Duration:    cfg.Duration,
		SampleEvery: cfg.SampleEvery,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(scenario, cfg.Dt, cfg.Duration, cfg.Seed, cfg.CollisionMode, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("bodies: %d -> %d\n", result.Samples[0].Bodies, len(world.Bodies))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tMODE\tBODIES\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Mode,
			run.FinalBodies,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(s engine.Sample) float64
	}{
		{"body count", func(s engine.Sample) float64 { return float64(s.Bodies) }},
		{"total energy", func(s engine.Sample) float64 { return s.Energy }},
		{"momentum magnitude", func(s engine.Sample) float64 { return s.Momentum }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i := range samples {
			data[i] = sr.value(samples[i])
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	result := &engine.Result{
		Samples:      samples,
		Metrics:      meta.Metrics,
		StepsTaken:   meta.Steps,
		AbsorbedMass: meta.AbsorbedMass,
		EnergyDrift:  meta.EnergyDrift,
	}

	return export.WriteJSON(os.Stdout, meta.Scenario, meta.Mode, meta.Dt, meta.Duration, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "bodies", "energy", "momentum"}); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.T, 'f', 6, 64),
			strconv.Itoa(s.Bodies),
			strconv.FormatFloat(s.Energy, 'f', 6, 64),
			strconv.FormatFloat(s.Momentum, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	data := make([]float64, len(samples))
	for i := range samples {
		data[i] = samples[i].Energy
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (energy)"),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := (samples[len(samples)-1].T - samples[0].T) / float64(len(samples)-1)
	freq, power := analysis.DominantFrequency(data, sampleDt)
	if power > 0 {
		fmt.Printf("dominant frequency: %.3f hz\n", freq)
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	} else {
		fmt.Println("no dominant frequency found")
	}

	return nil
}

func snapshotScenario(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	world := engine.NewWorld(settings)
	if err := cfg.Populate(world); err != nil {
		return err
	}

	stepDt := settings.Dt * settings.TimeScale
	steps := int(duration / stepDt)
	for i := 0; i < steps; i++ {
		world.Step()
	}

	svg := export.SnapshotSVG(world, svgWidth, svgHeight)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %s at t=%.1fs, %d bodies\n", outFile, scenario, world.Time(), len(world.Bodies))
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Hazards = false

	durations := []float64{0.5, 1.0, 2.0}
	thetas := []float64{0.3, 0.6, 0.9}

	fmt.Printf("benchmarking %s\n\n", scenario)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tTHETA\tBODIES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, th := range thetas {
			bench := *cfg
			bench.Theta = th
			bench.Accuracy.AdaptiveTheta = false
			bench.Deterministic = true
			bench.Seed = 42

			settings, err := bench.Settings()
			if err != nil {
				return err
			}

			world := engine.NewWorld(settings)
			if err := bench.Populate(world); err != nil {
				return err
			}
			bodies := len(world.Bodies)

			runner := engine.NewRunner(world)
			start := time.Now()
			result, err := runner.Run(context.Background(), engine.RunConfig{
				Duration:    dur,
				SampleEvery: 1_000_000,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.1f\t%d\t%d\t%v\t%.0f\n",
				dur, th, bodies, result.StepsTaken, elapsed.Round(time.Millisecond), stepsPerSec)
		}
	}

	return w.Flush()
}
