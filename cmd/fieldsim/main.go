package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/automation"
	"github.com/san-kum/fieldsim/internal/config"
	"github.com/san-kum/fieldsim/internal/engine"
	"github.com/san-kum/fieldsim/internal/experiment"
	"github.com/san-kum/fieldsim/internal/export"
	"github.com/san-kum/fieldsim/internal/optim"
	"github.com/san-kum/fieldsim/internal/storage"
	"github.com/san-kum/fieldsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	// Run settings, applied over the preset only when set
	dt         float64
	duration   float64
	seed       int64
	electric   float64
	magnetic   float64
	detector   string
	trailLen   int
	configFile string
	preset     string
	saveConfig string
	noPlot     bool
	saveDir    string
	svgPath    string
	runsDir    string
	// Live view
	frameRate int
	fieldStep float64
	// Sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// separate from the run flags so defaults do not collide
	sweepDuration float64
	sweepSeed     int64
	// Ensemble
	numRuns   int
	seedStart int64
	// Optimize
	electricValues []float64
	magneticValues []float64
	objective      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fieldsim",
		Short:         "2D charged particle field lab",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error|off)")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run a simulation to completion and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this yaml file")
	runCmd.Flags().BoolVar(&noPlot, "no-plot", false, "skip the ascii plots")
	runCmd.Flags().StringVar(&saveDir, "save-dir", "", "store the run under this directory")
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final frame as svg")

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "run a simulation with a live terminal preview",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", viz.DefaultFPS, "frame rate")
	liveCmd.Flags().Float64Var(&fieldStep, "field-step", viz.DefaultFieldStep, "field change per key press")

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario with timed field changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "sweep the electric or magnetic field strength",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "preset name")
	sweepCmd.Flags().Float64Var(&sweepDuration, "time", 0, "duration (0 keeps the preset's)")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", 0, "random seed (0 keeps the preset's)")
	sweepCmd.Flags().StringVar(&sweepParam, "param", automation.ParamMagnetic, "parameter to sweep (electric|magnetic)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 11, "number of values")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [variant]",
		Short: "run one preset under many seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addRunFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [variant]",
		Short: "grid search field strengths for the best run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addRunFlags(optimizeCmd)
	optimizeCmd.Flags().Float64SliceVar(&electricValues, "e-values", []float64{-5, 0, 5}, "electric strengths to try")
	optimizeCmd.Flags().Float64SliceVar(&magneticValues, "b-values", []float64{-5, 0, 5}, "magnetic strengths to try")
	optimizeCmd.Flags().StringVar(&objective, "metric", "", "metric to maximise (default: score)")

	benchCmd := &cobra.Command{
		Use:   "bench [variant]",
		Short: "benchmark collision detectors",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchDetectors,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "", "preset name (default: "+benchPreset+")")

	runsCmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "list stored runs, or plot one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRuns,
	}
	runsCmd.Flags().StringVar(&runsDir, "dir", "runs", "run store directory")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, scenarioCmd, sweepCmd, ensembleCmd, optimizeCmd, benchCmd, runsCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "preset name (default: classic)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&electric, "electric", 0, "electric field strength")
	cmd.Flags().Float64Var(&magnetic, "magnetic", 0, "magnetic field strength")
	cmd.Flags().StringVar(&detector, "detector", config.DefaultDetector, "collision detector (brute|grid)")
	cmd.Flags().IntVar(&trailLen, "trail", config.DefaultTrailCapacity, "trail length per particle")
}

func newLogger(cmd *cobra.Command) *Logger {
	return NewLogger(logLevel, log.New(cmd.ErrOrStderr(), "", log.LstdFlags))
}

func variantArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "particle"
}

// resolveConfig builds the run config: preset first, then the config file,
// then any flag set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	registry := experiment.NewRegistry()
	cfg, err := registry.GetVariant(variantArg(args), preset)
	if err != nil {
		return nil, fmt.Errorf("%w (variants: %v)", err, registry.ListVariants())
	}

	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("electric") {
		cfg.Fields.Electric = electric
	}
	if flags.Changed("magnetic") {
		cfg.Fields.Magnetic = magnetic
	}
	if flags.Changed("detector") {
		cfg.Engine.Detector = detector
	}
	if flags.Changed("trail") {
		cfg.Engine.TrailCapacity = trailLen
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	exp := experiment.New(cfg, experiment.WithLogger(newLogger(cmd)))
	if err := exp.Setup(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s simulation...\n", cfg.Variant)
	start := time.Now()

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "completed in %v\n", time.Since(start))
	printResult(out, result)

	if saveDir != "" {
		st := storage.New(saveDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(cfg, result)
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		fmt.Fprintf(out, "stored as %s\n", id)
	}
	if svgPath != "" {
		if err := export.WriteFile(svgPath, export.SnapshotToSVG(result.Final, 2)); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}

	if !noPlot && len(result.Collisions) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(result.Collisions,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("collisions"),
		))
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(result.Energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy"),
		))
	}
	return nil
}

func printResult(out io.Writer, r *experiment.Result) {
	fmt.Fprintf(out, "steps: %d\n", r.StepsTaken)
	fmt.Fprintf(out, "time: %.2f\n", r.Final.Time)
	fmt.Fprintf(out, "collisions: %d\n", r.Final.CollisionCount)
	if r.Final.Repairs > 0 {
		fmt.Fprintf(out, "repairs: %d\n", r.Final.Repairs)
	}
	if r.Outcome.Completed {
		fmt.Fprintf(out, "score: %d\n", r.Outcome.Score)
	} else {
		fmt.Fprintf(out, "score: %d (run too short to complete)\n", r.Score)
	}

	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, r.Metrics[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	det, err := experiment.NewRegistry().GetDetector(cfg.Engine.Detector, cfg.Engine.CellSize)
	if err != nil {
		return err
	}
	fields, err := cfg.FieldParameters()
	if err != nil {
		return err
	}

	// log lines would tear the alternate screen
	eng := engine.New(
		engine.WithDetector(det),
		engine.WithTrailCapacity(cfg.Engine.TrailCapacity),
		engine.WithMaxSpeed(cfg.Engine.MaxSpeed),
	)
	m, err := viz.NewModel(viz.LiveConfig{
		Title:     cfg.Variant,
		Engine:    eng,
		Factory:   cfg.Factory(),
		Fields:    fields,
		Arena:     cfg.Arena,
		Dt:        cfg.Dt,
		Score:     cfg.Scoring.Knowledge().Func(),
		Gate:      cfg.Scoring.Gate(),
		FieldStep: fieldStep,
		FPS:       frameRate,
	})
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok {
		if out, ok := fm.Outcome(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "completed after %.1f with %d collisions: +%d knowledge\n",
				out.Elapsed, out.Collisions, out.Score)
		}
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	variants := args
	if len(variants) == 0 {
		variants = config.ListVariants()
	}
	for _, v := range variants {
		presets := config.ListPresets(v)
		if len(presets) == 0 {
			fmt.Fprintf(out, "no presets for variant: %s\n", v)
			continue
		}
		fmt.Fprintf(out, "presets for %s:\n", v)
		for _, p := range presets {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, experiment.NewRegistry(), newLogger(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Fprintf(out, "%s\n", scenario.Description)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tVARIANT\tTIME\tCOLLISIONS\tE\tB\tSCORE")
	for i, r := range results {
		step := scenario.Steps[i]
		fmt.Fprintf(w, "%d\t%s/%s\t%.1f\t%d\t%.1f\t%.1f\t%d\n",
			i+1, step.Variant, step.Preset, r.Final.Time, r.Final.CollisionCount,
			r.Final.Fields.Electric, r.Final.Fields.Magnetic, r.Score)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	sweep := &automation.ParameterSweep{
		Variant:  variantArg(args),
		Preset:   preset,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Duration: sweepDuration,
		Seed:     sweepSeed,
	}

	results, err := automation.RunSweep(cmd.Context(), sweep, experiment.NewRegistry(), newLogger(cmd))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSCORE\tCOLLISIONS\tRATE\tMEAN KE\n", sweep.Param)
	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Score)
		fmt.Fprintf(w, "%.2f\t%d\t%d\t%.4f\t%.4f\n", r.ParamValue, r.Score, r.Collisions, r.CollisionRate, r.MeanKinetic)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(scores) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(scores,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption("score vs "+sweep.Param),
		))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	summary, err := experiment.NewEnsemble(cfg, numRuns, seedStart, experiment.WithLogger(newLogger(cmd))).Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tCOLLISIONS\tSCORE")
	for _, r := range summary.Results {
		fmt.Fprintf(w, "%d\t%d\t%d\n", r.Seed, r.Final.CollisionCount, r.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d runs in %v\n", len(summary.Results), time.Since(start))
	fmt.Fprintf(out, "score: %.2f ± %.2f\n", summary.MeanScore, summary.StdScore)
	fmt.Fprintf(out, "collisions: %.2f ± %.2f\n", summary.MeanCollisions, summary.StdCollisions)
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	obj := optim.Objective(optim.ByScore)
	if objective != "" {
		obj = optim.ByMetric(objective)
	}

	g := optim.NewGridSearch([]string{"electric", "magnetic"}, [][]float64{electricValues, magneticValues})
	best, val, err := g.Search(cmd.Context(), optim.FieldBuilder(cfg, experiment.WithLogger(newLogger(cmd))), obj)
	if err != nil {
		return err
	}

	name := objective
	if name == "" {
		name = "score"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "best %s %.4f at electric=%.2f magnetic=%.2f\n",
		name, val, best["electric"], best["magnetic"])
	return nil
}

const benchPreset = "crowded"

func benchDetectors(cmd *cobra.Command, args []string) error {
	name := preset
	if name == "" {
		name = benchPreset
	}
	registry := experiment.NewRegistry()
	cfg, err := registry.GetVariant(variantArg(args), name)
	if err != nil {
		return err
	}
	fields, err := cfg.FieldParameters()
	if err != nil {
		return err
	}

	const ticks = 2000
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking %s/%s (%d particles)\n\n", cfg.Variant, name, cfg.Particles.Total())
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DETECTOR\tTICKS\tCOLLISIONS\tTIME\tTICKS/SEC")

	for _, detName := range registry.ListDetectors() {
		det, err := registry.GetDetector(detName, cfg.Engine.CellSize)
		if err != nil {
			return err
		}
		eng := engine.New(engine.WithDetector(det), engine.WithTrailCapacity(cfg.Engine.TrailCapacity))
		if _, err := eng.Reset(cfg.Factory(), fields, cfg.Arena); err != nil {
			return err
		}
		eng.Start()

		start := time.Now()
		var snap engine.Snapshot
		for i := 0; i < ticks; i++ {
			if snap, err = eng.Tick(cfg.Dt); err != nil {
				return err
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.0f\n",
			detName, ticks, snap.CollisionCount, elapsed, float64(ticks)/elapsed.Seconds())
	}

	return w.Flush()
}

func showRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(runsDir)
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}
		series, err := st.LoadSeries(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s seed %d, %d steps, %d collisions, score %d\n",
			meta.ID, meta.Variant, meta.Seed, meta.Steps, meta.Collisions, meta.Score)
		if len(series.Collisions) > 1 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(series.Collisions,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("collisions"),
			))
		}
		return nil
	}

	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintf(out, "no runs in %s\n", runsDir)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSTEPS\tCOLLISIONS\tSCORE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.Timestamp.Format(time.DateTime), r.Steps, r.Collisions, r.Score)
	}
	return w.Flush()
}
