package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravwell/internal/analysis"
	"github.com/san-kum/gravwell/internal/config"
	"github.com/san-kum/gravwell/internal/automation"
	"github.com/san-kum/gravwell/internal/experiment"
	"github.com/san-kum/gravwell/internal/export"
	"github.com/san-kum/gravwell/internal/gui"
	"github.com/san-kum/gravwell/internal/logging"
	"github.com/san-kum/gravwell/internal/optim"
	"github.com/san-kum/gravwell/internal/sim"
	"github.com/san-kum/gravwell/internal/storage"
	"github.com/san-kum/gravwell/internal/tui"
	"github.com/san-kum/gravwell/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir  string
	logLevel string
	logJSON  bool

	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	input      string
	strength   float64
	radius     float64
	category   string
	numBodies  int

	frameRate  int
	format     string
	sceneSVG   string
	runs       int
	parallel   int
	param      string
	sweepLo    float64
	sweepHi    float64
	sweepN     int
	settleTol  float64
	metricName string
	minimize   bool

	log = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravwell",
		Short: "gravity well grabber lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logJSON)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(nil, "", log)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravwell", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a grabber scenario and store it",
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&sceneSVG, "svg", "", "write the final scene to this svg file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tracked count and distance",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json or csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv or svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settle time and pulse period of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().Float64Var(&settleTol, "settle", experiment.SettleDistance, "settle distance")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with a live terminal view",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal grabber",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !scenarioFlagsChanged(cmd) {
				return viz.Run(nil, "", log)
			}
			cfg, name, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg, name, log)
		},
	}
	addScenarioFlags(tuiCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive 3d grabber",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, name, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg, name, log)
		},
	}
	addScenarioFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run a scenario many times in parallel",
		RunE:  benchScenario,
	}
	addScenarioFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of seeds")
	benchCmd.Flags().IntVar(&parallel, "parallel", 0, "max concurrent runs (0 = unlimited)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep grab radius or pull strength",
		RunE:  sweepScenario,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&param, "param", analysis.ParamRadius, fmt.Sprintf("parameter to sweep %v", config.ListParams()))
	sweepCmd.Flags().Float64Var(&sweepLo, "from", 2, "first value")
	sweepCmd.Flags().Float64Var(&sweepHi, "to", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 10, "number of values")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml batch of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [param=v1,v2,...]...",
		Short: "grid search parameters for the best metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  tuneScenario,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "settled", "metric to optimize")
	tuneCmd.Flags().BoolVar(&minimize, "minimize", false, "minimize instead of maximize")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, liveCmd, tuiCmd, guiCmd, presetsCmd, benchCmd, sweepCmd, scenarioCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	cmd.Flags().StringVar(&input, "input", config.DefaultInput, "input mode (hold, never, pulse, windows)")
	cmd.Flags().Float64Var(&strength, "strength", config.DefaultPullStrength, "pull strength")
	cmd.Flags().Float64Var(&radius, "radius", config.DefaultMaxRadius, "grab radius")
	cmd.Flags().StringVar(&category, "category", config.DefaultCategory, "layer name of grabbable bodies")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of grabbable bodies")
}

var scenarioFlags = []string{"config", "preset", "dt", "time", "seed", "integrator", "input", "strength", "radius", "category", "bodies"}

func scenarioFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range scenarioFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// loadConfig builds a config from the preset, then the config file, then
// any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	name := "default"
	if preset != "" {
		name = preset
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if preset == "" {
			name = "custom"
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Sim.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Sim.Integrator = integrator
	}
	if flags.Changed("input") {
		cfg.Input.Mode = input
	}
	if flags.Changed("strength") {
		cfg.Grabber.PullStrength = strength
	}
	if flags.Changed("radius") {
		cfg.Grabber.MaxRadius = radius
	}
	if flags.Changed("category") {
		cfg.Grabber.Category = category
	}
	if flags.Changed("bodies") {
		cfg.Scene.Bodies = numBodies
	}
	return cfg, name, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(log))
	if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
		return err
	}

	last := &export.LastFrame{}
	exp.Simulator().AddObserver(last)

	fmt.Printf("running %s...\n", name)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	if sceneSVG != "" {
		if err := os.WriteFile(sceneSVG, []byte(export.SceneToSVG(last.Snapshot, 600)), 0644); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("query buffer: %d (grew %d times)\n", result.QueryCapacity, result.QueryGrows)
	fmt.Println("\nmetrics:")
	for _, m := range sortedNames(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", m, result.Metrics[m])
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tINPUT\tBODIES\tRADIUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%d\t%.1f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Input,
			run.Bodies,
			run.MaxRadius,
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	series := []struct {
		caption string
		data    []float64
	}{
		{"tracked bodies", analysis.TrackedSeries(frames)},
		{"mean distance to anchor", analysis.MeanDistanceSeries(frames)},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	switch format {
	case "json":
		return st.ExportJSON(os.Stdout, runID)
	case "csv":
		return exportCSV(st, runID)
	case "svg":
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		fmt.Println(export.SeriesToSVG([]export.Series{
			{Label: "tracked", Color: "#ffffff", Values: analysis.TrackedSeries(frames)},
			{Label: "mean distance", Color: "#78c8ff", Values: analysis.MeanDistanceSeries(frames)},
		}, 800, 300))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func exportCSV(st *storage.Store, runID string) error {
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "pulling", "tracked", "mean_distance", "max_distance"}); err != nil {
		return err
	}
	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.FormatBool(f.Pulling),
			strconv.Itoa(f.Tracked),
			strconv.FormatFloat(f.MeanDistance, 'f', 6, 64),
			strconv.FormatFloat(f.MaxDistance, 'f', 6, 64),
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	sum := analysis.Summarize(frames)
	fmt.Printf("pulling: %.2fs of %.2fs\n", sum.PullingTime, frames[len(frames)-1].Time)
	fmt.Printf("peak tracked: %d\n", sum.PeakTracked)
	fmt.Printf("grabs: %d  releases: %d\n", sum.Started, sum.Stopped)

	if t, ok := analysis.SettleTime(frames, settleTol); ok {
		fmt.Printf("settled within %.2f at %.3fs\n", settleTol, t)
	} else {
		fmt.Printf("never settled within %.2f\n", settleTol)
	}

	tracked := analysis.TrackedSeries(frames)
	if period, ok := analysis.DominantPeriod(tracked, meta.Dt); ok {
		ps := analysis.PowerSpectrum(tracked)
		graph := asciigraph.Plot(ps[:max(2, len(ps)/4)],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("spectrum of tracked count"),
		)
		fmt.Println()
		fmt.Println(graph)
		fmt.Printf("\ndominant period: %.3f s\n", period)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(log))
	if err := exp.Setup(exp.Registry().DefaultMetrics(experiment.SettleDistance)); err != nil {
		return err
	}

	renderer := tui.NewLiveRenderer(name, frameRate)
	exp.Simulator().AddObserver(renderer)
	renderer.Start()
	defer renderer.Stop()

	_, err = exp.Run(context.Background())
	return err
}

func benchScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(experiment.Factory(cfg, log), runs, cfg.Sim.Seed)
	if parallel > 0 {
		ens.SetLimit(parallel)
	}

	simCfg := experiment.New(cfg).SimConfig()

	fmt.Printf("benchmarking %s over %d seeds\n\n", name, runs)
	start := time.Now()
	results, err := ens.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tPEAK\tGRABS\tSETTLED\tBUFFER")
	steps := 0
	for i, res := range results {
		steps += res.StepsTaken
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.0f\t%.0f%%\t%d\n",
			cfg.Sim.Seed+int64(i),
			res.StepsTaken,
			res.Metrics["peak_tracked"],
			res.Metrics["grabs"],
			res.Metrics["settled"]*100,
			res.QueryCapacity,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", steps, elapsed, float64(steps)/elapsed.Seconds())
	return nil
}

func sweepScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	points, err := analysis.Sweep(context.Background(), cfg, param, sweepLo, sweepHi, sweepN, log)
	if err != nil {
		return err
	}

	fmt.Printf("sweep %s over %s\n\n", param, name)
	fmt.Print(analysis.SweepToASCII(points, 60, 12))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTRACKED\tCAPTURED\tMEAN DIST\n", param)
	for _, p := range points {
		fmt.Fprintf(w, "%.2f\t%d\t%.0f%%\t%.3f\n", p.Param, p.Tracked, p.Captured*100, p.MeanDistance)
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.RunScenario(context.Background(), scenario, st, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tPEAK\tGRABS\tRUN")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.0f\t%.0f\t%s\n", i+1, r.Step.Preset, r.Result.Metrics["peak_tracked"], r.Result.Metrics["grabs"], r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func tuneScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, arg := range args {
		key, list, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected param=v1,v2,... got %q", arg)
		}
		var values []float64
		for _, field := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			values = append(values, v)
		}
		names = append(names, key)
		ranges = append(ranges, values)
	}

	goal := optim.Maximize
	if minimize {
		goal = optim.Minimize
	}
	search, err := optim.NewGridSearch(names, ranges, goal, log)
	if err != nil {
		return err
	}

	fmt.Printf("tuning %s for %s\n", name, metricName)
	best, value, err := search.Search(context.Background(), cfg, metricName)
	if err != nil {
		return err
	}

	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	fmt.Printf("%s: %.6f\n", metricName, value)
	return nil
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
