package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

const defaultPreset = "solar"

var (
	settingsFile string
	dataDir      string
	logLevel     string
	// System file, overrides the preset argument
	systemFile string
	// Stepper overrides
	dtDays       float64
	durationDays float64
	force        string
	ordering     string
	scheme       string
	guard        bool
	sampleEvery  int
	// Output
	svgOut string
	noSave bool
	// Views
	sizeAU     float64
	centerBody string
	// Tuning
	tuneDts    []float64
	tuneMetric string
	tuneTol    float64

	settings *config.Settings
	logger   = zerolog.Nop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "gravsim",
		Short:             "n-body gravity simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default gravsim.yaml in $HOME/.gravsim or .)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSystemFlags(runCmd)
	runCmd.Flags().StringVar(&svgOut, "svg", "", "also write orbit trails to this svg file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSystemFlags(liveCmd)
	liveCmd.Flags().Float64Var(&sizeAU, "size-au", 0, "view width in AU (default from settings)")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "watch a simulation in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSystemFlags(guiCmd)
	guiCmd.Flags().Float64Var(&sizeAU, "size-au", 0, "view width in AU (default from settings)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance from the origin per body",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital periods and radius statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&centerBody, "center", "", "body the others orbit (default first body)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a run's trajectory as csv to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a run and its trajectory as json to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's orbits as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().Float64Var(&sizeAU, "size-au", 0, "view width in AU (default fit)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "measure step throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [variant...]",
		Short: "compare force laws, orderings and schemes",
		Long: `compare runs the same system under several stepper variants.
A variant is a slash separated list of registry names, for example
"two-phase", "as-built/sequential" or "newtonian/two-phase/taylor".
Unnamed parts keep the system's setting. With no variants every
ordering is compared. With --system every argument is a variant.`,
		RunE: compareVariants,
	}
	addSystemFlags(compareCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "find the largest step keeping a metric within tolerance",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tunePreset,
	}
	addSystemFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&tuneDts, "dts", []float64{1, 0.5, 0.1, 0.05, 0.01}, "step sizes to try, in days")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "energy_drift", "metric to bound")
	tuneCmd.Flags().Float64Var(&tuneTol, "tol", 1e-6, "largest acceptable metric value")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd, compareCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSystemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&systemFile, "system", "", "system file (yaml), overrides the preset")
	cmd.Flags().Float64Var(&dtDays, "dt", config.DefaultDtDays, "step in days")
	cmd.Flags().Float64Var(&durationDays, "days", config.DefaultDurationDays, "duration in days")
	cmd.Flags().StringVar(&force, "force", config.DefaultForce, "force law (newtonian, as-built)")
	cmd.Flags().StringVar(&ordering, "ordering", config.DefaultOrdering, "ordering (sequential, two-phase)")
	cmd.Flags().StringVar(&scheme, "scheme", config.DefaultScheme, "integration scheme (euler, taylor)")
	cmd.Flags().BoolVar(&guard, "guard", false, "stop on non-finite acceleration")
	cmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record every n-th step")
}

// setup loads settings and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	v := config.NewViper()
	if settingsFile != "" {
		v.SetConfigFile(settingsFile)
	}
	if err := v.BindPFlag("data_dir", cmd.Flags().Lookup("data")); err != nil {
		return err
	}
	if err := v.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}

	s, err := config.LoadSettings(v)
	if err != nil {
		return err
	}
	settings = s

	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", settings.LogLevel, err)
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// loadSystem resolves the system for a command: --system wins over the
// preset argument, and explicitly set flags win over both.
func loadSystem(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if systemFile != "" {
		c, err := config.Load(systemFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load system: %w", err)
		}
		cfg = c
	} else {
		name := defaultPreset
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("preset %q: %w (available: %v)", name, dynamo.ErrUnknownName, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Stepper.DtDays = dtDays
	}
	if flags.Changed("days") {
		cfg.DurationDays = durationDays
	}
	if flags.Changed("force") {
		cfg.Stepper.Force = force
	}
	if flags.Changed("ordering") {
		cfg.Stepper.Ordering = ordering
	}
	if flags.Changed("scheme") {
		cfg.Stepper.Scheme = scheme
	}
	if flags.Changed("guard") {
		cfg.Stepper.Guard = guard
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry()).WithLogger(logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	var trails *export.Trails
	if svgOut != "" {
		trails = export.NewTrails(cfg.SampleEvery)
		exp.GetSimulator().AddObserver(trails)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("system:   %s (%d bodies)\n", cfg.Name, exp.System().Len())
	fmt.Printf("stepper:  %s / %s / %s, dt %.4f d\n", cfg.Stepper.Force, cfg.Stepper.Ordering, cfg.Stepper.Scheme, cfg.Stepper.DtDays)
	fmt.Printf("steps:    %d in %v\n\n", result.StepsTaken, elapsed.Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.3e\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, e := range result.Errors {
		fmt.Printf("\nstopped: %v\n", e)
	}

	if trails != nil {
		if err := os.WriteFile(svgOut, []byte(export.OrbitsSVG(trails, settings.ScreenSize, 0)), 0644); err != nil {
			return err
		}
		fmt.Printf("\norbits written to %s\n", svgOut)
	}

	if noSave {
		return nil
	}

	st := storage.New(settings.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		System:   cfg.Name,
		Dt:       cfg.Dt(),
		Duration: cfg.Duration(),
		Force:    cfg.Stepper.Force,
		Ordering: cfg.Stepper.Ordering,
		Scheme:   cfg.Stepper.Scheme,
	}, result)
	if err != nil {
		return err
	}
	logger.Info().Str("run_id", runID).Str("dir", settings.DataDir).Msg("run saved")
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func newSession(cmd *cobra.Command, args []string) (*config.Config, *sim.Session, error) {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	sys, err := cfg.BuildSystem()
	if err != nil {
		return nil, nil, err
	}
	stepper, err := experiment.NewRegistry().Stepper(cfg.Stepper)
	if err != nil {
		return nil, nil, err
	}
	return cfg, sim.NewSession(sys, stepper), nil
}

func viewSizeAU() float64 {
	if sizeAU > 0 {
		return sizeAU
	}
	return settings.ScreenSizeAU
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, session, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(session, viz.Options{
		Title:         cfg.Name,
		StepsPerFrame: settings.StepsPerFrame,
		FPS:           settings.FPS,
		SizeAU:        viewSizeAU(),
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	_, session, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(session, gui.Options{
		Size:          settings.ScreenSize,
		SizeAU:        viewSizeAU(),
		FPS:           settings.FPS,
		StepsPerFrame: settings.StepsPerFrame,
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tDAYS\tDT\tFORCE\tORDERING\tSCHEME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.0fs\t%s\t%s\t%s\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration/dynamo.SecondsPerDay,
			run.Dt,
			run.Force,
			run.Ordering,
			run.Scheme,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Trajectory, error) {
	st := storage.New(settings.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(traj.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, traj, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d over %.1f days\n\n", len(traj.Times), traj.Times[len(traj.Times)-1]/dynamo.SecondsPerDay)

	maxPlots := 6
	for i, name := range traj.Names {
		if i == maxPlots {
			fmt.Printf("(%d more bodies not shown)\n", len(traj.Names)-maxPlots)
			break
		}

		data := make([]float64, len(traj.Positions))
		for k, row := range traj.Positions {
			data[k] = r3.Norm(row[i]) / dynamo.AU
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+": distance from origin (AU)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	center := 0
	if centerBody != "" {
		if center = traj.Index(centerBody); center < 0 {
			return fmt.Errorf("body %q: %w", centerBody, dynamo.ErrUnknownName)
		}
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("center: %s\n\n", traj.Names[center])

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tPERIOD (d)\tMEAN R (AU)\tSTD R (AU)\tMIN R\tMAX R\tECC")

	for i, name := range traj.Names {
		if i == center {
			continue
		}

		period := "-"
		if p, err := analysis.OrbitalPeriod(traj.Times, traj.Positions, i, center); err == nil {
			period = fmt.Sprintf("%.1f", p/dynamo.SecondsPerDay)
		}

		r, err := analysis.RadiusStats(traj.Positions, i, center)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.2e\t%.4f\t%.4f\t%.4f\n",
			name, period,
			r.Mean/dynamo.AU, r.StdDev/dynamo.AU, r.Min/dynamo.AU, r.Max/dynamo.AU,
			r.Eccentricity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	// spectrum of the first orbiting body
	body := 1
	if center == 1 || len(traj.Names) < 2 {
		body = 0
	}
	if body != center {
		xs := make([]float64, len(traj.Positions))
		for k, row := range traj.Positions {
			xs[k] = (row[body].X - row[center].X) / dynamo.AU
		}
		ps := analysis.PowerSpectrum(xs)
		if len(ps) > 4 {
			fmt.Println()
			fmt.Println(asciigraph.Plot(ps[1:],
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum: "+traj.Names[body]+" x offset"),
			))
		}
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, traj)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, traj)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.OrbitsSVG(export.TrailsFromPositions(traj.Names, traj.Positions), settings.ScreenSize, sizeAU)
	if svgOut == "" {
		_, err := fmt.Print(svg)
		return err
	}
	return os.WriteFile(svgOut, []byte(svg), 0644)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tUNITS\tDAYS\tORDERING\tNAMES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		bodies := make([]string, len(cfg.Bodies))
		for i, b := range cfg.Bodies {
			bodies[i] = b.Name
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.0f\t%s\t%s\n",
			name, len(cfg.Bodies), cfg.Units, cfg.DurationDays, cfg.Stepper.Ordering, strings.Join(bodies, ", "))
	}
	return w.Flush()
}

func benchPreset(cmd *cobra.Command, args []string) error {
	name := defaultPreset
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("preset %q: %w", name, dynamo.ErrUnknownName)
	}

	registry := experiment.NewRegistry()
	dts := []float64{0.1, 0.01, 0.001}
	const days = 30.0

	fmt.Printf("benchmarking %s (%d bodies, %.0f days)\n\n", name, len(base.Bodies), days)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDERING\tDT (d)\tSTEPS\tTIME\tSTEPS/SEC\tENERGY_DRIFT")

	for _, ord := range registry.ListOrderings() {
		for _, dt := range dts {
			cfg := base.Clone()
			cfg.Stepper.Ordering = ord
			cfg.Stepper.DtDays = dt

			sys, err := cfg.BuildSystem()
			if err != nil {
				return err
			}
			stepper, err := registry.Stepper(cfg.Stepper)
			if err != nil {
				return err
			}
			simulator := sim.New(stepper).WithLogger(logger)

			start := time.Now()
			result, err := simulator.Run(context.Background(), sys, sim.Config{
				Duration:    days * dynamo.SecondsPerDay,
				SampleEvery: math.MaxInt32,
			})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%.3f\t%d\t%v\t%.0f\t%.2e\n",
				ord, dt, result.StepsTaken, elapsed.Round(time.Microsecond), stepsPerSec, result.EnergyDrift)
		}
	}

	return w.Flush()
}

// parseVariant applies a slash separated list of registry names to sc.
func parseVariant(registry *experiment.Registry, variant string, sc config.StepperConfig) (config.StepperConfig, error) {
	for _, part := range strings.Split(variant, "/") {
		switch {
		case contains(registry.ListLaws(), part):
			sc.Force = part
		case contains(registry.ListOrderings(), part):
			sc.Ordering = part
		case contains(registry.ListSchemes(), part):
			sc.Scheme = part
		default:
			return sc, fmt.Errorf("variant %q: %q: %w", variant, part, dynamo.ErrUnknownName)
		}
	}
	return sc, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// splitCompareArgs separates the preset name from the variants. A system
// file takes the preset's place, leaving every argument a variant.
func splitCompareArgs(args []string, fromFile bool) (preset, variants []string) {
	if fromFile || len(args) == 0 {
		return nil, args
	}
	return args[:1], args[1:]
}

func compareVariants(cmd *cobra.Command, args []string) error {
	presetArgs, variants := splitCompareArgs(args, systemFile != "")
	base, err := loadSystem(cmd, presetArgs)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if len(variants) == 0 {
		variants = registry.ListOrderings()
	}

	ens := sim.NewEnsemble(runtime.NumCPU())
	for _, v := range variants {
		sc, err := parseVariant(registry, v, base.Stepper)
		if err != nil {
			return err
		}
		cfg := base.Clone()
		cfg.Stepper = sc

		exp := experiment.New(cfg, registry).WithLogger(logger)
		if err := exp.Setup(); err != nil {
			return err
		}
		job, err := exp.Job(sc.Force + "/" + sc.Ordering + "/" + sc.Scheme)
		if err != nil {
			return err
		}
		ens.Add(job)
	}

	fmt.Printf("comparing variants for %s (dt=%.4f d, duration=%.0f d)\n\n", base.Name, base.Stepper.DtDays, base.DurationDays)
	fmt.Printf("%-32s  %-12s  %-12s  %-12s  %-10s\n", "variant", "energy", "momentum", "radius", "time_ms")
	fmt.Println(strings.Repeat("-", 86))

	for _, out := range ens.Run(cmd.Context()) {
		if out.Err != nil {
			fmt.Printf("%-32s  error: %v\n", out.Label, out.Err)
			continue
		}
		m := out.Result.Metrics
		fmt.Printf("%-32s  %12.2e  %12.2e  %12.2e  %10.2f\n", out.Label,
			m["energy_drift"], m["momentum_drift"], m["radius_drift"],
			float64(out.Elapsed.Microseconds())/1000)
		for _, e := range out.Result.Errors {
			fmt.Printf("%-32s  stopped: %v\n", "", e)
		}
	}

	return nil
}

func tunePreset(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	var variants []config.StepperConfig
	for _, ord := range registry.ListOrderings() {
		for _, sch := range registry.ListSchemes() {
			sc := cfg.Stepper
			sc.Ordering = ord
			sc.Scheme = sch
			variants = append(variants, sc)
		}
	}

	search := optim.NewGridSearch(tuneDts, variants, runtime.NumCPU()).WithLogger(logger)
	best, all, err := search.Search(cmd.Context(), cfg, registry, tuneMetric, tuneTol)
	if err != nil {
		return err
	}

	fmt.Printf("tuning %s over %.0f days: %s <= %.1e\n\n", cfg.Name, cfg.DurationDays, tuneMetric, tuneTol)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CANDIDATE\tSTEPS\tSCORE\tOK")
	for _, c := range all {
		status := "yes"
		if c.Err != nil {
			status = c.Err.Error()
		} else if !c.Within(tuneTol) {
			status = "no"
		}
		fmt.Fprintf(w, "%s\t%d\t%.3e\t%s\n", c.Label(), c.Steps, c.Score, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		fmt.Println("\nno candidate within tolerance")
		return nil
	}
	fmt.Printf("\nbest: %s (%d steps)\n", best.Label(), best.Steps)
	return nil
}
