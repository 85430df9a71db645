package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/npillmayer/schuko/tracing"
	"github.com/san-kum/bezspring/internal/bezier"
	"github.com/san-kum/bezspring/internal/config"
	"github.com/san-kum/bezspring/internal/gui"
	"github.com/san-kum/bezspring/internal/physics"
	"github.com/san-kum/bezspring/internal/scenario"
	"github.com/san-kum/bezspring/internal/storage"
	"github.com/san-kum/bezspring/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	traceLevel string
	dataDir    string
	backend    string
	themeName  string

	width          float64
	height         float64
	frameRate      int
	integrator     string
	springConstant float64
	damping        float64
	mouseInfluence float64

	steps    int
	frameIdx int
	trail    bool
	outFile  string
)

var traceKeys = []string{
	"bezspring.sim", "bezspring.config", "bezspring.scenario",
	"bezspring.storage", "bezspring.viz", "bezspring.gui",
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bezspring",
		Short: "spring-driven bezier curve playground",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setTraceLevel(traceLevel)
		},
		RunE: runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "physics preset")
	pf.StringVar(&traceLevel, "trace", "error", "trace level: error, info or debug")
	pf.StringVar(&dataDir, "data", config.DefaultStoreDir, "data directory")
	pf.StringVar(&backend, "store", config.DefaultStoreBackend, "run store backend: file or sqlite")
	pf.StringVar(&themeName, "theme", viz.ThemeNight.Name, "terminal panel theme: "+strings.Join(viz.ThemeNames(), ", "))
	pf.Float64Var(&width, "width", config.DefaultWidth, "viewport width")
	pf.Float64Var(&height, "height", config.DefaultHeight, "viewport height")
	pf.IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")
	pf.StringVar(&integrator, "integrator", physics.IntegratorTick, "integrator: tick, fixed or harmonic")
	pf.Float64Var(&springConstant, "k", physics.DefaultSpringConstant, "spring constant")
	pf.Float64Var(&damping, "damping", physics.DefaultDamping, "velocity damping")
	pf.Float64Var(&mouseInfluence, "influence", physics.DefaultMouseInfluence, "mouse influence scale")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive curve in the terminal",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive curve in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			loop, err := cfg.NewLoop()
			if err != nil {
				return err
			}
			gui.Run(loop, cfg.FrameRate)
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a scenario headless and record it",
		Long:  "run a builtin scenario (" + fmt.Sprint(scenario.BuiltinNames()) + ") or a scenario yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [preset1] [preset2] ...",
		Short: "run a scenario against several presets",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list builtin scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFRAMES\tEVENTS\tDESCRIPTION")
			for _, name := range scenario.BuiltinNames() {
				sc, err := scenario.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", sc.Name, sc.Frames, len(sc.Events), sc.Description)
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tK\tDAMPING\tINFLUENCE\tINTEG")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				integ := p.Integrator
				if integ == "" {
					integ = physics.IntegratorTick
				}
				fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.2f\t%s\n", name, p.SpringConstant, p.Damping, p.MouseInfluence, integ)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	sampleCmd := &cobra.Command{
		Use:   "sample x0 y0 x1 y1 x2 y2 x3 y3",
		Short: "print the sampled curve and tangents as json",
		Args:  cobra.ExactArgs(8),
		RunE:  sampleCurve,
	}
	sampleCmd.Flags().IntVar(&steps, "steps", bezier.DefaultSteps, "polyline segments")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot control point motion of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and frames to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a recorded frame to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame index, negative counts from the end")
	exportSVGCmd.Flags().BoolVar(&trail, "trail", false, "overlay control point trails up to the frame")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, compareCmd, scenariosCmd, presetsCmd, initConfigCmd,
		sampleCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setTraceLevel(level string) error {
	var set func(tracing.Trace)
	switch level {
	case "error", "":
		set = func(t tracing.Trace) { t.SetTraceLevel(tracing.LevelError) }
	case "info":
		set = func(t tracing.Trace) { t.SetTraceLevel(tracing.LevelInfo) }
	case "debug":
		set = func(t tracing.Trace) { t.SetTraceLevel(tracing.LevelDebug) }
	default:
		return fmt.Errorf("unknown trace level: %s", level)
	}
	for _, key := range traceKeys {
		set(tracing.Select(key))
	}
	return nil
}

// loadConfig layers defaults, the config file, the preset and explicitly
// set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if preset != "" {
		if err := cfg.ApplyPresetByName(preset); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Viewport.Width = width
	}
	if flags.Changed("height") {
		cfg.Viewport.Height = height
	}
	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("integrator") {
		cfg.Physics.Integrator = integrator
	}
	if flags.Changed("k") {
		cfg.Physics.SpringConstant = springConstant
	}
	if flags.Changed("damping") {
		cfg.Physics.Damping = damping
	}
	if flags.Changed("influence") {
		cfg.Physics.MouseInfluence = mouseInfluence
	}
	if flags.Changed("data") {
		cfg.Store.Dir = dataDir
	}
	if flags.Changed("store") {
		cfg.Store.Backend = backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cmd *cobra.Command) (storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.Open(cfg.Store.Backend, cfg.Store.Dir)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	loop, err := cfg.NewLoop()
	if err != nil {
		return err
	}

	m, err := viz.NewModel(loop, cfg.CellScale, cfg.FrameRate).WithTheme(themeName)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, viz.Options()...)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	scCfg, err := sc.Config(cfg)
	if err != nil {
		return err
	}

	st, err := storage.Open(cfg.Store.Backend, cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := storage.NewRecorder()
	fmt.Printf("running %s scenario...\n", sc.Name)
	start := time.Now()

	res, err := scenario.RunWith(ctx, sc, cfg, rec)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := &storage.RunMetadata{
		Scenario:   sc.Name,
		Width:      res.Last.Width,
		Height:     res.Last.Height,
		FPS:        scCfg.FrameRate,
		Integrator: scCfg.Physics.Integrator,
		Params:     res.Last.Params,
		Metrics:    res.Metrics,
	}
	runID, err := st.Save(meta, rec.Records())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", res.Frames)
	printMetrics(os.Stdout, res.Metrics)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.Resolve(args[0])
	if err != nil {
		return err
	}
	variants, err := scenario.PresetVariants(cfg, args[1:]...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := scenario.NewEnsemble(sc, variants).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("comparing presets on %s (%d frames, %v)\n\n", sc.Name, sc.Frames, time.Since(start).Round(time.Millisecond))

	names := slices.Sorted(maps.Keys(results[0].Metrics))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "preset\t")
	for _, n := range names {
		fmt.Fprintf(w, "%s\t", n)
	}
	fmt.Fprintln(w)
	for _, res := range results {
		fmt.Fprintf(w, "%s\t", res.Name)
		for _, n := range names {
			fmt.Fprintf(w, "%.4f\t", res.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

type sampleOutput struct {
	Curve    [][2]float64    `json:"curve"`
	Tangents []sampleTangent `json:"tangents"`
}

type sampleTangent struct {
	T  float64 `json:"t"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func sampleCurve(cmd *cobra.Command, args []string) error {
	var p [4]bezier.Point
	for i := range p {
		x, err := strconv.ParseFloat(args[2*i], 64)
		if err != nil {
			return fmt.Errorf("x%d: %w", i, err)
		}
		y, err := strconv.ParseFloat(args[2*i+1], 64)
		if err != nil {
			return fmt.Errorf("y%d: %w", i, err)
		}
		p[i] = bezier.Pt(x, y)
	}

	out := sampleOutput{}
	for pt := range bezier.Sample(p[0], p[1], p[2], p[3], steps) {
		out.Curve = append(out.Curve, [2]float64{pt.X, pt.Y})
	}
	for tg := range bezier.Tangents(p[0], p[1], p[2], p[3], bezier.DefaultTangentParams) {
		out.Tangents = append(out.Tangents, sampleTangent{T: tg.T, X: tg.Pos.X, Y: tg.Pos.Y, DX: tg.Dir.X, DY: tg.Dir.Y})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
