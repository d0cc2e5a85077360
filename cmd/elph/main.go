package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/PuffyDucks/elph/internal/config"
	"github.com/PuffyDucks/elph/internal/engine"
	"github.com/PuffyDucks/elph/internal/storage"
	"github.com/PuffyDucks/elph/internal/tui"
)

var (
	dataDir      string
	configFile   string
	preset       string
	realizations int
	workers      int
	seed         int64
	temp         float64
	gamma        float64
	hole         bool
	legacyPBC    bool
	sweepTemp    string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "elph",
		Short: "charge-carrier mobility from transient localization theory",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".elph", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [config-file]",
		Short: "run a mobility calculation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMobility,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&sweepTemp, "sweep-temp", "", "temperature sweep lo:hi:steps, e.g. 200:400:5")

	liveCmd := &cobra.Command{
		Use:   "live [config-file]",
		Short: "run with a live progress view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "plot Monte Carlo convergence",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in material presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			if len(names) == 0 {
				fmt.Println("no presets")
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, showCmd, exportCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "parameter file (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in material preset")
	cmd.Flags().IntVar(&realizations, "realizations", config.DefaultRealizations, "Monte Carlo realizations")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel workers")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&temp, "temp", config.DefaultTemp, "temperature (K)")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultInverseHTau, "inverse scattering time hbar/tau (eV)")
	cmd.Flags().BoolVar(&hole, "hole", true, "hole transport (electron if false)")
	cmd.Flags().BoolVar(&legacyPBC, "legacy-pbc", false, "reproduce the historic whole-array boundary correction")
}

// resolveConfig builds the run configuration from preset, file, and flags,
// in that precedence order (explicit flags win).
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	path := configFile
	if len(args) == 1 {
		path = args[0]
	}

	var cfg *config.Config
	switch {
	case path != "":
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		return nil, fmt.Errorf("need a config file or --preset")
	}

	if cmd.Flags().Changed("realizations") {
		cfg.Realizations = realizations
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("temp") {
		cfg.Temp = temp
	}
	if cmd.Flags().Changed("gamma") {
		cfg.InverseHTau = gamma
	}
	if cmd.Flags().Changed("hole") {
		cfg.IsHole = hole
	}
	if cmd.Flags().Changed("legacy-pbc") {
		cfg.LegacyPBC = legacyPBC
	}
	if cfg.Seed == 0 || cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runMobility(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if sweepTemp != "" {
		return runSweep(ctx, cfg)
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running %d realizations over %d sites...\n", eng.Realizations(), eng.Sites())
	run, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runName(), cfg, run)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", run.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n\n", runID)
	printResult(run)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}
	run, err := tui.Run(ctx, eng)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runName(), cfg, run)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n\n", runID)
	printResult(run)
	return nil
}

// runSweep repeats the average across a temperature grid.
func runSweep(ctx context.Context, base *config.Config) error {
	lo, hi, steps, err := parseSweep(sweepTemp)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T(K)\tLX2\tLY2\tMU_X\tMU_Y\tMU_AVG")
	for i := 0; i < steps; i++ {
		t := lo
		if steps > 1 {
			t = lo + (hi-lo)*float64(i)/float64(steps-1)
		}
		cfg := *base
		cfg.Temp = t

		eng, err := engine.New(&cfg)
		if err != nil {
			return err
		}
		run, err := eng.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%.1f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			t, run.AvgLx2, run.AvgLy2, run.MobilityX, run.MobilityY, run.MobilityAvg)
	}
	return w.Flush()
}

func parseSweep(spec string) (lo, hi float64, steps int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("sweep spec %q: want lo:hi:steps", spec)
	}
	if lo, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("sweep spec %q: %w", spec, err)
	}
	if hi, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("sweep spec %q: %w", spec, err)
	}
	if steps, err = strconv.Atoi(parts[2]); err != nil || steps < 1 {
		return 0, 0, 0, fmt.Errorf("sweep spec %q: steps must be a positive integer", spec)
	}
	return lo, hi, steps, nil
}

func runName() string {
	if preset != "" {
		return preset
	}
	return "mobility"
}

func printResult(run *engine.Run) {
	fmt.Println(titleStyle.Render("mobility result"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("<Lx2>"),
		valueStyle.Render(fmt.Sprintf("%.6f ± %.6f", run.AvgLx2, run.ErrLx2)))
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("<Ly2>"),
		valueStyle.Render(fmt.Sprintf("%.6f ± %.6f", run.AvgLy2, run.ErrLy2)))
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("mu_x"),
		valueStyle.Render(fmt.Sprintf("%.6f cm2/Vs", run.MobilityX)))
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("mu_y"),
		valueStyle.Render(fmt.Sprintf("%.6f cm2/Vs", run.MobilityY)))
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("mu_avg"),
		valueStyle.Render(fmt.Sprintf("%.6f cm2/Vs", run.MobilityAvg)))
	w.Flush()
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
	fmt.Fprintln(w, "ID\tTIME\tSITES\tREAL\tMU_AVG\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.2fs\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Sites,
			run.Realizations,
			run.Result.MobilityAvg,
			run.ElapsedSec,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(meta.ID))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "time\t%s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "sites\t%d\n", meta.Sites)
	fmt.Fprintf(w, "realizations\t%d\n", meta.Realizations)
	if meta.Config != nil {
		fmt.Fprintf(w, "temp\t%.1f K\n", meta.Config.Temp)
		fmt.Fprintf(w, "gamma\t%g eV\n", meta.Config.InverseHTau)
		fmt.Fprintf(w, "carrier\t%s\n", carrier(meta.Config.IsHole))
		fmt.Fprintf(w, "seed\t%d\n", meta.Config.Seed)
	}
	fmt.Fprintf(w, "<Lx2>\t%.6f ± %.6f\n", meta.Result.AvgLx2, meta.ErrLx2)
	fmt.Fprintf(w, "<Ly2>\t%.6f ± %.6f\n", meta.Result.AvgLy2, meta.ErrLy2)
	fmt.Fprintf(w, "mu_x\t%.6f cm2/Vs\n", meta.Result.MobilityX)
	fmt.Fprintf(w, "mu_y\t%.6f cm2/Vs\n", meta.Result.MobilityY)
	fmt.Fprintf(w, "mu_avg\t%.6f cm2/Vs\n", meta.Result.MobilityAvg)
	return w.Flush()
}

func carrier(isHole bool) string {
	if isHole {
		return "hole"
	}
	return "electron"
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\nrealizations: %d\n\n", meta.ID, len(samples))

	var sumX, sumY float64
	meanX := make([]float64, len(samples))
	meanY := make([]float64, len(samples))
	for i, s := range samples {
		sumX += s.Lx2
		sumY += s.Ly2
		meanX[i] = sumX / float64(i+1)
		meanY[i] = sumY / float64(i+1)
	}

	fmt.Println(asciigraph.Plot(meanX,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("running mean Lx2"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(meanY,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("running mean Ly2"),
	))
	return nil
}
