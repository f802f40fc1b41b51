package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/rcj-soccer/robocup/internal/log"
	"github.com/rcj-soccer/robocup/pkg/config"
	"github.com/rcj-soccer/robocup/pkg/filter"
	"github.com/rcj-soccer/robocup/pkg/hardware"
	"github.com/rcj-soccer/robocup/pkg/program"
)

var (
	sim         bool
	programName string
	simLogFile  string
	difference  float64
	outliers    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "robocup",
		Short:        "RoboCup Junior soccer robot controller",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&sim, "sim", false, "simulate the brick in the terminal with dummy devices")
	rootCmd.PersistentFlags().StringVar(&simLogFile, "sim-log", "robocup-sim.log", "log file while simulating")

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "show the start-up menu on the brick",
		Args:  cobra.NoArgs,
		RunE:  runMenu,
	}
	menuCmd.Flags().StringVar(&programName, "program", "seek", "program started by Run Program ("+strings.Join(program.Names(), ", ")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a program until a button is pressed",
		Args:  cobra.NoArgs,
		RunE:  runProgram,
	}
	runCmd.Flags().StringVar(&programName, "program", "seek", "program to run ("+strings.Join(program.Names(), ", ")+")")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "list which ports have a device attached",
		Args:  cobra.NoArgs,
		RunE:  printPorts,
	}

	traceCmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "plot sensor readings from FILE (one per line) against the filtered values",
		Args:  cobra.ExactArgs(1),
		RunE:  traceReadings,
	}
	traceCmd.Flags().Float64Var(&difference, "difference", 200, "outlier threshold")
	traceCmd.Flags().IntVar(&outliers, "outliers", 15, "outliers before the filter resets")

	rootCmd.AddCommand(menuCmd, runCmd, portsCmd, traceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads config and opens the hardware (or the simulator), starting
// its background loops if start is set. The returned context is cancelled on
// SIGINT/SIGTERM.
func setup(start bool) (context.Context, context.CancelFunc, config.Config, hardware.Interface, error) {
	e, err := config.LoadEnv()
	if err != nil {
		return nil, nil, config.Config{}, nil, err
	}
	logCfg := log.Config{Level: e.LogLevel, Format: e.LogFormat}
	if sim {
		f, err := os.Create(simLogFile)
		if err != nil {
			return nil, nil, config.Config{}, nil, err
		}
		logCfg.Output = f
	}
	if err := log.Setup(logCfg); err != nil {
		return nil, nil, config.Config{}, nil, err
	}

	cfg, err := config.Load(e.ConfigFile)
	if err != nil {
		return nil, nil, cfg, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	registerSignalHandlers(cancel)

	var hw hardware.Interface
	if sim {
		hw, _ = hardware.NewSim(cfg)
	} else {
		hw, err = hardware.New(ctx, cfg, e)
		if err != nil {
			cancel()
			return nil, nil, cfg, nil, err
		}
	}
	if start {
		hw.Start(ctx)
	}
	return ctx, cancel, cfg, hw, nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, hw, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer hw.Shutdown()

	p, err := program.Lookup(programName, cfg)
	if err != nil {
		return err
	}
	r := hw.Robot()
	_ = r.Color("ORANGE")
	var ports strings.Builder
	_ = r.PrintPorts(&ports)
	log.Info("Ports", "wired", ports.String())

	m, err := program.NewMenu(ctx, r, hw.Display(), cfg, p)
	if err != nil {
		return err
	}
	if err := m.Run(ctx); err != nil {
		return err
	}
	_ = r.CoastMotors()
	return r.Color("GREEN")
}

func runProgram(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, hw, err := setup(true)
	if err != nil {
		return err
	}
	defer cancel()
	defer hw.Shutdown()

	p, err := program.Lookup(programName, cfg)
	if err != nil {
		return err
	}
	log.Info("Running program", "program", programName)
	return p(ctx, hw.Robot())
}

func printPorts(cmd *cobra.Command, args []string) error {
	_, cancel, _, hw, err := setup(false)
	if err != nil {
		return err
	}
	defer cancel()
	defer hw.Shutdown()
	return hw.Robot().PrintPorts(cmd.OutOrStdout())
}

func traceReadings(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := readReadings(f)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("no readings in %s", args[0])
	}
	filtered := applyFilter(filter.New(difference, outliers), raw)

	graph := asciigraph.PlotMany([][]float64{raw, filtered},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Green),
		asciigraph.Caption(fmt.Sprintf("raw (red) vs filtered (green), difference=%v outliers=%d", difference, outliers)),
	)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), graph)
	return err
}

// readReadings parses one number per line, skipping blank lines and
// # comments.
func readReadings(r io.Reader) ([]float64, error) {
	var values []float64
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, v)
	}
	return values, scanner.Err()
}

func applyFilter(s *filter.Sensor, raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = s.Value(v)
	}
	return out
}

func registerSignalHandlers(cancelFunc context.CancelFunc) {
	// Hook Ctrl-C to cause shut down.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Info("Signal", "signal", s.String())
		cancelFunc()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
