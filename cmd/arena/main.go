package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/log"
	"github.com/rcrowley/go-metrics"
	"github.com/urfave/cli"

	"github.com/llxisdsh/arena"
	"github.com/llxisdsh/arena/internal/config"
	"github.com/llxisdsh/arena/internal/jsonutil"
	"github.com/llxisdsh/arena/internal/logger"
)

const defaultConfig = "~/.arena.yaml"

var (
	app    = newApp()
	runLog = logger.New("run")
)

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	a := cli.NewApp()
	a.Name = "arena"
	a.Usage = "Contend on shared counters from concurrent workers"
	a.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "enable debug log",
		},
	}
	a.Before = func(c *cli.Context) error {
		if c.GlobalBool("debug") {
			logger.SetLevel(log.DEBUG)
		}
		return nil
	}
	workerFlags := []cli.Flag{
		cli.StringFlag{
			Name:  "guard, g",
			Value: string(arena.GuardMutex),
			Usage: "guard kind: " + guardKinds(),
		},
		cli.IntFlag{
			Name:  "workers, w",
			Value: 2,
			Usage: "number of workers",
		},
		cli.IntFlag{
			Name:  "iterations, n",
			Value: 100,
			Usage: "increments per worker",
		},
		cli.DurationFlag{
			Name:  "delay",
			Value: 10 * time.Millisecond,
			Usage: "sleep before each increment",
		},
	}
	a.Commands = []cli.Command{
		{
			Name:   "value",
			Usage:  "increment one shared integer",
			Flags:  workerFlags,
			Action: handleValue,
		},
		{
			Name:   "array",
			Usage:  "increment every cell of a shared array",
			Flags:  workerFlags,
			Action: handleArray,
		},
		{
			Name:  "race",
			Usage: "increment one shared integer without a guard and count lost updates",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "workers, w", Value: 8},
				cli.IntFlag{Name: "iterations, n", Value: 10000},
				cli.IntFlag{Name: "trials, t", Value: 10},
			},
			Action: handleRace,
		},
		{
			Name:  "pool",
			Usage: "cube 0..size-1 on a bounded set of workers",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "workers, w", Usage: "0 means one per CPU"},
				cli.IntFlag{Name: "size", Value: 10},
			},
			Action: handlePool,
		},
		{
			Name:  "spawn",
			Usage: "start one busy worker per CPU and join them",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "workers, w", Usage: "0 means one per CPU"},
			},
			Action: handleSpawn,
		},
		{
			Name:  "run",
			Usage: "run the scenarios of a config file",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Value: defaultConfig,
					Usage: "scenario file",
				},
				cli.BoolFlag{
					Name:  "verbose, v",
					Usage: "print a report with guard metrics",
				},
			},
			Action: handleRun,
		},
	}
	return a
}

func guardKinds() string {
	var names []string
	for _, k := range arena.GuardKinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func workers[T arena.Number](c *cli.Context, target arena.Target) ([]arena.Worker[T], error) {
	if err := checkCounts(c); err != nil {
		return nil, err
	}
	return arena.Replicate(c.Int("workers"), arena.Worker[T]{
		Iterations: c.Int("iterations"),
		Delay:      c.Duration("delay"),
		Target:     target,
		Amount:     1,
	}), nil
}

func checkCounts(c *cli.Context) error {
	if n := c.Int("workers"); n < 0 {
		return fmt.Errorf("invalid workers: %d", n)
	}
	if n := c.Int("iterations"); n < 0 {
		return fmt.Errorf("invalid iterations: %d", n)
	}
	return nil
}

func handleValue(c *cli.Context) error {
	kind, err := arena.ParseGuardKind(c.String("guard"))
	if err != nil {
		return err
	}
	ws, err := workers[int64](c, 0)
	if err != nil {
		return err
	}
	a := arena.NewWithOptions([]int64{0}, arena.WithGuardKind(kind))
	fmt.Fprintln(c.App.Writer, "Initial Value:", a.Value(0))
	arena.RunAll(a, ws...)
	fmt.Fprintln(c.App.Writer, "Final Value:", a.Value(0))
	return nil
}

func handleArray(c *cli.Context) error {
	kind, err := arena.ParseGuardKind(c.String("guard"))
	if err != nil {
		return err
	}
	ws, err := workers[float64](c, arena.All)
	if err != nil {
		return err
	}
	a := arena.NewWithOptions([]float64{0, 100, 200}, arena.WithGuardKind(kind))
	fmt.Fprintln(c.App.Writer, "Array at beginning:", a.Snapshot())
	arena.RunAll(a, ws...)
	fmt.Fprintln(c.App.Writer, "Array at end:", a.Snapshot())
	return nil
}

func handleRace(c *cli.Context) error {
	if err := checkCounts(c); err != nil {
		return err
	}
	n := c.Int("workers")
	iterations := c.Int("iterations")
	want := int64(n * iterations)
	var lost int
	for i := range c.Int("trials") {
		a := arena.NewWithOptions([]int64{0}, arena.WithGuardKind(arena.GuardNone))
		arena.RunAll(a, arena.Replicate(n, arena.Worker[int64]{Iterations: iterations, Amount: 1})...)
		got := a.Value(0)
		if got != want {
			lost++
		}
		fmt.Fprintf(c.App.Writer, "trial %d: %d (want %d)\n", i, got, want)
	}
	fmt.Fprintf(c.App.Writer, "%d of %d trials lost updates\n", lost, c.Int("trials"))
	return nil
}

func handlePool(c *cli.Context) error {
	size := c.Int("size")
	if size < 0 {
		return fmt.Errorf("invalid size: %d", size)
	}
	return runPool(c, config.PoolConfig{Workers: c.Int("workers"), Size: size})
}

func runPool(c *cli.Context, pc config.PoolConfig) error {
	numbers := make([]int, pc.Size)
	for i := range numbers {
		numbers[i] = i
	}
	result, err := arena.ParallelMap(context.Background(), pc.Workers, numbers, func(_ context.Context, n int) (int, error) {
		return n * n * n, nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, result)
	return nil
}

func handleSpawn(c *cli.Context) error {
	arena.Spawn(c.Int("workers"), func(i int) {
		runLog.Debugf("process %d started", i)
		for j := range 100 {
			_ = j * j
		}
	})
	fmt.Fprintln(c.App.Writer, "End main process")
	return nil
}

type scenarioReport struct {
	Name       string
	Guard      string
	Initial    []float64
	Final      []float64
	Expected   []float64
	Increments int64
	WaitMean   string
	WaitMax    string
	Elapsed    string
}

func handleRun(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	jsonutil.SetColor(false)
	reg := &arena.Registry[float64]{Metrics: metrics.NewRegistry()}
	var failed []string
	for _, s := range cfg.Scenarios {
		r, err := runScenario(reg, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s at beginning: %v\n", s.Name, r.Initial)
		fmt.Fprintf(c.App.Writer, "%s at end: %v\n", s.Name, r.Final)
		if c.Bool("verbose") {
			b, err := jsonutil.MarshalCompactPretty(r)
			if err != nil {
				return err
			}
			if _, err = c.App.Writer.Write(b); err != nil {
				return err
			}
		}
		if !approxEqual(r.Final, r.Expected) {
			failed = append(failed, s.Name)
		}
	}
	if cfg.Pool.Size > 0 {
		if err = runPool(c, cfg.Pool); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("scenarios lost updates: %s", strings.Join(failed, ", "))
	}
	return nil
}

func runScenario(reg *arena.Registry[float64], s config.Scenario) (*scenarioReport, error) {
	kind, err := arena.ParseGuardKind(s.Guard)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	index, all, err := s.TargetIndex()
	if err != nil {
		return nil, err
	}
	target := arena.Target(index)
	if all {
		target = arena.All
	}

	a, created := reg.OpenWithOptions(s.Name, s.Initial, arena.WithGuardKind(kind))
	if !created {
		return nil, fmt.Errorf("duplicate scenario %q", s.Name)
	}

	r := &scenarioReport{
		Name:     s.Name,
		Guard:    string(kind),
		Initial:  a.Snapshot(),
		Expected: s.Expected(),
	}
	runLog.Debugf("scenario %s: %d workers x %d iterations, guard %s", s.Name, s.Workers, s.Iterations, kind)
	start := time.Now()
	arena.RunAll(a, arena.Replicate(s.Workers, arena.Worker[float64]{
		Iterations: s.Iterations,
		Delay:      s.Delay,
		Target:     target,
		Amount:     s.Amount,
	})...)
	r.Elapsed = time.Since(start).String()
	r.Final = a.Snapshot()

	wait := metrics.GetOrRegisterTimer(s.Name+"."+arena.MetricGuardWait, reg.Metrics)
	r.Increments = metrics.GetOrRegisterCounter(s.Name+"."+arena.MetricIncrements, reg.Metrics).Count()
	r.WaitMean = time.Duration(wait.Mean()).String()
	r.WaitMax = time.Duration(wait.Max()).String()
	if !approxEqual(r.Final, r.Expected) {
		runLog.Errorf("scenario %s: final %v, want %v", s.Name, r.Final, r.Expected)
	}
	return r, nil
}

// approxEqual compares aggregates computed by repeated addition with the
// closed-form expectation, allowing for float rounding.
func approxEqual(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9*math.Max(1, math.Abs(want[i])) {
			return false
		}
	}
	return true
}
