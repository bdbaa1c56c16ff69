// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// ukernel_check verifies the registered GEMM micro-kernels against the reference implementation,
// outside of `go test`, and prints a report.
//
// Usage:
//
//	ukernel_check -kernels=generic-4x8 -kc=1,8,256 -iterations=1001 -seed=42
//
// It exits with status 1 if any kernel fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/exceptions"
	"github.com/google2013/NNPACK/internal/workerspool"
	"github.com/google2013/NNPACK/pkg/support/xslices"
	"github.com/google2013/NNPACK/pkg/ukernel"
	"github.com/google2013/NNPACK/pkg/ukernel/gemmtest"
	_ "github.com/google2013/NNPACK/pkg/ukernel/sgemm"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	flagKernels = xslices.Flag("kernels", nil,
		"Comma-separated list of kernel names to check. If empty, all registered kernels are checked.",
		func(name string) (string, error) { return strings.TrimSpace(name), nil })
	flagKc = xslices.Flag("kc", []int{1, 8, 64},
		"Comma-separated list of accumulation depths (Kc) to check each kernel with.", strconv.Atoi)
	flagIterations = flag.Int("iterations", gemmtest.DefaultConfig().Iterations,
		"Number of randomized trials per tile shape.")
	flagErrorLimit = flag.Float64("error_limit", float64(gemmtest.DefaultConfig().ErrorLimit),
		"Acceptance threshold for the maximum over output elements of the median relative error.")
	flagSeed = flag.Int64("seed", 0,
		"Random seed. If 0 a time based seed is used: it is reported, so failures can be replayed.")
	flagAccumulate = flag.Bool("accumulate", false,
		"Checks the kernels' accumulation path (update=1) instead of the overwrite path.")
	flagParallel = flag.Int("parallel", runtime.NumCPU(),
		"Number of kernel checks to run concurrently. 0 runs them sequentially.")
	flagNoColor  = flag.Bool("nocolor", false, "Disables colors in the report.")
	flagProgress = flag.Bool("progress", true, "Displays a progress bar while checking.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var passed bool
	err := exceptions.TryCatch[error](func() {
		checks := selectChecks(ukernel.Registered())
		runChecks(checks)
		passed = printReport(os.Stdout, checks)
	})
	if err != nil {
		klog.Fatalf("Failed with error: %+v", err)
	}
	if !passed {
		os.Exit(1)
	}
}

// check of one kernel at one accumulation depth.
type check struct {
	reg    *ukernel.Registration
	config gemmtest.Config

	// reporter collects the failures.
	reporter *collectingReporter
	results  []gemmtest.Result
}

// selectChecks creates the checks for the registered kernels selected by --kernels and --kc.
func selectChecks(registered []*ukernel.Registration) []*check {
	selected := registered
	if len(*flagKernels) > 0 {
		selected = nil
		for _, name := range *flagKernels {
			found := ukernel.Lookup(name)
			if len(found) == 0 {
				exceptions.Panicf("unknown kernel %q: registered kernels are %s", name, registeredNames(registered))
			}
			selected = append(selected, found...)
		}
	}

	// One seed for all checks, so a whole run can be replayed with --seed.
	seed := *flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	var checks []*check
	for _, reg := range selected {
		for _, kc := range *flagKc {
			cfg := gemmtest.Config{
				Mr:         reg.Params.Mr,
				Nr:         reg.Params.Nr,
				Kc:         kc,
				SIMDWidth:  reg.Params.SIMDWidth, // The B panel stride is fixed when the kernel is registered.
				Iterations: *flagIterations,
				ErrorLimit: float32(*flagErrorLimit),
				Seed:       seed,
				Accumulate: *flagAccumulate,
			}
			must.M(errors.WithMessagef(cfg.Validate(), "kernel %q", reg.Name))
			checks = append(checks, &check{reg: reg, config: cfg, reporter: &collectingReporter{}})
		}
	}
	return checks
}

func registeredNames(registered []*ukernel.Registration) string {
	names := xslices.Map(registered, func(r *ukernel.Registration) string { return r.Name })
	return strings.Join(names, ", ")
}

// runChecks runs all checks, concurrently on a workers pool.
// Each check owns its configuration and buffers; a kernel is never invoked concurrently.
func runChecks(checks []*check) {
	var bar *progressbar.ProgressBar
	if *flagProgress {
		bar = progressbar.NewOptions(len(checks),
			progressbar.OptionSetDescription("checking kernels"),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
	}

	// Checks of the same registration share the kernel (and its scratch buffers), so they are
	// grouped in one task.
	groups := make(map[*ukernel.Registration][]*check)
	var order []*ukernel.Registration
	for _, c := range checks {
		if _, found := groups[c.reg]; !found {
			order = append(order, c.reg)
		}
		groups[c.reg] = append(groups[c.reg], c)
	}
	var muBar sync.Mutex
	tasks := make([]func(), 0, len(order))
	for _, reg := range order {
		tasks = append(tasks, func() {
			for _, c := range groups[reg] {
				c.run()
				if bar != nil {
					muBar.Lock()
					_ = bar.Add(1)
					muBar.Unlock()
				}
			}
		})
	}

	pool := workerspool.New()
	pool.SetMaxParallelism(*flagParallel)
	pool.RunAll(tasks)
	if bar != nil {
		_ = bar.Finish()
	}
}

// run the check with the tester matching the kernel's calling convention.
func (c *check) run() {
	klog.V(1).Infof("checking %q (%s), Kc=%d", c.reg.Name, c.reg.Convention(), c.config.Kc)
	switch {
	case c.reg.Fixed != nil:
		c.results = []gemmtest.Result{gemmtest.TestFixedTile(c.reporter, c.config, c.reg.Fixed)}
	case c.reg.Variable != nil:
		c.results = gemmtest.TestVariableTile(c.reporter, c.config, c.reg.Variable)
	case c.reg.FixedHalf != nil:
		c.results = []gemmtest.Result{gemmtest.TestFixedTileHalf(c.reporter, c.config, c.reg.FixedHalf)}
	default:
		exceptions.Panicf("kernel %q has no kernel function registered", c.reg.Name)
	}
}

// collectingReporter implements gemmtest.Reporter, logging and collecting the failures.
type collectingReporter struct {
	failures []string
}

func (r *collectingReporter) Helper() {}

func (r *collectingReporter) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	klog.Errorf("%s", msg)
	r.failures = append(r.failures, msg)
}
