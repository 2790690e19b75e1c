// Copyright 2026 The loxvm Authors.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command lox is loxvm's CLI: it runs a Lox script file or, with no
// arguments, drops into a line-at-a-time REPL.
package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/loxvm/loxvm/pkg/lox/loxlog"
	"github.com/loxvm/loxvm/pkg/lox/natives"
	"github.com/loxvm/loxvm/pkg/lox/telemetry"
	"github.com/loxvm/loxvm/pkg/lox/vm"

	"github.com/benbjohnson/clock"
)

var exitCode = 0

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LOXVM")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "lox [script]",
		Short: "loxvm runs Lox bytecode programs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	flags := root.Flags()
	flags.Bool("trace", false, "trace every executed instruction and the operand stack")
	flags.Bool("stress-gc", false, "run a collection before every allocation")
	flags.Bool("log-gc", false, "log collector activity")
	flags.Bool("debug", false, "enable debug-level logging")
	flags.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	flags.String("heap-profile", "", "if set, write a pprof heap profile to this path on exit")
	_ = v.BindPFlags(flags)

	return root
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	logger, err := loxlog.New(loxlog.Config{Debug: v.GetBool("debug")})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewGCMetrics(reg)
	if addr := v.GetString("metrics-addr"); addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Debugf("metrics server stopped: %s", err)
			}
		}()
	}

	machine := vm.New(vm.Config{
		TraceExecution: v.GetBool("trace"),
		StressGC:       v.GetBool("stress-gc"),
		LogGC:          v.GetBool("log-gc"),
		GCGrowFactor:   uintptr(v.GetUint("gc_grow_factor")),
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		Logger:         logger,
		Metrics:        metrics,
		Natives: []vm.NativeDef{
			{Name: "clock", Fn: natives.Clock(clock.New())},
		},
	})

	var runErr error
	if len(args) == 1 {
		runErr = runFile(machine, args[0])
	} else {
		runErr = runRepl(machine, cmd)
	}

	if path := v.GetString("heap-profile"); path != "" {
		if err := dumpHeapProfile(path, logger); err != nil {
			logger.Debugf("heap profile: %s", err)
		}
	}
	return runErr
}

func runFile(machine *vm.VM, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	result, err := machine.Interpret(string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	switch result {
	case vm.ResultCompileError:
		exitCode = 65
	case vm.ResultRuntimeError:
		exitCode = 70
	}
	return nil
}

func runRepl(machine *vm.VM, cmd *cobra.Command) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if _, err := machine.Interpret(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
