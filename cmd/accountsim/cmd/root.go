// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperaccounts/runtime"
	"github.com/ava-labs/hyperaccounts/trace"
	"github.com/ava-labs/hyperaccounts/utils"
)

const simulatorFolder = ".accountsim"

type simulator struct {
	logLevel   string
	dir        string
	logDisplay bool
	configPath string
}

func NewRootCmd() *cobra.Command {
	s := &simulator{}
	cmd := &cobra.Command{
		Use:   "accountsim",
		Short: "Typed account runtime simulator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&s.logLevel, "log-level", "", "log level, overrides the runtime config")
	cmd.PersistentFlags().StringVar(&s.dir, "dir", defaultDir(), "simulator directory, logs are written to its logs folder")
	cmd.PersistentFlags().BoolVar(&s.logDisplay, "log-display", false, "also write logs to stderr")
	cmd.PersistentFlags().StringVar(&s.configPath, "config", "", "path to a runtime config JSON file")

	cmd.AddCommand(
		newRunCmd(s),
		newConfigCmd(s),
	)
	return cmd
}

func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), simulatorFolder)
	}
	return filepath.Join(homeDir, simulatorFolder)
}

func (s *simulator) config() (runtime.Config, error) {
	var b []byte
	if s.configPath != "" {
		var err error
		b, err = os.ReadFile(s.configPath)
		if err != nil {
			return runtime.Config{}, err
		}
	}
	return runtime.NewConfig(b)
}

// init builds a runtime over an empty ledger. The returned func releases
// the logger and tracer.
func (s *simulator) init() (*simulation, func(), error) {
	config, err := s.config()
	if err != nil {
		return nil, nil, err
	}
	level := config.LogLevel
	if s.logLevel != "" {
		level, err = logging.ToLevel(s.logLevel)
		if err != nil {
			return nil, nil, err
		}
	}
	logDir, err := utils.InitSubDirectory(s.dir, "logs")
	if err != nil {
		return nil, nil, err
	}
	log := newLogger("accountsim", level, logDir, s.logDisplay)

	tracer, err := trace.New(config.TraceConfig)
	if err != nil {
		log.Stop()
		return nil, nil, err
	}
	cleanup := func() {
		if err := tracer.Close(); err != nil {
			log.Warn("failed to close tracer", zap.Error(err))
		}
		log.Stop()
	}

	rt, err := runtime.New(config, log, tracer, prometheus.NewRegistry(), runtime.NewLedger())
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	sim, err := newSimulation(log, rt)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	log.Info("simulator initialized",
		zap.Stringer("log-level", level),
		zap.Int("max-invoke-depth", config.MaxInvokeDepth),
	)
	return sim, cleanup, nil
}

func newRunCmd(s *simulator) *cobra.Command {
	return &cobra.Command{
		Use:   "run [path]",
		Short: "Run a simulation plan, use - to read it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				planBytes []byte
				err       error
			)
			if args[0] == "-" {
				planBytes, err = io.ReadAll(cmd.InOrStdin())
			} else {
				planBytes, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			plan, err := unmarshalPlan(planBytes)
			if err != nil {
				return err
			}
			if err := plan.Verify(); err != nil {
				return err
			}

			sim, cleanup, err := s.init()
			if err != nil {
				return err
			}
			defer cleanup()
			return sim.Run(cmd.Context(), plan, cmd.OutOrStdout())
		},
	}
}

func newConfigCmd(s *simulator) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the runtime config in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := s.config()
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
