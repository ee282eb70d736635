// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli implements the cayley command line tool.
package cli

import (
	"os"

	"github.com/gx-org/cayley/api"
	"github.com/gx-org/cayley/arrays"
	"github.com/gx-org/cayley/build/expr"
	"github.com/gx-org/cayley/golang/engine"
	"github.com/gx-org/cayley/internal/config"
	"github.com/gx-org/cayley/internal/exprfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootOptions holds the global flags and the state shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	logger *zap.Logger
	rtm    *api.Runtime
}

// NewRootCommand creates the root command of the tool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:           "cayley",
		Short:         "Compile and run array expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			// Syncing stderr fails on some platforms.
			_ = opts.logger.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.FileName, "configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug messages")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewOpsCommand(opts))
	return cmd
}

func (opts *RootOptions) setup() error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if opts.logger, err = cfg.Logger(); err != nil {
		return err
	}
	opts.rtm, err = api.NewRuntime(
		api.WithEngine(engine.New(engine.WithLogger(opts.logger))),
		api.WithLogger(opts.logger),
		api.WithCacheSize(cfg.CacheSize),
		api.WithVerify(cfg.VerifyOps),
	)
	return err
}

func signatures(inputs []*expr.Node) []exprfile.Signature {
	sigs := make([]exprfile.Signature, len(inputs))
	for i, in := range inputs {
		sigs[i] = exprfile.Signature{Name: in.Name, Type: in.Type, Dims: in.Dims}
	}
	return sigs
}

// loadBindings reads the values of named inputs from a YAML file.
// No bindings are returned if path is empty.
func loadBindings(path string, sigs []exprfile.Signature) (map[string]arrays.View, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read inputs")
	}
	bindings, err := exprfile.ParseBindings(data, sigs)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return bindings, nil
}
