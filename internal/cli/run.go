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

package cli

import (
	"fmt"

	"github.com/gx-org/cayley/internal/exprfile"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand(root *RootOptions) *cobra.Command {
	var inputs string
	cmd := &cobra.Command{
		Use:   "run <expr.yaml>",
		Short: "Evaluate an expression and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := exprfile.Load(args[0])
			if err != nil {
				return err
			}
			bindings, err := loadBindings(inputs, signatures(g.Inputs))
			if err != nil {
				return err
			}
			view, err := root.rtm.Eval(g.Root, bindings)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&inputs, "inputs", "", "YAML file with the values of named inputs")
	return cmd
}
