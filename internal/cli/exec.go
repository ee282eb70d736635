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
	"os"

	"github.com/gx-org/cayley/build/program"
	"github.com/gx-org/cayley/internal/exprfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand(root *RootOptions) *cobra.Command {
	var inputs string
	cmd := &cobra.Command{
		Use:   "exec <program.cbor>",
		Short: "Run a program archive and print its result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "cannot read program archive")
			}
			prog, err := program.UnmarshalProgram(root.rtm.Table(), data)
			if err != nil {
				return errors.Wrapf(err, "%s", args[0])
			}
			var sigs []exprfile.Signature
			for _, param := range prog.Params() {
				sigs = append(sigs, exprfile.Signature{Name: param.Name, Type: param.Type, Dims: param.Dims})
			}
			bindings, err := loadBindings(inputs, sigs)
			if err != nil {
				return err
			}
			typ, err := prog.ResultType()
			if err != nil {
				return err
			}
			res, err := prog.Run(root.rtm.Engine(), typ, bindings)
			if err != nil {
				return err
			}
			defer res.Free()
			view, err := res.View()
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
