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

	"github.com/gx-org/cayley/build/exprstring"
	"github.com/gx-org/cayley/internal/exprfile"
	"github.com/spf13/cobra"
)

// NewCompileCommand creates the compile command.
func NewCompileCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compile <expr.yaml>",
		Short: "Print the graph, the bytecode and the fingerprint of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := exprfile.Load(args[0])
			if err != nil {
				return err
			}
			prog, err := root.rtm.Compile(g.Root)
			if err != nil {
				return err
			}
			asm, err := prog.Disassemble()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\n%s\nfingerprint: %s\n", exprstring.Stringify(g.Root), asm, prog.Fingerprint())
			return nil
		},
	}
}
