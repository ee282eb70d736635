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
	"path/filepath"
	"strings"

	"github.com/gx-org/cayley/internal/exprfile"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand(root *RootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "save <expr.yaml>",
		Short: "Compile an expression into a program archive",
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
			data, err := prog.MarshalBinary()
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".cbor"
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrapf(err, "cannot write program archive")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d instructions, %d bytes, fingerprint %s\n", output, prog.NumInstructions(), len(data), prog.Fingerprint())
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default: the expression path with a .cbor extension)")
	return cmd
}
