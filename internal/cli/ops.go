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
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewOpsCommand creates the ops command.
func NewOpsCommand(root *RootOptions) *cobra.Command {
	var verify bool
	cmd := &cobra.Command{
		Use:   "ops [filter]",
		Short: "List the instructions linked against the engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := root.rtm.Table()
			if verify {
				if err := table.Verify(); err != nil {
					return errors.Wrapf(err, "engine is incomplete")
				}
			}
			filter := ""
			if len(args) > 0 {
				filter = args[0]
			}
			w := cmd.OutOrStdout()
			count := 0
			for _, tr := range table.Triples() {
				name := tr.Name()
				if !strings.Contains(name, filter) {
					continue
				}
				code, _ := table.Lookup(tr.Op, tr.Type, tr.Rank)
				fmt.Fprintf(w, "%5d %s\n", code, name)
				count++
			}
			fmt.Fprintf(w, "%d instructions\n", count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "fail if a legal instruction is not linked")
	return cmd
}
