// Copyright 2025 Tom Barlow
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
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// OperationRow describes one operation for listing output
type OperationRow struct {
	Set         string   `json:"set"`
	ID          string   `json:"id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`
}

// OperationsResponse is the JSON response for the operations command
type OperationsResponse struct {
	jsonResponse
	Operations []OperationRow `json:"operations"`
}

// NewOperationsCommand creates the operations command
func NewOperationsCommand() *cobra.Command {
	var (
		specs []string
		tag   string
	)

	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "List operations declared in descriptor sets",
		Long: `List every operation the loaded descriptor sets declare, with its
method, path template, and tags. Use --tag to narrow the listing to one
operation group.`,
		Example: `  courier operations --spec 'specs/**/*.yaml'
  courier operations --spec petstore.yaml --tag pets
  courier operations --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			sets, err := loadSets(specs, cfg)
			if err != nil {
				return err
			}

			rows := []OperationRow{}
			for _, set := range sets {
				for i := range set.Operations {
					op := &set.Operations[i]
					if tag != "" && !op.HasTag(tag) {
						continue
					}
					rows = append(rows, OperationRow{
						Set:         set.Name,
						ID:          op.ID,
						Method:      op.Method,
						Path:        op.Path,
						Tags:        op.Tags,
						Description: op.Description,
					})
				}
			}

			out := cmd.OutOrStdout()

			if GetJSON() {
				resp := OperationsResponse{
					jsonResponse: jsonResponse{
						Version: "1.0",
						Command: "operations",
						Success: true,
					},
					Operations: rows,
				}
				return emitJSON(out, resp)
			}

			if len(rows) == 0 {
				if tag != "" {
					fmt.Fprintf(out, "No operations carry tag %q.\n", tag)
				} else {
					fmt.Fprintln(out, "No operations declared.")
				}
				return nil
			}

			// Table output
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tMETHOD\tPATH\tTAGS\tDESCRIPTION")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Method, r.Path, strings.Join(r.Tags, ","), r.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&specs, "spec", "s", nil, "Descriptor file or glob pattern (repeatable)")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "Only list operations carrying this tag")

	return cmd
}
