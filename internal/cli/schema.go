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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tombee/courier/pkg/descriptor"
)

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	var (
		outputFormat string
		writeToFile  bool
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Output the descriptor JSON Schema",
		Long: `Output the embedded JSON Schema for courier descriptor sets.

The schema can be used for IDE autocompletion and validation of descriptor
files. By default, it outputs to stdout in JSON format.

Use the --write flag to save the schema to ./schemas/descriptor.schema.json
in the current directory.`,
		Example: `  # Output schema to stdout
  courier schema

  # Save schema to file for IDE integration
  courier schema --write

  # Output schema in YAML format
  courier schema --output yaml

  # Extract specific schema properties
  courier schema | jq '.definitions.operation'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaBytes := descriptor.Schema()

			var output []byte
			var err error

			switch outputFormat {
			case "json":
				var schemaObj interface{}
				if err := json.Unmarshal(schemaBytes, &schemaObj); err != nil {
					return fmt.Errorf("failed to parse embedded schema: %w", err)
				}
				output, err = json.MarshalIndent(schemaObj, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}

			case "yaml":
				var schemaObj interface{}
				if err := json.Unmarshal(schemaBytes, &schemaObj); err != nil {
					return fmt.Errorf("failed to parse embedded schema: %w", err)
				}
				output, err = yaml.Marshal(schemaObj)
				if err != nil {
					return fmt.Errorf("failed to convert to YAML: %w", err)
				}

			default:
				return NewArgumentError(fmt.Sprintf("invalid output format: %s (must be 'json' or 'yaml')", outputFormat), nil)
			}

			if writeToFile {
				destPath := filepath.Join(".", "schemas", "descriptor.schema.json")

				if _, err := os.Stat(destPath); err == nil && !force {
					return NewInvocationError(fmt.Sprintf("file already exists: %s (use --force to overwrite)", destPath), nil)
				}

				destDir := filepath.Dir(destPath)
				if err := os.MkdirAll(destDir, 0755); err != nil {
					return NewInvocationError(fmt.Sprintf("failed to create directory: %s", destDir), err)
				}

				// The file is always written as JSON, regardless of --output.
				if err := os.WriteFile(destPath, schemaBytes, 0644); err != nil {
					return NewInvocationError(fmt.Sprintf("failed to write file: %s", destPath), err)
				}

				cmd.Printf("✓ Schema written to %s\n", destPath)
				return nil
			}

			cmd.Println(string(output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "json", "Output format: json (default), yaml")
	cmd.Flags().BoolVarP(&writeToFile, "write", "w", false, "Write to ./schemas/descriptor.schema.json in current directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing file (only with --write)")

	return cmd
}
