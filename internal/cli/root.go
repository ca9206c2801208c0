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
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root Cobra command for courier
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courier",
		Short: "Courier - HTTP operation dispatch",
		Long: `Courier invokes HTTP API operations declared in descriptor sets.
A descriptor set names each operation, its method and path template, its
declared parameters, and the payloads its responses carry. Courier binds
arguments, negotiates content types, injects credentials, dispatches the
request, and maps the response.

Run 'courier operations' to list operations from your descriptor files.
Run 'courier invoke <operation-id>' to call one.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // We handle errors ourselves for proper exit codes
	}

	// Add global flags
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default: ~/.config/courier/config.yaml)")

	return cmd
}
