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

/*
Package cli implements the courier command-line interface.

This package creates the Cobra command tree and handles global concerns
like version information, persistent flags, and exit codes. Commands load
operation descriptor sets, build an SDK client, and invoke operations
against live APIs.

# Command Tree

The CLI is organized as:

	courier
	├── invoke        Invoke an operation from a descriptor set
	├── operations    List operations declared in descriptor sets
	├── schema        Output the descriptor JSON Schema
	├── version       Show version information
	└── help          Help about any command

# Global Flags

	--verbose   Enable debug logging
	--quiet     Suppress non-error output
	--json      Output in JSON format
	--config    Path to config file (default: ~/.config/courier/config.yaml)

# Exit Codes

	0  Success
	1  Invocation failed (API error, network failure)
	2  Invalid descriptor
	3  Invalid arguments
	4  Auth or configuration error
*/
package cli
