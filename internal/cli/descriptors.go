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
	"os"

	"github.com/tombee/courier/internal/config"
	"github.com/tombee/courier/pkg/descriptor"
)

// loadConfig resolves the active configuration. An explicit --config path
// must exist; the default path is optional and silently falls back to
// environment variables plus defaults.
func loadConfig() (*config.Config, error) {
	if path := GetConfigPath(); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, NewAuthError("loading config", err)
		}
		return cfg, nil
	}

	path, err := config.ConfigPath()
	if err != nil {
		return nil, NewAuthError("resolving config path", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewAuthError("loading config", err)
	}
	return cfg, nil
}

// loadSets resolves descriptor sets from --spec globs, falling back to the
// patterns configured under descriptors.paths.
func loadSets(specs []string, cfg *config.Config) ([]*descriptor.Set, error) {
	patterns := specs
	if len(patterns) == 0 {
		patterns = cfg.Descriptors.Paths
	}
	if len(patterns) == 0 {
		return nil, NewDescriptorError("no descriptor files specified (use --spec or configure descriptors.paths)", nil)
	}

	var sets []*descriptor.Set
	for _, pattern := range patterns {
		loaded, err := descriptor.LoadGlob(pattern)
		if err != nil {
			return nil, NewDescriptorError(fmt.Sprintf("loading descriptors from %s", pattern), err)
		}
		sets = append(sets, loaded...)
	}
	return sets, nil
}

// findOperation locates the set declaring the given operation id. The
// first declaring set wins when several sets declare the same id.
func findOperation(sets []*descriptor.Set, id string) (*descriptor.Set, *descriptor.Operation, error) {
	for _, set := range sets {
		if op := set.Find(id); op != nil {
			return set, op, nil
		}
	}

	return nil, nil, NewArgumentError(
		fmt.Sprintf("operation %q not found in any loaded descriptor set (run 'courier operations' to list them)", id),
		nil,
	)
}
