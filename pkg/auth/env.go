package auth

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// validEnvVarName matches valid environment variable names (alphanumeric + underscore).
var validEnvVarName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ExpandEnv expands environment variable references in the form ${VAR_NAME}.
// If the value doesn't contain ${...}, it's returned as-is.
// Returns error if a variable name is invalid or the variable is not set.
func ExpandEnv(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	if !strings.Contains(value, "${") {
		return value, nil
	}

	result := value
	for {
		start := strings.Index(result, "${")
		if start == -1 {
			break
		}

		end := strings.Index(result[start:], "}")
		if end == -1 {
			return "", fmt.Errorf("malformed environment variable reference: unclosed ${")
		}
		end += start

		varName := result[start+2 : end]

		if !validEnvVarName.MatchString(varName) {
			return "", fmt.Errorf("invalid environment variable name: %q (must be alphanumeric with underscores)", varName)
		}

		varValue, exists := os.LookupEnv(varName)
		if !exists {
			return "", fmt.Errorf("environment variable %q not found", varName)
		}

		result = result[:start] + varValue + result[end+1:]
	}

	return result, nil
}
