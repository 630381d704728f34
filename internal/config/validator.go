package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the .env schema generation this build expects.
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must all be set for the service to run outside dev.
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"SESSION_SECRET",
	"BLIZZARD_CLIENT_ID",
	"BLIZZARD_CLIENT_SECRET",
}

// placeholderValues are the example-file values that must never reach a
// real deployment. Matches produce warnings, not errors.
var placeholderValues = map[string]string{
	"DB_PASSWORD":    "change_this_secure_password",
	"SESSION_SECRET": "generate_with_openssl_rand_hex_32",
}

// ValidateEnv checks the schema version and presence of every required
// environment variable.
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - update your .env file (expected: %s)", ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, name := range RequiredEnvVars {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and additionally flags values
// copied verbatim from the example file.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for name, placeholder := range placeholderValues {
		if os.Getenv(name) == placeholder {
			warnings = append(warnings, fmt.Sprintf("%s is still set to the example value - replace it with a real secret", name))
		}
	}
	if os.Getenv("DISCORD_TOKEN") == "" {
		warnings = append(warnings, "DISCORD_TOKEN is not set - simulation notifications are disabled")
	}

	return warnings, nil
}
