package core

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envStateKey = "ENV_STATE"

var envKeys = map[string]string{
	"ODOO_URL":                "base_url",
	"ODOO_CLIENT_ID":          "client_id",
	"ODOO_CLIENT_SECRET":      "client_secret",
	"TOKEN_PATH":              "token_path",
	"SEARCH_PATH":             "search_path",
	"CREATE_PATH":             "create_path",
	"REPORT_PATH":             "report_path",
	"REQUEST_TIMEOUT_SECONDS": "request_timeout_seconds",
	"COMPANY_ID":              "company_id",
	"MAX_CONCURRENCY":         "max_concurrency",
}

var envNumericKeys = map[string]bool{
	"request_timeout_seconds": true,
	"company_id":              true,
	"max_concurrency":         true,
}

// EnvConfigLoader reads connection settings from .env files and the process
// environment. ENV_STATE selects the DEV_ or PROD_ variable prefix; process
// variables win over file values.
type EnvConfigLoader struct {
	Files  []string
	Lookup func(key string) (string, bool)
}

func NewEnvConfigLoader(files ...string) *EnvConfigLoader {
	return &EnvConfigLoader{Files: files, Lookup: os.LookupEnv}
}

func (l *EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	fileValues := map[string]string{}
	if l != nil {
		for _, file := range l.Files {
			file = strings.TrimSpace(file)
			if file == "" {
				continue
			}
			values, err := godotenv.Read(file)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("core: read env file %s: %w", file, err)
			}
			for key, value := range values {
				if _, exists := fileValues[key]; !exists {
					fileValues[key] = value
				}
			}
		}
	}

	lookup := os.LookupEnv
	if l != nil && l.Lookup != nil {
		lookup = l.Lookup
	}
	get := func(key string) (string, bool) {
		if value, ok := lookup(key); ok {
			return value, true
		}
		value, ok := fileValues[key]
		return value, ok
	}

	state, _ := get(envStateKey)
	prefix, err := envPrefix(state)
	if err != nil {
		return nil, err
	}

	raw := map[string]any{}
	for envKey, configKey := range envKeys {
		value, ok := get(prefix + envKey)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if envNumericKeys[configKey] {
			parsed, parseErr := strconv.ParseInt(value, 10, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("core: %s%s must be an integer: %w", prefix, envKey, parseErr)
			}
			raw[configKey] = parsed
			continue
		}
		raw[configKey] = value
	}
	return raw, nil
}

func envPrefix(state string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "":
		return "", nil
	case "dev":
		return "DEV_", nil
	case "prod":
		return "PROD_", nil
	default:
		return "", fmt.Errorf("core: invalid %s %q: must be dev or prod", envStateKey, state)
	}
}

var _ RawConfigLoader = (*EnvConfigLoader)(nil)
