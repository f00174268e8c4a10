// Package env provides dependency-free .env loading and typed environment
// variable helpers, used by cmd/bartest to build an engine Config without
// requiring shell exports.
package env

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Get returns the trimmed value of key, or def if unset/empty.
func Get(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetFloat parses key as a float64, falling back to def on error or absence.
func GetFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetBool parses key as a boolean-ish token (1/true/y/yes, 0/false/n/no).
func GetBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}

// GetInt parses key as an int, falling back to def on error or absence.
func GetInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// neededKeys is the set of env vars LoadDotEnv will import from a .env file;
// anything else (secrets unrelated to the engine) is ignored on purpose.
var neededKeys = map[string]struct{}{
	"BARTEST_CASH": {}, "BARTEST_COMMISSION_RATE": {}, "BARTEST_SLIPPAGE_BPS": {},
	"BARTEST_BATCH_SIZE": {}, "BARTEST_START": {}, "BARTEST_END": {},
	"BARTEST_STORE_PATH": {}, "BARTEST_PORT": {},
}

// LoadDotEnv reads ./.env and ../.env, setting only the keys the engine
// recognizes and only when not already present in the process environment.
func LoadDotEnv() {
	try := func(path string) {
		f, err := os.Open(path)
		if err != nil {
			return
		}
		defer f.Close()
		s := bufio.NewScanner(f)
		for s.Scan() {
			line := strings.TrimSpace(s.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.HasPrefix(line, "export ") {
				line = strings.TrimSpace(line[len("export "):])
			}
			eq := strings.Index(line, "=")
			if eq <= 0 {
				continue
			}
			key := strings.TrimSpace(line[:eq])
			if _, ok := neededKeys[key]; !ok {
				continue
			}
			val := strings.TrimSpace(line[eq+1:])
			if len(val) >= 2 && ((val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'')) {
				val = val[1 : len(val)-1]
			}
			if idx := strings.IndexAny(val, "#"); idx >= 0 {
				val = strings.TrimSpace(val[:idx])
			}
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, val)
			}
		}
	}
	for _, base := range []string{".", ".."} {
		try(filepath.Join(base, ".env"))
	}
}
