package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvLanguage   = "EYEMOTION_LANGUAGE"
	EnvTickRate   = "EYEMOTION_TICK_RATE"
	EnvMaxDt      = "EYEMOTION_MAX_DT"
	EnvBell       = "EYEMOTION_BELL"
	EnvDBPath     = "EYEMOTION_DB_PATH"
	EnvSSHAddr    = "EYEMOTION_SSH_ADDR"
	EnvSSHIdle    = "EYEMOTION_SSH_IDLE_TIMEOUT"
	EnvBridgeAddr = "EYEMOTION_BRIDGE_ADDR"
)

// LoadEnv reads .env files into the process environment (missing files are
// fine) and applies EYEMOTION_* overrides to cfg.
func LoadEnv(cfg *Settings, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: cannot load %s: %w", f, err)
		}
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv overrides settings from lookup. Malformed numbers are reported and
// leave the setting unchanged.
func ApplyEnv(cfg *Settings, lookup func(string) (string, bool)) error {
	var bad []string
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvLanguage, &cfg.Language)
	str(EnvDBPath, &cfg.Storage.DBPath)
	str(EnvSSHAddr, &cfg.SSH.Address)
	str(EnvBridgeAddr, &cfg.Bridge.Address)

	if v, ok := lookup(EnvTickRate); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Display.TickRate = n
		} else {
			bad = append(bad, EnvTickRate)
		}
	}
	if v, ok := lookup(EnvMaxDt); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Display.MaxDt = f
		} else {
			bad = append(bad, EnvMaxDt)
		}
	}
	if v, ok := lookup(EnvBell); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Sound.BellOnBounce = b
		} else {
			bad = append(bad, EnvBell)
		}
	}
	if v, ok := lookup(EnvSSHIdle); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SSH.IdleTimeout = d
		} else {
			bad = append(bad, EnvSSHIdle)
		}
	}

	if len(bad) > 0 {
		return fmt.Errorf("config: ignoring malformed environment values: %v", bad)
	}
	return nil
}
