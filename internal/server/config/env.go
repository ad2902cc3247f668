package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays DONNAMIS_* environment variables. Unset variables keep the
// current value; a malformed value panics like a malformed config file does.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
