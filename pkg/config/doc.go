// Package config populates configuration structs from environment variables.
//
// A .env file in the working directory is loaded once on first use; real
// environment variables take precedence over it. Struct fields are described
// with caarlos0/env tags:
//
//	type Config struct {
//	    Addr   string `env:"HTTP_ADDR" envDefault:":8080"`
//	    Secret string `env:"AUTH_SECRET,required"`
//	}
//
// Load caches successfully parsed values per type, so components can ask for
// the same struct repeatedly without re-parsing.
package config
