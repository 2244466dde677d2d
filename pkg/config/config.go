// Package config reads tool defaults from HACKVM_* environment variables.
// Command-line flags override them.
package config

import (
	"fmt"

	"github.com/xyproto/env/v2"

	"hackvm/pkg/translator"
)

const (
	DefaultMaxCycles = 10_000_000
	DefaultScale     = 2
)

// Config holds the environment defaults shared by the command-line tools.
type Config struct {
	Relational string
	Statics    string
	Comments   bool
	MaxCycles  int
	Scale      int
}

// Load reads the configuration from the environment.
func Load() Config {
	c := Config{
		Relational: env.Str("HACKVM_RELATIONAL", translator.RelationalStrict.String()),
		Statics:    env.Str("HACKVM_STATICS", translator.StaticsGlobal.String()),
		Comments:   env.Bool("HACKVM_COMMENTS"),
		MaxCycles:  env.Int("HACKVM_MAX_CYCLES", DefaultMaxCycles),
		Scale:      env.Int("HACKVM_SCALE", DefaultScale),
	}
	if c.MaxCycles < 0 {
		c.MaxCycles = 0
	}
	if c.Scale < 1 {
		c.Scale = 1
	}
	return c
}

// Options converts the mode names into translator options.
func (c Config) Options() (translator.Options, error) {
	rel, err := translator.ParseRelationalMode(c.Relational)
	if err != nil {
		return translator.Options{}, fmt.Errorf("HACKVM_RELATIONAL: %w", err)
	}
	st, err := translator.ParseStaticsMode(c.Statics)
	if err != nil {
		return translator.Options{}, fmt.Errorf("HACKVM_STATICS: %w", err)
	}
	return translator.Options{Relational: rel, Statics: st, Comments: c.Comments}, nil
}
