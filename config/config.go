// Package config defines the tolerances and logging settings the query engine runs with.
package config

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/collide/gjk"
	"go.viam.com/collide/logging"
)

// GJKConfig bounds the closest point iteration.
type GJKConfig struct {
	MaxIterations int     `json:"max_iterations"`
	Epsilon       float64 `json:"epsilon"`
}

// EPAConfig bounds the penetration depth expansion.
type EPAConfig struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// TOIConfig bounds the conservative advancement loop.
type TOIConfig struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// LogConfig configures the engine logger.
type LogConfig struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// Config describes how the engine runs its queries.
type Config struct {
	GJK GJKConfig `json:"gjk"`
	EPA EPAConfig `json:"epa"`
	TOI TOIConfig `json:"toi"`
	Log LogConfig `json:"log"`
}

// Default returns the config the package level query functions use.
func Default() *Config {
	opts := gjk.DefaultOptions()
	return &Config{
		GJK: GJKConfig{MaxIterations: opts.MaxIterations, Epsilon: opts.Epsilon},
		EPA: EPAConfig{MaxIterations: opts.EPAMaxIterations, Tolerance: opts.EPATolerance},
		TOI: TOIConfig{MaxIterations: opts.TOIMaxIterations, Tolerance: opts.TOITolerance},
		Log: LogConfig{Name: "collide", Level: "info"},
	}
}

// FromJSON reads a config from JSON. Fields absent from the document keep their defaults.
func FromJSON(data []byte) (*Config, error) {
	conf := Default()
	if err := json.Unmarshal(data, conf); err != nil {
		return nil, errors.Wrap(err, "cannot parse config")
	}
	return conf, nil
}

// FromMap decodes a config from an attribute map keyed by the JSON field names. Fields absent from
// the map keep their defaults.
func FromMap(attributes map[string]interface{}) (*Config, error) {
	conf := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           conf,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode config")
	}
	return conf, nil
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) error {
	var errs error
	errs = multierr.Append(errs, validateIterations(fmt.Sprintf("%s.gjk", path), conf.GJK.MaxIterations))
	errs = multierr.Append(errs, validateTolerance(fmt.Sprintf("%s.gjk", path), "epsilon", conf.GJK.Epsilon))
	errs = multierr.Append(errs, validateIterations(fmt.Sprintf("%s.epa", path), conf.EPA.MaxIterations))
	errs = multierr.Append(errs, validateTolerance(fmt.Sprintf("%s.epa", path), "tolerance", conf.EPA.Tolerance))
	errs = multierr.Append(errs, validateIterations(fmt.Sprintf("%s.toi", path), conf.TOI.MaxIterations))
	errs = multierr.Append(errs, validateTolerance(fmt.Sprintf("%s.toi", path), "tolerance", conf.TOI.Tolerance))
	if conf.Log.Level != "" {
		if _, err := logging.LevelFromString(conf.Log.Level); err != nil {
			errs = multierr.Append(errs, utils.NewConfigValidationError(fmt.Sprintf("%s.log", path), err))
		}
	}
	return errs
}

func validateIterations(path string, n int) error {
	switch {
	case n == 0:
		return utils.NewConfigValidationFieldRequiredError(path, "max_iterations")
	case n < 0:
		return utils.NewConfigValidationError(path, errors.Errorf("max_iterations must be positive, got %d", n))
	}
	return nil
}

func validateTolerance(path, field string, v float64) error {
	switch {
	case v == 0:
		return utils.NewConfigValidationFieldRequiredError(path, field)
	case v < 0 || math.IsNaN(v) || math.IsInf(v, 0):
		return utils.NewConfigValidationError(path, errors.Errorf("%s must be a positive number, got %v", field, v))
	}
	return nil
}

// GJKOptions returns the solver options described by the config.
func (conf *Config) GJKOptions() gjk.Options {
	return gjk.Options{
		MaxIterations:    conf.GJK.MaxIterations,
		Epsilon:          conf.GJK.Epsilon,
		EPAMaxIterations: conf.EPA.MaxIterations,
		EPATolerance:     conf.EPA.Tolerance,
		TOIMaxIterations: conf.TOI.MaxIterations,
		TOITolerance:     conf.TOI.Tolerance,
	}
}

// LogLevel returns the configured log level, INFO if unset.
func (conf *Config) LogLevel() (logging.Level, error) {
	if conf.Log.Level == "" {
		return logging.INFO, nil
	}
	return logging.LevelFromString(conf.Log.Level)
}
