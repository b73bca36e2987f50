package cmd

import (
	"errors"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/jahlborn/jackcessgo/expr"
)

// RemoteConfig describes one passthrough-query target named in
// jackcessgo.yaml.
type RemoteConfig struct {
	ConnectionType string `yaml:"connectionType"`
	Path           string `yaml:"path"`
}

// Config is the jackcessgo.yaml schema: named remotes for the "remote"
// command plus the locale defaults fed into the expression evaluator's
// temporal configuration.
type Config struct {
	Remotes       map[string]RemoteConfig `yaml:"remotes"`
	FirstDayOfWeek int                    `yaml:"firstDayOfWeek"`
	FirstWeekRule  int                    `yaml:"firstWeekRule"`
}

// LoadConfig reads jackcessgo.yaml from the --directory flag's path.
func LoadConfig() (Config, error) {
	var result Config

	configFilename := path.Join(directory, "jackcessgo.yaml")
	if _, err := os.Stat(configFilename); os.IsNotExist(err) {
		return Config{}, errors.New("no jackcessgo.yaml found in " + directory)
	}

	yamlFile, err := os.ReadFile(configFilename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(yamlFile, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}

// Temporal converts the loaded config's week-numbering defaults into the
// shape expr.Context.Temporal() returns, falling back to Access's own
// defaults (Sunday-first, simple week rule) when unset.
func (c Config) Temporal() expr.TemporalConfig {
	firstDay := expr.WeekStart(c.FirstDayOfWeek)
	if firstDay == 0 {
		firstDay = expr.SundayFirst
	}
	firstWeek := expr.FirstWeekRule(c.FirstWeekRule)
	if firstWeek == 0 {
		firstWeek = expr.FirstWeekSimple
	}
	return expr.TemporalConfig{FirstDayOfWeek: firstDay, FirstWeekRule: firstWeek}
}
