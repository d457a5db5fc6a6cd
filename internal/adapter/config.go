package adapter

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	m "vigil.dev/pkg/vigil/internal/model"
)

// ErrConfigNotFound is returned when the rules file does not exist.
var ErrConfigNotFound = errors.New("monitor config not found")

// defaultMaxFileSize bounds a single file read when the rules file does not
// set one. A tracked file larger than this is reported unreadable rather
// than allowed to stall the scan.
const defaultMaxFileSize = int64(4) << 30

// rulesFile mirrors the YAML schema of the monitor rules file.
type rulesFile struct {
	Include           []string `yaml:"include"`
	Exclude           []string `yaml:"exclude"`
	HashAlgorithm     string   `yaml:"hash_algorithm"`
	MetadataSensitive bool     `yaml:"metadata_sensitive"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	LogLevel          string   `yaml:"log_level"`
	VerboseConsole    *bool    `yaml:"verbose_console_output"`
}

// LoadConfig parses the monitor rules file into an immutable Config.
// A missing or malformed file, or an unsupported algorithm, is fatal for
// the run: no scan starts from a config the operator did not state.
func LoadConfig(path string) (m.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied config path
	if err != nil {
		if os.IsNotExist(err) {
			return m.Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return m.Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var rules rulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return m.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	algorithm := m.SHA256
	if rules.HashAlgorithm != "" {
		algorithm, err = m.ParseAlgorithm(rules.HashAlgorithm)
		if err != nil {
			return m.Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	maxFileSize := rules.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}

	verbose := false
	if rules.VerboseConsole != nil {
		verbose = *rules.VerboseConsole
	}

	return m.Config{
		Include:           rules.Include,
		Exclude:           rules.Exclude,
		Algorithm:         algorithm,
		MetadataSensitive: rules.MetadataSensitive,
		MaxFileSize:       maxFileSize,
		LogLevel:          rules.LogLevel,
		VerboseConsole:    verbose,
	}, nil
}
