package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	EnvFileName = ".env"

	extTOML = ".toml"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// LoadEnv loads variables from an env file if it exists. Variables that are
// already set in the environment win.
func LoadEnv(fileName string) error {
	if _, err := os.Stat(fileName); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("cannot stat env file %s: %w", fileName, err)
	}

	if err := godotenv.Load(fileName); err != nil {
		return fmt.Errorf("cannot load env file %s: %w", fileName, err)
	}

	return nil
}

// Load reads a YAML or TOML (by extension) config file over the defaults
// and expands $(VAR) placeholders. It does not validate.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	expanded := []byte(expandEnvVars(string(data)))

	cfg := NewConfig()
	if strings.EqualFold(filepath.Ext(path), extTOML) {
		if err := toml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("cannot unmarshal toml config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("cannot unmarshal yaml config %s: %w", path, err)
		}
	}

	cfg.SetDefaults()

	return cfg, nil
}
