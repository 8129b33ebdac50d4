package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DNT_"

// FileEnv names the optional configuration file.
const FileEnv = EnvPrefix + "CONFIG_FILE"

// AppConfig holds the runtime configuration of the tool.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// StorePath is the bbolt settings file. Empty keeps settings in memory.
	StorePath string `koanf:"store_path"`

	// StoreTimeout bounds how long opening the settings file waits for its lock.
	StoreTimeout time.Duration `koanf:"store_timeout" validate:"gte=0"`

	// RulesDir holds custom rule files. Empty disables custom rules.
	RulesDir string `koanf:"rules_dir" validate:"omitempty,dir"`

	// InferRowClicks maps blank clicks inside topic list rows to the row's title link.
	InferRowClicks bool `koanf:"infer_row_clicks"`

	// ClassifyCacheSize is the number of classified paths kept in memory. Zero disables the cache.
	ClassifyCacheSize int `koanf:"classify_cache_size" validate:"gte=0"`

	// Label is attached to every debug record.
	Label string `koanf:"label" validate:"required,label"`
}

// DEFAULT_APP_CONFIG defines the defaults applied before the file and the environment.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:               "prod",
	LogLevel:          "info",
	StorePath:         "",
	StoreTimeout:      time.Second,
	RulesDir:          "",
	InferRowClicks:    true,
	ClassifyCacheSize: 512,
	Label:             "[discourse-new-tab]",
}

// validLabel accepts a single line of printable characters.
func validLabel(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// fileLoader loads the file named by DNT_CONFIG_FILE, if set. The parser
// is picked from the extension.
var fileLoader = func(k *koanf.Koanf) error {
	path := strings.TrimSpace(os.Getenv(FileEnv))
	if path == "" {
		return nil
	}
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return fmt.Errorf("unsupported config file type: %s", path)
	}
	return k.Load(file.Provider(path), parser)
}

// envLoader loads environment variables with the prefix "DNT_", lowercasing
// the keys and removing the prefix. It can be replaced in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), strings.TrimSpace(value)
		},
	}), nil)
}

// registerValidation registers the "label" tag.
var registerValidation = func(v *validator.Validate) error {
	return v.RegisterValidation("label", validLabel)
}

// Load applies defaults, then the optional file, then the environment,
// and validates the result.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := fileLoader(k); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}
