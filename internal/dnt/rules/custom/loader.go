// Package custom loads user-defined rules from a directory of YAML, JSON
// or TOML files. Each rule's match is a CEL expression over the click
// context.
package custom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

// ErrReservedID is returned when a custom rule reuses a built-in switch id.
var ErrReservedID = errors.New("rule id is reserved")

// Definition is one rule as written in a rule file.
type Definition struct {
	ID             string `koanf:"id"`
	Name           string `koanf:"name"`
	Match          string `koanf:"match"`
	EnabledAction  string `koanf:"enabled_action"`
	DisabledAction string `koanf:"disabled_action"`
}

// LoadDirectory walks dir in lexical order and compiles every rule found
// in supported files. Ids in reserved, and the default id, are rejected.
// Custom rules may share an id with each other and then share one switch.
func LoadDirectory(dir string, c *Compiler, reserved []string) ([]domain.Rule, error) {
	taken := make(map[string]struct{}, len(reserved)+1)
	for _, id := range reserved {
		taken[id] = struct{}{}
	}
	taken[domain.DefaultRuleID] = struct{}{}

	var rules []domain.Rule
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		defs, err := loadRuleFile(path)
		if err != nil {
			return fmt.Errorf("error parsing rule file %s: %w", path, err)
		}
		for _, def := range defs {
			def.ID = strings.TrimSpace(def.ID)
			if _, ok := taken[def.ID]; ok {
				return fmt.Errorf("%s: %w: %q", path, ErrReservedID, def.ID)
			}
			rule, err := c.Compile(def)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rules = append(rules, rule)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// loadRuleFile parses one file, choosing the parser by extension. Files
// with other extensions yield no rules.
func loadRuleFile(path string) ([]Definition, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	case ".toml":
		parser = toml.Parser()
	default:
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("failed to load rule file %s: %w", path, err)
	}
	if !k.Exists("rules") {
		return nil, fmt.Errorf("rule file %s missing 'rules'", path)
	}
	var defs []Definition
	if err := k.Unmarshal("rules", &defs); err != nil {
		return nil, fmt.Errorf("failed to decode rules in %s: %w", path, err)
	}
	return defs, nil
}
