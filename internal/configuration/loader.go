package configuration

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"replsync/internal/configuration/util"
)

const baseName = "application"

// Load reads application.yml from dir on top of the defaults, then the
// overlay application-<profile>.yml when a profile is set. A non empty
// profile argument replaces app.profile from the base file. An empty dir
// yields the defaults. Logging is not configured yet when Load runs, so
// failures are only returned.
func Load(dir, profile string) (*Properties, error) {
	cfg := Defaults()
	if dir == "" {
		return cfg, nil
	}

	if err := loadBaseConfig(dir, cfg); err != nil {
		return nil, err
	}

	if profile != "" {
		cfg.App.Profile = profile
	}
	if cfg.App.Profile == "" {
		return cfg, nil
	}

	if err := loadProfileConfig(dir, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadBaseConfig(dir string, cfg *Properties) error {
	baseConfig, err := util.LoadAndExpandYaml(dir, baseName)
	if err != nil {
		return fmt.Errorf("base config: %w", err)
	}

	if err := yaml.Unmarshal([]byte(baseConfig), cfg); err != nil {
		return fmt.Errorf("parse %s.yml: %w", baseName, err)
	}

	return nil
}

func loadProfileConfig(dir string, cfg *Properties) error {
	name := fmt.Sprintf("%s-%s", baseName, cfg.App.Profile)

	profileConfig, err := util.LoadAndExpandYaml(dir, name)
	if err != nil {
		return fmt.Errorf("profile %q: %w", cfg.App.Profile, err)
	}

	if err := yaml.Unmarshal([]byte(profileConfig), cfg); err != nil {
		return fmt.Errorf("parse %s.yml: %w", name, err)
	}

	return nil
}
