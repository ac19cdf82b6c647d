package profile

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/viper"
)

// Load reads a profile file (yaml, json or toml, chosen by extension).
func Load(path string) (*CandidateProfile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}

	p, err := Decode(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", path, err)
	}

	return p, nil
}

// Write stores the profile in a file whose format follows the extension.
func Write(path string, p *CandidateProfile) error {
	if err := Validate(p); err != nil {
		return err
	}

	// json tags drive the key names and omit empty sections.
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}

	v := viper.New()
	for key, value := range doc {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing profile %q: %w", path, err)
	}

	return nil
}
