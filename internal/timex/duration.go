// Package timex provides a time.Duration that can be read from config files.
package timex

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts "30s"-style strings or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalText(b []byte) error {
	return d.set(string(b))
}

// UnmarshalTOML is picked up by github.com/pelletier/go-toml.
func (d *Duration) UnmarshalTOML(v any) error {
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case string:
		p, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = p
	case float64:
		d.Duration = time.Duration(x)
	case int:
		d.Duration = time.Duration(x)
	case int64:
		d.Duration = time.Duration(x)
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}
