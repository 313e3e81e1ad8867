// Package tuning reloads controller parameters from a YAML file while the
// robot runs. A Watcher parses the file on change on its own goroutine
// and a cooperative Task applies the latest values to the cells.
package tuning

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Params are the tunable values. Absent keys leave cells unchanged.
type Params struct {
	Gain     *float64 `yaml:"gain,omitempty"`
	Setpoint *float64 `yaml:"setpoint,omitempty"`
	LineGain *float64 `yaml:"kp_line,omitempty"`
}

func (p *Params) String() string {
	f := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("gain=%s setpoint=%s kp_line=%s", f(p.Gain), f(p.Setpoint), f(p.LineGain))
}

// ParseParams decodes YAML. Unknown keys are rejected.
func ParseParams(data []byte) (*Params, error) {
	var p Params
	node := yaml.Node{}
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return &p, nil
	}
	root := node.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tuning: expect a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		switch key := root.Content[i].Value; key {
		case "gain", "setpoint", "kp_line":
		default:
			return nil, fmt.Errorf("tuning: unknown key %q at line %d", key, root.Content[i].Line)
		}
	}
	if err := root.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadParams reads a YAML file.
func LoadParams(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseParams(data)
}
