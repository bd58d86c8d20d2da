package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pthm/rigor"
	"github.com/pthm/rigor/internal/demo"
	"gopkg.in/yaml.v3"
)

// parseNode decodes a node written as a YAML or JSON list:
//
//	- div
//	- class: box
//	- Hello
//	- ["@Counter", {start: 3}]
//
// A tag starting with "@" names one of the demo components.
func parseNode(data []byte, name string) (any, error) {
	var raw any
	if strings.ToLower(filepath.Ext(name)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return resolveNode(raw)
}

func resolveNode(v any) (any, error) {
	switch x := v.(type) {
	case []any:
		n := make(rigor.Node, len(x))
		for i, c := range x {
			if i == 0 {
				if s, ok := c.(string); ok && strings.HasPrefix(s, "@") {
					comp, ok := demo.Lookup(s[1:])
					if !ok {
						return nil, fmt.Errorf("unknown component %q (have %s)", s[1:], strings.Join(demo.Names(), ", "))
					}
					n[0] = comp
					continue
				}
			}
			r, err := resolveNode(c)
			if err != nil {
				return nil, err
			}
			n[i] = r
		}
		return n, nil
	case map[string]any:
		return rigor.Props(x), nil
	}
	return v, nil
}

// propsFromPairs parses key=value flags into props.
func propsFromPairs(pairs []string) (rigor.Props, error) {
	props := make(rigor.Props, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid prop %q, want key=value", p)
		}
		props[k] = v
	}
	return props, nil
}
