package cli

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/graphcompiler/internal/values"
)

// parseInputs turns key=value pairs into external inputs. Values are read as
// HCL literals (numbers, bools, strings, lists, objects); anything that is
// not a literal is taken as a plain string.
func parseInputs(pairs []string) (map[string]any, error) {
	inputs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid input %q: expected key=value", pair)
		}
		if _, dup := inputs[key]; dup {
			return nil, fmt.Errorf("input %q given more than once", key)
		}

		v, err := values.ParseLiteral(raw)
		if err != nil {
			v = raw
		}
		inputs[key] = v
	}
	return inputs, nil
}
