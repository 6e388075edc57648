package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/graphcompiler/internal/ctxlog"
)

// IsAny reports whether t places no constraint on a value.
func IsAny(t cty.Type) bool {
	return t == cty.NilType || t.Equals(cty.DynamicPseudoType)
}

// CheckValue reports whether v can be represented as a value of type t.
func CheckValue(t cty.Type, v any) error {
	if IsAny(t) {
		return nil
	}
	if _, err := gocty.ToCtyValue(v, t); err != nil {
		return fmt.Errorf("value of type %T is not a valid %s: %w", v, t.FriendlyName(), err)
	}
	return nil
}

// Validate checks every registered function for internal consistency: a
// non-nil Fn, non-empty and unique input names, and defaults that match
// their declared type. All problems are reported together.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		fn := r.functions[name]
		if fn.Fn == nil {
			errs = append(errs, fmt.Sprintf("function '%s': no Go implementation registered", name))
		}

		seen := make(map[string]struct{}, len(fn.Inputs))
		for i, in := range fn.Inputs {
			if in.Name == "" {
				errs = append(errs, fmt.Sprintf("function '%s': input at position %d has no name", name, i))
				continue
			}
			if _, dup := seen[in.Name]; dup {
				errs = append(errs, fmt.Sprintf("function '%s': input '%s' declared more than once", name, in.Name))
				continue
			}
			seen[in.Name] = struct{}{}

			if in.HasDefault {
				if err := CheckValue(in.Type, in.Default); err != nil {
					errs = append(errs, fmt.Sprintf("function '%s', input '%s': default does not match declared type: %v", name, in.Name, err))
				}
			}
			if in.Type != cty.NilType && in.Type.Equals(cty.DynamicPseudoType) {
				logger.Debug("Function input has type 'any', values are not checked.", "function", name, "input", in.Name)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
