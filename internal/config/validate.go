package config

import (
	"fmt"
	"strings"
)

// builtinQualifiers are always imported by generated files.
var builtinQualifiers = map[string]bool{
	"approuter": true,
	"context":   true,
}

// Validate reports the first problem that would make the generated router
// fail to build. It expects a normalized spec.
func Validate(s *Spec) error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", ErrInvalidSpec)
	}
	if !IsIdent(s.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidSpec, s.Package)
	}
	if !IsIdent(s.Router) {
		return fmt.Errorf("%w: router %q is not an identifier", ErrInvalidSpec, s.Router)
	}
	if len(s.Handlers) == 0 {
		return fmt.Errorf("%w: no handlers declared", ErrInvalidSpec)
	}
	if len(s.Routes) == 0 {
		return fmt.Errorf("%w: no routes declared", ErrInvalidSpec)
	}

	imports, err := s.ParsedImports()
	if err != nil {
		return err
	}
	qualifiers := make(map[string]bool, len(imports)+len(builtinQualifiers))
	for q := range builtinQualifiers {
		qualifiers[q] = true
	}
	for _, imp := range imports {
		if qualifiers[imp.Alias] {
			return fmt.Errorf("%w: import alias %q used twice", ErrInvalidSpec, imp.Alias)
		}
		qualifiers[imp.Alias] = true
	}

	names := make(map[string]bool, len(s.Handlers))
	fields := make(map[string]string, len(s.Handlers))
	for i, h := range s.Handlers {
		if err := ValidateHandler(h, qualifiers); err != nil {
			return fmt.Errorf("handlers[%d]: %w", i, err)
		}
		if names[h.Name] {
			return fmt.Errorf("%w: handler %q declared twice", ErrInvalidSpec, h.Name)
		}
		names[h.Name] = true
		field := FieldName(h.Name)
		if prev, ok := fields[field]; ok {
			return fmt.Errorf("%w: handlers %q and %q both map to field %s", ErrInvalidSpec, prev, h.Name, field)
		}
		fields[field] = h.Name
	}

	seen := make(map[string]int, len(s.Routes))
	for i, r := range s.Routes {
		if err := ValidateRoute(r, names, qualifiers); err != nil {
			return fmt.Errorf("routes[%d]: %w", i, err)
		}
		key := r.identityKey()
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: routes[%d] (%s) and routes[%d] (%s) name the same type triple",
				ErrDuplicateRule, prev, s.Routes[prev].Key(), i, r.Key())
		}
		seen[key] = i
	}
	return nil
}

func ValidateHandler(h HandlerDecl, qualifiers map[string]bool) error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: handler name is required", ErrInvalidSpec)
	}
	if !IsIdent(h.Name) || FieldName(h.Name) == "" || !isExported(FieldName(h.Name)) {
		return fmt.Errorf("%w: handler name %q cannot become a field", ErrInvalidSpec, h.Name)
	}
	return validateType("handler "+h.Name+" type", h.Type, qualifiers)
}

func ValidateRoute(r RouteRule, handlers map[string]bool, qualifiers map[string]bool) error {
	if err := validateType("source", r.Source, qualifiers); err != nil {
		return err
	}
	if err := validateType("message", r.Message, qualifiers); err != nil {
		return err
	}
	if err := validateType("response", r.Response, qualifiers); err != nil {
		return err
	}
	if r.Name != "" && (!IsIdent(r.Name) || !isExported(FieldName(r.Name))) {
		return fmt.Errorf("%w: route name %q is not an identifier", ErrInvalidSpec, r.Name)
	}
	if len(r.Receivers) == 0 {
		return fmt.Errorf("%w: %s has no receivers", ErrInvalidSpec, r.Key())
	}
	for _, raw := range r.Receivers {
		recv, err := ParseReceiver(raw)
		if err != nil {
			return err
		}
		if !handlers[recv.Handler] {
			return fmt.Errorf("%w %q in %s", ErrUnknownReceiver, recv.Handler, r.Key())
		}
	}
	return nil
}

// Key identifies the rule by its (source, message, response) triple.
func (r RouteRule) Key() string {
	return r.Source + ", " + r.Message + ", " + r.Response
}

// identityKey is Key with predeclared aliases resolved, matching the
// approuter.RouteKey the rule registers under.
func (r RouteRule) identityKey() string {
	return identityType(r.Source) + ", " + identityType(r.Message) + ", " + identityType(r.Response)
}

func validateType(what, expr string, qualifiers map[string]bool) error {
	if strings.TrimSpace(expr) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidSpec, what)
	}
	if _, err := ParseType(expr); err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidSpec, what, expr, err)
	}
	for _, q := range Qualifiers(expr) {
		if !qualifiers[q] {
			return fmt.Errorf("%w: %s %q uses unimported package %q", ErrInvalidSpec, what, expr, q)
		}
	}
	return nil
}
