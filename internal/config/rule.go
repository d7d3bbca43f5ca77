package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Receiver is one entry of a rule's receiver list.
type Receiver struct {
	Handler string
	Method  string
}

// Import is a package the generated file needs for the table's types.
type Import struct {
	Alias string
	Path  string
}

// ParseRule parses the compact form
//
//	Source, Message[, Response]: [recv1, recv2.Method]
//
// Commas and colons nested in brackets, parens or braces belong to the type.
func ParseRule(raw string) (RouteRule, error) {
	head, tail, ok := cutTopLevel(raw, ':')
	if !ok {
		return RouteRule{}, fmt.Errorf("%w: rule %q has no receiver list", ErrInvalidSpec, raw)
	}
	types := splitTopLevel(head, ',')
	if len(types) < 2 || len(types) > 3 {
		return RouteRule{}, fmt.Errorf("%w: rule %q needs source, message and optional response", ErrInvalidSpec, raw)
	}
	rule := RouteRule{
		Source:  strings.TrimSpace(types[0]),
		Message: strings.TrimSpace(types[1]),
	}
	if len(types) == 3 {
		rule.Response = strings.TrimSpace(types[2])
	}

	list := strings.TrimSpace(tail)
	if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
		return RouteRule{}, fmt.Errorf("%w: rule %q receivers must be bracketed", ErrInvalidSpec, raw)
	}
	for _, recv := range strings.Split(list[1:len(list)-1], ",") {
		recv = strings.TrimSpace(recv)
		if recv == "" {
			continue
		}
		rule.Receivers = append(rule.Receivers, recv)
	}
	return rule, nil
}

// ParseReceiver splits "name" or "name.Method".
func ParseReceiver(raw string) (Receiver, error) {
	raw = strings.TrimSpace(raw)
	name, method, found := strings.Cut(raw, ".")
	if !found {
		method = DefaultMethod
	}
	if !IsIdent(name) {
		return Receiver{}, fmt.Errorf("%w: receiver %q", ErrInvalidSpec, raw)
	}
	if !IsIdent(method) || !isExported(method) {
		return Receiver{}, fmt.Errorf("%w: receiver %q method must be an exported identifier", ErrInvalidSpec, raw)
	}
	return Receiver{Handler: name, Method: method}, nil
}

// ParseImport accepts `path` or `alias path`, with or without quotes.
func ParseImport(raw string) (Import, error) {
	fields := strings.Fields(raw)
	var imp Import
	switch len(fields) {
	case 1:
		imp.Path = unquote(fields[0])
		imp.Alias = defaultAlias(imp.Path)
	case 2:
		imp.Alias = fields[0]
		imp.Path = unquote(fields[1])
	default:
		return Import{}, fmt.Errorf("%w: import %q", ErrInvalidSpec, raw)
	}
	if imp.Path == "" {
		return Import{}, fmt.Errorf("%w: import %q has no path", ErrInvalidSpec, raw)
	}
	if !IsIdent(imp.Alias) {
		return Import{}, fmt.Errorf("%w: import %q needs an explicit alias", ErrInvalidSpec, raw)
	}
	return imp, nil
}

// ParsedImports returns the table's imports keyed in declaration order.
func (s *Spec) ParsedImports() ([]Import, error) {
	out := make([]Import, 0, len(s.Imports))
	for _, raw := range s.Imports {
		imp, err := ParseImport(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, nil
}

func defaultAlias(path string) string {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	last := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(last) {
		last = parts[len(parts)-2]
	}
	return last
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(elem[1:])
	return err == nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

func cutTopLevel(s string, sep byte) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	for {
		head, tail, ok := cutTopLevel(s, sep)
		parts = append(parts, head)
		if !ok {
			return parts
		}
		s = tail
	}
}
