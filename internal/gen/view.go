package gen

import (
	"fmt"
	"strings"

	"github.com/danmuck/approuter/internal/config"
)

// Identifiers used by generated method bodies; table qualifiers may not
// shadow them.
var reservedNames = map[string]bool{
	"ctx": true,
	"msg": true,
	"r":   true,
	"out": true,
	"err": true,
}

type routerView struct {
	Header  string
	Source  string
	Package string
	Router  string
	Imports []importView
	Fields  []fieldView
	Routes  []routeView
}

type importView struct {
	Alias    string
	Path     string
	Explicit bool
}

type fieldView struct {
	Name    string
	Type    string
	Handler string
}

type stepView struct {
	Handler string
	Field   string
	Method  string
}

type routeView struct {
	Source   string
	Message  string
	Response string
	Route    string
	Send     string
	Steps    []stepView
	Last     stepView
}

func (r routeView) ReceiverList() string {
	names := make([]string, 0, len(r.Steps)+1)
	for _, s := range r.Steps {
		names = append(names, s.Handler)
	}
	names = append(names, r.Last.Handler)
	return strings.Join(names, ", ")
}

func buildView(spec *config.Spec, source string) (*routerView, error) {
	view := &routerView{
		Header:  Header,
		Source:  source,
		Package: spec.Package,
		Router:  spec.Router,
	}

	imports, err := spec.ParsedImports()
	if err != nil {
		return nil, err
	}
	for _, imp := range imports {
		if reservedNames[imp.Alias] {
			return nil, fmt.Errorf("%w: import alias %q shadows a generated identifier", ErrNameCollision, imp.Alias)
		}
		view.Imports = append(view.Imports, importView{
			Alias:    imp.Alias,
			Path:     imp.Path,
			Explicit: imp.Alias != lastElem(imp.Path),
		})
	}

	fields := make(map[string]string, len(spec.Handlers))
	members := map[string]string{"Resolve": "router method"}
	for _, h := range spec.Handlers {
		f := fieldView{Name: config.FieldName(h.Name), Type: h.Type, Handler: h.Name}
		fields[h.Name] = f.Name
		if prev, ok := members[f.Name]; ok {
			return nil, fmt.Errorf("%w: field %s of handler %q collides with %s", ErrNameCollision, f.Name, h.Name, prev)
		}
		members[f.Name] = "handler " + h.Name
		view.Fields = append(view.Fields, f)
	}

	pairs := make(map[string]int, len(spec.Routes))
	for _, r := range spec.Routes {
		pairs[r.Source+"|"+r.Message]++
	}

	sends := make(map[string]string)
	for _, r := range spec.Routes {
		rv := routeView{
			Source:   r.Source,
			Message:  r.Message,
			Response: r.Response,
		}
		suffix, sendSuffix := methodSuffixes(r, pairs[r.Source+"|"+r.Message] > 1)
		rv.Route = "Route" + suffix
		if prev, ok := members[rv.Route]; ok {
			return nil, fmt.Errorf("%w: %s for %s collides with %s", ErrNameCollision, rv.Route, r.Key(), prev)
		}
		members[rv.Route] = "route " + r.Key()

		if base, ok := config.LocalBase(r.Source); ok && !r.NoSend {
			rv.Send = "Send" + sendSuffix
			if spec.Router != config.DefaultRouter {
				rv.Send += "To" + spec.Router
			}
			id := base + "." + rv.Send
			if prev, ok := sends[id]; ok {
				return nil, fmt.Errorf("%w: %s for %s collides with %s", ErrNameCollision, id, r.Key(), prev)
			}
			sends[id] = r.Key()
		}

		steps := make([]stepView, 0, len(r.Receivers))
		for _, raw := range r.Receivers {
			recv, err := config.ParseReceiver(raw)
			if err != nil {
				return nil, err
			}
			steps = append(steps, stepView{
				Handler: recv.Handler,
				Field:   fields[recv.Handler],
				Method:  recv.Method,
			})
		}
		rv.Last = steps[len(steps)-1]
		rv.Steps = steps[:len(steps)-1]
		view.Routes = append(view.Routes, rv)
	}
	return view, nil
}

// methodSuffixes names the Route and Send methods of a rule. The response is
// only part of the name when the (source, message) pair is not unique.
func methodSuffixes(r config.RouteRule, ambiguous bool) (string, string) {
	if r.Name != "" {
		name := config.FieldName(r.Name)
		return name, name
	}
	msg := config.TypeIdent(r.Message)
	if ambiguous {
		msg += config.TypeIdent(r.Response)
	}
	return config.TypeIdent(r.Source) + msg, msg
}

func lastElem(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
