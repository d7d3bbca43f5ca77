package gen

const routerSource = `{{.Header}}
{{- if .Source}}
// source: {{.Source}}
{{- end}}

package {{.Package}}

import (
	"context"

	"github.com/danmuck/approuter"
{{- range .Imports}}
	{{if .Explicit}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Router}} owns one instance of every handler in the routing table.
type {{.Router}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.Router}}Routes makes every declared route reachable through approuter.Send.
var {{.Router}}Routes = approuter.NewTable[*{{.Router}}]("{{.Router}}")

func init() {
{{- range .Routes}}
	approuter.MustRegister[{{.Source}}, {{.Message}}, {{.Response}}]({{$.Router}}Routes, (*{{$.Router}}).{{.Route}})
{{- end}}
}

// Resolve implements approuter.Router.
func (r *{{.Router}}) Resolve(key approuter.RouteKey) (any, bool) {
	return {{.Router}}Routes.Resolve(r, key)
}
{{range .Routes}}
// {{.Route}} routes {{.Message}} from {{.Source}} to {{.ReceiverList}}.
{{- if .Steps}}
// Receivers run in order; only the result of {{.Last.Handler}} is returned.
{{- end}}
func (r *{{$.Router}}) {{.Route}}(ctx context.Context, msg *{{.Message}}) (out {{.Response}}, err error) {
{{- range .Steps}}
	if _, err = r.{{.Field}}.{{.Method}}(ctx, msg, r); err != nil {
		return out, err
	}
{{- end}}
	return r.{{.Last.Field}}.{{.Last.Method}}(ctx, msg, r)
}
{{if .Send}}
// {{.Send}} sends msg into r.
func ({{.Source}}) {{.Send}}(ctx context.Context, msg *{{.Message}}, r *{{$.Router}}) ({{.Response}}, error) {
	return r.{{.Route}}(ctx, msg)
}
{{end}}
{{- end -}}
`
