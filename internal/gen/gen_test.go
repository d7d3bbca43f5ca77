package gen

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/approuter/internal/config"
	"github.com/danmuck/approuter/internal/testutil/testlog"
)

func simpleSpec(t *testing.T) *config.Spec {
	t.Helper()
	spec := &config.Spec{
		Package: "main",
		Imports: []string{"github.com/danmuck/approuter/examples/simple/middleware"},
		Handlers: []config.HandlerDecl{
			{Name: "my_source", Type: "MySource"},
			{Name: "middleware", Type: "middleware.UserMiddleware"},
			{Name: "sink", Type: "Sink"},
		},
		Rules: []string{
			"MySource, middleware.MyMessage, string: [middleware]",
			"middleware.UserMiddleware, middleware.MyMessage, string: [sink]",
		},
	}
	if err := spec.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return spec
}

func generate(t *testing.T, spec *config.Spec) (string, *ast.File) {
	t.Helper()
	src, err := Generate(spec, Options{Source: "routes.toml"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	file, err := parser.ParseFile(token.NewFileSet(), DefaultOutput, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	return string(src), file
}

func methods(file *ast.File) map[string]string {
	out := map[string]string{}
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil {
			continue
		}
		recv := fn.Recv.List[0].Type
		name := ""
		switch x := recv.(type) {
		case *ast.StarExpr:
			name = "*" + x.X.(*ast.Ident).Name
		case *ast.Ident:
			name = x.Name
		}
		out[name+"."+fn.Name.Name] = name
	}
	return out
}

func TestGenerateSimpleRouter(t *testing.T) {
	testlog.Start(t)
	src, file := generate(t, simpleSpec(t))

	if !strings.HasPrefix(src, Header+"\n// source: routes.toml\n") {
		t.Fatalf("missing header:\n%s", src)
	}
	if file.Name.Name != "main" {
		t.Fatalf("unexpected package: %s", file.Name.Name)
	}
	for _, want := range []string{
		`"github.com/danmuck/approuter/examples/simple/middleware"`,
		`var AppRouterRoutes = approuter.NewTable[*AppRouter]("AppRouter")`,
		`approuter.MustRegister[MySource, middleware.MyMessage, string](AppRouterRoutes, (*AppRouter).RouteMySourceMyMessage)`,
		`approuter.MustRegister[middleware.UserMiddleware, middleware.MyMessage, string](AppRouterRoutes, (*AppRouter).RouteUserMiddlewareMyMessage)`,
		`func (r *AppRouter) RouteMySourceMyMessage(ctx context.Context, msg *middleware.MyMessage) (out string, err error) {`,
		`return r.Middleware.Handle(ctx, msg, r)`,
		`return r.Sink.Handle(ctx, msg, r)`,
		`func (MySource) SendMyMessage(ctx context.Context, msg *middleware.MyMessage, r *AppRouter) (string, error) {`,
		`func (r *AppRouter) Resolve(key approuter.RouteKey) (any, bool) {`,
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source is missing %q:\n%s", want, src)
		}
	}

	got := methods(file)
	if _, ok := got["middleware.UserMiddleware.SendMyMessage"]; ok {
		t.Fatalf("send method attached to a foreign type")
	}
	if len(got) != 4 {
		t.Fatalf("unexpected methods: %v", got)
	}

	var fields []string
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		st := gd.Specs[0].(*ast.TypeSpec).Type.(*ast.StructType)
		for _, f := range st.Fields.List {
			fields = append(fields, f.Names[0].Name)
		}
	}
	if strings.Join(fields, ",") != "MySource,Middleware,Sink" {
		t.Fatalf("unexpected router fields: %v", fields)
	}
}

func TestGenerateChainKeepsOrderAndLastResult(t *testing.T) {
	testlog.Start(t)
	spec := &config.Spec{
		Package: "chain",
		Handlers: []config.HandlerDecl{
			{Name: "audit", Type: "*Audit"},
			{Name: "store", Type: "*Store"},
		},
		Rules: []string{
			"Client, Put, string: [audit, store.HandlePut]",
			"Client, Ping: [audit.HandlePing]",
		},
	}
	if err := spec.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	src, _ := generate(t, spec)

	chain := "\tif _, err = r.Audit.Handle(ctx, msg, r); err != nil {\n\t\treturn out, err\n\t}\n\treturn r.Store.HandlePut(ctx, msg, r)\n"
	if !strings.Contains(src, chain) {
		t.Fatalf("chain body not generated in order:\n%s", src)
	}
	for _, want := range []string{
		`func (r *AppRouter) RouteClientPing(ctx context.Context, msg *Ping) (out approuter.Unit, err error) {`,
		`func (Client) SendPing(ctx context.Context, msg *Ping, r *AppRouter) (approuter.Unit, error) {`,
		`// Receivers run in order; only the result of store is returned.`,
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source is missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateDisambiguatesByResponse(t *testing.T) {
	testlog.Start(t)
	spec := &config.Spec{
		Handlers: []config.HandlerDecl{{Name: "sink", Type: "Sink"}},
		Rules: []string{
			"Src, Msg, string: [sink]",
			"Src, Msg, int: [sink.HandleCount]",
			"Src, Other: [sink.HandleOther]",
		},
	}
	if err := spec.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	src, _ := generate(t, spec)
	for _, want := range []string{
		"RouteSrcMsgString(", "RouteSrcMsgInt(", "RouteSrcOther(",
		"SendMsgString(", "SendMsgInt(", "SendOther(",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("generated source is missing %q:\n%s", want, src)
		}
	}
}

func TestGenerateNameCollisions(t *testing.T) {
	testlog.Start(t)
	cases := map[string]*config.Spec{
		"named rules": {
			Handlers: []config.HandlerDecl{{Name: "sink", Type: "Sink"}},
			Routes: []config.RouteRule{
				{Source: "A", Message: "M", Receivers: []string{"sink"}, Name: "Same"},
				{Source: "B", Message: "N", Receivers: []string{"sink"}, Name: "Same"},
			},
		},
		"field vs resolve": {
			Handlers: []config.HandlerDecl{{Name: "resolve", Type: "Sink"}},
			Rules:    []string{"A, M: [resolve]"},
		},
		"reserved alias": {
			Imports:  []string{"msg github.com/acme/msg"},
			Handlers: []config.HandlerDecl{{Name: "sink", Type: "Sink"}},
			Rules:    []string{"A, msg.M: [sink]"},
		},
	}
	for name, spec := range cases {
		if err := spec.Normalize(); err != nil {
			t.Fatalf("%s: normalize: %v", name, err)
		}
		if _, err := Generate(spec, Options{}); !errors.Is(err, ErrNameCollision) {
			t.Fatalf("%s: expected ErrNameCollision, got %v", name, err)
		}
	}
}

func TestGenerateSendOnPointerSource(t *testing.T) {
	testlog.Start(t)
	spec := &config.Spec{
		Handlers: []config.HandlerDecl{{Name: "sink", Type: "Sink"}},
		Routes: []config.RouteRule{
			{Source: "*Client", Message: "Put", Receivers: []string{"sink"}},
			{Source: "Events", Message: "Tick", Receivers: []string{"sink.HandleTick"}, NoSend: true},
		},
	}
	if err := spec.Normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	src, file := generate(t, spec)
	got := methods(file)
	if _, ok := got["*Client.SendPut"]; !ok {
		t.Fatalf("pointer source has no Send method:\n%s", src)
	}
	if _, ok := got["Events.SendTick"]; ok {
		t.Fatalf("no_send rule still generated a Send method:\n%s", src)
	}
	if _, ok := got["*AppRouter.RouteEventsTick"]; !ok {
		t.Fatalf("no_send rule lost its route method:\n%s", src)
	}
}

func TestGenerateTwoRoutersInOnePackage(t *testing.T) {
	testlog.Start(t)
	build := func(router string) *config.Spec {
		spec := &config.Spec{
			Router:   router,
			Handlers: []config.HandlerDecl{{Name: "sink", Type: "Sink"}},
			Rules:    []string{"MySource, MyMessage, string: [sink]"},
		}
		if err := spec.Normalize(); err != nil {
			t.Fatalf("normalize: %v", err)
		}
		return spec
	}

	sends := map[string]string{}
	for _, router := range []string{config.DefaultRouter, "Audit"} {
		_, file := generate(t, build(router))
		for name := range methods(file) {
			if !strings.HasPrefix(name, "MySource.") {
				continue
			}
			if prev, ok := sends[name]; ok {
				t.Fatalf("%s declared by both %s and %s", name, prev, router)
			}
			sends[name] = router
		}
	}
	for _, want := range []string{"MySource.SendMyMessage", "MySource.SendMyMessageToAudit"} {
		if _, ok := sends[want]; !ok {
			t.Fatalf("missing %s, got %v", want, sends)
		}
	}
}

func TestGenerateRejectsInvalidSpec(t *testing.T) {
	testlog.Start(t)
	spec := simpleSpec(t)
	spec.Routes[0].Receivers = []string{"nobody"}
	if _, err := Generate(spec, Options{}); !errors.Is(err, config.ErrUnknownReceiver) {
		t.Fatalf("expected ErrUnknownReceiver, got %v", err)
	}
}

func TestWriteFileProtectsHandwrittenFiles(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", DefaultOutput)
	src := []byte(Header + "\n\npackage main\n")

	if err := WriteFile(path, src, false); err != nil {
		t.Fatalf("write new file: %v", err)
	}
	if err := WriteFile(path, src, false); err != nil {
		t.Fatalf("rewrite generated file: %v", err)
	}

	manual := filepath.Join(dir, "manual.go")
	if err := os.WriteFile(manual, []byte("package main\n"), 0o644); err != nil {
		t.Fatalf("seed manual file: %v", err)
	}
	if err := WriteFile(manual, src, false); !errors.Is(err, ErrNotGenerated) {
		t.Fatalf("expected ErrNotGenerated, got %v", err)
	}
	if err := WriteFile(manual, src, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
	data, _ := os.ReadFile(manual)
	if !IsGenerated(data) {
		t.Fatalf("forced write did not replace the file")
	}
}
