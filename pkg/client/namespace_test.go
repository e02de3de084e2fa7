package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/kipanshi/odesk-meter/pkg/oauth1"
)

// TestNamespaceURL validates URL composition
func TestNamespaceURL(t *testing.T) {
	tests := []struct {
		name    string
		ns      Namespace
		base    string
		path    string
		version int
		want    string
	}{
		{
			name:    "api namespace",
			ns:      Namespace{Root: RootAPI, Prefix: "hr", Version: 2},
			base:    "https://www.odesk.com",
			path:    "jobs/123",
			version: 2,
			want:    "https://www.odesk.com/api/hr/v2/jobs/123",
		},
		{
			name:    "gds namespace",
			ns:      Namespace{Root: RootGDS, Prefix: "timereports", Version: 1},
			base:    "https://www.odesk.com/",
			path:    "/providers/bob",
			version: 1,
			want:    "https://www.odesk.com/gds/timereports/v1/providers/bob",
		},
		{
			name:    "empty prefix",
			ns:      Namespace{Root: RootAPI, Version: 1},
			base:    "https://www.odesk.com",
			path:    "info",
			version: 1,
			want:    "https://www.odesk.com/api/v1/info",
		},
		{
			name:    "version override",
			ns:      Namespace{Root: RootAPI, Prefix: "team", Version: 1},
			base:    "https://www.odesk.com",
			path:    "teamrooms",
			version: 2,
			want:    "https://www.odesk.com/api/team/v2/teamrooms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ns.URL(tt.base, tt.path, tt.version); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestRouterEndToEnd validates a routed GET reaches the composed, suffixed path with a valid signature
func TestRouterEndToEnd(t *testing.T) {
	server, seen := recordingServer(t, `{"job":{"reference":"123"}}`)
	c := newTestClient(t, server.URL)

	hr := NewRouter(c, Namespace{Root: RootAPI, Prefix: "hr", Version: 2})
	res, err := hr.Get(context.Background(), "jobs/123", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Get("job.reference").String(); got != `"123"` {
		t.Errorf("unexpected response %s", res)
	}

	req := seen.at(0)
	if req.path != "/api/hr/v2/jobs/123.json" {
		t.Errorf("unexpected path %s", req.path)
	}
	if req.query.Get(oauth1.ParamSignature) == "" {
		t.Error("expected signed query parameters")
	}
}

// TestRouterVerbs validates every verb of a router
func TestRouterVerbs(t *testing.T) {
	server, seen := recordingServer(t, `{}`)
	c := newTestClient(t, server.URL)
	task := NewRouter(c, Namespace{Root: RootAPI, Prefix: "otask", Version: 1})
	ctx := context.Background()

	calls := []struct {
		method string
		fn     func() (Result, error)
	}{
		{http.MethodGet, func() (Result, error) { return task.Get(ctx, "tasks/companies/acme/tasks", nil) }},
		{http.MethodPost, func() (Result, error) { return task.Post(ctx, "tasks/companies/acme/tasks", Params{"code": "t1"}) }},
		{http.MethodPut, func() (Result, error) {
			return task.Put(ctx, "tasks/companies/acme/tasks/t1", Params{"description": "d"})
		}},
		{http.MethodDelete, func() (Result, error) { return task.Delete(ctx, "tasks/companies/acme/tasks/t1", nil) }},
	}
	for i, call := range calls {
		if _, err := call.fn(); err != nil {
			t.Fatalf("%s failed: %v", call.method, err)
		}
		if got := seen.at(i).method; got != call.method {
			t.Errorf("call %d: expected %s, got %s", i, call.method, got)
		}
	}
}

// TestRouterAtVersion validates a per-call override leaves the namespace unchanged
func TestRouterAtVersion(t *testing.T) {
	server, seen := recordingServer(t, `{}`)
	c := newTestClient(t, server.URL)
	team := NewRouter(c, Namespace{Root: RootAPI, Prefix: "team", Version: 1})
	ctx := context.Background()

	if _, err := team.Get(ctx, "teamrooms", nil, AtVersion(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := team.Get(ctx, "teamrooms", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := seen.at(0).path; got != "/api/team/v2/teamrooms.json" {
		t.Errorf("override call hit %s", got)
	}
	if got := seen.at(1).path; got != "/api/team/v1/teamrooms.json" {
		t.Errorf("following call hit %s", got)
	}
	if team.Namespace().Version != 1 {
		t.Errorf("namespace version changed to %d", team.Namespace().Version)
	}
}

// TestReadOnlyRouterGDS validates GDS calls skip the format suffix
func TestReadOnlyRouterGDS(t *testing.T) {
	server, seen := recordingServer(t, `{"table":{"cols":[],"rows":[]}}`)
	c := newTestClient(t, server.URL)
	reports := NewReadOnlyRouter(c, Namespace{Root: RootGDS, Prefix: "timereports", Version: 1})

	if _, err := reports.Get(context.Background(), "providers/bob", Params{"tq": "SELECT hours"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := seen.at(0)
	if req.path != "/gds/timereports/v1/providers/bob" {
		t.Errorf("unexpected path %s", req.path)
	}
	if req.query.Get("tq") != "SELECT hours" {
		t.Errorf("expected tq query, got %q", req.query.Get("tq"))
	}
	if want := server.URL + "/gds/timereports/v1/providers/bob"; reports.URL("providers/bob") != want {
		t.Errorf("URL() = %q, want %q", reports.URL("providers/bob"), want)
	}
}
