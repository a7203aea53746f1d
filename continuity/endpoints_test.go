package continuity

import (
	"context"
	"strings"
	"testing"

	"github.com/driftwatch/sdk/project"
)

func TestUpdateContextFromCode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "server.js", `
app.get('/api/products', listProducts)
app.get('/api/products/', listProducts)
app.get('/api/users/:id', getUser)
`)
	writeFile(t, root, "src/Cart.jsx", "function Cart() {\n")
	writeFile(t, root, "src/router.js", "{ path: '/checkout', component: Checkout }\n")

	patch, err := New().UpdateContextFromCode(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	// The duplicate route collapses under path normalization.
	if len(patch.Endpoints) != 2 {
		t.Fatalf("Endpoints = %+v, want 2", patch.Endpoints)
	}
	if patch.Endpoints[0].Path != "/api/products" || patch.Endpoints[0].Method != project.MethodGet {
		t.Errorf("first endpoint = %+v", patch.Endpoints[0])
	}
	if !strings.Contains(patch.Endpoints[0].Description, "server.js:2") {
		t.Errorf("Description = %q, want the discovery site", patch.Endpoints[0].Description)
	}
	if patch.Endpoints[0].Authentication {
		t.Error("/api/products should not be flagged for authentication")
	}
	if !patch.Endpoints[1].Authentication {
		t.Error("/api/users/:id should be flagged for authentication")
	}

	if len(patch.Components) != 1 || patch.Components[0].Name != "Cart" {
		t.Errorf("Components = %+v", patch.Components)
	}
	if patch.Components[0].Path != "src/Cart.jsx" {
		t.Errorf("component path = %q", patch.Components[0].Path)
	}

	if len(patch.Pages) != 1 {
		t.Fatalf("Pages = %+v, want 1", patch.Pages)
	}
	if patch.Pages[0].Route != "/checkout" || patch.Pages[0].Name != "Checkout" {
		t.Errorf("page = %+v", patch.Pages[0])
	}
}

func TestUpdateContextFromCodeEmptyTree(t *testing.T) {
	patch, err := New().UpdateContextFromCode(context.Background(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if !patch.IsEmpty() {
		t.Errorf("empty tree should yield an empty patch, got %+v", patch)
	}
}

func TestGenerateMissingEndpoints(t *testing.T) {
	declared := []project.Endpoint{
		{Path: "/api/products", Method: project.MethodGet},
	}
	calls := []FrontendCall{
		{File: "src/a.js", Line: 2, Method: project.MethodGet, Path: "/api/products"},
		{File: "src/a.js", Line: 3, Method: project.MethodGet, Path: "/api/users/:id"},
		{File: "src/b.js", Line: 7, Method: project.MethodGet, Path: "/api/users/:id"},
		{File: "src/b.js", Line: 9, Method: project.MethodPost, Path: "/api/orders"},
	}

	out := GenerateMissingEndpoints(calls, declared)
	if len(out) != 2 {
		t.Fatalf("expected 2 synthesized endpoints, got %+v", out)
	}

	users := out[0]
	if users.Path != "/api/users/:id" || users.Method != project.MethodGet {
		t.Errorf("synthesized endpoint = %+v", users)
	}
	if !users.Authentication {
		t.Error("user path should be flagged for authentication")
	}
	if len(users.Parameters) != 1 || users.Parameters[0].Name != "id" {
		t.Fatalf("Parameters = %+v, want one named id", users.Parameters)
	}
	if users.Parameters[0].Type != "string" || !users.Parameters[0].Required {
		t.Errorf("parameter = %+v", users.Parameters[0])
	}
	if !strings.Contains(users.Description, "src/a.js:3") {
		t.Errorf("Description = %q, want the first call site", users.Description)
	}

	orders := out[1]
	if orders.Method != project.MethodPost || orders.Authentication {
		t.Errorf("orders endpoint = %+v", orders)
	}
	if len(orders.Parameters) != 0 {
		t.Errorf("orders should have no inferred parameters, got %+v", orders.Parameters)
	}
}

func TestInferParameters(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/api/users/:id", []string{"id"}},
		{"/api/users/:userId/orders/:orderId", []string{"userId", "orderId"}},
		{"/api/products", nil},
		{"/api/odd/:", nil},
	}
	for _, tt := range tests {
		got := inferParameters(tt.path)
		if len(got) != len(tt.want) {
			t.Errorf("inferParameters(%q) = %+v, want %v", tt.path, got, tt.want)
			continue
		}
		for i, p := range got {
			if p.Name != tt.want[i] {
				t.Errorf("inferParameters(%q)[%d] = %q, want %q", tt.path, i, p.Name, tt.want[i])
			}
		}
	}
}

func TestAuthenticatedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api/users/:id", true},
		{"/api/profile", true},
		{"/admin/settings", true},
		{"/api/Dashboard", true},
		{"/api/products", false},
		{"/health", false},
	}
	for _, tt := range tests {
		if got := authenticatedPath(tt.path); got != tt.want {
			t.Errorf("authenticatedPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestPageName(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/", "Home"},
		{"/checkout", "Checkout"},
		{"/blog/posts", "Posts"},
	}
	for _, tt := range tests {
		if got := pageName(tt.route); got != tt.want {
			t.Errorf("pageName(%q) = %q, want %q", tt.route, got, tt.want)
		}
	}
}
