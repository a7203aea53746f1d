package continuity

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftwatch/sdk/project"
)

// authPathKeywords trigger the authentication flag on synthesized
// endpoints.
var authPathKeywords = []string{"user", "profile", "dashboard", "admin", "account"}

// UpdateContextFromCode discovers backend routes, components, and pages
// under root and returns them as a ContextPatch. The patch replaces the
// whole discovered-endpoint list rather than diffing; folding it into a
// context goes through project.MergePatches, where caller-supplied
// values take precedence over discovered ones.
func (a *Analyzer) UpdateContextFromCode(ctx context.Context, root string) (*project.ContextPatch, error) {
	files, err := a.src.ReadTree(ctx, root, a.concurrency)
	if err != nil {
		return nil, fmt.Errorf("continuity: update from %s: %w", root, err)
	}
	facts := a.extractor.Extract(files)

	patch := &project.ContextPatch{}

	var endpoints []project.Endpoint
	for _, r := range facts.Routes {
		endpoints = append(endpoints, project.Endpoint{
			Path:           project.NormalizePath(r.Path),
			Method:         r.Method,
			Description:    fmt.Sprintf("Discovered from %s:%d", r.File, r.Line),
			Authentication: authenticatedPath(r.Path),
		})
	}
	if endpoints != nil {
		patch.Endpoints = project.DedupeEndpoints(endpoints)
	}

	seen := make(map[string]bool)
	for _, def := range facts.ComponentDefs {
		if seen[def.Name] {
			continue
		}
		seen[def.Name] = true
		patch.Components = append(patch.Components, project.Component{
			Name: def.Name,
			Path: def.File,
		})
	}

	seenRoute := make(map[string]bool)
	for _, route := range facts.RoutePaths {
		normalized := project.NormalizePath(route)
		if seenRoute[normalized] {
			continue
		}
		seenRoute[normalized] = true
		patch.Pages = append(patch.Pages, project.Page{
			Name:  pageName(normalized),
			Route: normalized,
		})
	}

	return patch, nil
}

// GenerateMissingEndpoints synthesizes declarations for discovered
// frontend calls that have no declared match. Parameters are inferred
// best-effort from template segments and may be empty; the
// authentication flag follows a fixed keyword heuristic on the path.
func GenerateMissingEndpoints(calls []FrontendCall, declared []project.Endpoint) []project.Endpoint {
	existing := make(map[string]bool, len(declared))
	for _, e := range declared {
		existing[e.Key()] = true
	}

	var out []project.Endpoint
	seen := make(map[string]bool)
	for _, call := range calls {
		key := call.Key()
		if existing[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, project.Endpoint{
			Path:           project.NormalizePath(call.Path),
			Method:         call.Method,
			Description:    fmt.Sprintf("Auto-generated from frontend call at %s:%d", call.File, call.Line),
			Parameters:     inferParameters(call.Path),
			Authentication: authenticatedPath(call.Path),
		})
	}
	return out
}

// inferParameters extracts :name template segments as path parameters.
func inferParameters(path string) []project.Parameter {
	var params []project.Parameter
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ":") && len(seg) > 1 {
			params = append(params, project.Parameter{
				Name:     seg[1:],
				Type:     "string",
				Required: true,
			})
		}
	}
	return params
}

// authenticatedPath applies the fixed keyword heuristic for the
// authentication flag on synthesized endpoints.
func authenticatedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, keyword := range authPathKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// pageName derives a readable page name from a route.
func pageName(route string) string {
	if route == "/" {
		return "Home"
	}
	segs := strings.Split(strings.Trim(route, "/"), "/")
	name := segs[len(segs)-1]
	if name == "" {
		return "Home"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
