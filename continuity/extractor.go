package continuity

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/driftwatch/sdk/project"
	"github.com/driftwatch/sdk/source"
)

// FrontendCall is one discovered API call site in frontend code.
type FrontendCall struct {
	File   string
	Line   int
	Method project.HTTPMethod
	Path   string

	// Raw is the matched call text, kept for issue messages.
	Raw string
}

// Location formats the call site as "file:line call".
func (c FrontendCall) Location() string {
	return c.File + ":" + strconv.Itoa(c.Line) + " " + c.Raw
}

// Key returns the (method, path) identity of the call.
func (c FrontendCall) Key() string {
	return project.EndpointKey(c.Method, c.Path)
}

// RouteDecl is one discovered backend route registration.
type RouteDecl struct {
	File   string
	Line   int
	Method project.HTTPMethod
	Path   string
}

// Key returns the (method, path) identity of the route.
func (r RouteDecl) Key() string {
	return project.EndpointKey(r.Method, r.Path)
}

// ComponentDef is one discovered component definition.
type ComponentDef struct {
	File string
	Line int
	Name string
}

// ComponentUse is one discovered component usage in markup.
type ComponentUse struct {
	File string
	Line int
	Name string
}

// NavTarget is one discovered programmatic navigation call.
type NavTarget struct {
	File  string
	Line  int
	Route string
}

// AuthCall is one discovered authentication-related call referencing an
// auth endpoint string.
type AuthCall struct {
	File string
	Line int
	Path string
	Raw  string
}

// Facts is everything discovery extracts from a source tree.
type Facts struct {
	Calls         []FrontendCall
	Routes        []RouteDecl
	ComponentDefs []ComponentDef
	ComponentUses []ComponentUse
	RoutePaths    []string
	NavTargets    []NavTarget
	AuthCalls     []AuthCall
}

// SourceFactExtractor discovers usage facts from source files. The
// default implementation is lexical; implementations backed by real
// parsers can replace it without changing reconciliation.
type SourceFactExtractor interface {
	Extract(files []source.File) *Facts
}

// LexicalExtractor discovers facts by regular-expression matching over
// lines of text. It never parses the source and accepts the resulting
// approximation.
type LexicalExtractor struct{}

// NewLexicalExtractor returns the default text-pattern extractor.
func NewLexicalExtractor() *LexicalExtractor {
	return &LexicalExtractor{}
}

var (
	fetchRe       = regexp.MustCompile("fetch\\(\\s*[`'\"]([^`'\"]+)[`'\"]")
	fetchMethodRe = regexp.MustCompile(`(?i)method\s*:\s*['"](\w+)['"]`)
	clientCallRe  = regexp.MustCompile("\\b(?:axios|api)\\.(get|post|put|delete|patch|options|head)\\(\\s*[`'\"]([^`'\"]+)[`'\"]")
	routeRe       = regexp.MustCompile("\\b(?:app|router|server)\\.(get|post|put|delete|patch|options|head)\\(\\s*[`'\"]([^`'\"]+)[`'\"]")
	decoratorRe   = regexp.MustCompile(`@(?:app|router|blueprint)\.(get|post|put|delete|patch)\(\s*['"]([^'"]+)['"]`)

	funcComponentRe  = regexp.MustCompile(`\bfunction\s+([A-Z][A-Za-z0-9_]*)\s*\(`)
	arrowComponentRe = regexp.MustCompile(`\b(?:const|let|var)\s+([A-Z][A-Za-z0-9_]*)\s*=\s*(?:async\s*)?(?:\(|[A-Za-z_][A-Za-z0-9_]*\s*=>)`)
	classComponentRe = regexp.MustCompile(`\bclass\s+([A-Z][A-Za-z0-9_]*)\b`)
	nameFieldRe      = regexp.MustCompile(`\bname\s*:\s*['"]([A-Z][A-Za-z0-9_]*)['"]`)
	componentTagRe   = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)[\s/>]`)

	routerPathRe = regexp.MustCompile(`\bpath\s*:\s*['"]([^'"]+)['"]`)
	routeAttrRe  = regexp.MustCompile(`<Route[^>]*\bpath\s*=\s*['"]([^'"]+)['"]`)
	navigateRe   = regexp.MustCompile("\\b(?:navigate|router\\.push|router\\.replace|history\\.push)\\(\\s*[`'\"]([^`'\"]+)[`'\"]")

	authKeywordRe = regexp.MustCompile(`(?i)\b(login|logout|signin|signout|register|authenticate|refreshtoken)\b`)
	authPathRe    = regexp.MustCompile("[`'\"]([^`'\"]*auth[^`'\"]*)[`'\"]")
)

// knownNonComponents are capitalized tag names that are framework
// built-ins, never user components.
var knownNonComponents = map[string]bool{
	"Fragment": true,
	"React":    true,
	"Suspense": true,
}

// Extract walks every file line by line and collects all facts in one
// pass per file.
func (e *LexicalExtractor) Extract(files []source.File) *Facts {
	facts := &Facts{}
	for _, f := range files {
		e.extractFile(f, facts)
		if route, ok := conventionRoute(f.Rel); ok {
			facts.RoutePaths = append(facts.RoutePaths, route)
		}
	}
	return facts
}

func (e *LexicalExtractor) extractFile(f source.File, facts *Facts) {
	lines := strings.Split(f.Content, "\n")
	for i, line := range lines {
		n := i + 1

		if m := fetchRe.FindStringSubmatch(line); m != nil && looksLikeEndpoint(m[1]) {
			method := project.MethodGet
			if mm := fetchMethodRe.FindStringSubmatch(line); mm != nil {
				if parsed, err := project.ParseMethod(mm[1]); err == nil {
					method = parsed
				}
			}
			facts.Calls = append(facts.Calls, FrontendCall{
				File: f.Rel, Line: n, Method: method, Path: m[1],
				Raw: "fetch('" + m[1] + "')",
			})
		}
		for _, m := range clientCallRe.FindAllStringSubmatch(line, -1) {
			if !looksLikeEndpoint(m[2]) {
				continue
			}
			method, err := project.ParseMethod(m[1])
			if err != nil {
				continue
			}
			facts.Calls = append(facts.Calls, FrontendCall{
				File: f.Rel, Line: n, Method: method, Path: m[2],
				Raw: strings.ToLower(m[1]) + "('" + m[2] + "')",
			})
		}

		for _, re := range []*regexp.Regexp{routeRe, decoratorRe} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				method, err := project.ParseMethod(m[1])
				if err != nil {
					continue
				}
				facts.Routes = append(facts.Routes, RouteDecl{
					File: f.Rel, Line: n, Method: method, Path: m[2],
				})
			}
		}

		for _, re := range []*regexp.Regexp{funcComponentRe, arrowComponentRe, classComponentRe, nameFieldRe} {
			if m := re.FindStringSubmatch(line); m != nil {
				facts.ComponentDefs = append(facts.ComponentDefs, ComponentDef{File: f.Rel, Line: n, Name: m[1]})
			}
		}
		if markupLike(f.Rel) {
			for _, m := range componentTagRe.FindAllStringSubmatch(line, -1) {
				if knownNonComponents[m[1]] {
					continue
				}
				facts.ComponentUses = append(facts.ComponentUses, ComponentUse{File: f.Rel, Line: n, Name: m[1]})
			}
		}

		for _, re := range []*regexp.Regexp{routerPathRe, routeAttrRe} {
			if m := re.FindStringSubmatch(line); m != nil && strings.HasPrefix(m[1], "/") {
				facts.RoutePaths = append(facts.RoutePaths, m[1])
			}
		}
		if m := navigateRe.FindStringSubmatch(line); m != nil && strings.HasPrefix(m[1], "/") {
			facts.NavTargets = append(facts.NavTargets, NavTarget{File: f.Rel, Line: n, Route: m[1]})
		}

		if authKeywordRe.MatchString(line) && strings.Contains(line, "(") {
			if m := authPathRe.FindStringSubmatch(line); m != nil && looksLikeEndpoint(m[1]) {
				facts.AuthCalls = append(facts.AuthCalls, AuthCall{
					File: f.Rel, Line: n, Path: m[1], Raw: strings.TrimSpace(line),
				})
			}
		}
	}
}

// looksLikeEndpoint filters matched strings down to plausible endpoint
// paths or URLs, dropping template literals with interpolation.
func looksLikeEndpoint(s string) bool {
	if strings.Contains(s, "${") {
		return false
	}
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// markupLike reports whether a file can contain component tags.
func markupLike(rel string) bool {
	switch path.Ext(strings.ToLower(rel)) {
	case ".jsx", ".tsx", ".vue", ".svelte", ".html", ".htm", ".js", ".ts":
		return true
	default:
		return false
	}
}

// conventionRoute derives a route from file-system-convention routing:
// files under a pages/ directory map to routes by their relative path,
// with index files collapsing to the directory route.
func conventionRoute(rel string) (string, bool) {
	parts := strings.Split(rel, "/")
	idx := -1
	for i, part := range parts {
		if part == "pages" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(parts)-1 {
		return "", false
	}
	segs := parts[idx+1:]
	last := segs[len(segs)-1]
	name := strings.TrimSuffix(last, path.Ext(last))
	if name == "index" {
		segs = segs[:len(segs)-1]
	} else {
		segs[len(segs)-1] = name
	}
	return "/" + strings.Join(segs, "/"), true
}
