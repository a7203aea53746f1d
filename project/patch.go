package project

// ContextPatch is a partial ProjectContext. Nil fields mean "leave the
// section unchanged"; non-nil fields replace the corresponding section
// wholesale. Patches are how auto-detected facts (continuity discovery)
// and caller-supplied overrides reach a context without dynamic shape
// merging.
type ContextPatch struct {
	Project        *ProjectInfo      `json:"project,omitempty" yaml:"project,omitempty"`
	Authentication *AuthConfig       `json:"authentication,omitempty" yaml:"authentication,omitempty"`
	Endpoints      []Endpoint        `json:"endpoints,omitempty" yaml:"endpoints,omitempty"`
	Models         []Model           `json:"models,omitempty" yaml:"models,omitempty"`
	Components     []Component       `json:"components,omitempty" yaml:"components,omitempty"`
	Pages          []Page            `json:"pages,omitempty" yaml:"pages,omitempty"`
	Deployment     *DeploymentConfig `json:"deployment,omitempty" yaml:"deployment,omitempty"`
}

// IsEmpty returns true when the patch carries no changes.
func (p *ContextPatch) IsEmpty() bool {
	if p == nil {
		return true
	}
	return p.Project == nil &&
		p.Authentication == nil &&
		p.Endpoints == nil &&
		p.Models == nil &&
		p.Components == nil &&
		p.Pages == nil &&
		p.Deployment == nil
}

// MergePatches combines patches field by field with later-wins
// precedence. Callers pass patches in ascending priority order:
// defaults first, auto-detected next, caller-supplied last. Nil patches
// are skipped.
func MergePatches(patches ...*ContextPatch) *ContextPatch {
	merged := &ContextPatch{}
	for _, p := range patches {
		if p == nil {
			continue
		}
		if p.Project != nil {
			info := *p.Project
			merged.Project = &info
		}
		if p.Authentication != nil {
			auth := *p.Authentication
			merged.Authentication = &auth
		}
		if p.Endpoints != nil {
			merged.Endpoints = append([]Endpoint(nil), p.Endpoints...)
		}
		if p.Models != nil {
			merged.Models = append([]Model(nil), p.Models...)
		}
		if p.Components != nil {
			merged.Components = append([]Component(nil), p.Components...)
		}
		if p.Pages != nil {
			merged.Pages = append([]Page(nil), p.Pages...)
		}
		if p.Deployment != nil {
			dep := *p.Deployment
			merged.Deployment = &dep
		}
	}
	return merged
}

// Apply folds the patch into the context. Set sections replace the
// corresponding context sections; nil sections leave them untouched.
func (p *ContextPatch) Apply(ctx *ProjectContext) {
	if p == nil || ctx == nil {
		return
	}
	if p.Project != nil {
		ctx.Project = *p.Project
	}
	if p.Authentication != nil {
		ctx.Authentication = *p.Authentication
	}
	if p.Endpoints != nil {
		ctx.API.Endpoints = append([]Endpoint(nil), p.Endpoints...)
	}
	if p.Models != nil {
		ctx.Database.Models = append([]Model(nil), p.Models...)
	}
	if p.Components != nil {
		ctx.Frontend.Components = append([]Component(nil), p.Components...)
	}
	if p.Pages != nil {
		ctx.Frontend.Pages = append([]Page(nil), p.Pages...)
	}
	if p.Deployment != nil {
		ctx.Deployment = *p.Deployment
	}
}

// DedupeEndpoints collapses endpoints sharing the same (method, path)
// key, keeping the first occurrence. Discovery merges may produce
// duplicates; deduplication stays in the caller's hands.
func DedupeEndpoints(endpoints []Endpoint) []Endpoint {
	seen := make(map[string]bool, len(endpoints))
	out := make([]Endpoint, 0, len(endpoints))
	for _, e := range endpoints {
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
