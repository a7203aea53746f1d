package project

import "time"

// NewContext creates a ProjectContext with the given identity and
// default security rules. All rule toggles start enabled; callers relax
// them explicitly.
func NewContext(name, projectType string) *ProjectContext {
	return &ProjectContext{
		Project: ProjectInfo{
			Name: name,
			Type: projectType,
		},
		Security: SecurityConfig{
			Rules: SecurityRules{
				EnforceHTTPS:           true,
				InputSanitization:      true,
				SQLInjectionPrevention: true,
				XSSProtection:          true,
				CSRFProtection:         true,
				CORSConfiguration:      true,
				RateLimiting:           true,
				DataValidation:         true,
			},
		},
		Authentication: AuthConfig{Type: AuthNone},
		ContextMemory: MemorySection{
			MaxInteractions: DefaultMaxInteractions,
			LastUpdated:     time.Now(),
		},
	}
}
