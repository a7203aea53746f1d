package policy

import (
	"context"
	"errors"
	"time"

	"github.com/driftwatch/sdk/project"
)

// Common errors returned by registry operations.
var (
	// ErrRuleSetNotFound is returned by Fetch when no rule set exists
	// under the requested name.
	ErrRuleSetNotFound = errors.New("policy: rule set not found")

	// ErrClosed is returned by operations on a closed registry client.
	ErrClosed = errors.New("policy: registry client is closed")
)

// RuleSet is a named collection of security patterns shared through the
// registry. Version is a free-form label chosen by the publisher;
// UpdatedAt is set on every publish.
type RuleSet struct {
	Name      string                    `json:"name"`
	Version   string                    `json:"version,omitempty"`
	Patterns  []project.SecurityPattern `json:"patterns"`
	UpdatedAt time.Time                 `json:"updatedAt"`
}

// Registry is the shared rule-set store.
type Registry interface {
	// Publish stores a rule set under its name, replacing any previous
	// version.
	Publish(ctx context.Context, rs RuleSet) error

	// Fetch returns the rule set with the given name, or
	// ErrRuleSetNotFound.
	Fetch(ctx context.Context, name string) (RuleSet, error)

	// List returns all published rule sets in arbitrary order.
	List(ctx context.Context) ([]RuleSet, error)

	// Watch emits the rule set with the given name whenever it changes.
	// The current state is sent immediately; the channel is closed when
	// the context is canceled or the client is closed.
	Watch(ctx context.Context, name string) (<-chan RuleSet, error)

	// Delete removes a rule set. Deleting an absent set is a no-op.
	Delete(ctx context.Context, name string) error

	// Close releases the registry connection.
	Close() error
}

// Config configures the registry connection.
type Config struct {
	// Endpoints lists the etcd cluster endpoints.
	Endpoints []string

	// Namespace prefixes all registry keys. Defaults to "driftwatch".
	Namespace string

	// TLS enables secure connections when set.
	TLS *TLSConfig
}

// TLSConfig holds the certificate paths for a secured registry
// connection. All three files are required when Enabled is true.
type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
	CAFile   string
}

// MergePatterns folds shared patterns into a local pattern list. Local
// patterns win on name collisions so projects can override a shared
// rule; shared patterns are appended in their published order.
func MergePatterns(local, shared []project.SecurityPattern) []project.SecurityPattern {
	seen := make(map[string]bool, len(local))
	for _, p := range local {
		seen[p.Name] = true
	}

	merged := append([]project.SecurityPattern(nil), local...)
	for _, p := range shared {
		if seen[p.Name] {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}
