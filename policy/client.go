package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client implements Registry over an etcd cluster.
//
// Rule sets are stored as JSON under /<namespace>/rulesets/<name>.
// Entries carry no lease: a published rule set persists until deleted
// or replaced.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string

	mu         sync.RWMutex
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient creates a registry client from the provided configuration
// and verifies connectivity with a health check.
//
// The client must be closed with Close() to stop watch goroutines and
// release the connection.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("policy: registry endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "driftwatch"
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: 5 * time.Second,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := clientTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("policy: configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("policy: create etcd client: %w", err)
	}

	// Verify connectivity with a quick health check
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("policy: etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		closedChan: make(chan struct{}),
	}, nil
}

// NewClientFromEnv creates a registry client from the
// DRIFTWATCH_REGISTRY_ENDPOINTS environment variable, a comma-separated
// endpoint list.
//
// If the variable is unset this returns (nil, nil): the engine works
// without shared rule sets, which is not an error.
func NewClientFromEnv() (*Client, error) {
	endpoints := os.Getenv("DRIFTWATCH_REGISTRY_ENDPOINTS")
	if endpoints == "" {
		return nil, nil
	}

	endpointList := strings.Split(endpoints, ",")
	for i, ep := range endpointList {
		endpointList[i] = strings.TrimSpace(ep)
	}

	return NewClient(Config{Endpoints: endpointList})
}

// Publish stores a rule set under its name, replacing any previous
// version. UpdatedAt is stamped here.
func (c *Client) Publish(ctx context.Context, rs RuleSet) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}
	if rs.Name == "" {
		return fmt.Errorf("policy: rule set name cannot be empty")
	}

	rs.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("policy: marshal rule set: %w", err)
	}

	if _, err := c.client.Put(ctx, c.buildKey(rs.Name), string(data)); err != nil {
		return fmt.Errorf("policy: publish rule set %s: %w", rs.Name, err)
	}
	return nil
}

// Fetch returns the rule set with the given name.
func (c *Client) Fetch(ctx context.Context, name string) (RuleSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return RuleSet{}, ErrClosed
	}

	resp, err := c.client.Get(ctx, c.buildKey(name))
	if err != nil {
		return RuleSet{}, fmt.Errorf("policy: fetch rule set %s: %w", name, err)
	}
	if len(resp.Kvs) == 0 {
		return RuleSet{}, ErrRuleSetNotFound
	}

	var rs RuleSet
	if err := json.Unmarshal(resp.Kvs[0].Value, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("policy: decode rule set %s: %w", name, err)
	}
	return rs, nil
}

// List returns all published rule sets. Entries that fail to decode are
// skipped.
func (c *Client) List(ctx context.Context) ([]RuleSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	prefix := fmt.Sprintf("/%s/rulesets/", c.namespace)
	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("policy: list rule sets: %w", err)
	}

	sets := make([]RuleSet, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var rs RuleSet
		if err := json.Unmarshal(kv.Value, &rs); err != nil {
			continue
		}
		sets = append(sets, rs)
	}
	return sets, nil
}

// Watch emits the named rule set whenever it changes. The current state
// is sent immediately when the set exists; deletions are not emitted.
func (c *Client) Watch(ctx context.Context, name string) (<-chan RuleSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrClosed
	}

	ch := make(chan RuleSet, 1)

	if rs, err := c.Fetch(ctx, name); err == nil {
		ch <- rs
	} else if err != ErrRuleSetNotFound {
		return nil, err
	}

	watchChan := c.client.Watch(ctx, c.buildKey(name))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok {
					return
				}
				if watchResp.Err() != nil {
					return
				}

				for _, ev := range watchResp.Events {
					if ev.Type != clientv3.EventTypePut {
						continue
					}

					var rs RuleSet
					if err := json.Unmarshal(ev.Kv.Value, &rs); err != nil {
						continue
					}

					select {
					case ch <- rs:
					case <-ctx.Done():
						return
					case <-c.closedChan:
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// Delete removes a rule set. Deleting an absent set is a no-op.
func (c *Client) Delete(ctx context.Context, name string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}

	if _, err := c.client.Delete(ctx, c.buildKey(name)); err != nil {
		return fmt.Errorf("policy: delete rule set %s: %w", name, err)
	}
	return nil
}

// Close releases all resources and stops watch goroutines. After Close
// all other methods return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()

	return c.client.Close()
}

// buildKey constructs the etcd key for a rule set.
//
// Format: /namespace/rulesets/name
func (c *Client) buildKey(name string) string {
	return fmt.Sprintf("/%s/rulesets/%s", c.namespace, name)
}
