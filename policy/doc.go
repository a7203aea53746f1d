// Package policy shares named security rule sets across projects
// through etcd.
//
// A rule set is a named, versioned list of SecurityPatterns. Teams
// publish rule sets once and every engine fetches or watches them,
// folding the patterns into the local SecurityConfig before scanning.
// Rule sets are durable: unlike a service registry there are no leases,
// a published set stays until it is deleted or replaced.
//
// Example:
//
//	reg, err := policy.NewClient(policy.Config{
//	    Endpoints: []string{"localhost:2379"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reg.Close()
//
//	rs, err := reg.Fetch(ctx, "org-baseline")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pc.Security.Patterns = policy.MergePatterns(pc.Security.Patterns, rs.Patterns)
package policy
