// Package sdk keeps a machine-readable description of a software
// project (API surface, security rules, auth configuration, data
// models, frontend layout) and cross-checks that description against
// the actual source tree.
//
// The Engine is the main entry point. It wires together the
// sub-systems:
//
//   - scanner: pattern-based security scanning with auto-fix
//   - continuity: frontend/backend drift detection and endpoint discovery
//   - memory: bounded interaction log with maturity scoring
//   - validate: schema and business-rule validation
//   - store: context persistence (.project-context.yaml/.json)
//   - policy: shared security rule sets via etcd
//
// Example:
//
//	engine, err := sdk.NewEngine(sdk.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	pc, err := engine.LoadContext(ctx, "/path/to/project")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	issues, err := engine.ScanProject(ctx, "/path/to/project", pc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, is := range issues {
//	    fmt.Println(is)
//	}
//
// Discovery and reconciliation are lexical: text pattern matching
// rather than AST parsing, so any language can be scanned. The
// extraction step sits behind the continuity.SourceFactExtractor
// interface so a parser-based extractor can be substituted per
// language.
package sdk
