// Package validate checks a ProjectContext for schema conformance and
// business-rule violations before persistence.
//
// A Validator is constructed once per session and holds its compiled
// schema; it is immutable and safe for concurrent use afterwards. There
// is no package-level schema cache. Validation is pure: it never
// mutates the context and never fails with an error; all findings are
// returned inside the Result.
//
// Example:
//
//	v := validate.New()
//	result := v.Validate(pc)
//	if !result.Valid {
//	    for _, p := range result.Errors {
//	        fmt.Println(p.Field, p.Message)
//	    }
//	}
package validate
