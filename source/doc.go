// Package source provides the file-enumeration and file-read service
// consumed by the scanner and continuity engines.
//
// The service wraps github.com/viant/afs, so project roots can be local
// directories or any scheme afs understands. Enumeration applies a
// source-like extension allow-list, skips build/dependency/VCS
// directories and minified bundles, and collapses duplicate paths.
//
// Individual read failures never abort a scan: ScanFiles logs the
// failure and moves on, per the engines' error handling contract.
package source
