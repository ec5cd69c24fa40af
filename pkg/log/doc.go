// Package log is a thin wrapper around the standard library logger that gives
// every component a named logger.
//
// Each line carries a level and a `[name>]` marker:
//
//	l := log.ForService("search")
//	l.Infof("wrote %d records", n)   // INFO [search>] wrote 3 records
//	l.Debugf("query %q", q)          // printed only when debug is enabled
//
// Debug output can be enabled for every logger (SetGlobalDebug, wired to the
// --debug flag) or for a single name (EnableDebugFor, wired to --debug-for).
// SetOutput redirects all loggers, existing ones included, which is what tests
// use to capture output.
package log
