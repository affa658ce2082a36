// Package helper provides test fixtures and spies shared by the test suites of this module:
// attribute fixtures for every aggregate kind, a deterministic stamper, a repository spy
// and spies for logs, metrics and traces.
package helper
