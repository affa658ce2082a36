// Package postgreswrapper opens Postgres event stores on throwaway tables for integration tests.
package postgreswrapper
