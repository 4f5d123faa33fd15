// Package testutil holds shared test helpers and mock implementations.
package testutil
