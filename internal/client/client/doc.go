// Package client holds the outward-facing edges of the story app core: the
// REST gateway to the remote story API and the bootstrap of the local sqlite
// database with its repositories.
package client
