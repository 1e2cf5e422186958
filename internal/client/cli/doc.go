// Package cli is the REPL front end of the story client. It holds no business
// logic: every command calls into the services layer and prints the result
// envelopes.
package cli
