// Package api defines the request and response messages of the payoff RPC
// services. Messages travel as JSON; money fields are decimal strings
// ("1234.56") on output and accept either strings or numbers on input.
package api
