// Package cmd provides the padnet CLI commands.
//
// # Commands
//
// padnet: Runs Monte-Carlo pad-allocation experiments and prints the
// per-scenario wasted-pad statistics against the quarter-split baseline.
//
//	go run ./cmd/padnet
//	go run ./cmd/padnet -n 500 -d 5 -policy fixed-zone -json
//
// padnet-server: Runs the experiment HTTP service with stored results,
// optionally backed by Postgres.
//
//	go run ./cmd/padnet-server -addr :8080
//	go run ./cmd/padnet-server -db-host localhost -db-user padnet -db-name padnet
//
// # Configuration
//
// The padnet command supports a YAML configuration file via the -config
// flag. Command-line flags override config file values:
//
//	pad_count: 1000
//	gap: 10
//	executions: 100
//	seed: 42
//	policy: dynamic-boundary
package cmd
