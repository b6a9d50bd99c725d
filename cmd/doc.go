// Package cmd implements the command-line interface of tinycfg. It provides a
// hierarchical command structure for working with a configuration document
// directly and for serving it over http.
//
// The package is organized into several subpackages:
//
//   - cfg: Commands that operate on the document (set, get, dump, keys, del, reset)
//   - serve: Command for starting the http admin server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set through the environment as TINYCFG_<FLAG>, with
// dashes replaced by underscores (e.g. TINYCFG_DATA_DIR=/var/lib/tinycfg).
// Values from .env and .env.local in the working directory are loaded first.
//
// See tinycfg -help for a list of all commands.
package cmd
