// Package rpc holds the network surfaces of tinycfg.
//
// The package is organized into the following subpackages:
//
//   - server: http admin api over a single configuration store, built with gin.
//     It serializes all requests through one mutex, maps store error kinds to
//     status codes and exports operation metrics on /metrics.
package rpc
