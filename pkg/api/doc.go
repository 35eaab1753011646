// Package api exposes the dependency index over a read-only HTTP surface.
//
// # Overview
//
// Every endpoint reads fully-committed index state under the structural
// model's read lock; nothing here mutates the model or the registries. The
// surface exists for diagnostics and for outer systems that want to poll
// reference state without linking the index in-process.
//
// # Endpoints
//
//	GET /v1/dependencies/libraries/{level}/{name}  is the library referenced
//	GET /v1/dependencies/sdks/{type}/{name}        is the SDK referenced
//	GET /v1/dependencies/sdk                       any inherited-SDK dependency
//	GET /v1/modules                                declared modules and records
//	GET /v1/events/recent                          recent index events
//	GET /v1/audit                                  on-demand consistency audit
package api
