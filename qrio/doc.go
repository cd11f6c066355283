// Package qrio loads model and state documents and exports a solved
// transition graph.
//
// Documents are read as huJSON (JSON5-permissive: comments and
// trailing commas allowed) via github.com/tailscale/hujson, then
// decoded with github.com/go-json-experiment/json. A malformed
// document is a *qrmodel.ConfigError — it never reaches the solver.
//
// Export renders node records {id,label} and edge records
// {from,to,highlight} per the wire shape a visualisation layer
// consumes; highlight marks edges on the A* path when one was
// requested.
package qrio
