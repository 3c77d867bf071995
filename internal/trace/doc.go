// Package trace records structured events for apidef runs.
//
// Tracing is the only log sink of the pipeline: the driver opens a span per
// run, one per file and one per stage, and the CLI decides where events go.
//
//	apidef check --trace-level=phase --trace-output=- schema/
//
// Implementations:
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event as text or NDJSON
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Levels off, error, phase, detail and debug gate scopes from coarse
// (driver) to fine (node). Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tr)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer sp.End("")
package trace
