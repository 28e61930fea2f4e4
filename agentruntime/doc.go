// Package agentruntime is the call boundary to the external reasoning
// agent. It issues invoke and resume calls and returns the runtime's
// fully materialized event stream: chunk, files and returnControl
// events in arrival order.
//
// The runtime's own reasoning is out of scope; this package only owns
// the wire contract around it. No retries and no client-side timeouts
// are applied beyond the injected HTTP client's own settings: a
// transient failure in any round aborts the whole exchange.
package agentruntime
