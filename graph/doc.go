// Package graph implements the stage graph: a fixed three-node chain
// (financial → portfolio → risk) threading a consultation's state through
// each stage in order.
//
// Per stage the graph emits a node_start marker, invokes the stage's remote
// agent forwarding its events live, emits node_complete with the final
// result, records the (input, output) pair into session memory and stores
// the output into the threaded state. A later stage never starts before the
// prior stage's stream fully completed: its input is the prior stage's
// output. On the first failure the graph emits a terminal error event and
// stops; there are no retries, no fallback agents and no downstream stages
// after a failure.
package graph
