// Package monitor serves an optional HTTP endpoint while a solve runs. /health
// answers OK and /progress streams lifecycle and per-generation progress to
// websocket clients. The Server is an engine.Observer; notifications that
// cannot be queued immediately are dropped so the solver never waits on it.
package monitor
