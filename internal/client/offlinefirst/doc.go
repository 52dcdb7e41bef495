// Package offlinefirst implements the read-through / write-local-first policy
// shared by every entity repository of the client.
//
// Reads consult the local store first. Only when the local result is empty
// and the remote store is reachable is the remote store asked; whatever it
// returns is written back locally, one item at a time, and handed to the
// caller. A non-empty local result is never refreshed from remote.
//
// Writes always go to the local store first. When online the same mutation
// is sent to the remote store right away; otherwise, depending on the write
// mode, it is either queued in the outbox and replayed later by the Syncer,
// or kept local only.
//
// Connectivity is sampled once per operation.
package offlinefirst
