/*
Package session implements session management and persistence orchestration.

It serializes access to each session's persisted state so that concurrent
requests against the same session apply their transitions one after another,
while requests for different sessions proceed in parallel.
*/
package session
