// Package device drives one M100 reader module over a duplex byte channel.
//
// Session is the only entry point: it owns the port and a reusable receive
// buffer, and every operation is one synchronous command/response round trip.
// On top of the raw operations it implements the per-bank access policy
// (fixed TID read, chunked probe-until-fail EPC/User traversal), verified
// writes, and the 5-stage firmware bring-up handshake.
//
// Nothing here retries: a failed chunk read terminating a bank traversal is
// acceptance of partial success, not a retry, and every higher-level retry
// loop (re-poll for a tag, re-attempt a write) belongs to the caller.
package device
