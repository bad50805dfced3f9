// Package comm is the communication substrate of lvdist: an in-process SPMD
// world in which every rank is a goroutine and ranks exchange data only by
// message passing.
//
// Run starts the ranks and hands each one its *Comm. Point-to-point Send never
// blocks (per-pair mailboxes are unbounded FIFOs); Recv blocks until a message
// arrives. Messages from one sender to one receiver on one communicator are
// delivered in the order they were sent. Point-to-point messages and each
// kind of collective use separate queues, so a message left pending by Send
// is never consumed by a collective.
//
// The collectives (Barrier, Broadcast, AllReduceSum, ReduceScatterSum,
// AllGather, AllToAll) must be entered by every member of the communicator in
// the same program order. Sums are accumulated in ascending member order, so a
// run is reproducible bit for bit.
//
// Failure model: the first rank that returns an error or panics aborts the
// whole world. Every blocked or future operation of the other ranks returns
// ErrAborted, and Run reports the root cause. A failing rank therefore never
// deadlocks its peers.
//
// Sub-communicators are created locally with (*Comm).Sub. Every member must
// create them in the same order, which is what makes their identities agree
// without any communication.
package comm
