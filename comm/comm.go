package comm

import (
	"fmt"
	"slices"
)

// Comm is one rank's handle on a communicator: an ordered group of ranks of
// the world. Member indices (ranks within the communicator) run from 0 to
// Size()-1.
//
// A Comm is owned by its rank's goroutine and is not safe for concurrent use.
type Comm struct {
	w       *world
	id      string
	members []int // world ranks, indexed by member rank
	rank    int
	subs    int
}

// Rank returns the caller's rank within the communicator.
func (c *Comm) Rank() int { return c.rank }

// Size returns the number of members.
func (c *Comm) Size() int { return len(c.members) }

// WorldRank returns the caller's rank in the world.
func (c *Comm) WorldRank() int { return c.members[c.rank] }

// ID returns the communicator identity shared by all its members.
func (c *Comm) ID() string { return c.id }

// Sub creates a sub-communicator from ranks (given as ranks of c). The
// caller must be listed; its rank in the result is its position in ranks.
//
// Sub is local. Members agree on the identity of the new communicator as
// long as each of them calls Sub on c the same number of times beforehand.
func (c *Comm) Sub(name string, ranks []int) (*Comm, error) {
	seen := make(map[int]bool, len(ranks))
	members := make([]int, len(ranks))
	self := -1
	for i, r := range ranks {
		if r < 0 || r >= len(c.members) || seen[r] {
			return nil, fmt.Errorf("comm.Sub(%s): rank %d: %w", name, r, ErrNotMember)
		}
		seen[r] = true
		members[i] = c.members[r]
		if r == c.rank {
			self = i
		}
	}
	if self < 0 {
		return nil, fmt.Errorf("comm.Sub(%s): caller %d not listed: %w", name, c.rank, ErrNotMember)
	}
	id := fmt.Sprintf("%s/%d.%s", c.id, c.subs, name)
	c.subs++

	return &Comm{w: c.w, id: id, members: members, rank: self}, nil
}

func (c *Comm) checkPeer(op string, peer int) error {
	if peer < 0 || peer >= len(c.members) {
		return fmt.Errorf("comm.%s(%d): %w", op, peer, ErrRankOutOfRange)
	}

	return nil
}

func (c *Comm) key(op string, src, dst int) mailboxKey {
	return mailboxKey{comm: c.id, op: op, src: c.members[src], dst: c.members[dst]}
}

// post sends a private copy of data to dest, accounting it under op.
func post[T any](c *Comm, op string, data []T, dest int) error {
	if err := c.checkPeer(op, dest); err != nil {
		return err
	}
	messagesTotal.WithLabelValues(op).Inc()
	elementsTotal.WithLabelValues(op).Add(float64(len(data)))

	return c.w.post(c.key(op, c.rank, dest), slices.Clone(data))
}

func fetch[T any](c *Comm, op string, src int) ([]T, error) {
	if err := c.checkPeer(op, src); err != nil {
		return nil, err
	}
	p, err := c.w.take(c.key(op, src, c.rank))
	if err != nil {
		return nil, err
	}
	buf, ok := p.([]T)
	if !ok {
		return nil, fmt.Errorf("comm.%s: from %d got %T: %w", op, src, p, ErrTypeMismatch)
	}

	return buf, nil
}

// Send posts a copy of data to member dest. It never blocks.
func Send[T any](c *Comm, data []T, dest int) error {
	return post(c, opSend, data, dest)
}

// Recv returns the oldest message sent by member src to the caller.
func Recv[T any](c *Comm, src int) ([]T, error) {
	return fetch[T](c, opSend, src)
}
