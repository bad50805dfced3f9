package comm

import (
	"fmt"
	"slices"
)

// Number is the element constraint of the summing collectives.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64 | ~complex64 | ~complex128
}

// Barrier returns once every member has entered it.
func Barrier(c *Comm) error {
	_, err := AllGather(c, []struct{}{})

	return err
}

// Broadcast copies root's buf into buf on every other member. Every member
// must pass a buffer of the same length.
func Broadcast[T any](c *Comm, buf []T, root int) error {
	if err := c.checkPeer("Broadcast", root); err != nil {
		return err
	}
	if c.rank == root {
		for q := range c.members {
			if q == root {
				continue
			}
			if err := post(c, opBcast, buf, q); err != nil {
				return err
			}
		}

		return nil
	}
	got, err := fetch[T](c, opBcast, root)
	if err != nil {
		return err
	}
	if len(got) != len(buf) {
		return fmt.Errorf("comm.Broadcast: got %d want %d: %w", len(got), len(buf), ErrCountMismatch)
	}
	copy(buf, got)

	return nil
}

// AllReduceSum replaces buf on every member by the element-wise sum of all
// members' buffers. The sum is accumulated in ascending member order.
func AllReduceSum[T Number](c *Comm, buf []T) error {
	const root = 0
	if c.rank != root {
		if err := post(c, opAllReduce, buf, root); err != nil {
			return err
		}
		got, err := fetch[T](c, opAllReduce, root)
		if err != nil {
			return err
		}
		if len(got) != len(buf) {
			return fmt.Errorf("comm.AllReduceSum: got %d want %d: %w", len(got), len(buf), ErrCountMismatch)
		}
		copy(buf, got)

		return nil
	}

	acc := make([]T, len(buf))
	for s := range c.members {
		part := buf
		if s != root {
			var err error
			if part, err = fetch[T](c, opAllReduce, s); err != nil {
				return err
			}
			if len(part) != len(buf) {
				return fmt.Errorf("comm.AllReduceSum: member %d sent %d want %d: %w", s, len(part), len(buf), ErrCountMismatch)
			}
		}
		for i, v := range part {
			acc[i] += v
		}
	}
	copy(buf, acc)
	for q := range c.members {
		if q == root {
			continue
		}
		if err := post(c, opAllReduce, acc, q); err != nil {
			return err
		}
	}

	return nil
}

// ReduceScatterSum splits send into Size() consecutive blocks of the given
// counts, sums block k over all members and returns the sum of block
// Rank() to the caller. counts must be identical on every member.
func ReduceScatterSum[T Number](c *Comm, send []T, counts []int) ([]T, error) {
	if len(counts) != len(c.members) {
		return nil, fmt.Errorf("comm.ReduceScatterSum: %d counts for %d members: %w", len(counts), len(c.members), ErrCountMismatch)
	}
	offsets := make([]int, len(counts)+1)
	for k, n := range counts {
		if n < 0 {
			return nil, fmt.Errorf("comm.ReduceScatterSum: negative count %d: %w", n, ErrCountMismatch)
		}
		offsets[k+1] = offsets[k] + n
	}
	if offsets[len(counts)] != len(send) {
		return nil, fmt.Errorf("comm.ReduceScatterSum: counts sum to %d, buffer has %d: %w", offsets[len(counts)], len(send), ErrCountMismatch)
	}

	for q := range c.members {
		if q == c.rank {
			continue
		}
		if err := post(c, opRedScat, send[offsets[q]:offsets[q+1]], q); err != nil {
			return nil, err
		}
	}

	want := counts[c.rank]
	out := make([]T, want)
	for s := range c.members {
		part := send[offsets[c.rank]:offsets[c.rank+1]]
		if s != c.rank {
			var err error
			if part, err = fetch[T](c, opRedScat, s); err != nil {
				return nil, err
			}
			if len(part) != want {
				return nil, fmt.Errorf("comm.ReduceScatterSum: member %d sent %d want %d: %w", s, len(part), want, ErrCountMismatch)
			}
		}
		for i, v := range part {
			out[i] += v
		}
	}

	return out, nil
}

// AllGather returns every member's contribution, indexed by member rank.
// Contributions may differ in length.
func AllGather[T any](c *Comm, send []T) ([][]T, error) {
	for q := range c.members {
		if q == c.rank {
			continue
		}
		if err := post(c, opAllGather, send, q); err != nil {
			return nil, err
		}
	}
	out := make([][]T, len(c.members))
	for s := range c.members {
		if s == c.rank {
			out[s] = slices.Clone(send)
			continue
		}
		got, err := fetch[T](c, opAllGather, s)
		if err != nil {
			return nil, err
		}
		out[s] = got
	}

	return out, nil
}

// AllToAll sends send[q] to member q and returns what every member sent to
// the caller, indexed by sender. Blocks may differ in length.
func AllToAll[T any](c *Comm, send [][]T) ([][]T, error) {
	if len(send) != len(c.members) {
		return nil, fmt.Errorf("comm.AllToAll: %d blocks for %d members: %w", len(send), len(c.members), ErrCountMismatch)
	}
	for q := range c.members {
		if q == c.rank {
			continue
		}
		if err := post(c, opAllToAll, send[q], q); err != nil {
			return nil, err
		}
	}
	out := make([][]T, len(c.members))
	for s := range c.members {
		if s == c.rank {
			out[s] = slices.Clone(send[s])
			continue
		}
		got, err := fetch[T](c, opAllToAll, s)
		if err != nil {
			return nil, err
		}
		out[s] = got
	}

	return out, nil
}
