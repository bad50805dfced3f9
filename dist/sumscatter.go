package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

// SumScatterFrom sets m to the sum of src's partial contributions: every
// entry of m is the sum, taken in ascending VC rank order, of the values
// held for it by the src replicas that share the caller's coordinate on
// each grid dimension m replicates over. Collective.
//
// When src replicates one dimension that m distributes over MC, MR, VC or
// VR and the other dimension matches, the sum is a reduce-scatter over that
// dimension's communicator; any other non-MD pair uses a general exchange.
func (m *Matrix[T]) SumScatterFrom(src *Matrix[T]) error {
	const op = "SumScatterFrom"
	if err := m.checkSumScatter(op, src); err != nil {
		return err
	}
	if err := m.prepare(op, src, src.height, src.width); err != nil {
		return err
	}
	return m.sumScatter(op, src)
}

// SumScatterUpdate adds alpha times the summed contributions of src to m.
// m must already have src's shape.
func (m *Matrix[T]) SumScatterUpdate(alpha T, src *Matrix[T]) error {
	const op = "SumScatterUpdate"
	if err := m.checkSumScatter(op, src); err != nil {
		return err
	}
	if m.height != src.height || m.width != src.width {
		return preconditionf(op, fmt.Errorf("%dx%d += %dx%d: %w", m.height, m.width, src.height, src.width, ErrShapeMismatch))
	}

	tmp := &Matrix[T]{
		g: m.g, f: m.f,
		height: m.height, width: m.width,
		colAlign: m.colAlign, rowAlign: m.rowAlign, diagPath: m.diagPath,
		colConstrained: true, rowConstrained: true,
		own: matrix.Owned,
	}
	rows, cols := m.local.Rows(), m.local.Cols()
	local, err := matrix.NewDense[T](rows, cols)
	if err != nil {
		return preconditionf(op, err)
	}
	tmp.local = local
	if err := tmp.sumScatter(op, src); err != nil {
		return err
	}
	return matrix.Axpy(alpha, tmp.local, m.local)
}

func (m *Matrix[T]) checkSumScatter(op string, src *Matrix[T]) error {
	if err := checkPair(op, m, src); err != nil {
		return err
	}
	if m.f.HasMD() || src.f.HasMD() {
		return &ConversionError{Op: op, Dst: m.f, Src: src.f}
	}
	return nil
}

func (m *Matrix[T]) sumScatter(op string, src *Matrix[T]) error {
	var err error
	if colAxis, ok := scatterAxis(m, src); ok {
		err = reduceScatterAlong(m, src, colAxis)
	} else {
		err = sumExchange(m, src)
	}
	if err != nil {
		return fmt.Errorf("dist.%s %s = %s: %w", op, m.f, src.f, err)
	}
	return nil
}

// scatterAxis reports whether src replicates exactly one dimension that dst
// distributes over MC, MR, VC or VR, the other dimension being identical.
func scatterAxis[T matrix.Scalar](dst, src *Matrix[T]) (colAxis, ok bool) {
	scatterable := func(d Dist) bool { return d == MC || d == MR || d == VC || d == VR }
	switch {
	case src.f.Col == STAR && scatterable(dst.f.Col) && dst.f.Row == src.f.Row && dst.rowAlign == src.rowAlign:
		return true, true
	case src.f.Row == STAR && scatterable(dst.f.Row) && dst.f.Col == src.f.Col && dst.colAlign == src.colAlign:
		return false, true
	}
	return false, false
}

func reduceScatterAlong[T matrix.Scalar](dst, src *Matrix[T], colAxis bool) error {
	d, align, n := dst.f.Row, dst.rowAlign, dst.width
	if colAxis {
		d, align, n = dst.f.Col, dst.colAlign, dst.height
	}
	c := axisComm(d, dst.g)
	stride := strideOf(d, dst.g)
	sl := src.local
	sd, sld := sl.Data(), sl.LDim()

	counts := make([]int, c.Size())
	send := make([]T, 0, sl.Rows()*sl.Cols())
	for k := range counts {
		shift := Shift(k, align, stride)
		cnt := LocalLength(n, shift, stride)
		if colAxis {
			for t := 0; t < cnt && sl.Cols() > 0; t++ {
				i := shift + t*stride
				send = append(send, sd[i*sld:i*sld+sl.Cols()]...)
			}
			counts[k] = cnt * sl.Cols()
			continue
		}
		for iL := 0; iL < sl.Rows(); iL++ {
			for t := 0; t < cnt; t++ {
				send = append(send, sd[iL*sld+shift+t*stride])
			}
		}
		counts[k] = sl.Rows() * cnt
	}

	sum, err := comm.ReduceScatterSum(c, send, counts)
	if err != nil {
		return err
	}
	out, err := matrix.NewDenseFrom(dst.local.Rows(), dst.local.Cols(), sum)
	if err != nil {
		return err
	}
	return dst.local.CopyFrom(out)
}

// agrees reports whether process s sits on the same coordinate as process q
// along every grid dimension that free leaves unconstrained.
func agrees(free place, g *grid.Grid, s, q int) bool {
	sr, sc := g.Coordinate(s)
	qr, qc := g.Coordinate(q)
	return (free.row >= 0 || sr == qr) && (free.col >= 0 || sc == qc)
}

// sumExchange is the general reduction: every src holder sends each entry to
// the dst owners it contributes to, and receivers add the streams in
// ascending sender order.
func sumExchange[T matrix.Scalar](dst, src *Matrix[T]) error {
	g := dst.g
	me := g.Rank()
	send := make([][]T, g.Size())
	sl := src.local
	sd, sld := sl.Data(), sl.LDim()
	for iL := 0; iL < sl.Rows(); iL++ {
		i := src.GlobalRow(iL)
		for jL := 0; jL < sl.Cols(); jL++ {
			j := src.GlobalCol(jL)
			v := sd[iL*sld+jL]
			to := dst.owners(i, j)
			to.each(g, func(q int) {
				if agrees(to, g, me, q) {
					send[q] = append(send[q], v)
				}
			})
		}
	}
	recv, err := comm.AllToAll(g.Comm(), send)
	if err != nil {
		return err
	}

	pos := make([]int, g.Size())
	dl := dst.local
	dd, dld := dl.Data(), dl.LDim()
	for iL := 0; iL < dl.Rows(); iL++ {
		i := dst.GlobalRow(iL)
		for jL := 0; jL < dl.Cols(); jL++ {
			j := dst.GlobalCol(jL)
			to := dst.owners(i, j)
			var acc T
			var short error
			src.owners(i, j).each(g, func(s int) {
				if short != nil || !agrees(to, g, s, me) {
					return
				}
				if pos[s] >= len(recv[s]) {
					short = fmt.Errorf("stream from process %d ended early: %w", s, ErrMisaligned)
					return
				}
				acc += recv[s][pos[s]]
				pos[s]++
			})
			if short != nil {
				return short
			}
			dd[iL*dld+jL] = acc
		}
	}
	return nil
}
