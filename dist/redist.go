package dist

import (
	"fmt"

	"github.com/katalvlaran/lvdist/comm"
	"github.com/katalvlaran/lvdist/grid"
	"github.com/katalvlaran/lvdist/matrix"
)

// strategy is how one ordered (destination, source) format pair is
// redistributed.
type strategy uint8

const (
	// stratUnsupported: no implementation for the pair.
	stratUnsupported strategy = iota
	// stratLocalCopy: same format; aligned operands copy local blocks.
	stratLocalCopy
	// stratFromStarStar: every process extracts its entries from its replica.
	stratFromStarStar
	// stratGatherAll: all-gather every canonical local block into [*,*].
	stratGatherAll
	// stratRedistribute: local filter, gather along one grid axis, or a
	// general all-to-all exchange, chosen from the alignments at run time.
	stratRedistribute
)

type formatPair struct{ dst, src Format }

// conversions is the dispatch table of CopyFrom, one entry per ordered pair
// of valid formats.
var conversions = buildConversions()

func buildConversions() map[formatPair]strategy {
	t := make(map[formatPair]strategy, len(validFormats)*len(validFormats))
	for _, dst := range validFormats {
		for _, src := range validFormats {
			var s strategy
			switch {
			case dst == src:
				s = stratLocalCopy
			case src == StarStar:
				s = stratFromStarStar
			case dst == StarStar:
				s = stratGatherAll
			case dst.HasMD() || src.HasMD():
				s = stratUnsupported
			default:
				s = stratRedistribute
			}
			t[formatPair{dst, src}] = s
		}
	}
	return t
}

// Supported reports whether CopyFrom implements dst = src for some
// alignments. Same-format pairs additionally require equal alignments.
func Supported(dst, src Format) bool {
	s, ok := conversions[formatPair{dst, src}]
	return ok && s != stratUnsupported
}

func checkPair[T matrix.Scalar](op string, dst, src *Matrix[T]) error {
	if dst == nil || src == nil {
		return preconditionf(op, ErrNilMatrix)
	}
	if dst.g != src.g {
		return preconditionf(op, ErrGridMismatch)
	}
	if dst.Locked() {
		return preconditionf(op, ErrLockedView)
	}
	return nil
}

// prepare sizes the destination for a result of the given shape: a view
// must already have that shape; an owned matrix first adopts src's
// alignments wherever its own are free, then resizes.
func (m *Matrix[T]) prepare(op string, src Layout, height, width int) error {
	if m.Viewing() {
		if m.height != height || m.width != width {
			return preconditionf(op, fmt.Errorf("view %dx%d, source %dx%d: %w",
				m.height, m.width, height, width, ErrShapeMismatch))
		}
		return nil
	}
	m.adopt(src)
	return m.ResizeTo(height, width)
}

// CopyFrom redistributes src into m (m = src): afterwards m holds src's
// global values in m's own format. Collective over the grid.
//
// Preconditions (checked before any communication): equal grids, m not
// locked, and if m is a view, equal global shapes. An owned m takes src's
// shape and, where its alignments are free, src's alignments.
//
// Supported pairs: every pair of formats without MD; any format to and from
// [*,*]; and same-format copies. Same-format copies require equal
// alignments. Everything else fails with a *ConversionError.
func (m *Matrix[T]) CopyFrom(src *Matrix[T]) error {
	return m.copyFrom("CopyFrom", src)
}

// Copy sets dst = src; see CopyFrom.
func Copy[T matrix.Scalar](dst, src *Matrix[T]) error {
	if dst == nil {
		return preconditionf("Copy", ErrNilMatrix)
	}
	return dst.copyFrom("Copy", src)
}

func (m *Matrix[T]) copyFrom(op string, src *Matrix[T]) error {
	if err := checkPair(op, m, src); err != nil {
		return err
	}
	strat := conversions[formatPair{m.f, src.f}]
	if strat == stratUnsupported {
		return &ConversionError{Op: op, Dst: m.f, Src: src.f}
	}

	if strat == stratLocalCopy {
		if m.Viewing() && (m.height != src.height || m.width != src.width) {
			return preconditionf(op, fmt.Errorf("view %dx%d, source %dx%d: %w",
				m.height, m.width, src.height, src.width, ErrShapeMismatch))
		}
		if !m.Viewing() {
			m.adopt(src)
		}
		if !m.alignedWith(src) {
			return &ConversionError{Op: op, Dst: m.f, Src: src.f, Unaligned: true}
		}
		if err := m.prepare(op, src, src.height, src.width); err != nil {
			return err
		}
		return m.local.CopyFrom(src.local)
	}

	if err := m.prepare(op, src, src.height, src.width); err != nil {
		return err
	}
	var err error
	switch strat {
	case stratFromStarStar:
		filterLocal(m, src)
	case stratGatherAll:
		err = gatherAll(m, src)
	default:
		err = redistribute(m, src)
	}
	if err != nil {
		return fmt.Errorf("dist.%s %s = %s: %w", op, m.f, src.f, err)
	}
	return nil
}

// filterLocal fills dst from src when every entry dst stores is also stored
// locally in src.
func filterLocal[T matrix.Scalar](dst, src *Matrix[T]) {
	if !dst.Participating() {
		return
	}
	dl, sl := dst.local, src.local
	dd, sd := dl.Data(), sl.Data()
	dld, sld := dl.LDim(), sl.LDim()
	sColShift, sRowShift := src.ColShift(), src.RowShift()
	sColStride, sRowStride := src.ColStride(), src.RowStride()
	for iL := 0; iL < dl.Rows(); iL++ {
		si := (dst.GlobalRow(iL) - sColShift) / sColStride
		for jL := 0; jL < dl.Cols(); jL++ {
			sj := (dst.GlobalCol(jL) - sRowShift) / sRowStride
			dd[iL*dld+jL] = sd[si*sld+sj]
		}
	}
}

// gatherAll assembles a [*,*] destination from the canonical local block of
// every process.
func gatherAll[T matrix.Scalar](dst, src *Matrix[T]) error {
	g := dst.g
	var send []T
	if src.primaryAt(g.Rank()) {
		send = src.local.Values()
	}
	parts, err := comm.AllGather(g.Comm(), send)
	if err != nil {
		return err
	}
	dd, dld := dst.local.Data(), dst.local.LDim()
	cs, rs := src.ColStride(), src.RowStride()
	for vc, part := range parts {
		if !src.primaryAt(vc) {
			continue
		}
		rows, cols := src.localDimsAt(vc)
		if len(part) != rows*cols {
			return fmt.Errorf("block of process %d has %d entries, want %d: %w", vc, len(part), rows*cols, ErrMisaligned)
		}
		c0, r0 := src.colShiftAt(vc), src.rowShiftAt(vc)
		for iL := 0; iL < rows; iL++ {
			i := c0 + iL*cs
			for jL := 0; jL < cols; jL++ {
				dd[i*dld+r0+jL*rs] = part[iL*cols+jL]
			}
		}
	}
	return nil
}

// subsetAxis reports whether, along one dimension, the indices a process
// stores under (dd, da) are among those it stores under (sd, sa).
func subsetAxis(g *grid.Grid, dd Dist, da int, sd Dist, sa int) bool {
	switch {
	case sd == STAR:
		return true
	case dd == sd:
		return da == sa
	case sd == MC && dd == VC:
		return da%g.Height() == sa
	case sd == MR && dd == VR:
		return da%g.Width() == sa
	default:
		return false
	}
}

// gatherAxis reports whether dst is src with exactly one dimension widened
// to STAR and the other dimension identical. colAxis tells which one.
func gatherAxis[T matrix.Scalar](dst, src *Matrix[T]) (colAxis, ok bool) {
	switch {
	case dst.f.Col == STAR && src.f.Col != STAR && dst.f.Row == src.f.Row && dst.rowAlign == src.rowAlign:
		return true, true
	case dst.f.Row == STAR && src.f.Row != STAR && dst.f.Col == src.f.Col && dst.colAlign == src.colAlign:
		return false, true
	}
	return false, false
}

// axisComm returns the communicator whose member index is the rank along d.
func axisComm(d Dist, g *grid.Grid) *comm.Comm {
	switch d {
	case MC:
		return g.ColComm()
	case MR:
		return g.RowComm()
	case VR:
		return g.VRComm()
	default:
		return g.Comm()
	}
}

func redistribute[T matrix.Scalar](dst, src *Matrix[T]) error {
	if subsetAxis(dst.g, dst.f.Col, dst.colAlign, src.f.Col, src.colAlign) &&
		subsetAxis(dst.g, dst.f.Row, dst.rowAlign, src.f.Row, src.rowAlign) {
		filterLocal(dst, src)
		return nil
	}
	if colAxis, ok := gatherAxis(dst, src); ok {
		return gatherAlong(dst, src, colAxis)
	}
	return exchange(dst, src)
}

// gatherAlong all-gathers src's local blocks over the communicator of the
// dimension that dst replicates.
func gatherAlong[T matrix.Scalar](dst, src *Matrix[T], colAxis bool) error {
	d, align, n := src.f.Row, src.rowAlign, src.width
	if colAxis {
		d, align, n = src.f.Col, src.colAlign, src.height
	}
	stride := strideOf(d, src.g)
	parts, err := comm.AllGather(axisComm(d, src.g), src.local.Values())
	if err != nil {
		return err
	}

	dd, dld := dst.local.Data(), dst.local.LDim()
	for k, part := range parts {
		shift := Shift(k, align, stride)
		cnt := LocalLength(n, shift, stride)
		if colAxis {
			cols := dst.local.Cols()
			if len(part) != cnt*cols {
				return fmt.Errorf("member %d sent %d entries, want %d: %w", k, len(part), cnt*cols, ErrMisaligned)
			}
			if cols == 0 {
				continue
			}
			for t := 0; t < cnt; t++ {
				i := shift + t*stride
				copy(dd[i*dld:i*dld+cols], part[t*cols:(t+1)*cols])
			}
			continue
		}
		rows := dst.local.Rows()
		if len(part) != rows*cnt {
			return fmt.Errorf("member %d sent %d entries, want %d: %w", k, len(part), rows*cnt, ErrMisaligned)
		}
		for iL := 0; iL < rows; iL++ {
			for t := 0; t < cnt; t++ {
				dd[iL*dld+shift+t*stride] = part[iL*cnt+t]
			}
		}
	}
	return nil
}

// exchange is the general redistribution: every canonical holder sends each
// of its entries to every process storing it under dst's format, in global
// row-major order, and receivers consume the streams in the same order.
func exchange[T matrix.Scalar](dst, src *Matrix[T]) error {
	g := dst.g
	p := g.Size()
	send := make([][]T, p)
	if src.primaryAt(g.Rank()) {
		sl := src.local
		sd, sld := sl.Data(), sl.LDim()
		for iL := 0; iL < sl.Rows(); iL++ {
			i := src.GlobalRow(iL)
			for jL := 0; jL < sl.Cols(); jL++ {
				v := sd[iL*sld+jL]
				dst.owners(i, src.GlobalCol(jL)).each(g, func(q int) {
					send[q] = append(send[q], v)
				})
			}
		}
	}
	recv, err := comm.AllToAll(g.Comm(), send)
	if err != nil {
		return err
	}

	pos := make([]int, p)
	dl := dst.local
	dd, dld := dl.Data(), dl.LDim()
	for iL := 0; iL < dl.Rows(); iL++ {
		i := dst.GlobalRow(iL)
		for jL := 0; jL < dl.Cols(); jL++ {
			s := src.owners(i, dst.GlobalCol(jL)).canonical(g)
			if pos[s] >= len(recv[s]) {
				return fmt.Errorf("stream from process %d ended early: %w", s, ErrMisaligned)
			}
			dd[iL*dld+jL] = recv[s][pos[s]]
			pos[s]++
		}
	}
	return nil
}

// transposed returns a local, owned matrix holding src^T (or src^H) in the
// transposed format. No communication.
func transposed[T matrix.Scalar](src *Matrix[T], conj bool) (*Matrix[T], error) {
	t := &Matrix[T]{
		g:              src.g,
		f:              src.f.Transposed(),
		height:         src.width,
		width:          src.height,
		colAlign:       src.rowAlign,
		rowAlign:       src.colAlign,
		diagPath:       src.diagPath,
		colConstrained: src.f.Row != STAR,
		rowConstrained: src.f.Col != STAR,
		own:            matrix.Owned,
	}
	local, err := matrix.NewDense[T](src.local.Cols(), src.local.Rows())
	if err != nil {
		return nil, err
	}
	if conj {
		err = matrix.AdjointInto(src.local, local)
	} else {
		err = matrix.TransposeInto(src.local, local)
	}
	if err != nil {
		return nil, err
	}
	t.local = local
	return t, nil
}

// TransposeFrom sets m = src^T. Collective; same rules as CopyFrom applied
// to the transposed format of src.
func (m *Matrix[T]) TransposeFrom(src *Matrix[T]) error {
	return m.transposeFrom("TransposeFrom", src, false)
}

// AdjointFrom sets m = src^H (src^T for real data).
func (m *Matrix[T]) AdjointFrom(src *Matrix[T]) error {
	return m.transposeFrom("AdjointFrom", src, true)
}

func (m *Matrix[T]) transposeFrom(op string, src *Matrix[T], conj bool) error {
	if err := checkPair(op, m, src); err != nil {
		return err
	}
	if !Supported(m.f, src.f.Transposed()) {
		return &ConversionError{Op: op, Dst: m.f, Src: src.f.Transposed()}
	}
	t, err := transposed(src, conj)
	if err != nil {
		return preconditionf(op, err)
	}
	return m.copyFrom(op, t)
}
