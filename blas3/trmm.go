package blas3

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/lvdist/dist"
	"github.com/katalvlaran/lvdist/matrix"
	"github.com/katalvlaran/lvdist/partition"
)

// Trmm computes B := alpha·op(A)·B or B := alpha·B·op(A) for triangular A.
// Only side Right, uplo Lower with op Transpose or Adjoint is implemented;
// other combinations return ErrUnsupportedVariant.
func Trmm[T matrix.Scalar](ctx context.Context, side matrix.Side, uplo matrix.Uplo, o matrix.Orientation, diag matrix.Diag,
	alpha T, a, b *dist.Matrix[T], opts ...Option) error {
	if side == matrix.Right && uplo == matrix.Lower && o != matrix.Normal {
		return TrmmRLT(ctx, o, diag, alpha, a, b, opts...)
	}
	return fmt.Errorf("blas3.Trmm %s/%s/%s: %w", side, uplo, o, ErrUnsupportedVariant)
}

// TrmmRLT computes X := alpha·X·op(L) for lower-triangular L and op
// Transpose or Adjoint. With Unit, the diagonal of L is taken as ones; the
// strictly upper part of L is never read.
//
// L and X must be [MC,MR] matrices on the same grid, L square and
// X.Width() == L.Height(). Unless WithVariant says otherwise, the
// panel-broadcast variant runs when L.Height() > RoutingRatio·X.Height() and
// the blocked-diagonal variant otherwise.
func TrmmRLT[T matrix.Scalar](ctx context.Context, o matrix.Orientation, diag matrix.Diag,
	alpha T, l, x *dist.Matrix[T], opts ...Option) (err error) {
	const op = "TrmmRLT"
	cfg := gatherOptions(opts...)

	if err := checkTrmmRLT(op, o, l, x); err != nil {
		return err
	}
	v := route(cfg, l.Height(), x.Height())

	ctx, span := cfg.Tracer.Start(ctx, "blas3.TrmmRLT",
		trace.WithAttributes(
			attribute.String("variant", v.String()),
			attribute.String("orientation", o.String()),
			attribute.Int("l_height", l.Height()),
			attribute.Int("x_height", x.Height()),
			attribute.Int("blocksize", cfg.Blocksize),
		),
	)
	defer span.End()
	cfg.Logger.DebugContext(ctx, "blas3: TrmmRLT routing",
		slog.String("variant", v.String()),
		slog.Int("l_height", l.Height()),
		slog.Int("x_height", x.Height()),
		slog.Int("ratio", cfg.RoutingRatio),
	)

	if v == VariantPanelBroadcast {
		err = trmmRLTA(ctx, o, diag, alpha, l, x, cfg)
	} else {
		err = trmmRLTC(ctx, o, diag, alpha, l, x, cfg)
	}
	if err != nil {
		return fail(span, fmt.Errorf("blas3.%s (%s): %w", op, v, err), "trmm failed")
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func checkTrmmRLT[T matrix.Scalar](op string, o matrix.Orientation, l, x *dist.Matrix[T]) error {
	if l == nil || x == nil {
		return preconditionf(op, dist.ErrNilMatrix)
	}
	if l.Grid() != x.Grid() {
		return preconditionf(op, dist.ErrGridMismatch)
	}
	if o == matrix.Normal {
		return preconditionf(op, ErrNormalOrientation)
	}
	if l.Format() != dist.MCMR || x.Format() != dist.MCMR {
		return preconditionf(op, fmt.Errorf("L %s, X %s: %w", l.Format(), x.Format(), ErrFormat))
	}
	if l.Height() != l.Width() || x.Width() != l.Height() {
		return preconditionf(op, fmt.Errorf("L ~ %d x %d, X ~ %d x %d: %w",
			l.Height(), l.Width(), x.Height(), x.Width(), ErrNonconformal))
	}
	if x.Locked() {
		return preconditionf(op, dist.ErrLockedView)
	}
	return nil
}

// route applies the shape heuristic unless a variant is forced.
func route(cfg Options, lHeight, xHeight int) Variant {
	if cfg.Variant != VariantAuto {
		return cfg.Variant
	}
	if lHeight > cfg.RoutingRatio*xHeight {
		return VariantPanelBroadcast
	}
	return VariantBlockedDiagonal
}

func canceled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// trmmRLTA is the panel-broadcast variant. For each row panel X1 it forms
// Z1ᵀ = alpha·tril(L)·X1ᵀ in [MC,*], reduce-scatters it to [MC,MR],
// redistributes to [MR,MC] aligned with X1 and transposes locally into X1.
// For Adjoint the accumulation uses conj(alpha) so the result is
// alpha·X·Lᴴ.
func trmmRLTA[T matrix.Scalar](ctx context.Context, o matrix.Orientation, diag matrix.Diag,
	alpha T, l, x *dist.Matrix[T], cfg Options) error {
	g := l.Grid()
	adjoint := o == matrix.Adjoint
	scale := alpha
	if adjoint {
		scale = matrix.Conj(alpha)
	}

	x1T, err := dist.New[T](g, dist.MRStar)
	if err != nil {
		return err
	}
	z1TPartial, err := dist.New[T](g, dist.MCStar)
	if err != nil {
		return err
	}
	z1T, err := dist.New[T](g, dist.MCMR)
	if err != nil {
		return err
	}
	z1TMRMC, err := dist.New[T](g, dist.MRMC)
	if err != nil {
		return err
	}
	if err := x1T.AlignWith(l); err != nil {
		return err
	}
	if err := z1TPartial.AlignWith(l); err != nil {
		return err
	}

	cur, err := partition.NewCursor(x, partition.Down, cfg.Blocksize)
	if err != nil {
		return err
	}
	for !cur.Done() {
		if err := canceled(ctx); err != nil {
			return err
		}
		if err := cur.Repartition(); err != nil {
			return err
		}
		x1, err := cur.Panel()
		if err != nil {
			return err
		}

		z1TMRMC.FreeAlignments()
		if err := z1TMRMC.AlignWith(x1); err != nil {
			return err
		}
		if err := z1TPartial.Zeros(x1.Width(), x1.Height()); err != nil {
			return err
		}
		if adjoint {
			err = x1T.AdjointFrom(x1)
		} else {
			err = x1T.TransposeFrom(x1)
		}
		if err != nil {
			return err
		}
		if err := localTrmmAccumulateRLT(diag, scale, l, x1T, z1TPartial, cfg.Blocksize); err != nil {
			return err
		}
		if err := z1T.SumScatterFrom(z1TPartial); err != nil {
			return err
		}
		if err := z1TMRMC.CopyFrom(z1T); err != nil {
			return err
		}
		if adjoint {
			err = matrix.AdjointInto(z1TMRMC.Local(), x1.Local())
		} else {
			err = matrix.TransposeInto(z1TMRMC.Local(), x1.Local())
		}
		if err != nil {
			return err
		}

		if err := cur.Slide(); err != nil {
			return err
		}
	}
	return nil
}

// trmmRLTC is the blocked-diagonal variant: X := alpha·X, then for each
// diagonal block L11 from the bottom-right, X1 := X1·op(L11) + X0·op(L10).
// Walking leftwards keeps X0 unmodified until its own step.
func trmmRLTC[T matrix.Scalar](ctx context.Context, o matrix.Orientation, diag matrix.Diag,
	alpha T, l, x *dist.Matrix[T], cfg Options) error {
	g := l.Grid()
	var one, zero T
	one = 1

	l10T, err := dist.New[T](g, dist.MRStar)
	if err != nil {
		return err
	}
	l11, err := dist.New[T](g, dist.StarStar)
	if err != nil {
		return err
	}
	x1VC, err := dist.New[T](g, dist.VCStar)
	if err != nil {
		return err
	}
	d1, err := dist.New[T](g, dist.MCStar)
	if err != nil {
		return err
	}

	if err := x.Scale(alpha); err != nil {
		return err
	}
	lc, err := partition.NewLockedDiagCursor(l, partition.UpDiagonal, cfg.Blocksize)
	if err != nil {
		return err
	}
	xc, err := partition.NewCursor(x, partition.Left, cfg.Blocksize)
	if err != nil {
		return err
	}
	for !xc.Done() {
		if err := canceled(ctx); err != nil {
			return err
		}
		if err := lc.Repartition(); err != nil {
			return err
		}
		if err := xc.Repartition(); err != nil {
			return err
		}
		b, err := lc.Blocks()
		if err != nil {
			return err
		}
		x0, x1, _, err := xc.Parts()
		if err != nil {
			return err
		}

		l10T.FreeAlignments()
		d1.FreeAlignments()
		if err := l10T.AlignWith(x0); err != nil {
			return err
		}
		if err := d1.AlignWith(x1); err != nil {
			return err
		}
		if err := d1.Zeros(x1.Height(), x1.Width()); err != nil {
			return err
		}

		if err := x1VC.CopyFrom(x1); err != nil {
			return err
		}
		if err := l11.CopyFrom(b[1][1]); err != nil {
			return err
		}
		if err := LocalTrmm(matrix.Right, matrix.Lower, o, diag, one, l11, x1VC); err != nil {
			return err
		}
		if err := x1.CopyFrom(x1VC); err != nil {
			return err
		}

		if o == matrix.Adjoint {
			err = l10T.AdjointFrom(b[1][0])
		} else {
			err = l10T.TransposeFrom(b[1][0])
		}
		if err != nil {
			return err
		}
		if err := LocalGemm(matrix.Normal, matrix.Normal, one, x0, l10T, zero, d1); err != nil {
			return err
		}
		if err := x1.SumScatterUpdate(one, d1); err != nil {
			return err
		}

		if err := lc.Slide(); err != nil {
			return err
		}
		if err := xc.Slide(); err != nil {
			return err
		}
	}
	return nil
}

// localTrmmAccumulateRLT adds alpha·tril(L)·Xᵀ into Zᵀ using local
// multiplies only: xT is [MR,*] aligned with L's rows, zT is [MC,*] aligned
// with L's columns. The caller reduces zT over grid rows afterwards.
// The diagonal walk uses max(r,c)·bsize so each process gets a useful
// share of every block.
func localTrmmAccumulateRLT[T matrix.Scalar](diag matrix.Diag, alpha T, l, xT, zT *dist.Matrix[T], bsize int) error {
	const op = "localTrmmAccumulateRLT"
	if l.Grid() != xT.Grid() || xT.Grid() != zT.Grid() {
		return preconditionf(op, dist.ErrGridMismatch)
	}
	if l.Height() != l.Width() || l.Height() != xT.Height() || l.Height() != zT.Height() || xT.Width() != zT.Width() {
		return preconditionf(op, fmt.Errorf("L ~ %d x %d, X^H/T[MR,*] ~ %d x %d, Z^H/T[MC,*] ~ %d x %d: %w",
			l.Height(), l.Width(), xT.Height(), xT.Width(), zT.Height(), zT.Width(), ErrNonconformal))
	}
	if xT.ColAlignment() != l.RowAlignment() || zT.ColAlignment() != l.ColAlignment() {
		return preconditionf(op, dist.ErrMisaligned)
	}

	g := l.Grid()
	var one T = 1
	bs := max(g.Height(), g.Width()) * bsize

	lc, err := partition.NewLockedDiagCursor(l, partition.DownDiagonal, bs)
	if err != nil {
		return err
	}
	xc, err := partition.NewLockedCursor(xT, partition.Down, bs)
	if err != nil {
		return err
	}
	zc, err := partition.NewCursor(zT, partition.Down, bs)
	if err != nil {
		return err
	}
	d11, err := dist.New[T](g, dist.MCMR)
	if err != nil {
		return err
	}

	for !lc.Done() {
		if err := lc.Repartition(); err != nil {
			return err
		}
		if err := xc.Repartition(); err != nil {
			return err
		}
		if err := zc.Repartition(); err != nil {
			return err
		}
		b, err := lc.Blocks()
		if err != nil {
			return err
		}
		x1, err := xc.Panel()
		if err != nil {
			return err
		}
		_, z1, z2, err := zc.Parts()
		if err != nil {
			return err
		}

		d11.FreeAlignments()
		if err := d11.AlignWith(b[1][1]); err != nil {
			return err
		}
		if err := d11.CopyFrom(b[1][1]); err != nil {
			return err
		}
		if err := d11.MakeTrapezoidal(matrix.Lower, 0); err != nil {
			return err
		}
		if diag == matrix.Unit {
			if err := d11.SetDiagonal(one); err != nil {
				return err
			}
		}

		if err := LocalGemm(matrix.Normal, matrix.Normal, alpha, d11, x1, one, z1); err != nil {
			return err
		}
		if err := LocalGemm(matrix.Normal, matrix.Normal, alpha, b[2][1], x1, one, z2); err != nil {
			return err
		}

		if err := lc.Slide(); err != nil {
			return err
		}
		if err := xc.Slide(); err != nil {
			return err
		}
		if err := zc.Slide(); err != nil {
			return err
		}
	}
	return nil
}
