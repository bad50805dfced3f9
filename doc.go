// Package lvdist is a distributed dense-matrix engine: matrices are spread
// element-cyclically over a 2-D grid of cooperating ranks, and BLAS3-style
// operations run as local kernels glued together by explicit
// redistributions.
//
// What is inside?
//
//	comm/      in-process ranks, sub-communicators and collectives
//	grid/      the r×c process grid, its VC/VR orders and diagonal paths
//	matrix/    the local Dense[T] block and its gonum-backed kernels
//	dist/      the 13 distribution formats, the distributed Matrix and
//	           the redistribution protocol between formats
//	partition/ cursors that walk a matrix block by block
//	blas3/     LocalGemm, LocalTrmm and the distributed Trmm (right, lower,
//	           transposed) in its panel-broadcast and blocked-diagonal variants
//	config/    TOML/YAML run configuration
//	cmd/lvdist-trmm/
//	           a driver that checks Trmm against a serial reference
//
// A typical rank body:
//
//	err := comm.Run(ctx, 6, func(ctx context.Context, c *comm.Comm) error {
//		g, err := grid.New(c, 2, 3)
//		if err != nil {
//			return err
//		}
//		l, _ := dist.Distribute(g, dist.MCMR, lDense)
//		x, _ := dist.Distribute(g, dist.MCMR, xDense)
//		return blas3.TrmmRLT(ctx, matrix.Transpose, matrix.NonUnit, 2.0, l, x)
//	})
//
// Every operation that communicates is collective: all ranks of the grid
// call it in the same order with the same global arguments.
package lvdist
