// Package blas3 holds distributed level-3 routines built on dist and
// partition: the local kernels LocalGemm and LocalTrmm, which multiply the
// local blocks of operands whose distributions line up, and the triangular
// multiply Trmm.
//
// The implemented Trmm case is Right/Lower/(Transpose|Adjoint):
//
//	X := alpha · X · op(L)
//
// with two interchangeable variants. The panel-broadcast variant forms each
// row panel of X transposed, accumulates alpha·tril(L)·X1ᵀ with local
// multiplies and reduce-scatters the result back. The blocked-diagonal
// variant scales X by alpha, then walks the diagonal of L from the
// bottom-right corner, multiplying each column panel of X by its diagonal
// block on replicated copies and adding the X0·op(L10) correction with a
// reduce-scatter. A shape heuristic picks one; WithVariant forces it.
//
// All routines are collective over the grid of their operands.
package blas3
