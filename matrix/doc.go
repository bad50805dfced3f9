// SPDX-License-Identifier: MIT

// Package matrix is the local (single-process) dense storage of lvdist and
// the BLAS-style kernels that operate on it.
//
// Purpose:
//   - Hold each process's local block of a distributed matrix in a strided,
//     row-major buffer: element (i,j) lives at data[i*LDim()+j].
//   - Support no-copy windows (View/LockedView) and adoption of foreign
//     buffers (Attach/LockedAttach) with an explicit ownership tag.
//   - Run the local Gemm/Trmm kernels on gonum's BLAS implementation for
//     float32, float64, complex64 and complex128.
//
// Ownership:
//   - Owned: the Dense allocated its buffer and may resize it.
//   - Borrowed: a mutable window onto storage owned elsewhere; never resized.
//   - BorrowedLocked: a read-only window; every mutator fails with ErrLockedView.
//
// AI-Hints:
//   - Hot loops in the distributed layer work on Data()/LDim() directly; the
//     checked At/Set pair is for tests and user code.
//   - Zero-sized matrices are valid everywhere: a process frequently owns no
//     rows or no columns of a distributed matrix.
package matrix
