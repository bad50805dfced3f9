// Package dist implements element-cyclic distributed matrices over a
// grid.Grid: the distribution formats, the DistributedMatrix itself and the
// protocol that redistributes a matrix from one format to another.
//
// A format is a pair [ColDist,RowDist]. Each dimension is distributed as
//
//	MC   over grid rows         (stride r)
//	MR   over grid columns      (stride c)
//	VC   over all processes, column-major ranks (stride p)
//	VR   over all processes, row-major ranks    (stride p)
//	MD   along one diagonal path (stride lcm(r,c); only that path participates)
//	*    replicated             (stride 1)
//
// and only the 13 formats listed by Formats are valid. Global index i of a
// dimension with stride s and alignment a lives on the process whose rank
// along that dimension is (i+a) mod s, at local index (i-shift)/s with
// shift = (rank-a+s) mod s.
//
// Every operation that communicates is collective over the grid: all
// processes call it in the same order with the same global arguments.
// Preconditions depend only on replicated metadata (shapes, formats,
// alignments, view state), so they fail identically on every process before
// any message is sent.
package dist
