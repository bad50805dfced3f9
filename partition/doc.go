// Package partition provides the traversal scaffold of blocked algorithms on
// distributed matrices.
//
// A Cursor splits one dimension of a matrix into a processed part and a
// remaining part. Each step exposes a panel of at most blocksize rows or
// columns taken from the remaining part next to the boundary:
//
//	c, _ := partition.NewCursor(x, partition.Down, nb)
//	for !c.Done() {
//	    _ = c.Repartition()
//	    x0, x1, x2, _ := c.Parts()
//	    // work on x1, reading x0 (processed) and x2 (remaining)
//	    _ = c.Slide()
//	}
//
// The processed part starts empty and grows by one panel per Slide; the loop
// ends once the remaining part is empty. DiagCursor does the same along the
// diagonal of a square matrix and exposes the 3×3 block split.
//
// Parts are dist views sharing storage with the traversed matrix; creating
// them is local.
package partition
