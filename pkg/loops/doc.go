// Package loops turns the intersection curves between two shells into
// classified boundary loops on every face of both shells.
//
// A face's boundary wires are cut where intersection curves end on
// them, the original boundary pieces and the new intersection pieces
// become chunks, and chunks are chained into closed loops in the face's
// parameter space. Each intersection piece enters the face twice, once
// per direction: the copy whose traversal keeps the other solid's
// interior on the left is tagged And, the reverse copy Or. Loops are
// then grouped into outer-plus-holes sets, one per divided face region.
package loops
