// Package boolean computes intersections and unions of solids.
//
// Both operations run the same pipeline: tessellate the operands, trace
// the intersection curves between their surfaces, divide every face
// along those curves into classified regions, resolve the regions the
// curves never reached by ray parity against the other operand, then
// stitch the regions carrying the wanted classification back into
// closed shells.
package boolean
