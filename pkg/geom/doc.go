// Package geom defines the geometric capability interfaces the boolean
// engine is built over: parametric curves and surfaces exposing
// position/derivative/normal queries. The engine never depends on a
// concrete representation; anything satisfying Curve or Surface works.
//
// Points are sdfx vectors: vec/v3.Vec in model space, vec/v2.Vec in a
// surface's parameter space.
package geom
