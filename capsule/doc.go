// Package capsule assembles retrieval results into the final support
// response.
//
// The package formats ranked passages into a bounded context block, builds
// the generation prompt around it, scores how well the passages ground the
// response, and falls back to canned per-stress-type messages when retrieval
// comes back empty.
package capsule
