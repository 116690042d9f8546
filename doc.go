// Package fitz provides the process-wide state (allocator, locks, resource
// store, error/warning plumbing) shared by every stage of the graphics
// pipeline: paths and text runs flow through a device, a display list
// records and replays device calls, and a raster device turns them into
// pixels.
//
// A Context must be created before any other package in this module is
// used:
//
//	ctx := fitz.NewContext(nil, nil, 256<<20)
//	defer ctx.Close()
//
// Parallel work is done on cloned sibling contexts:
//
//	worker := ctx.Clone()
//	defer worker.Close()
//
// Document parsers, font shaping, and image codecs are external
// collaborators and are not implemented by this module; see SPEC_FULL.md.
package fitz
