// Package dirsnap packages a directory tree into a single portable
// container file that can later be reconstructed byte-for-byte.
//
// An archive is an ordered list of entries (path, size, MIME type,
// content) serialized into one contiguous buffer using a fixed binary
// layout: a 12-byte header carrying the DSAP magic, a format version
// and an entry count, followed by a fixed-width entry table of
// (offset, length) pairs and the entry blocks themselves.
//
// # Quick Start
//
// Snapshot a directory and write it to disk:
//
//	archive, err := dirsnap.Collect(ctx, "./src")
//	if err != nil {
//	    return err
//	}
//	err = dirsnap.WriteFile("src.dsap", archive,
//	    dirsnap.WriteWithCompression(dirsnap.CompressionZstd),
//	)
//
// Read it back and reconstruct the tree:
//
//	archive, err := dirsnap.ReadFile("src.dsap")
//	if err != nil {
//	    return err
//	}
//	err = dirsnap.Extract(ctx, archive, "./restored")
//
// # Safety
//
// Extract validates every entry path before writing any bytes. An
// archive containing a path that would resolve outside the destination
// root is rejected with a [PathTraversalError] and leaves no files
// behind.
//
// # Signing and compression
//
// Compression and signing operate on the serialized buffer as opaque
// byte sequences; the container format itself stores no checksum.
// [Sign] and [Verify] produce and check detached Ed25519 signatures,
// and [WriteFile]/[ReadFile] wire both passes into the on-disk flow.
package dirsnap
