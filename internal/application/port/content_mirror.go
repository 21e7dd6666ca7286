package port

import "context"

// MirrorStats summarizes a completed mirror pass.
type MirrorStats struct {
	Downloaded int
	Skipped    int
	Bytes      int64
}

// ContentMirror mirrors static site content from object storage
// to the local document root (Port)
// Implementation lives in the infrastructure layer (S3)
type ContentMirror interface {
	// Mirror downloads changed objects and reports what was transferred
	Mirror(ctx context.Context) (MirrorStats, error)
}
