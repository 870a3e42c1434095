// Package storage provides the local artifact layout for downloaded demo
// clips and an optional S3 mirror for publishing them.
package storage

import "context"

// Store defines where batch artifacts live. The local directory is
// created once at construction, so artifact paths returned by
// ArtifactPath always have an existing parent.
type Store interface {
	// ArtifactPath returns the deterministic local path for a named
	// artifact, e.g. ("santorini", ".mp4") or ("santorini", "-thumb.jpg").
	ArtifactPath(name, suffix string) string

	// Mirror uploads a local artifact to remote storage under key and
	// returns its public URL. Returns ErrS3NotConfigured when no remote
	// backend is configured.
	Mirror(ctx context.Context, localPath, key string) (url string, err error)
}
