package storage

import "context"

// DocumentSource fetches one raw pipeline document by key. Implementations
// exist for Cloudflare R2 buckets and plain HTTP bases.
type DocumentSource interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}
