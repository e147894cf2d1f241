package domain

import "context"

type usageKey struct{}

// EmbeddingUsage accumulates what one ranking pass cost. The transport puts
// it in the request context and reports it in response headers.
type EmbeddingUsage struct {
	Texts       int // texts embedded, cache hits included
	TotalTokens int // tokens billed by the provider; 0 for local models and cache hits
}

// NewContextWithUsage returns a context carrying an empty usage record.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the usage record, or nil if the context has none.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(usageKey{}).(*EmbeddingUsage)
	return u
}

// Record adds one embedding call. Safe on a nil receiver.
func (u *EmbeddingUsage) Record(texts, tokens int) {
	if u == nil {
		return
	}
	u.Texts += texts
	u.TotalTokens += tokens
}

// Embedded reports whether the pass reached the embedder at all.
func (u *EmbeddingUsage) Embedded() bool { return u != nil && u.Texts > 0 }
