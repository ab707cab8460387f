// Package ratelimit wraps a texturegen.Client with a fixed-rate token
// bucket, grounded on the teacher's
// features/model/middleware.AdaptiveRateLimiter: a rate.Limiter gating
// calls before they reach the underlying client. Texture generation has
// no provider backoff signal to adapt to, so this keeps the limiter fixed
// rather than adopting the teacher's AIMD adjustment.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"modcraft/internal/texturegen"
)

type limitedClient struct {
	next    texturegen.Client
	limiter *rate.Limiter
}

// Wrap returns a texturegen.Client that admits at most requestsPerSecond
// Generate calls per second, with burst headroom for burst, blocking
// callers until a token is available or ctx is canceled.
func Wrap(next texturegen.Client, requestsPerSecond float64, burst int) texturegen.Client {
	if burst < 1 {
		burst = 1
	}
	return &limitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (c *limitedClient) Generate(ctx context.Context, prompt string, referenceIDs []string, variantCount int) ([][]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.next.Generate(ctx, prompt, referenceIDs, variantCount)
}
