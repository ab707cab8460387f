package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	calls int
}

func (f *fakeClient) Generate(ctx context.Context, prompt string, referenceIDs []string, variantCount int) ([][]byte, error) {
	f.calls++
	return [][]byte{{0x01}}, nil
}

func TestWrapDelegatesToUnderlyingClient(t *testing.T) {
	fake := &fakeClient{}
	client := Wrap(fake, 1000, 10)

	out, err := client.Generate(context.Background(), "prompt", nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Len(t, out, 1)
}

func TestWrapBlocksBeyondBurst(t *testing.T) {
	fake := &fakeClient{}
	client := Wrap(fake, 1, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Generate(context.Background(), "prompt", nil, 1)
	require.NoError(t, err)

	_, err = client.Generate(ctx, "prompt", nil, 1)
	require.Error(t, err)
}
