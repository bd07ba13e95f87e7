package sports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneration(t *testing.T) {
	var g Generation

	ctx1, t1 := g.Begin(context.Background())
	assert.True(t, g.IsCurrent(t1))

	ctx2, t2 := g.Begin(context.Background())
	assert.Greater(t, t2, t1)
	assert.False(t, g.IsCurrent(t1))
	assert.True(t, g.IsCurrent(t2))
	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "a newer generation cancels the older one")
	assert.NoError(t, ctx2.Err())

	g.End(t1)
	assert.NoError(t, ctx2.Err(), "ending a stale ticket has no effect")

	g.End(t2)
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	assert.True(t, g.IsCurrent(t2))
}
