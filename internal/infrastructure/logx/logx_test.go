package logx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextIDs(t *testing.T) {
	ctx := WithTraceID(WithRequestID(context.Background(), "rid-1"), "tid-1")
	require.Equal(t, "rid-1", RequestID(ctx))
	require.Equal(t, "tid-1", TraceID(ctx))
	require.NotSame(t, L(), WithFields(ctx))
	require.Same(t, L(), WithFields(context.Background()))
}
