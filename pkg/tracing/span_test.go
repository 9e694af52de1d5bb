package tracing

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildAttachesToRoot(t *testing.T) {
	ctx, root := Start(context.Background(), "search", "req-1")
	_, classify := Child(ctx, "classify")
	classify.Set("kind", "boolean")
	classify.End()
	_, eval := Child(ctx, "evaluate")
	eval.End()
	root.End()

	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "classify", children[0].Name)
	assert.Equal(t, "evaluate", children[1].Name)
	assert.Equal(t, "req-1", children[1].TraceID)
	assert.Same(t, root, FromContext(ctx))
}

func TestChildWithoutRootIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := Child(ctx, "evaluate")
	assert.Nil(t, span)
	assert.Equal(t, ctx, got)
	span.Set("k", "v")
	span.End()
	span.Log(ctx, slog.Default())
	assert.Nil(t, span.Children())
}

func TestLogWritesTreeAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, root := Start(context.Background(), "search", "req-2")
	_, child := Child(ctx, "evaluate")
	child.Set("results", 3)
	child.End()
	root.End()
	root.Log(ctx, log)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "span=search")
	assert.Contains(t, lines[1], "depth=1")
	assert.Contains(t, lines[1], "results=3")

	buf.Reset()
	root.Log(ctx, slog.New(slog.NewTextHandler(&buf, nil)))
	assert.Empty(t, buf.String())
}
