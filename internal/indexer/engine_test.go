package indexer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/feed"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/segment"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/kafka"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/metrics"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func testConfig(t *testing.T, format string) config.IndexerConfig {
	cfg := config.Default().Indexer
	cfg.DataDir = t.TempDir()
	cfg.Format = format
	cfg.NumShards = 2
	return cfg
}

var corpus = feed.StaticSource{
	{ID: 2, Text: "The dog barked at the mailman."},
	{ID: 1, Text: "A cat and a dog"},
	{ID: 3, Text: "Cats sleep all day"},
}

func TestRunBuildsPersistsAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	m := metrics.New(prometheus.NewRegistry())
	steps := 0
	eng := NewEngine(corpus, testConfig(t, "bolt"),
		WithPublisher(pub),
		WithMetrics(m),
		WithProgress(func(total int) func() {
			assert.Equal(t, 3, total)
			return func() { steps++ }
		}),
	)

	report, err := eng.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Documents)
	assert.True(t, report.Published)
	assert.Equal(t, 3, steps)

	snap, err := segment.Load(report.Path)
	require.NoError(t, err)
	assert.Equal(t, report.Version, snap.Version)
	assert.Equal(t, []index.DocID{1, 3}, snap.Docs("cat"))
	assert.Equal(t, []index.DocID{1, 2}, snap.Docs("dog"))

	require.Len(t, pub.events, 1)
	event, ok := pub.events[0].Value.(IndexBuiltEvent)
	assert.Equal(t, IndexBuiltEventType, pub.events[0].Type)
	require.True(t, ok)
	assert.Equal(t, report.Path, event.Path)
	assert.Equal(t, report.Version, event.Version)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("success")))
}

func TestRunSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	report, err := NewEngine(corpus, testConfig(t, "json"), WithPublisher(pub)).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Published)
	assert.True(t, segment.Exists(report.Path))
}

func TestRunRejectsDuplicateIDs(t *testing.T) {
	src := feed.StaticSource{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}}
	m := metrics.New(prometheus.NewRegistry())
	_, err := NewEngine(src, testConfig(t, "yaml"), WithMetrics(m)).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexBuildsTotal.WithLabelValues("failed")))
}

func TestBuildWithCustomNormalizer(t *testing.T) {
	eng := NewEngine(corpus, testConfig(t, "json"), WithNormalizer(func(text string) []string {
		return []string{"x"}
	}))
	snap, err := eng.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []index.DocID{1, 2, 3}, snap.Docs("x"))
}
