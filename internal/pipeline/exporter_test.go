package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanspareilsmyn/gnsslens/internal/gnssmetrics"
)

type capturingPublisher struct {
	published []string
	err       error
}

func (p *capturingPublisher) Publish(_ context.Context, encoded string) error {
	p.published = append(p.published, encoded)
	return p.err
}

func TestExporterPublishesEncodedSummary(t *testing.T) {
	agg := newTestAggregator()
	agg.RecordFixOutcome(false)

	pub := &capturingPublisher{}
	e := NewExporter(time.Hour, agg, pub, zap.NewNop())
	e.export(context.Background())

	require.Len(t, pub.published, 1)

	raw, err := base64.StdEncoding.DecodeString(pub.published[0])
	require.NoError(t, err)
	var snap gnssmetrics.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	require.NotNil(t, snap.LocationFailures)
	assert.Equal(t, int64(1), snap.LocationFailures.Count)

	// The aggregator was reset by the export.
	assert.Nil(t, agg.Snapshot().LocationFailures)
}

func TestExporterToleratesPublishFailure(t *testing.T) {
	agg := newTestAggregator()
	pub := &capturingPublisher{err: errors.New("broker unreachable")}
	e := NewExporter(time.Hour, agg, pub, zap.NewNop())

	// Single attempt, swallowed: no panic, no retry.
	e.export(context.Background())
	assert.Len(t, pub.published, 1)
}

func TestExporterNilPublisher(t *testing.T) {
	agg := newTestAggregator()
	e := NewExporter(time.Hour, agg, nil, zap.NewNop())
	e.export(context.Background())
}

func TestExporterFinalFlushOnShutdown(t *testing.T) {
	agg := newTestAggregator()
	agg.RecordFixOutcome(true)

	pub := &capturingPublisher{}
	e := NewExporter(time.Hour, agg, pub, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Run(ctx), context.Canceled)
	assert.Len(t, pub.published, 1)
}
