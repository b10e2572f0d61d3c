package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-processing-api/pkg/jobs"
)

func TestTrackQueueDepthExportsPendingJobs(t *testing.T) {
	release := make(chan struct{})
	queue := jobs.NewQueue("gpa-refresh", func(ctx context.Context, job jobs.Job) error {
		<-release
		return nil
	}, jobs.QueueConfig{Workers: 1})
	queue.Start(context.Background())

	metrics := NewMetricsService()
	metrics.TrackQueueDepth("gpa-refresh", queue.Pending)

	require.NoError(t, queue.Enqueue(jobs.Job{ID: "1", Key: "stu-1:2023/2024:First"}))
	require.NoError(t, queue.Enqueue(jobs.Job{ID: "2", Key: "stu-2:2023/2024:First"}))

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	var depth float64
	found := false
	for _, family := range families {
		if family.GetName() != "job_queue_pending" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "queue" && label.GetValue() == "gpa-refresh" {
					depth = metric.GetGauge().GetValue()
					found = true
				}
			}
		}
	}
	close(release)
	queue.Stop()

	require.True(t, found)
	assert.Equal(t, 2.0, depth)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService
	assert.NotPanics(t, func() {
		metrics.TrackQueueDepth("gpa-refresh", func() int { return 1 })
	})
}
