package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/fleetsim/core/metrics"
	"github.com/kilianp07/fleetsim/infra/logger"
)

// InfluxSink writes fleet activity to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTick writes the state counters after a tick.
func (s *InfluxSink) RecordTick(ev coremetrics.TickEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_tick").
		AddTag("component", "engine").
		AddField("tick", int64(ev.Tick)).
		AddField("queued", ev.Queued).
		AddField("ongoing", ev.Ongoing).
		AddField("completed", ev.Completed).
		AddField("free_vehicles", ev.FreeVehicles).
		AddField("promoted", ev.Promoted).
		AddField("finished", ev.Finished).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSubmission writes an accepted or rejected submission.
func (s *InfluxSink) RecordSubmission(ev coremetrics.SubmissionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("job_submitted").
		AddTag("flexibility", ev.FlexibilityLabel()).
		AddTag("accepted", strconv.FormatBool(ev.Accepted))
	if ev.JobID != "" {
		p = p.AddTag("job_id", ev.JobID)
	}
	p = p.AddField("name", ev.Name)
	if ev.Reason != "" {
		p = p.AddField("reason", ev.Reason)
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordCompletion writes a finished job.
func (s *InfluxSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	j := ev.Job
	p := write.NewPointWithMeasurement("job_completed").
		AddTag("job_id", j.ID).
		AddTag("flexibility", string(j.Flexibility)).
		AddField("name", j.Name).
		AddField("tick", int64(ev.Tick)).
		AddField("processing_time", round3(j.ProcessingTime)).
		AddField("overshoot", round3(j.ProcessingTimeCompleted-j.ProcessingTime)).
		AddField("profit", round3(j.Profit)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
