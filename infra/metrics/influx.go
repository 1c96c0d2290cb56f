package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/phasebal/core/metrics"
	"github.com/kilianp07/phasebal/infra/logger"
)

// InfluxSink writes balancing runs to an InfluxDB instance using the official client.
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
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.BalanceRecorder {
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

// balancePoint converts a run into a phase_balance line protocol point.
func balancePoint(ev coremetrics.BalanceEvent) *write.Point {
	return write.NewPointWithMeasurement("phase_balance").
		AddTag("run_id", ev.RunID).
		AddTag("compliant", strconv.FormatBool(ev.Compliant)).
		AddField("circuits", ev.CircuitCount).
		AddField("l1_amps", ev.Totals.L1).
		AddField("l2_amps", ev.Totals.L2).
		AddField("l3_amps", ev.Totals.L3).
		AddField("imbalance_pct", ev.Imbalance).
		AddField("neutral_amps", ev.NeutralCurrent).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		SetTime(ev.Time)
}

// RecordBalance writes the run as a single point.
func (s *InfluxSink) RecordBalance(ev coremetrics.BalanceEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, balancePoint(ev))
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
