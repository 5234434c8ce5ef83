package e2e

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/fleetsim/core/engine"
	"github.com/kilianp07/fleetsim/infra/metrics"
	"github.com/kilianp07/fleetsim/qa/scenarios"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

// startInflux starts an InfluxDB 2.7 container initialised with the e2e
// organisation, bucket and token, and returns it along with the base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	url := fmt.Sprintf("http://%s:%s", host, port.Port())
	return cont, url
}

// Test_E2E_ScenarioToInflux replays a scenario with the InfluxDB sink and
// reads the written points back.
func Test_E2E_ScenarioToInflux(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	influxCont, influxURL := startInflux(ctx, t)
	defer influxCont.Terminate(ctx) //nolint:errcheck
	t.Logf("InfluxDB started at %s", influxURL)

	sink := metrics.NewInfluxSink(influxURL, influxToken, influxOrg, influxBucket)
	defer sink.Close()

	sc, err := scenarios.Load("../qa/scenarios/basic.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	res, err := scenarios.Run(sc, engine.WithMetrics(sink))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diffs := sc.Verify(res); len(diffs) > 0 {
		t.Fatalf("scenario diffs: %v", diffs)
	}

	cli := NewInfluxClient(influxURL, influxOrg, influxBucket, influxToken)
	defer cli.Close()

	completed, err := cli.CountField(ctx, "job_completed", "name")
	if err != nil {
		t.Fatalf("query completions: %v", err)
	}
	if completed != len(res.Final.Completed) {
		t.Fatalf("expected %d job_completed points, got %d", len(res.Final.Completed), completed)
	}
	submitted, err := cli.CountField(ctx, "job_submitted", "name")
	if err != nil {
		t.Fatalf("query submissions: %v", err)
	}
	if submitted != len(sc.Jobs) {
		t.Fatalf("expected %d job_submitted points, got %d", len(sc.Jobs), submitted)
	}
}
