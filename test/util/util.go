// Package util holds helpers for the container based service tests.
package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ServerTimeout = 5 * time.Second
	BrokerTimeout = 10 * time.Second
	MetricTimeout = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

const mosquittoConf = "listener 1883\nallow_anonymous true\npersistence false\nlog_dest stdout\n"

// FreeAddr returns a loopback address with a port nobody listens on.
func FreeAddr(t testing.TB) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free addr: %v", err)
	}
	defer l.Close()
	return l.Addr().String()
}

// poll calls check until it reports done or ctx expires.
func poll(ctx context.Context, what string, check func(context.Context) bool) error {
	for {
		if check(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(pollInterval):
		}
	}
}

func get(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), err
}

// WaitForHTTP waits until url answers 200.
func WaitForHTTP(ctx context.Context, url string) error {
	return poll(ctx, "waiting for "+url, func(ctx context.Context) bool {
		code, _, err := get(ctx, url)
		return err == nil && code == http.StatusOK
	})
}

// WaitForMetric waits until the metrics page at url contains substr.
func WaitForMetric(ctx context.Context, url, substr string) error {
	return poll(ctx, fmt.Sprintf("metric %q", substr), func(ctx context.Context) bool {
		_, body, err := get(ctx, url)
		return err == nil && strings.Contains(body, substr)
	})
}

// StartMosquitto runs an anonymous Mosquitto broker for the duration of the
// test and returns its URL. The test is skipped when no broker can be started.
func StartMosquitto(ctx context.Context, t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mosquitto.conf")
	if err := os.WriteFile(path, []byte(mosquittoConf), 0o644); err != nil {
		t.Fatalf("write mosquitto.conf: %v", err)
	}

	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "eclipse-mosquitto:2.0",
			ExposedPorts: []string{"1883/tcp"},
			WaitingFor:   wait.ForListeningPort("1883/tcp"),
			Files: []tc.ContainerFile{{
				HostFilePath:      path,
				ContainerFilePath: "/mosquitto/config/mosquitto.conf",
				FileMode:          0o644,
			}},
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("mosquitto container: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })

	endpoint, err := cont.PortEndpoint(ctx, "1883/tcp", "tcp")
	if err != nil {
		t.Fatalf("mosquitto endpoint: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, BrokerTimeout)
	defer cancel()
	probe := paho.NewClientOptions().AddBroker(endpoint).SetClientID("probe")
	err = poll(waitCtx, "mosquitto ready", func(context.Context) bool {
		cli := paho.NewClient(probe)
		token := cli.Connect()
		if token.Wait() && token.Error() != nil {
			return false
		}
		cli.Disconnect(100)
		return true
	})
	if err != nil {
		t.Skipf("%v", err)
	}
	return endpoint
}
