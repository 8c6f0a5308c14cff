package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type toggleUpstream struct {
	down  atomic.Bool
	pings atomic.Int32
}

func (u *toggleUpstream) Do(ctx context.Context, method, path string, body []byte, authorize bool) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (u *toggleUpstream) Ping(ctx context.Context) error {
	u.pings.Add(1)
	if u.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func check(t *testing.T, reporter *HealthReporter, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := reporter.HealthServer().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestRefresh(t *testing.T) {
	testCases := []struct {
		name     string
		down     bool
		expected healthpb.HealthCheckResponse_ServingStatus
	}{
		{name: "upstream reachable", down: false, expected: healthpb.HealthCheckResponse_SERVING},
		{name: "upstream unreachable", down: true, expected: healthpb.HealthCheckResponse_NOT_SERVING},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			upstream := &toggleUpstream{}
			upstream.down.Store(tc.down)
			reporter := NewHealthReporter(upstream, time.Minute, quietLogger())

			// Act
			got := reporter.Refresh(context.Background())

			// Assert
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, tc.expected, check(t, reporter, ""))
			assert.Equal(t, tc.expected, check(t, reporter, ServiceName))
		})
	}
}

func TestNotServingBeforeFirstRefresh(t *testing.T) {
	reporter := NewHealthReporter(&toggleUpstream{}, time.Minute, quietLogger())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, reporter, ""))
}

func TestRunStopsOnCancel(t *testing.T) {
	// Arrange
	upstream := &toggleUpstream{}
	reporter := NewHealthReporter(upstream, 10*time.Millisecond, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- reporter.Run(ctx) }()
	require.Eventually(t, func() bool { return upstream.pings.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	// Assert
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, reporter, ""))
}

func TestServerAnswersHealthCheck(t *testing.T) {
	// Arrange
	reporter := NewHealthReporter(&toggleUpstream{}, time.Minute, quietLogger())
	reporter.Refresh(context.Background())
	srv := NewServer(reporter, quietLogger())
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Act
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
