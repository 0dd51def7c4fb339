package metrics

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/streams.go/pkg/framework"
	"github.com/robotalks/streams.go/pkg/streams/scan"
)

// Recorder feeds the counters. It implements device.Observer.
type Recorder struct{}

// ObserveScan counts a scan result.
func (Recorder) ObserveScan(driver string, res scan.Result) {
	ScanCountVec.WithLabelValues(driver, res.Outcome.String()).Inc()
	if res.Dropped > 0 {
		ScanDiscardedBytesVec.WithLabelValues(driver).Add(float64(res.Dropped))
	}
	if res.Rejected > 0 {
		ChunkRejectedVec.WithLabelValues(driver).Add(float64(res.Rejected))
	}
}

// Received counts bytes read from a source.
func (Recorder) Received(n int) {
	SourceBytesCounter.Add(float64(n))
}

// Dropped counts bytes lost to a full buffer.
func (Recorder) Dropped(n int) {
	SourceDroppedCounter.Add(float64(n))
}

// Serve registers the collectors with the default registry and serves
// /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	if err := Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	glog.Infof("metrics on %s/metrics", addr)
	return fx.RunWithContextCloser(ctx, srv, func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

// Server returns a Runnable serving metrics on addr.
func Server(addr string) fx.Runnable {
	return fx.RunFunc(func(ctx context.Context) error {
		return Serve(ctx, addr)
	})
}
