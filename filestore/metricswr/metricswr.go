// Package metricswr decorates a filestore.Provider with Prometheus metrics.
package metricswr

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/code19m/errx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rise-and-shine/fileprovider/filestore"
)

const defaultNamespace = "filestore"

// Operation label values.
const (
	OpUpload       = "upload"
	OpDelete       = "delete"
	OpGetAsBuffer  = "get_as_buffer"
	OpGetStream    = "get_download_stream"
	OpPresignedURL = "get_presigned_download_url"
)

// Provider records latency, failures and uploaded bytes of the wrapped provider.
type Provider struct {
	next filestore.Provider

	duration      *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	uploadedBytes *prometheus.CounterVec
}

var _ filestore.Provider = (*Provider)(nil)

// New registers the collectors on reg (the default registerer when nil) and wraps next.
// Collectors registered by an earlier call are reused, so several providers can share them.
func New(next filestore.Provider, namespace string, reg prometheus.Registerer) (*Provider, error) {
	if namespace == "" {
		namespace = defaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of file provider operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "operation"}))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	errorsTotal, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Count of failed file provider operations.",
	}, []string{"provider", "operation"}))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	uploadedBytes, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploaded_bytes_total",
		Help:      "Cumulative payload size successfully uploaded.",
	}, []string{"provider"}))
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &Provider{
		next:          next,
		duration:      duration,
		errorsTotal:   errorsTotal,
		uploadedBytes: uploadedBytes,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, errx.Wrap(err)
}

// Identifier returns the identifier of the wrapped provider.
func (p *Provider) Identifier() string {
	return p.next.Identifier()
}

// Upload normalizes the content once so its size can be counted, then hands the bytes on.
func (p *Provider) Upload(ctx context.Context, req filestore.UploadRequest) (*filestore.UploadResult, error) {
	start := time.Now()

	data, err := filestore.NormalizeContent(req.Content)
	if err != nil {
		p.observe(OpUpload, start, err)
		return nil, errx.Wrap(err)
	}
	req.Content = data

	res, err := p.next.Upload(ctx, req)
	p.observe(OpUpload, start, err)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	p.uploadedBytes.WithLabelValues(p.next.Identifier()).Add(float64(len(data)))
	return res, nil
}

// Delete records the latency of the delete.
func (p *Provider) Delete(ctx context.Context, req filestore.DeleteRequest) error {
	start := time.Now()
	err := p.next.Delete(ctx, req)
	p.observe(OpDelete, start, err)
	return err
}

// GetAsBuffer records the latency of the full download.
func (p *Provider) GetAsBuffer(ctx context.Context, req filestore.FileRequest) ([]byte, error) {
	start := time.Now()
	data, err := p.next.GetAsBuffer(ctx, req)
	p.observe(OpGetAsBuffer, start, err)
	return data, err
}

// GetDownloadStream measures the time until the stream is available, not until it is drained.
func (p *Provider) GetDownloadStream(ctx context.Context, req filestore.FileRequest) (io.ReadCloser, error) {
	start := time.Now()
	rc, err := p.next.GetDownloadStream(ctx, req)
	p.observe(OpGetStream, start, err)
	return rc, err
}

// GetPresignedDownloadURL records the latency of building the URL.
func (p *Provider) GetPresignedDownloadURL(ctx context.Context, req filestore.FileRequest) (string, error) {
	start := time.Now()
	u, err := p.next.GetPresignedDownloadURL(ctx, req)
	p.observe(OpPresignedURL, start, err)
	return u, err
}

func (p *Provider) observe(op string, start time.Time, err error) {
	provider := p.next.Identifier()

	p.duration.WithLabelValues(provider, op).Observe(time.Since(start).Seconds())
	if err != nil {
		p.errorsTotal.WithLabelValues(provider, op).Inc()
	}
}
