// Package tracingwr decorates a filestore.Provider with OpenTelemetry spans.
package tracingwr

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/fileprovider/filestore"
)

// Span attribute keys.
const (
	AttrProvider = attribute.Key("filestore.provider")
	AttrKey      = attribute.Key("filestore.key")
	AttrFilename = attribute.Key("filestore.filename")
	AttrMimeType = attribute.Key("filestore.mime_type")
)

// Provider starts a "filestore.<operation>" span around every call of the wrapped provider.
type Provider struct {
	next   filestore.Provider
	tracer trace.Tracer
}

var _ filestore.Provider = (*Provider)(nil)

// New wraps next. Spans are started on tracer, usually tracing.Tracer().
func New(next filestore.Provider, tracer trace.Tracer) *Provider {
	return &Provider{
		next:   next,
		tracer: tracer,
	}
}

// Identifier returns the identifier of the wrapped provider.
func (p *Provider) Identifier() string {
	return p.next.Identifier()
}

// Upload traces the upload and records the returned key.
func (p *Provider) Upload(ctx context.Context, req filestore.UploadRequest) (*filestore.UploadResult, error) {
	ctx, span := p.start(ctx, "upload",
		AttrFilename.String(req.Filename),
		AttrMimeType.String(req.MimeType),
	)
	defer span.End()

	res, err := p.next.Upload(ctx, req)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(AttrKey.String(res.Key))
	return res, nil
}

// Delete traces the delete.
func (p *Provider) Delete(ctx context.Context, req filestore.DeleteRequest) error {
	ctx, span := p.start(ctx, "delete", AttrKey.String(req.FileKey))
	defer span.End()

	err := p.next.Delete(ctx, req)
	if err != nil {
		fail(span, err)
	}
	return err
}

// GetAsBuffer traces the download and records its size.
func (p *Provider) GetAsBuffer(ctx context.Context, req filestore.FileRequest) ([]byte, error) {
	ctx, span := p.start(ctx, "get_as_buffer", AttrKey.String(req.FileKey))
	defer span.End()

	data, err := p.next.GetAsBuffer(ctx, req)
	if err != nil {
		fail(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("filestore.size", len(data)))
	return data, nil
}

// GetDownloadStream ends its span once the stream is opened.
func (p *Provider) GetDownloadStream(ctx context.Context, req filestore.FileRequest) (io.ReadCloser, error) {
	ctx, span := p.start(ctx, "get_download_stream", AttrKey.String(req.FileKey))
	defer span.End()

	rc, err := p.next.GetDownloadStream(ctx, req)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return rc, nil
}

// GetPresignedDownloadURL traces building the download URL.
func (p *Provider) GetPresignedDownloadURL(ctx context.Context, req filestore.FileRequest) (string, error) {
	ctx, span := p.start(ctx, "get_presigned_download_url", AttrKey.String(req.FileKey))
	defer span.End()

	u, err := p.next.GetPresignedDownloadURL(ctx, req)
	if err != nil {
		fail(span, err)
		return "", err
	}
	return u, nil
}

func (p *Provider) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "filestore."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, AttrProvider.String(p.next.Identifier()))...),
	)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
