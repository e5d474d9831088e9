// Package cloudinarywr provides a Cloudinary implementation of filestore.Provider.
//
// The provider is a thin adapter: it builds upload requests from a
// filestore.UploadRequest and maps Cloudinary's answers back to
// filestore results. Storage, transformation and delivery stay with Cloudinary.
package cloudinarywr

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/observability/logger"
)

// Provider implements filestore.Provider on top of Cloudinary.
// It is safe for concurrent use; all fields are set once in New.
type Provider struct {
	opts       Options
	log        logger.Logger
	remote     Remote
	httpClient *http.Client
}

var _ filestore.Provider = (*Provider)(nil)

// Option customizes a Provider built by New.
type Option func(*Provider)

// WithRemote replaces the cloudinary-go backed media service.
func WithRemote(r Remote) Option {
	return func(p *Provider) {
		p.remote = r
	}
}

// WithHTTPClient sets the client used to download stored files.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// New validates opts and creates a Provider that owns its own Cloudinary client.
func New(opts Options, log logger.Logger, options ...Option) (*Provider, error) {
	if err := ValidateOptions(opts); err != nil {
		return nil, errx.Wrap(err)
	}
	if err := defaults.Set(&opts); err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeInvalidOptions))
	}
	if log == nil {
		log = logger.NewNop()
	}

	p := &Provider{
		opts:       opts,
		log:        log.Named("filestore.cloudinary"),
		httpClient: http.DefaultClient,
	}
	for _, o := range options {
		o(p)
	}

	if p.remote == nil {
		remote, err := newSDKRemote(opts)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		p.remote = remote
	}

	return p, nil
}

// Identifier returns "cloudinary".
func (p *Provider) Identifier() string {
	return Identifier
}

// Upload normalizes the content, classifies it and streams it to Cloudinary
// under a freshly generated public id. The returned key has no folder prefix.
func (p *Provider) Upload(ctx context.Context, req filestore.UploadRequest) (*filestore.UploadResult, error) {
	data, err := filestore.NormalizeContent(req.Content)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	resourceType := ClassifyResource(req.MimeType)
	publicID := filestore.NewObjectID(req.Filename)
	log := p.log.WithContext(ctx)

	log.Infow("uploading file",
		"filename", req.Filename,
		"mime_type", req.MimeType,
		"resource_type", resourceType,
	)

	res, err := p.remote.Upload(ctx, bytes.NewReader(data), UploadParams{
		ResourceType: resourceType,
		PublicID:     publicID,
		Folder:       p.opts.FolderName,
	})
	if err != nil {
		err = errx.Wrap(err,
			errx.WithCode(filestore.CodeUploadFailed),
			errx.WithDetails(errx.D{"public_id": publicID, "resource_type": resourceType}),
		)
		log.Errorx(err)
		return nil, err
	}
	if res == nil {
		err = errx.New(
			"no result returned from Cloudinary upload",
			errx.WithCode(filestore.CodeNoUploadResult),
			errx.WithDetails(errx.D{"public_id": publicID}),
		)
		log.Errorx(err)
		return nil, err
	}

	log.Infow("uploaded file", "secure_url", res.SecureURL)

	return &filestore.UploadResult{
		URL: res.SecureURL,
		Key: filestore.TrimFolder(p.opts.FolderName, res.PublicID),
	}, nil
}

// Delete destroys the asset behind req.FileKey. It is best-effort: failures
// are logged at warn level and Delete always returns nil.
func (p *Provider) Delete(ctx context.Context, req filestore.DeleteRequest) error {
	publicID := filestore.JoinFolder(p.opts.FolderName, filestore.StripExtension(req.FileKey))

	warnAndDiscard(p.log.WithContext(ctx), publicID, p.remote.Destroy(ctx, publicID))
	return nil
}

// GetAsBuffer downloads the whole file from its delivery URL.
func (p *Provider) GetAsBuffer(ctx context.Context, req filestore.FileRequest) ([]byte, error) {
	body, err := p.download(ctx, req.FileKey)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeFetchFailed))
	}
	return data, nil
}

// GetDownloadStream returns the response body of the delivery URL.
// The stream is single-pass; the caller must close it. It reports the
// served content type through filestore.ContentTyper.
func (p *Provider) GetDownloadStream(ctx context.Context, req filestore.FileRequest) (io.ReadCloser, error) {
	body, err := p.download(ctx, req.FileKey)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return body, nil
}

// GetPresignedDownloadURL returns the https delivery URL of the file.
//
// Despite the name, Cloudinary delivery URLs are neither signed nor
// time-limited: this is the same permanent public URL the download
// methods fetch from. The URL is built for "<folder>/<key>", not the bare
// key, because keys returned by Upload carry no folder prefix.
func (p *Provider) GetPresignedDownloadURL(_ context.Context, req filestore.FileRequest) (string, error) {
	return p.fileURL(req.FileKey)
}

// fileURL builds the delivery URL for a key. Pure; no network call.
func (p *Provider) fileURL(key string) (string, error) {
	u, err := p.remote.URL(filestore.JoinFolder(p.opts.FolderName, key))
	if err != nil {
		return "", errx.Wrap(err, errx.WithDetails(errx.D{"file_key": key}))
	}
	return u, nil
}

func (p *Provider) download(ctx context.Context, key string) (io.ReadCloser, error) {
	u, err := p.fileURL(key)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return fetch(ctx, p.httpClient, u)
}

// warnAndDiscard is the best-effort policy of Delete: the error is logged
// and dropped so callers can't tell a failed delete from a missing file.
func warnAndDiscard(log logger.Logger, publicID string, err error) {
	if err == nil {
		return
	}
	log.With("public_id", publicID).Warnf("cloudinary delete failed: %v", err)
}
