// Package miniowr provides a MinIO implementation of filestore.Provider.
package miniowr

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/observability/logger"
	"github.com/rise-and-shine/fileprovider/val"
)

const codeNoSuchKey = "NoSuchKey"

// Provider implements filestore.Provider using a MinIO (or any S3 compatible) bucket.
type Provider struct {
	cfg    Config
	log    logger.Logger
	client *minio.Client
}

var _ filestore.Provider = (*Provider)(nil)

// New validates cfg and creates a MinIO provider. No request is made to the server.
func New(cfg Config, log logger.Logger) (*Provider, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err,
			errx.WithCode(filestore.CodeInvalidOptions),
			errx.WithDetails(errx.D{"provider": Identifier}),
		)
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeInvalidOptions))
	}
	if log == nil {
		log = logger.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeInvalidOptions))
	}

	return &Provider{
		cfg:    cfg,
		log:    log.Named("filestore.minio"),
		client: client,
	}, nil
}

// Identifier returns "minio".
func (p *Provider) Identifier() string {
	return Identifier
}

// Upload stores the content as "<folder>/<object id><ext>". The content type
// is the declared MIME type, or a guess from the filename and the data.
func (p *Provider) Upload(ctx context.Context, req filestore.UploadRequest) (*filestore.UploadResult, error) {
	data, err := filestore.NormalizeContent(req.Content)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	key := filestore.NewObjectID(req.Filename) + strings.ToLower(path.Ext(req.Filename))
	objectName := filestore.JoinFolder(p.cfg.FolderName, key)
	contentType := filestore.ResolveContentType(req.MimeType, req.Filename, data)

	log := p.log.WithContext(ctx)
	log.Infow("uploading file",
		"filename", req.Filename,
		"object", objectName,
		"content_type", contentType,
		"size", len(data),
	)

	_, err = p.client.PutObject(ctx, p.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		err = errx.Wrap(err,
			errx.WithCode(filestore.CodeUploadFailed),
			errx.WithDetails(errx.D{"bucket": p.cfg.Bucket, "object": objectName}),
		)
		log.Errorx(err)
		return nil, err
	}

	return &filestore.UploadResult{
		URL: p.objectURL(objectName),
		Key: key,
	}, nil
}

// Delete removes the object. Removing a missing object is not an error in S3,
// so any failure returned here is real and is passed on.
func (p *Provider) Delete(ctx context.Context, req filestore.DeleteRequest) error {
	objectName := filestore.JoinFolder(p.cfg.FolderName, req.FileKey)

	err := p.client.RemoveObject(ctx, p.cfg.Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return errx.Wrap(err,
			errx.WithCode(filestore.CodeDeleteFailed),
			errx.WithDetails(errx.D{"bucket": p.cfg.Bucket, "object": objectName}),
		)
	}
	return nil
}

// GetAsBuffer reads the whole object into memory.
func (p *Provider) GetAsBuffer(ctx context.Context, req filestore.FileRequest) ([]byte, error) {
	obj, err := p.open(ctx, req.FileKey)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errx.Wrap(wrapMinioError(err))
	}
	return data, nil
}

// GetDownloadStream returns the object reader. The caller must close it.
func (p *Provider) GetDownloadStream(ctx context.Context, req filestore.FileRequest) (io.ReadCloser, error) {
	obj, err := p.open(ctx, req.FileKey)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return obj, nil
}

// GetPresignedDownloadURL returns a signed GET URL valid for Config.PresignExpiry.
func (p *Provider) GetPresignedDownloadURL(ctx context.Context, req filestore.FileRequest) (string, error) {
	objectName := filestore.JoinFolder(p.cfg.FolderName, req.FileKey)

	u, err := p.client.PresignedGetObject(ctx, p.cfg.Bucket, objectName, p.cfg.PresignExpiry, url.Values{})
	if err != nil {
		return "", errx.Wrap(err, errx.WithDetails(errx.D{"object": objectName}))
	}
	return u.String(), nil
}

// objectStream is an opened object with the content type recorded at upload.
type objectStream struct {
	*minio.Object
	contentType string
}

func (o *objectStream) ContentType() string {
	return o.contentType
}

// open returns the object after a stat, so missing keys fail here instead of on first read.
func (p *Provider) open(ctx context.Context, key string) (*objectStream, error) {
	objectName := filestore.JoinFolder(p.cfg.FolderName, key)

	obj, err := p.client.GetObject(ctx, p.cfg.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errx.Wrap(wrapMinioError(err), errx.WithDetails(errx.D{"object": objectName}))
	}

	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, errx.Wrap(wrapMinioError(err), errx.WithDetails(errx.D{"object": objectName}))
	}
	return &objectStream{Object: obj, contentType: info.ContentType}, nil
}

func (p *Provider) objectURL(objectName string) string {
	u := *p.client.EndpointURL()
	u.Path = path.Join("/", p.cfg.Bucket, objectName)
	return u.String()
}

// wrapMinioError converts MinIO errors to filestore error codes.
func wrapMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return errx.New(
			"file not found",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
		)
	}
	return errx.Wrap(err, errx.WithCode(filestore.CodeFetchFailed))
}
