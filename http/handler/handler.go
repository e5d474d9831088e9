// Package handler exposes a filestore.Provider over HTTP.
package handler

import (
	"context"
	"io"
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/val"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"

	formFileField = "file"

	defaultStreamTimeout = 60 * time.Second
)

// Files serves the file routes on top of a single provider.
type Files struct {
	provider      filestore.Provider
	streamTimeout time.Duration
}

// Option customizes Files.
type Option func(*Files)

// WithStreamTimeout bounds how long a download may take, body transfer included.
func WithStreamTimeout(d time.Duration) Option {
	return func(h *Files) {
		if d > 0 {
			h.streamTimeout = d
		}
	}
}

// NewFiles creates the file routes for provider. Mount them with Register.
func NewFiles(provider filestore.Provider, opts ...Option) *Files {
	h := &Files{
		provider:      provider,
		streamTimeout: defaultStreamTimeout,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register mounts the routes under /files.
func (h *Files) Register(r fiber.Router) {
	g := r.Group("/files")

	g.Post("/", h.upload)
	g.Post("/multipart", h.uploadMultipart)
	g.Delete("/:key", h.delete)
	g.Get("/:key", h.download)
	g.Get("/:key/url", h.downloadURL)
}

type uploadRequest struct {
	Filename string `json:"filename" validate:"required"`
	MimeType string `json:"mime_type"`
	Content  string `json:"content" validate:"required"`
}

type uploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type urlResponse struct {
	URL string `json:"url"`
}

// upload stores a base64 encoded JSON payload.
func (h *Files) upload(c *fiber.Ctx) error {
	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidRequest(err)
	}
	if err := val.ValidateSchema(req); err != nil {
		return errx.Wrap(err)
	}

	res, err := h.provider.Upload(c.UserContext(), filestore.UploadRequest{
		Filename: req.Filename,
		MimeType: req.MimeType,
		Content:  req.Content,
	})
	if err != nil {
		return errx.Wrap(err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploadResponse{URL: res.URL, Key: res.Key})
}

// uploadMultipart stores the "file" part of a multipart form as raw bytes.
func (h *Files) uploadMultipart(c *fiber.Ctx) error {
	header, err := c.FormFile(formFileField)
	if err != nil {
		return invalidRequest(err)
	}

	file, err := header.Open()
	if err != nil {
		return invalidRequest(err)
	}
	defer file.Close()

	res, err := h.provider.Upload(c.UserContext(), filestore.UploadRequest{
		Filename: header.Filename,
		MimeType: header.Header.Get(fiber.HeaderContentType),
		Content:  file,
	})
	if err != nil {
		return errx.Wrap(err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploadResponse{URL: res.URL, Key: res.Key})
}

func (h *Files) delete(c *fiber.Ctx) error {
	err := h.provider.Delete(c.UserContext(), filestore.DeleteRequest{FileKey: c.Params("key")})
	if err != nil {
		return errx.Wrap(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// download streams the file. Fiber reads the body after the handler chain has
// returned and the request context is cancelled, so the stream gets its own
// context, bounded by streamTimeout and released when fiber closes the body.
func (h *Files) download(c *fiber.Ctx) error {
	key := c.Params("key")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.UserContext()), h.streamTimeout)

	stream, err := h.provider.GetDownloadStream(ctx, filestore.FileRequest{FileKey: key})
	if err != nil {
		cancel()
		return errx.Wrap(err)
	}

	contentType := filestore.StreamContentType(stream)
	if contentType == "" {
		contentType = filestore.ResolveContentType("", key, nil)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.SendStream(&cancelOnClose{ReadCloser: stream, cancel: cancel})
}

// cancelOnClose releases the stream context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (s *cancelOnClose) Close() error {
	defer s.cancel()
	return s.ReadCloser.Close()
}

func (h *Files) downloadURL(c *fiber.Ctx) error {
	u, err := h.provider.GetPresignedDownloadURL(c.UserContext(), filestore.FileRequest{FileKey: c.Params("key")})
	if err != nil {
		return errx.Wrap(err)
	}
	return c.JSON(urlResponse{URL: u})
}

func invalidRequest(err error) error {
	return errx.Wrap(err,
		errx.WithCode(codeInvalidRequest),
		errx.WithType(errx.T_Validation),
	)
}
