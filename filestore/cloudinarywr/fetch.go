package cloudinarywr

import (
	"context"
	"io"
	"net/http"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/fileprovider/filestore"
)

// remoteBody is a delivery response body that remembers the served content type.
type remoteBody struct {
	io.ReadCloser
	contentType string
}

func (b *remoteBody) ContentType() string {
	return b.contentType
}

// fetch performs a plain GET and returns the body of a 2xx response.
// The caller closes the body.
func fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeFetchFailed))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errx.Wrap(err,
			errx.WithCode(filestore.CodeFetchFailed),
			errx.WithDetails(errx.D{"url": url}),
		)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return &remoteBody{
			ReadCloser:  resp.Body,
			contentType: resp.Header.Get("Content-Type"),
		}, nil
	}
	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errx.New(
			"file not found",
			errx.WithCode(filestore.CodeFileNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"url": url}),
		)
	}

	return nil, errx.New(
		"unexpected status while fetching file",
		errx.WithCode(filestore.CodeFetchFailed),
		errx.WithDetails(errx.D{"url": url, "status": resp.StatusCode}),
	)
}
