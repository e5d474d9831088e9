package cloudinarywr_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/filestore/cloudinarywr"
	"github.com/rise-and-shine/fileprovider/observability/logger"
)

// stubRemote records every call in order. Upload echoes the public id back
// under the requested folder, URL points at baseURL.
type stubRemote struct {
	mu      sync.Mutex
	calls   []string
	baseURL string

	uploads    []cloudinarywr.UploadParams
	uploaded   [][]byte
	uploadErr  error
	noResult   bool
	destroyed  []string
	destroyErr error
}

func (s *stubRemote) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubRemote) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubRemote) Upload(
	_ context.Context,
	content io.Reader,
	params cloudinarywr.UploadParams,
) (*cloudinarywr.RemoteResult, error) {
	s.record("upload:" + params.PublicID)

	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, params)
	s.uploaded = append(s.uploaded, data)
	s.mu.Unlock()

	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	if s.noResult {
		return nil, nil
	}

	id := filestore.JoinFolder(params.Folder, params.PublicID)
	return &cloudinarywr.RemoteResult{
		SecureURL: "https://res.example.com/" + string(params.ResourceType) + "/upload/" + id,
		PublicID:  id,
	}, nil
}

func (s *stubRemote) Destroy(_ context.Context, publicID string) error {
	s.record("destroy:" + publicID)

	s.mu.Lock()
	s.destroyed = append(s.destroyed, publicID)
	s.mu.Unlock()

	return s.destroyErr
}

func (s *stubRemote) URL(publicID string) (string, error) {
	s.record("url:" + publicID)
	return s.baseURL + "/" + publicID, nil
}

func validOptions() cloudinarywr.Options {
	return cloudinarywr.Options{
		APIKey:    "key",
		APISecret: "secret",
		CloudName: "demo",
	}
}

func newProvider(
	t *testing.T,
	opts cloudinarywr.Options,
	remote *stubRemote,
	fns ...cloudinarywr.Option,
) (*cloudinarywr.Provider, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	p, err := cloudinarywr.New(
		opts,
		logger.NewFromCore(core),
		append([]cloudinarywr.Option{cloudinarywr.WithRemote(remote)}, fns...)...,
	)
	require.NoError(t, err)
	return p, logs
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *cloudinarywr.Options)
		wantErr bool
	}{
		{name: "valid", mutate: func(*cloudinarywr.Options) {}},
		{name: "valid with folder", mutate: func(o *cloudinarywr.Options) { o.FolderName = "uploads/avatars" }},
		{name: "missing api key", mutate: func(o *cloudinarywr.Options) { o.APIKey = "" }, wantErr: true},
		{name: "missing api secret", mutate: func(o *cloudinarywr.Options) { o.APISecret = "" }, wantErr: true},
		{name: "missing cloud name", mutate: func(o *cloudinarywr.Options) { o.CloudName = "" }, wantErr: true},
		{name: "malformed folder", mutate: func(o *cloudinarywr.Options) { o.FolderName = "uploads//x" }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := validOptions()
			tc.mutate(&opts)

			err := cloudinarywr.ValidateOptions(opts)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, filestore.CodeInvalidOptions))

			e := errx.AsErrorX(err)
			require.NotNil(t, e)
			assert.Equal(t, errx.T_Validation, e.Type())
		})
	}
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	p, err := cloudinarywr.New(cloudinarywr.Options{CloudName: "demo"}, nil)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeInvalidOptions))
}

func TestProvider_Identifier(t *testing.T) {
	p, _ := newProvider(t, validOptions(), &stubRemote{})
	assert.Equal(t, "cloudinary", p.Identifier())
	assert.Equal(t, cloudinarywr.Identifier, p.Identifier())
}

func TestClassifyResource(t *testing.T) {
	assert.Equal(t, cloudinarywr.ResourceImage, cloudinarywr.ClassifyResource("image/png"))
	assert.Equal(t, cloudinarywr.ResourceImage, cloudinarywr.ClassifyResource("image/svg+xml"))
	assert.Equal(t, cloudinarywr.ResourceRaw, cloudinarywr.ClassifyResource("application/pdf"))
	assert.Equal(t, cloudinarywr.ResourceRaw, cloudinarywr.ClassifyResource(""))
}

func TestProvider_Upload(t *testing.T) {
	remote := &stubRemote{}
	opts := validOptions()
	opts.FolderName = "uploads"
	p, logs := newProvider(t, opts, remote)

	payload := []byte("\x89PNG fake image")
	res, err := p.Upload(context.Background(), filestore.UploadRequest{
		Filename: "My Photo.png",
		MimeType: "image/png",
		Content:  base64.StdEncoding.EncodeToString(payload),
	})
	require.NoError(t, err)

	require.Len(t, remote.uploads, 1)
	params := remote.uploads[0]
	assert.Equal(t, cloudinarywr.ResourceImage, params.ResourceType)
	assert.Equal(t, "uploads", params.Folder)
	assert.True(t, strings.HasSuffix(params.PublicID, "_my_photo"), params.PublicID)
	assert.Equal(t, payload, remote.uploaded[0])

	assert.Equal(t, params.PublicID, res.Key)
	assert.False(t, strings.HasPrefix(res.Key, "uploads/"))
	assert.Equal(t, "https://res.example.com/image/upload/uploads/"+params.PublicID, res.URL)

	assert.Equal(t, 1, logs.FilterMessage("uploading file").Len())
	assert.Equal(t, 1, logs.FilterMessage("uploaded file").Len())
}

func TestProvider_Upload_RawWithoutMimeType(t *testing.T) {
	remote := &stubRemote{}
	p, _ := newProvider(t, validOptions(), remote)

	res, err := p.Upload(context.Background(), filestore.UploadRequest{
		Filename: "report.pdf",
		Content:  []byte("%PDF-1.7"),
	})
	require.NoError(t, err)

	require.Len(t, remote.uploads, 1)
	assert.Equal(t, cloudinarywr.ResourceRaw, remote.uploads[0].ResourceType)
	assert.Empty(t, remote.uploads[0].Folder)
	assert.Equal(t, remote.uploads[0].PublicID, res.Key)
}

func TestProvider_Upload_UniqueKeys(t *testing.T) {
	p, _ := newProvider(t, validOptions(), &stubRemote{})

	req := filestore.UploadRequest{Filename: "photo.png", MimeType: "image/png", Content: []byte("x")}

	first, err := p.Upload(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Upload(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.True(t, strings.HasSuffix(first.Key, "_photo"))
	assert.True(t, strings.HasSuffix(second.Key, "_photo"))
}

func TestProvider_Upload_RemoteError(t *testing.T) {
	remote := &stubRemote{uploadErr: errors.New("connection reset")}
	p, logs := newProvider(t, validOptions(), remote)

	res, err := p.Upload(context.Background(), filestore.UploadRequest{
		Filename: "a.txt",
		MimeType: "text/plain",
		Content:  []byte("hello"),
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeUploadFailed))
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestProvider_Upload_NoResult(t *testing.T) {
	remote := &stubRemote{noResult: true}
	p, logs := newProvider(t, validOptions(), remote)

	res, err := p.Upload(context.Background(), filestore.UploadRequest{
		Filename: "a.txt",
		Content:  []byte("hello"),
	})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeNoUploadResult))
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestProvider_Upload_InvalidContent(t *testing.T) {
	remote := &stubRemote{}
	p, _ := newProvider(t, validOptions(), remote)

	_, err := p.Upload(context.Background(), filestore.UploadRequest{
		Filename: "a.txt",
		Content:  "%%% not base64 %%%",
	})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeInvalidContent))
	assert.Empty(t, remote.Calls())
}

func TestProvider_Delete(t *testing.T) {
	remote := &stubRemote{}
	opts := validOptions()
	opts.FolderName = "uploads"
	p, logs := newProvider(t, opts, remote)

	err := p.Delete(context.Background(), filestore.DeleteRequest{FileKey: "abc123_photo.png"})
	require.NoError(t, err)

	assert.Equal(t, []string{"uploads/abc123_photo"}, remote.destroyed)
	assert.Zero(t, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestProvider_Delete_SuppressesFailure(t *testing.T) {
	remote := &stubRemote{destroyErr: errors.New("not found")}
	p, logs := newProvider(t, validOptions(), remote)

	err := p.Delete(context.Background(), filestore.DeleteRequest{FileKey: "abc123_photo"})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc123_photo"}, remote.destroyed)

	warns := logs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "not found")
	assert.Equal(t, "abc123_photo", warns[0].ContextMap()["public_id"])
}

func TestProvider_GetPresignedDownloadURL(t *testing.T) {
	remote := &stubRemote{baseURL: "https://res.example.com/demo/image/upload"}
	opts := validOptions()
	opts.FolderName = "uploads"
	p, _ := newProvider(t, opts, remote)

	u, err := p.GetPresignedDownloadURL(context.Background(), filestore.FileRequest{FileKey: "abc123_photo"})
	require.NoError(t, err)

	assert.Equal(t, "https://res.example.com/demo/image/upload/uploads/abc123_photo", u)
	assert.Equal(t, []string{"url:uploads/abc123_photo"}, remote.Calls())
}

// fileServer serves body for any path and records requests in remote's call log.
func fileServer(t *testing.T, remote *stubRemote, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remote.record("get:" + r.URL.Path)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	remote.baseURL = srv.URL
	return srv
}

func TestProvider_GetAsBuffer(t *testing.T) {
	remote := &stubRemote{}
	srv := fileServer(t, remote, http.StatusOK, "file body")

	opts := validOptions()
	opts.FolderName = "uploads"
	p, _ := newProvider(t, opts, remote, cloudinarywr.WithHTTPClient(srv.Client()))

	data, err := p.GetAsBuffer(context.Background(), filestore.FileRequest{FileKey: "abc123_photo"})
	require.NoError(t, err)

	assert.Equal(t, []byte("file body"), data)
	assert.Equal(t, []string{"url:uploads/abc123_photo", "get:/uploads/abc123_photo"}, remote.Calls())
}

func TestProvider_GetDownloadStream(t *testing.T) {
	remote := &stubRemote{}
	srv := fileServer(t, remote, http.StatusOK, "streamed body")
	p, _ := newProvider(t, validOptions(), remote, cloudinarywr.WithHTTPClient(srv.Client()))

	stream, err := p.GetDownloadStream(context.Background(), filestore.FileRequest{FileKey: "doc"})
	require.NoError(t, err)
	defer stream.Close()

	data, err := io.ReadAll(stream)
	require.NoError(t, err)

	assert.Equal(t, "streamed body", string(data))
	assert.Equal(t, []string{"url:doc", "get:/doc"}, remote.Calls())
}

func TestProvider_GetDownloadStream_ContentType(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", filestore.ContentTypePNG)
		_, _ = io.WriteString(w, "png bytes")
	}))
	t.Cleanup(cdn.Close)

	remote := &stubRemote{baseURL: cdn.URL}
	p, _ := newProvider(t, validOptions(), remote, cloudinarywr.WithHTTPClient(cdn.Client()))

	stream, err := p.GetDownloadStream(context.Background(), filestore.FileRequest{FileKey: "abc123_photo"})
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, filestore.ContentTypePNG, filestore.StreamContentType(stream))
}

func TestProvider_Get_NotFound(t *testing.T) {
	remote := &stubRemote{}
	srv := fileServer(t, remote, http.StatusNotFound, "missing")
	p, _ := newProvider(t, validOptions(), remote, cloudinarywr.WithHTTPClient(srv.Client()))

	_, err := p.GetAsBuffer(context.Background(), filestore.FileRequest{FileKey: "gone"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFileNotFound))

	_, err = p.GetDownloadStream(context.Background(), filestore.FileRequest{FileKey: "gone"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFileNotFound))
}

func TestProvider_Get_ServerError(t *testing.T) {
	remote := &stubRemote{}
	srv := fileServer(t, remote, http.StatusBadGateway, "")
	p, _ := newProvider(t, validOptions(), remote, cloudinarywr.WithHTTPClient(srv.Client()))

	_, err := p.GetAsBuffer(context.Background(), filestore.FileRequest{FileKey: "x"})
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, filestore.CodeFetchFailed))
}
