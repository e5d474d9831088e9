package cloudinarywr

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/code19m/errx"
	"github.com/samber/lo"

	"github.com/rise-and-shine/fileprovider/filestore"
)

// ResourceType is Cloudinary's content bucket for an asset.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceRaw   ResourceType = "raw"
)

// ClassifyResource maps a MIME type to a resource type: "image/*" is an
// image, everything else (including an empty MIME type) is raw.
func ClassifyResource(mimeType string) ResourceType {
	return lo.Ternary(filestore.IsImage(mimeType), ResourceImage, ResourceRaw)
}

// UploadParams are sent along with the uploaded bytes.
type UploadParams struct {
	ResourceType ResourceType
	PublicID     string
	Folder       string
}

// RemoteResult is what the media service reports for a stored asset.
type RemoteResult struct {
	SecureURL string
	PublicID  string
}

// Remote is the Cloudinary media service as seen by the provider.
type Remote interface {
	// Upload streams content to the service. A nil result with a nil error
	// means the service answered without a result.
	Upload(ctx context.Context, content io.Reader, params UploadParams) (*RemoteResult, error)

	// Destroy deletes the asset with the given public id.
	Destroy(ctx context.Context, publicID string) error

	// URL builds the https delivery URL for a public id. It makes no network call.
	URL(publicID string) (string, error)
}

// sdkRemote implements Remote with an owned cloudinary-go client.
type sdkRemote struct {
	cld *cloudinary.Cloudinary
}

func newSDKRemote(opts Options) (*sdkRemote, error) {
	cld, err := cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(filestore.CodeInvalidOptions))
	}
	cld.Config.URL.Secure = lo.FromPtrOr(opts.Secure, true)

	return &sdkRemote{cld: cld}, nil
}

func (r *sdkRemote) Upload(ctx context.Context, content io.Reader, params UploadParams) (*RemoteResult, error) {
	resp, err := r.cld.Upload.Upload(ctx, content, uploader.UploadParams{
		PublicID:     params.PublicID,
		Folder:       params.Folder,
		ResourceType: string(params.ResourceType),
	})
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if resp == nil {
		return nil, nil //nolint:nilnil // the provider reports the missing result
	}
	if resp.Error.Message != "" {
		return nil, errx.New(
			resp.Error.Message,
			errx.WithCode(filestore.CodeUploadFailed),
			errx.WithDetails(errx.D{"public_id": params.PublicID}),
		)
	}

	return &RemoteResult{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
	}, nil
}

func (r *sdkRemote) Destroy(ctx context.Context, publicID string) error {
	resp, err := r.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return errx.Wrap(err)
	}
	if resp == nil {
		return nil
	}
	if resp.Error.Message != "" {
		return errx.New(resp.Error.Message, errx.WithDetails(errx.D{"public_id": publicID}))
	}
	if resp.Result != "ok" {
		return errx.New(
			"cloudinary destroy did not succeed",
			errx.WithDetails(errx.D{"public_id": publicID, "result": resp.Result}),
		)
	}
	return nil
}

func (r *sdkRemote) URL(publicID string) (string, error) {
	asset, err := r.cld.Image(publicID)
	if err != nil {
		return "", errx.Wrap(err)
	}
	asset.Config.URL.Secure = true

	u, err := asset.String()
	if err != nil {
		return "", errx.Wrap(err)
	}
	return u, nil
}
