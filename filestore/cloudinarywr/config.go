package cloudinarywr

import (
	"github.com/code19m/errx"

	"github.com/rise-and-shine/fileprovider/filestore"
	"github.com/rise-and-shine/fileprovider/val"
)

// Identifier is the name a host uses to select this provider.
const Identifier = "cloudinary"

// Options configures the Cloudinary provider. It is fixed for the lifetime of a Provider.
type Options struct {
	// APIKey is the Cloudinary API key.
	APIKey string `yaml:"api_key" validate:"required" mask:"true"`

	// APISecret is the Cloudinary API secret.
	APISecret string `yaml:"api_secret" validate:"required" mask:"true"`

	// CloudName is the Cloudinary cloud (account) name.
	CloudName string `yaml:"cloud_name" validate:"required"`

	// Secure makes the client default to https delivery URLs. Default is true.
	// Retrieval URLs built by the provider are always https.
	Secure *bool `yaml:"secure" default:"true"`

	// FolderName, when set, places uploads under this remote folder.
	// Keys returned to callers never include it.
	FolderName string `yaml:"folder_name" validate:"omitempty,folder"`
}

// ValidateOptions fails when APIKey, APISecret or CloudName is empty, or
// when FolderName is malformed. Hosts should call it at setup time; New
// calls it too, so a Provider never exists with invalid options.
func ValidateOptions(opts Options) error {
	err := val.ValidateSchema(opts)
	if err == nil {
		return nil
	}

	var fields errx.M
	if e := errx.AsErrorX(err); e != nil {
		fields = e.Fields()
	}

	return errx.New(
		"invalid Cloudinary provider options: API key, API secret and Cloud Name are required",
		errx.WithCode(filestore.CodeInvalidOptions),
		errx.WithType(errx.T_Validation),
		errx.WithFields(fields),
		errx.WithDetails(errx.D{"provider": Identifier}),
	)
}
