package filestore

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
)

//nolint:gochecknoglobals // static list of accepted base64 alphabets, tried in order
var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// NormalizeContent turns upload content into a single byte buffer.
//
//   - string is treated as base64 and decoded (standard or URL alphabet, padded or not)
//   - []byte is returned as is
//   - io.Reader is read until EOF
//   - a slice of byte values (e.g. []int) is converted element by element
//   - anything else is coerced to its string form
func NormalizeContent(content any) ([]byte, error) {
	switch c := content.(type) {
	case nil:
		return nil, errx.New(
			"upload content is empty",
			errx.WithCode(CodeInvalidContent),
			errx.WithType(errx.T_Validation),
		)
	case string:
		return decodeBase64(c)
	case []byte:
		return c, nil
	case io.Reader:
		data, err := io.ReadAll(c)
		if err != nil {
			return nil, errx.Wrap(err)
		}
		return data, nil
	}

	if values, err := cast.ToIntSliceE(content); err == nil {
		return intsToBytes(values)
	}

	s, err := cast.ToStringE(content)
	if err != nil {
		return nil, errx.New(
			"upload content can't be converted to bytes",
			errx.WithCode(CodeInvalidContent),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{
				"content_type": fmt.Sprintf("%T", content),
				"error":        err.Error(),
			}),
		)
	}
	return []byte(s), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	for _, enc := range base64Encodings {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, errx.New(
		"upload content is not valid base64",
		errx.WithCode(CodeInvalidContent),
		errx.WithType(errx.T_Validation),
		errx.WithDetails(errx.D{"content_length": len(s)}),
	)
}

func intsToBytes(values []int) ([]byte, error) {
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errx.New(
				"upload content holds a value outside the byte range",
				errx.WithCode(CodeInvalidContent),
				errx.WithType(errx.T_Validation),
				errx.WithDetails(errx.D{"index": i, "value": v}),
			)
		}
		out[i] = byte(v)
	}
	return out, nil
}
