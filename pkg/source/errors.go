package source

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

var (
	ErrInvalidConfig  = errors.New("source: invalid configuration")
	ErrNotFound       = errors.New("source: not found")
	ErrAccessDenied   = errors.New("source: access denied")
	ErrListFailed     = errors.New("source: failed to list objects")
	ErrDownloadFailed = errors.New("source: failed to download object")
	ErrObjectTooLarge = errors.New("source: object exceeds size limit")
	ErrQueryFailed    = errors.New("source: failed to query translations")
	ErrInvalidRow     = errors.New("source: invalid translation row")
)

// wrapS3Error classifies S3 failures into sentinel errors. The AWS error
// is kept as text only; callers match with errors.Is.
func wrapS3Error(err error, fallback error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return fmt.Errorf("%w: %v", fallback, err)
}
