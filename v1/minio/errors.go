package minio

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

var (
	ErrConnectionFailed = errors.New("minio: connection failed")
	ErrObjectNotFound   = errors.New("minio: object not found")
	ErrBucketNotFound   = errors.New("minio: bucket not found")
	ErrAccessDenied     = errors.New("minio: access denied")
)

// translateError maps S3 error codes onto the package sentinels. Unknown
// errors are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey":
		return errors.Join(ErrObjectNotFound, err)
	case "NoSuchBucket":
		return errors.Join(ErrBucketNotFound, err)
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return errors.Join(ErrAccessDenied, err)
	}
	return err
}
