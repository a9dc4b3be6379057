package dropzone

import (
	"errors"
	"fmt"
)

// ErrUploadInProgress is returned by Drop while a batch is uploading.
var ErrUploadInProgress = errors.New("dropzone: upload in progress")

// ErrNoUploader is returned when an upload is requested without an Uploader.
var ErrNoUploader = errors.New("dropzone: no uploader configured")

// Admission rejection codes.
const (
	CodeInvalidType  = "file-invalid-type"
	CodeTooLarge     = "file-too-large"
	CodeTooSmall     = "file-too-small"
	CodeTooManyFiles = "too-many-files"
)

// metricCode bounds the rejection label set: validator codes outside the
// built-in ones are counted as "custom".
func metricCode(code string) string {
	switch code {
	case CodeInvalidType, CodeTooLarge, CodeTooSmall, CodeTooManyFiles:
		return code
	default:
		return "custom"
	}
}

// FileError explains why a file was not admitted. Validators may use their
// own codes.
type FileError struct {
	Code    string
	Message string
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Rejection pairs a refused file with every reason it was refused.
type Rejection struct {
	File   File
	Errors []FileError
}

// TransformError reports a pre-upload transform that failed. The file is
// dropped from the batch.
type TransformError struct {
	File File
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("dropzone: transform %q: %v", e.File.Name, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
