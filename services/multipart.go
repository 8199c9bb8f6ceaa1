package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	rentroam "github.com/rentroam/rentroam-go"
)

// multipartBody encodes form fields and file streams into a multipart body
// and returns it with its content type.
func multipartBody(fields map[string]string, files map[string]rentroam.FileUpload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for field, f := range files {
		part, err := w.CreateFormFile(field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
