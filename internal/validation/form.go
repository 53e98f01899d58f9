// Package validation checks user-submitted form input and reports failures
// as field-level errors rather than fatal errors.
package validation

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// FieldErrors maps a form field name to a user-facing error message. A nil
// or empty map means the form is valid.
type FieldErrors map[string]string

// Has reports whether the field carries an error.
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// PostForm is the parsed post creation/edit form.
type PostForm struct {
	Text    string
	GroupID *uint
	Image   *multipart.FileHeader
}

// Validate checks the post form and sniffs the optional image payload.
// A present but non-image file is a field error, never a fatal one.
func (f *PostForm) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Text) == "" {
		errs["text"] = "This field is required."
	}
	if f.Image != nil {
		if err := SniffImage(f.Image); err != nil {
			errs["image"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CommentForm is the parsed comment form.
type CommentForm struct {
	Text string
}

// Validate checks the comment form.
func (f *CommentForm) Validate() FieldErrors {
	if strings.TrimSpace(f.Text) == "" {
		return FieldErrors{"text": "This field is required."}
	}
	return nil
}

// SniffImage opens the uploaded file and checks its leading bytes against
// the registered image signatures. Extension and client-supplied content
// type are ignored; only the payload counts.
func SniffImage(fh *multipart.FileHeader) error {
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return err
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	return nil
}

// ErrNotAnImage is returned by SniffImage for payloads that are not images.
var ErrNotAnImage = &notAnImageError{}

type notAnImageError struct{}

func (*notAnImageError) Error() string { return "file is not an image" }
