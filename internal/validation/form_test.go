package validation

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a *multipart.FileHeader carrying the given payload.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)

	headers := form.File["image"]
	require.Len(t, headers, 1)
	return headers[0]
}

var pngPayload = append(
	[]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'},
	make([]byte, 64)...,
)

func TestPostFormRequiresText(t *testing.T) {
	t.Parallel()

	form := &PostForm{Text: "   "}
	errs := form.Validate()
	require.True(t, errs.Has("text"))
}

func TestPostFormValid(t *testing.T) {
	t.Parallel()

	form := &PostForm{Text: "hello"}
	require.Nil(t, form.Validate())
}

func TestPostFormAcceptsImagePayload(t *testing.T) {
	t.Parallel()

	form := &PostForm{
		Text:  "a picture",
		Image: makeFileHeader(t, "photo.png", pngPayload),
	}
	require.Nil(t, form.Validate())
}

func TestPostFormRejectsNonImagePayload(t *testing.T) {
	t.Parallel()

	// extension lies; the payload is plain text
	form := &PostForm{
		Text:  "a picture",
		Image: makeFileHeader(t, "photo.png", []byte("definitely not an image, just words")),
	}
	errs := form.Validate()
	require.True(t, errs.Has("image"))
}

func TestSniffImage(t *testing.T) {
	t.Parallel()

	require.NoError(t, SniffImage(makeFileHeader(t, "a.png", pngPayload)))
	require.Error(t, SniffImage(makeFileHeader(t, "a.gif", []byte("<html><body>nope</body></html>"))))
}

func TestCommentFormRequiresText(t *testing.T) {
	t.Parallel()

	form := &CommentForm{Text: ""}
	require.True(t, form.Validate().Has("text"))

	form = &CommentForm{Text: "nice post"}
	require.Nil(t, form.Validate())
}
