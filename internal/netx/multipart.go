// Package netx contains HTTP request helpers shared by API clients.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Form builds a multipart/form-data body in memory. The first error sticks and
// is reported by Finish, so calls can be chained without checks.
type Form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func NewForm() *Form {
	f := &Form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) *Form {
	if f.err != nil {
		return f
	}
	f.err = f.w.WriteField(name, value)
	return f
}

// AddFile appends a file part with an explicit content type, unlike
// multipart.Writer.CreateFormFile which always says application/octet-stream.
func (f *Form) AddFile(field, filename, contentType string, r io.Reader) *Form {
	if f.err != nil {
		return f
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := f.w.CreatePart(h)
	if err != nil {
		f.err = err
		return f
	}
	if _, err := io.Copy(part, r); err != nil {
		f.err = fmt.Errorf("copy %s: %w", filename, err)
	}
	return f
}

// AddFileFromPath reads the file at path into a file part.
func (f *Form) AddFileFromPath(field, filename, contentType, path string) *Form {
	if f.err != nil {
		return f
	}
	file, err := os.Open(path)
	if err != nil {
		f.err = fmt.Errorf("open %s: %w", path, err)
		return f
	}
	defer file.Close()
	return f.AddFile(field, filename, contentType, file)
}

// Finish closes the form and returns the body with its Content-Type header
// value.
func (f *Form) Finish() (io.Reader, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if err := f.w.Close(); err != nil {
		return nil, "", err
	}
	return &f.buf, f.w.FormDataContentType(), nil
}
