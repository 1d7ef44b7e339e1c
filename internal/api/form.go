package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/photostudio/photostudio/internal/models"
)

type formField struct {
	name  string
	value string
}

type formFile struct {
	field string
	entry models.FileEntry
}

// Form is a multipart request body. Fields and files keep insertion order
// and a field name may repeat.
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

// AddField appends a text field
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part under field
func (f *Form) AddFile(field string, entry models.FileEntry) *Form {
	f.files = append(f.files, formFile{field: field, entry: entry})
	return f
}

// FieldValues returns every value sent under name
func (f *Form) FieldValues(name string) []string {
	var values []string
	for _, field := range f.fields {
		if field.name == name {
			values = append(values, field.value)
		}
	}
	return values
}

// FileNames returns the names of the files sent under field
func (f *Form) FileNames(field string) []string {
	var names []string
	for _, file := range f.files {
		if file.field == field {
			names = append(names, file.entry.Name)
		}
	}
	return names
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the form. File parts carry the entry's own MIME type so the
// server's image/* check sees the declared type.
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.entry.Name)))
		contentType := file.entry.MimeType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", file.entry.Name, err)
		}
		if _, err := part.Write(file.entry.Contents); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", file.entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
