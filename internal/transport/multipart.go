package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
)

// Multipart is a form upload. It is kept as plain data so that a replay after
// a refresh can encode it again.
type Multipart struct {
	Fields []FormField
	Files  []FormFile
}

// FormField is a plain text form value
type FormField struct {
	Name  string
	Value string
}

// FormFile is a file part of a form
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// NewMultipart creates an empty form
func NewMultipart() *Multipart {
	return &Multipart{}
}

// AddField appends a text field
func (m *Multipart) AddField(name, value string) *Multipart {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
	return m
}

// AddFile appends a file. The content type is sniffed from content.
func (m *Multipart) AddFile(field, filename string, content []byte) *Multipart {
	m.Files = append(m.Files, FormFile{Field: field, Filename: filename, Content: content})
	return m
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (m *Multipart) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range m.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write form field %s", f.Name)
		}
	}

	for _, f := range m.Files {
		ct := f.ContentType
		if ct == "" {
			ct = http.DetectContentType(f.Content)
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to create form file %s", f.Field)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write form file %s", f.Field)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to close form")
	}
	return buf, w.FormDataContentType(), nil
}
