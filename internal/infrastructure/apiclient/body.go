package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/gabriel-vasile/mimetype"

	"github.com/obraportal/portal-client/internal/core/ports"
)

// Multipart is an assembled form payload. Field and file order is preserved.
type Multipart struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	data     []byte
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, formPart{name: name, value: value})
	return m
}

// File appends a file part; its content type is sniffed from data.
func (m *Multipart) File(name, filename string, data []byte) *Multipart {
	m.parts = append(m.parts, formPart{name: name, filename: filename, data: data})
	return m
}

// Has reports whether a part called name was added.
func (m *Multipart) Has(name string) bool {
	for _, p := range m.parts {
		if p.name == name {
			return true
		}
	}
	return false
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range m.parts {
		if p.filename == "" {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		h.Set("Content-Type", mimetype.Detect(p.data).String())
		pw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := pw.Write(p.data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func encodeBody(body any, enc ports.Encoding) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch enc {
	case ports.EncodingJSON:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	case ports.EncodingMultipart:
		form, ok := body.(*Multipart)
		if !ok {
			return nil, "", fmt.Errorf("multipart body must be *Multipart, got %T", body)
		}
		return form.encode()
	default:
		return nil, "", errors.New("body given without an encoding")
	}
}
