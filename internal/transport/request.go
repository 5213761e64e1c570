// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/taibuivan/tinytales/internal/platform/constants"
)

// Request is the mutable configuration of one call, as seen by request interceptors.
type Request struct {
	Method string
	// Path is relative to the client's base URL (e.g. "/auth/login").
	Path   string
	Header http.Header
	// Form, when non-nil, is sent as a multipart/form-data body.
	Form *Form
}

// NewRequest returns a request with an empty header.
func NewRequest(method, path string, form *Form) *Request {
	return &Request{Method: method, Path: path, Header: make(http.Header), Form: form}
}

// FormField is one name/value pair of a [Form].
type FormField struct {
	Name  string
	Value string
}

// Form is an ordered multipart form. Fields are written in insertion order.
type Form struct {
	fields []FormField
}

// NewForm returns an empty form. An empty form still produces a multipart body.
func NewForm() *Form {
	return &Form{}
}

// Add appends a field and returns the form for chaining.
func (f *Form) Add(name, value string) *Form {
	f.fields = append(f.fields, FormField{Name: name, Value: value})
	return f
}

// Fields returns a copy of the fields in order.
func (f *Form) Fields() []FormField {
	return append([]FormField(nil), f.fields...)
}

// encode writes the form as multipart/form-data and returns the body and its
// boundary-aware content type.
func (f *Form) encode() (io.Reader, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)
	for _, field := range f.fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", fmt.Errorf("transport: encode field %q: %w", field.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("transport: close multipart body: %w", err)
	}
	return &buffer, writer.FormDataContentType(), nil
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("transport: decode %s body: %w", constants.MIMEApplicationJSON, err)
	}
	return nil
}
