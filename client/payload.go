package client

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
)

// Payload is a request body: JSON values or a multipart Form.
type Payload interface {
	encode() (io.Reader, string, error)
}

type jsonPayload struct {
	v interface{}
}

// JSON wraps any value marshalled with encoding/json.
func JSON(v interface{}) Payload {
	return jsonPayload{v: v}
}

func (p jsonPayload) encode() (io.Reader, string, error) {
	data, err := json.Marshal(p.v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Upload is a file sent in a multipart field.
type Upload struct {
	Filename string
	Content  io.Reader
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	name   string
	upload Upload
}

// Form - заранее собранное multipart-тело (аналог FormData)
type Form struct {
	fields []formField
	files  []formFile
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *Form) File(name string, upload Upload) *Form {
	f.files = append(f.files, formFile{name: name, upload: upload})
	return f
}

// Value returns the first value set for name.
func (f *Form) Value(name string) (string, bool) {
	for _, field := range f.fields {
		if field.name == name {
			return field.value, true
		}
	}
	return "", false
}

func (f *Form) HasFile(name string) bool {
	for _, file := range f.files {
		if file.name == name {
			return true
		}
	}
	return false
}

func (f *Form) Len() int {
	return len(f.fields) + len(f.files)
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.upload.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err = io.Copy(part, file.upload.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// ProfileUpdate is a partial profile change; nil fields are not sent.
type ProfileUpdate struct {
	Bio        *string `json:"bio,omitempty"`
	Location   *string `json:"location,omitempty"`
	ProfileImg *Upload `json:"-"`
}

// Form converts the update to multipart, the way profile images must be sent.
func (u ProfileUpdate) Form() *Form {
	form := NewForm()
	if u.Bio != nil {
		form.Set("bio", *u.Bio)
	}
	if u.Location != nil {
		form.Set("location", *u.Location)
	}
	if u.ProfileImg != nil {
		form.File("profileimg", *u.ProfileImg)
	}
	return form
}

func (u ProfileUpdate) encode() (io.Reader, string, error) {
	if u.ProfileImg != nil {
		return u.Form().encode()
	}
	return jsonPayload{v: u}.encode()
}

// PostUpdate is a partial post change.
type PostUpdate struct {
	Caption *string `json:"caption,omitempty"`
	Image   *Upload `json:"-"`
}

func (u PostUpdate) encode() (io.Reader, string, error) {
	if u.Image == nil {
		return jsonPayload{v: u}.encode()
	}
	form := NewForm()
	if u.Caption != nil {
		form.Set("caption", *u.Caption)
	}
	form.File("image", *u.Image)
	return form.encode()
}

// String returns a pointer to s, for optional update fields.
func String(s string) *string {
	return &s
}
