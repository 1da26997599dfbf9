package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/gabriel-vasile/mimetype"
)

// MediaFormField is the multipart field carrying the uploaded file.
const MediaFormField = "file"

func (c *HTTPClient) ListMedia(ctx context.Context, entry ids.ID) ([]models.Media, error) {
	var out []models.Media
	if err := c.do(ctx, request{method: http.MethodGet, segments: []string{"entry", entry.String(), "media"}}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Media{}
	}
	return out, nil
}

func (c *HTTPClient) UploadMedia(ctx context.Context, entry ids.ID, u models.Upload) (*models.Media, error) {
	body, contentType, err := multipartBody(u)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	var out models.Media
	r := request{
		method:      http.MethodPost,
		segments:    []string{"entry", entry.String(), "media", "new"},
		raw:         body,
		contentType: contentType,
	}
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(u models.Upload) (*bytes.Buffer, string, error) {
	ct := u.ContentType
	if ct == "" {
		ct = mimetype.Detect(u.Data).String()
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		MediaFormField, quoteEscaper.Replace(u.FileName)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
