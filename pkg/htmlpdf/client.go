// Package htmlpdf is the client side of the print-rendering collaborator:
// a Gotenberg-style service that turns an HTML document into a PDF.
package htmlpdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Renderer converts a full HTML document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// GotenbergRenderer posts the HTML as a multipart form to a Chromium
// conversion endpoint.
type GotenbergRenderer struct {
	baseURL string
	client  *http.Client
}

func NewGotenbergRenderer(baseURL string, timeout time.Duration) *GotenbergRenderer {
	if baseURL == "" {
		baseURL = "http://localhost:3030"
	}
	return &GotenbergRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (r *GotenbergRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)

	// The endpoint requires the page to be named index.html.
	part, err := form.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(html)); err != nil {
		return nil, err
	}
	// Page margins live in the document's @page rule; let the renderer use them.
	if err := form.WriteField("preferCssPageSize", "true"); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/forms/chromium/convert/html", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pdf renderer error (%d): %s", resp.StatusCode, string(payload))
	}
	return payload, nil
}
