package htmlpdf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRenderPDFPostsMultipartForm(t *testing.T) {
	pdf := []byte("%PDF-1.7 fake")
	var gotPath, gotIndex, gotPageSize string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotPageSize = r.FormValue("preferCssPageSize")
		file, header, err := r.FormFile("files")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			content, _ := io.ReadAll(file)
			gotIndex = header.Filename + ":" + string(content)
		}
		w.Write(pdf)
	}))
	defer srv.Close()

	r := NewGotenbergRenderer(srv.URL, 5*time.Second)
	data, err := r.RenderPDF(context.Background(), "<html><body>hi</body></html>")
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if string(data) != string(pdf) {
		t.Errorf("payload altered")
	}
	if gotPath != "/forms/chromium/convert/html" {
		t.Errorf("path = %q", gotPath)
	}
	if gotIndex != "index.html:<html><body>hi</body></html>" {
		t.Errorf("page part = %q", gotIndex)
	}
	if gotPageSize != "true" {
		t.Errorf("preferCssPageSize = %q", gotPageSize)
	}
}

func TestRenderPDFUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewGotenbergRenderer(srv.URL, 5*time.Second)
	if _, err := r.RenderPDF(context.Background(), "<html></html>"); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}
