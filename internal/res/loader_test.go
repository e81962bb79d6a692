package res

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_DataURL(t *testing.T) {
	l := NewLoader("")

	res, err := l.Load("data:text/plain;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.GetString() != "hello" {
		t.Errorf("data = %q", res.GetString())
	}
	if res.MimeType != "text/plain" {
		t.Errorf("mime = %q", res.MimeType)
	}

	res, err = l.Load("data:,plain%20payload")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.GetString() != "plain payload" {
		t.Errorf("data = %q", res.GetString())
	}

	if _, err := l.Load("data:no-comma"); err == nil {
		t.Error("malformed data URL should fail")
	}
}

func TestLoad_LocalWithSearchPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pic.png"), []byte("fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader("")
	if _, err := l.Load("pic.png"); err == nil {
		t.Error("relative path without a search path should fail")
	}

	l.AddSearchPath(dir)
	res, err := l.Load("pic.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.MimeType != "image/png" {
		t.Errorf("mime = %q", res.MimeType)
	}
	if res.GetString() != "fake" {
		t.Errorf("data = %q", res.GetString())
	}
}

func TestLoad_RelativeToBase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "style.svg"), []byte("<svg/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(filepath.Join(dir, "doc.html"))
	res, err := l.Load("style.svg")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.MimeType != "image/svg+xml" {
		t.Errorf("mime = %q", res.MimeType)
	}
}

func TestLoad_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/gif")
		w.Write([]byte("gifbytes"))
	}))
	defer srv.Close()

	l := NewLoader("")
	res, err := l.Load(srv.URL + "/x.gif")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.MimeType != "image/gif" || res.GetString() != "gifbytes" {
		t.Errorf("res = %q %q", res.MimeType, res.GetString())
	}
}

func TestLoad_CachesByURL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	l := NewLoader("")
	for i := 0; i < 3; i++ {
		if _, err := l.Load(srv.URL); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}

func TestMimeTypeFor(t *testing.T) {
	cases := map[string]string{
		"a.JPG":  "image/jpeg",
		"b.webp": "image/webp",
		"c.pdf":  "application/pdf",
		"d.bin":  "application/octet-stream",
	}
	for path, want := range cases {
		if got := mimeTypeFor(path); got != want {
			t.Errorf("mimeTypeFor(%q) = %q, want %q", path, got, want)
		}
	}
}
