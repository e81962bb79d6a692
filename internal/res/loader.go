package res

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeImage is an image resource
	ResourceTypeImage
	// ResourceTypeDocument is a source document resource
	ResourceTypeDocument
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// GetString returns the resource data as a string
func (r *Resource) GetString() string { return string(r.Data) }

// Loader handles loading resources referenced by documents (atom images,
// remote documents). Results are cached per URL for the loader's lifetime.
type Loader struct {
	// Base URL or file path for resolving relative URLs
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string
	client      *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		client:  &http.Client{},
	}
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL, data URL, or file path
func (l *Loader) Load(urlStr string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[urlStr]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var res *Resource
	var err error
	switch {
	case strings.HasPrefix(urlStr, "data:"):
		res, err = parseDataURL(urlStr)
	case strings.HasPrefix(urlStr, "http://"), strings.HasPrefix(urlStr, "https://"):
		res, err = l.loadRemote(urlStr)
	default:
		res, err = l.loadLocal(urlStr)
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[urlStr] = res
	l.cacheLock.Unlock()
	return res, nil
}

// LoadImage loads a resource expected to be an image
func (l *Loader) LoadImage(urlStr string) (*Resource, error) {
	res, err := l.Load(urlStr)
	if err != nil {
		return nil, err
	}
	res.Type = ResourceTypeImage
	return res, nil
}

// LoadDocument loads a resource expected to be a source document
func (l *Loader) LoadDocument(urlStr string) (*Resource, error) {
	res, err := l.Load(urlStr)
	if err != nil {
		return nil, err
	}
	res.Type = ResourceTypeDocument
	return res, nil
}

// parseDataURL parses a data URL (RFC 2397) and returns a Resource.
func parseDataURL(u string) (*Resource, error) {
	rest := strings.TrimPrefix(u, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("res: malformed data URL")
	}
	meta, payload := rest[:comma], rest[comma+1:]

	mimeType := "text/plain"
	base64Encoded := false
	for i, part := range strings.Split(meta, ";") {
		if part == "base64" {
			base64Encoded = true
		} else if i == 0 && part != "" {
			mimeType = part
		}
	}

	var data []byte
	var err error
	if base64Encoded {
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.QueryUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("res: decode data URL: %w", err)
	}
	return &Resource{URL: u, Data: data, MimeType: mimeType}, nil
}

func (l *Loader) loadRemote(urlStr string) (*Resource, error) {
	resp, err := l.client.Get(urlStr)
	if err != nil {
		return nil, fmt.Errorf("res: fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("res: fetch %s: status %d", urlStr, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("res: read %s: %w", urlStr, err)
	}
	return &Resource{
		URL:      urlStr,
		Data:     data,
		MimeType: resp.Header.Get("Content-Type"),
	}, nil
}

func (l *Loader) loadLocal(path string) (*Resource, error) {
	candidates := []string{path}
	if l.BaseURL != "" && !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join(filepath.Dir(l.BaseURL), path))
	}
	for _, dir := range l.searchPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	var firstErr error
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return &Resource{
				URL:      candidate,
				Data:     data,
				MimeType: mimeTypeFor(candidate),
			}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("res: load %s: %w", path, firstErr)
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".webp":
		return "image/webp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".svg":
		return "image/svg+xml"
	case ".html", ".htm":
		return "text/html"
	case ".md", ".markdown":
		return "text/markdown"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}
