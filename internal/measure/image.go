package measure

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"

	"github.com/pageflow/pageflow/internal/res"
)

// ImageSizer resolves the intrinsic pixel size of atom resources. Raster
// formats go through image.DecodeConfig (see decoders.go for the registered
// formats); SVG sizes come from the oksvg viewbox.
type ImageSizer struct {
	loader *res.Loader

	mu    sync.Mutex
	sizes map[string][2]float64
}

// NewImageSizer builds a sizer on top of the resource loader.
func NewImageSizer(loader *res.Loader) *ImageSizer {
	return &ImageSizer{loader: loader, sizes: make(map[string][2]float64)}
}

// IntrinsicSize returns the natural width and height of the resource at src.
func (s *ImageSizer) IntrinsicSize(src string) (float64, float64, error) {
	s.mu.Lock()
	if dim, ok := s.sizes[src]; ok {
		s.mu.Unlock()
		return dim[0], dim[1], nil
	}
	s.mu.Unlock()

	r, err := s.loader.LoadImage(src)
	if err != nil {
		return 0, 0, err
	}

	var w, h float64
	if strings.Contains(r.MimeType, "svg") || strings.HasSuffix(strings.ToLower(src), ".svg") {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(r.Data))
		if err != nil {
			return 0, 0, fmt.Errorf("measure: parse svg %s: %w", src, err)
		}
		w, h = icon.ViewBox.W, icon.ViewBox.H
	} else {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(r.Data))
		if err != nil {
			return 0, 0, fmt.Errorf("measure: decode image %s: %w", src, err)
		}
		w, h = float64(cfg.Width), float64(cfg.Height)
	}

	s.mu.Lock()
	s.sizes[src] = [2]float64{w, h}
	s.mu.Unlock()
	return w, h, nil
}
