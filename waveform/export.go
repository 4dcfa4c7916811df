package waveform

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// ImageFormat selects the export encoding
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// ExportImages encodes every rendered tile surface, one image per tile in
// timeline order. quality applies to JPEG only (1-100). It fails with
// ErrNoTiles when no tile has been painted yet.
func (r *Renderer) ExportImages(format ImageFormat, quality int) ([][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tiles == nil {
		return nil, ErrNoTiles
	}
	tiles := r.tiles.Tiles()
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}

	out := make([][]byte, 0, len(tiles))
	for _, t := range tiles {
		var buf bytes.Buffer
		var err error
		switch format {
		case FormatJPEG:
			if quality < 1 || quality > 100 {
				quality = 90
			}
			err = t.Surface.EncodeJPEG(&buf, quality)
		case FormatPNG, "":
			err = t.Surface.EncodePNG(&buf)
		default:
			return nil, fmt.Errorf("waveform: unsupported export format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("waveform: encoding tile %d: %w", t.Index, err)
		}
		out = append(out, buf.Bytes())
	}
	return out, nil
}

// ExportDataURLs encodes every rendered tile as an inline base64 data URL
func (r *Renderer) ExportDataURLs(format ImageFormat, quality int) ([]string, error) {
	blobs, err := r.ExportImages(format, quality)
	if err != nil {
		return nil, err
	}

	mime := "image/png"
	if format == FormatJPEG {
		mime = "image/jpeg"
	}

	urls := make([]string, len(blobs))
	for i, blob := range blobs {
		urls[i] = fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(blob))
	}
	return urls, nil
}
