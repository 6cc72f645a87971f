package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
	"time"

	// Register decoders for widget-fit dimension probing.
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"
)

// ImageFetcher retrieves remote image bytes for embedding. Implementations
// must bound their own timeouts; a fetch failure is an embedding failure,
// never a pipeline failure.
type ImageFetcher interface {
	Fetch(url string) ([]byte, error)
}

// HTTPFetcher fetches images over plain HTTP(S) GET with a bounded timeout.
type HTTPFetcher struct {
	client *resty.Client
}

// DefaultFetchTimeout bounds a single remote image fetch.
const DefaultFetchTimeout = 10 * time.Second

// NewHTTPFetcher returns a fetcher with the given timeout, or
// DefaultFetchTimeout when zero.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		client: resty.New().SetTimeout(timeout),
	}
}

// Fetch performs an unauthenticated GET and returns the body bytes.
func (f *HTTPFetcher) Fetch(url string) ([]byte, error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}

// ImageFormat is the raster format sniffed from decoded bytes.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
)

var (
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// SniffFormat inspects magic bytes, never the source string.
func SniffFormat(data []byte) ImageFormat {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG
	default:
		return FormatUnknown
	}
}

// ResolveImage resolves an artifact source string to raster bytes. A source
// is either a data-URI inline encoding ("data:<mime>;base64,<payload>") or an
// http(s) URL; anything else means "no image" and yields (nil, nil). Errors
// are returned only for sources that were recognized but failed to resolve.
func ResolveImage(src string, fetcher ImageFetcher) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return decodeDataURI(src)
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		if fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for remote image")
		}
		return fetcher.Fetch(src)
	default:
		return nil, nil
	}
}

func decodeDataURI(src string) ([]byte, error) {
	idx := strings.Index(src, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := src[:idx], src[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		// Only base64 inline encodings are accepted; treat the rest as
		// "no image" rather than an error.
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding inline image: %w", err)
	}
	return data, nil
}

// imageSize probes the pixel dimensions of decoded image bytes.
func imageSize(data []byte) (w, h int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
