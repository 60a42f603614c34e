package transcode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"server/internal/domain"
)

// VariantSpec describes one rendition: a target width (0 keeps the source
// resolution) and a JPEG encode quality.
type VariantSpec struct {
	Name    string
	Width   int
	Quality int
}

// Variants is the fixed rendition set generated for every image. Every variant
// is re-encoded to JPEG regardless of the input format.
var Variants = []VariantSpec{
	{Name: "original", Width: 0, Quality: 90},
	{Name: "thumbnail", Width: 200, Quality: 75},
	{Name: "small", Width: 800, Quality: 85},
	{Name: "large", Width: 1920, Quality: 85},
}

const (
	// maxConcurrentEncodes bounds the fan-out within a single job. Encoding is
	// CPU-bound; the cross-job throttle lives in the worker, not here.
	maxConcurrentEncodes = 4

	outputMimeType = "image/jpeg"
	outputExt      = "jpg"
)

// VariantKey returns the deterministic object key for a variant.
func VariantKey(id, name string) string {
	return fmt.Sprintf("media/%s/%s.%s", id, name, outputExt)
}

// Engine decodes an original image once and produces all variants
// concurrently, uploading each to object storage. A single variant failure
// fails the whole run.
type Engine struct {
	store  domain.ObjectStorage
	logger zerolog.Logger
}

func NewEngine(store domain.ObjectStorage, logger zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Process generates every variant from the original bytes and returns their
// public URLs plus the source dimensions. The reported size is the byte length
// of the re-encoded "original" variant, not of the input.
func (e *Engine) Process(ctx context.Context, id string, original []byte, filename string) (*domain.TranscodeResult, error) {
	src, err := imaging.Decode(bytes.NewReader(original), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &domain.ImageProcessingError{Stage: "decode", Err: fmt.Errorf("%s: %w", filename, err)}
	}

	bounds := src.Bounds()
	srcWidth, srcHeight := bounds.Dx(), bounds.Dy()

	var mu sync.Mutex
	urls := make(map[string]string, len(Variants))
	var originalSize int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEncodes)

	for _, spec := range Variants {
		spec := spec
		g.Go(func() error {
			encoded, err := encodeVariant(src, srcWidth, spec)
			if err != nil {
				return err
			}

			key := VariantKey(id, spec.Name)
			if err := e.store.Upload(ctx, key, bytes.NewReader(encoded), outputMimeType); err != nil {
				return err
			}

			mu.Lock()
			urls[spec.Name] = e.store.PublicURL(key)
			if spec.Name == "original" {
				originalSize = int64(len(encoded))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.TranscodeResult{
		URLs:     urls,
		Width:    srcWidth,
		Height:   srcHeight,
		Size:     originalSize,
		MimeType: outputMimeType,
	}, nil
}

// encodeVariant resizes (never upscales) and re-encodes one rendition.
func encodeVariant(src image.Image, srcWidth int, spec VariantSpec) ([]byte, error) {
	img := src
	if spec.Width > 0 && spec.Width < srcWidth {
		img = imaging.Resize(src, spec.Width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(spec.Quality)); err != nil {
		return nil, &domain.ImageProcessingError{Stage: "encode " + spec.Name, Err: err}
	}
	return buf.Bytes(), nil
}

// DeleteVariants removes every variant object for the media id. Individual
// deletion failures are logged and do not abort the batch.
func (e *Engine) DeleteVariants(ctx context.Context, id string) {
	for _, spec := range Variants {
		key := VariantKey(id, spec.Name)
		if err := e.store.Delete(ctx, key); err != nil {
			e.logger.Warn().Err(err).Str("media_id", id).Str("key", key).Msg("variant delete failed")
		}
	}
}
