package transcode

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

type memStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failUpload string // key substring that makes Upload fail
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (m *memStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if m.failUpload != "" && strings.Contains(key, m.failUpload) {
		return &domain.StorageError{Op: "put_object", Key: key, Err: errors.New("rejected")}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, &domain.StorageError{Op: "get_object", Key: key, Err: errors.New("no such key")}
	}
	return data, nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return "https://storage.test/presigned/" + key, nil
}

func (m *memStore) PublicURL(key string) string {
	return "https://storage.test/" + key
}

// encodePNG produces a real decodable source image of the given dimensions.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestProcessGeneratesAllVariants(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, zerolog.Nop())

	original := encodePNG(t, 2400, 1600)
	res, err := engine.Process(context.Background(), "m1", original, "photo.png")
	require.NoError(t, err)

	assert.Equal(t, 2400, res.Width)
	assert.Equal(t, 1600, res.Height)
	assert.Equal(t, "image/jpeg", res.MimeType)

	require.Len(t, res.URLs, 4)
	for _, spec := range Variants {
		key := VariantKey("m1", spec.Name)
		assert.Equal(t, "https://storage.test/"+key, res.URLs[spec.Name])

		data, err := store.GetObject(context.Background(), key)
		require.NoError(t, err)

		img, err := imaging.Decode(bytes.NewReader(data))
		require.NoError(t, err, "variant %s must be a decodable JPEG", spec.Name)

		want := spec.Width
		if want == 0 || want > 2400 {
			want = 2400
		}
		assert.Equal(t, want, img.Bounds().Dx(), "variant %s width", spec.Name)
	}

	reencoded, err := store.GetObject(context.Background(), VariantKey("m1", "original"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(reencoded)), res.Size, "size is the re-encoded original, not the input")
}

func TestProcessNeverUpscales(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, zerolog.Nop())

	original := encodePNG(t, 150, 100)
	res, err := engine.Process(context.Background(), "m1", original, "tiny.png")
	require.NoError(t, err)
	require.Len(t, res.URLs, 4)

	for _, name := range []string{"thumbnail", "small", "large"} {
		data, err := store.GetObject(context.Background(), VariantKey("m1", name))
		require.NoError(t, err)
		img, err := imaging.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 150, img.Bounds().Dx(), "variant %s must keep source resolution", name)
	}
}

func TestProcessFailsWholeRunOnUploadError(t *testing.T) {
	store := newMemStore()
	store.failUpload = "small"
	engine := NewEngine(store, zerolog.Nop())

	original := encodePNG(t, 1000, 800)
	res, err := engine.Process(context.Background(), "m1", original, "photo.png")
	assert.Nil(t, res)

	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "put_object", storageErr.Op)
}

func TestProcessRejectsUndecodableInput(t *testing.T) {
	engine := NewEngine(newMemStore(), zerolog.Nop())

	res, err := engine.Process(context.Background(), "m1", []byte("not an image"), "broken.png")
	assert.Nil(t, res)

	var procErr *domain.ImageProcessingError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, "decode", procErr.Stage)
}

func TestDeleteVariantsRemovesEveryRendition(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store, zerolog.Nop())

	original := encodePNG(t, 1000, 800)
	_, err := engine.Process(context.Background(), "m1", original, "photo.png")
	require.NoError(t, err)

	engine.DeleteVariants(context.Background(), "m1")

	for _, spec := range Variants {
		_, err := store.GetObject(context.Background(), VariantKey("m1", spec.Name))
		assert.Error(t, err, "variant %s should be gone", spec.Name)
	}
}
