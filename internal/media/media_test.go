package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeToWebPResizesLandscape(t *testing.T) {
	out, err := NormalizeToWebP(bytes.NewReader(pngBytes(t, 1024, 512)), AvatarMaxSide)
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 256, cfg.Height)
}

func TestNormalizeToWebPKeepsSmallImages(t *testing.T) {
	out, err := NormalizeToWebP(bytes.NewReader(pngBytes(t, 64, 100)), AvatarMaxSide)
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestNormalizeToWebPRejectsGarbage(t *testing.T) {
	_, err := NormalizeToWebP(strings.NewReader("definitely not an image"), AvatarMaxSide)
	assert.ErrorIs(t, err, ErrUnsupportedImg)
}

func TestNormalizeToWebPRejectsLargeFiles(t *testing.T) {
	_, err := NormalizeToWebP(io.LimitReader(zeroReader{}, MaxUploadBytes+10), AvatarMaxSide)
	assert.ErrorIs(t, err, ErrTooLarge)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	return &s3.PutObjectOutput{}, f.err
}

func TestS3UploaderBuildsPublicURL(t *testing.T) {
	fake := &fakePutter{}
	u := &S3Uploader{client: fake, bucket: "barberia", publicBaseURL: "https://cdn.barberia.com"}

	url, err := u.Upload(context.Background(), "barbershops/1/avatars/a.webp", []byte("x"), "image/webp")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.barberia.com/barbershops/1/avatars/a.webp", url)
	assert.Equal(t, "barberia", *fake.in.Bucket)
	assert.Equal(t, "image/webp", *fake.in.ContentType)

	fake.err = errors.New("denied")
	_, err = u.Upload(context.Background(), "k", nil, "image/webp")
	assert.Error(t, err)
}

func TestAvatarKeyIsScopedByShop(t *testing.T) {
	k1, k2 := AvatarKey(9), AvatarKey(9)
	assert.True(t, strings.HasPrefix(k1, "barbershops/9/avatars/"))
	assert.True(t, strings.HasSuffix(k1, ".webp"))
	assert.NotEqual(t, k1, k2)
}
