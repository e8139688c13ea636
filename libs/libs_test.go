package libs

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("images[]", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["images[]"][0]
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(fileHeader(t, "foto.JPG", []byte("x")), 1024))

	err := ValidateImage(fileHeader(t, "skrip.exe", []byte("x")), 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tidak didukung")

	err = ValidateImage(fileHeader(t, "besar.png", bytes.Repeat([]byte("x"), 2048)), 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terlalu besar")
}

func TestLocalImageStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalImageStore(dir, "/uploads/", 1<<20)
	ctx := context.Background()

	ref, err := store.Save(ctx, fileHeader(t, "kopi.png", []byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/products/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	onDisk := filepath.Join(dir, strings.TrimPrefix(ref, "/uploads/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, ref))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, ref))
	assert.NoError(t, store.Delete(ctx, "/uploads/../../etc/passwd"))
	assert.NoError(t, store.Delete(ctx, "https://res.cloudinary.com/demo/image/upload/v1/a.png"))
}

func TestPublicIDFromURL(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/products/product_1.jpg":                    "products/product_1",
		"https://res.cloudinary.com/demo/image/upload/c_limit,w_1200,h_1200/q_auto,f_auto/v9/p/a.webp": "p/a",
		"https://res.cloudinary.com/demo/image/upload/sample.png":                                      "sample",
		"/uploads/products/1.png":                   "",
		"https://example.com/image/upload/v1/a.png": "",
	}

	for in, want := range tests {
		assert.Equal(t, want, publicIDFromURL(in), in)
	}
}

func TestRedisRateLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisRateLimiter(client, "contact", 5, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "hit %d", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(10*time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisRateLimiter_CounterAlwaysExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := NewRedisRateLimiter(client, "contact", 5, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "10.0.0.9")
		require.NoError(t, err)
	}

	got, err := mr.Get("contact:10.0.0.9")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
	assert.Equal(t, 10*time.Minute, mr.TTL("contact:10.0.0.9"))
}

func TestRedisRateLimiter_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	_, err := NewRedisRateLimiter(client, "contact", 5, time.Minute).Allow(context.Background(), "ip")
	assert.Error(t, err)
}

func TestRecaptchaVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "secret-key", r.PostForm.Get("secret"))
		if r.PostForm.Get("response") == "good" {
			w.Write([]byte(`{"success": true}`))
			return
		}
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewRecaptchaVerifier("secret-key")
	v.endpoint = srv.URL
	ctx := context.Background()

	ok, err := v.Verify(ctx, "good", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = v.Verify(ctx, "bad", "")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = v.Verify(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordResetBodyEscapes(t *testing.T) {
	body := passwordResetBody("Toko", "<b>budi</b>", "https://toko.id/reset?token=a&b", time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC))
	assert.Contains(t, body, "&lt;b&gt;budi&lt;/b&gt;")
	assert.Contains(t, body, "token=a&amp;b")
	assert.Contains(t, body, "02 Jan 2026 03:04 UTC")
}
