package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

func TestNewStorageKey(t *testing.T) {
	now := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)

	key := NewStorageKey(12, "Scan.PNG", now)
	assert.Regexp(t, regexp.MustCompile(`^documents/12/2026/04/07/[0-9a-f-]{36}\.png$`), key)
	assert.True(t, validKey(key))

	assert.NotEqual(t, key, NewStorageKey(12, "Scan.PNG", now))
	assert.Regexp(t, regexp.MustCompile(`/[0-9a-f-]{36}$`), NewStorageKey(1, "noext", now))
}

func TestChecksum(t *testing.T) {
	sum := Checksum([]byte("hello"))
	assert.Len(t, sum, 64)
	assert.Equal(t, sum, Checksum([]byte("hello")))
	assert.NotEqual(t, sum, Checksum([]byte("hello!")))
}

func TestValidKey(t *testing.T) {
	for _, key := range []string{"", "/abs", "a/../b", "a//b", `a\b`, "."} {
		assert.False(t, validKey(key), key)
	}
	assert.True(t, validKey("documents/1/a.png"))
}

func TestLocalFileStorage(t *testing.T) {
	ctx := context.Background()
	fs, err := NewLocalFileStorage(t.TempDir(), logger.Nop())
	require.NoError(t, err)

	key := "documents/1/2026/01/01/file.png"
	require.NoError(t, fs.Save(ctx, key, "image/png", strings.NewReader("payload")))

	rc, err := fs.Load(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))

	require.NoError(t, fs.Delete(ctx, key))
	require.NoError(t, fs.Delete(ctx, key), "deleting twice is fine")

	_, err = fs.Load(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)

	assert.Error(t, fs.Save(ctx, "../escape", "", strings.NewReader("x")))
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	if in.ContentType != nil {
		f.types[*in.Key] = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3FileStorage(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	fs := newS3FileStorage(client, "docs", logger.Nop())

	key := "documents/1/2026/01/01/file.jpg"
	require.NoError(t, fs.Save(ctx, key, "image/jpeg", strings.NewReader("jpeg")))
	assert.Equal(t, "image/jpeg", client.types[key])

	rc, err := fs.Load(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "jpeg", string(body))

	require.NoError(t, fs.Delete(ctx, key))
	_, err = fs.Load(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)

	client.putErr = errors.New("denied")
	assert.Error(t, fs.Save(ctx, key, "", strings.NewReader("x")))
}
