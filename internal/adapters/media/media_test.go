package media_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/fcleague/internal/adapters/media"
	"github.com/okian/fcleague/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeS3 struct {
	objects map[string]string
	types   map[string]string
	fail    error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc"`)}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	u := media.NewS3Uploader(fake, "league", "https://cdn.example.com/media/")

	location, err := u.Upload(ctx, "players/p1/photo.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/players/p1/photo.png", location)
	assert.Equal(t, "png-bytes", fake.objects["league/players/p1/photo.png"])
	assert.Equal(t, "image/png", fake.types["league/players/p1/photo.png"])

	require.NoError(t, u.Delete(ctx, "players/p1/photo.png"))
	assert.Empty(t, fake.objects)
}

func TestUploadErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	u := media.NewS3Uploader(fake, "league", "https://cdn.example.com")

	_, err := u.Upload(ctx, "", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, media.ErrEmptyKey)

	fake.fail = errors.New("access denied")
	_, err = u.Upload(ctx, "k", "image/png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uploading k")
	assert.Error(t, u.Delete(ctx, "k"))
}

func TestPublicURL(t *testing.T) {
	cases := map[string][2]string{
		"https://cdn.example.com/a.png":     {"https://cdn.example.com", "a.png"},
		"https://cdn.example.com/m/a.png":   {"https://cdn.example.com/m/", "/a.png"},
		"https://cdn.example.com/m/t/b.mp4": {"https://cdn.example.com/m", "t/b.mp4"},
	}
	for want, in := range cases {
		got, err := media.PublicURL(in[0], in[1])
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestNewWithoutBucketIsDisabled(t *testing.T) {
	_, err := media.New(context.Background(), media.Config{})
	assert.ErrorIs(t, err, media.ErrDisabled)

	_, err = media.New(context.Background(), media.Config{Bucket: "b"})
	assert.ErrorIs(t, err, media.ErrBadConfig)

	var d media.Uploader = media.Disabled{}
	_, err = d.Upload(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, media.ErrDisabled)
	assert.ErrorIs(t, d.Delete(context.Background(), "k"), media.ErrDisabled)
}
