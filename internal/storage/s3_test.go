package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.err
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		extension string
		expected  string
	}{
		{".mp4", "video/mp4"},
		{".MP4", "video/mp4"},
		{".m4v", "video/mp4"},
		{".mov", "video/quicktime"},
		{".webm", "video/webm"},
		{".mkv", "video/x-matroska"},
		{".jpg", "image/jpeg"},
		{".JPEG", "image/jpeg"},
		{".png", "image/png"},
		{".webp", "image/webp"},
		{".unknown", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.extension, func(t *testing.T) {
			assert.Equal(t, tt.expected, getContentType(tt.extension))
		})
	}
}

func TestUploadVideo(t *testing.T) {
	client := &fakeS3{}
	uploader := newS3Uploader(client, "media", "us-east-1", "https://cdn.example.com/")
	uploader.now = func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) }

	result, err := uploader.Upload(context.Background(), MediaVideo, strings.NewReader("frames"), 6, "owner-1", "Holiday.MOV")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^videos/2026/03/owner-1/[0-9a-f-]{36}\.mov$`), result.Key)
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.URL)
	assert.Equal(t, int64(6), result.Size)
	assert.Equal(t, "media", result.Bucket)

	require.Len(t, client.puts, 1)
	put := client.puts[0]
	assert.Equal(t, "video/quicktime", aws.ToString(put.ContentType))
	assert.Equal(t, int64(6), aws.ToInt64(put.ContentLength))
	assert.Equal(t, "owner-1", put.Metadata["owner-id"])
	assert.Equal(t, "videos", put.Metadata["file-type"])
	assert.Equal(t, "frames", client.bodies[0])
}

func TestUploadThumbnailDefaultsExtension(t *testing.T) {
	client := &fakeS3{}
	uploader := newS3Uploader(client, "media", "us-east-1", "https://cdn.example.com")

	result, err := uploader.Upload(context.Background(), MediaThumbnail, strings.NewReader("img"), 3, "owner-1", "thumb")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "thumbnails/"))
	assert.True(t, strings.HasSuffix(result.Key, ".jpg"))
	assert.Equal(t, "image/jpeg", aws.ToString(client.puts[0].ContentType))
}

func TestUploadKeysAreUnique(t *testing.T) {
	uploader := newS3Uploader(&fakeS3{}, "media", "us-east-1", "https://cdn.example.com")

	first, err := uploader.Upload(context.Background(), MediaVideo, strings.NewReader("a"), 1, "o", "a.mp4")
	require.NoError(t, err)
	second, err := uploader.Upload(context.Background(), MediaVideo, strings.NewReader("a"), 1, "o", "a.mp4")
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)
}

func TestUploaderErrors(t *testing.T) {
	uploader := newS3Uploader(&fakeS3{err: errors.New("AccessDenied")}, "media", "us-east-1", "https://cdn.example.com")

	_, err := uploader.Upload(context.Background(), MediaVideo, strings.NewReader("a"), 1, "o", "a.mp4")
	assert.ErrorContains(t, err, "failed to upload to S3")

	assert.ErrorContains(t, uploader.DeleteFile(context.Background(), "k"), "failed to delete from S3")
	assert.ErrorContains(t, uploader.CheckBucketAccess(context.Background()), "cannot access S3 bucket media")
}

func TestDeleteFile(t *testing.T) {
	client := &fakeS3{}
	uploader := newS3Uploader(client, "media", "us-east-1", "https://cdn.example.com")

	require.NoError(t, uploader.DeleteFile(context.Background(), "videos/a.mp4"))
	assert.Equal(t, []string{"videos/a.mp4"}, client.deletes)
}
