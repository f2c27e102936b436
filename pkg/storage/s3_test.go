package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentKey(t *testing.T) {
	key := AttachmentKey(42, "../../etc/slides.pdf")
	parts := strings.Split(key, "/")

	require.Len(t, parts, 4)
	assert.Equal(t, "attachments", parts[0])
	assert.Equal(t, "42", parts[1])
	assert.Len(t, parts[2], 36)
	assert.Equal(t, "slides.pdf", parts[3])
	assert.NotEqual(t, key, AttachmentKey(42, "slides.pdf"))
}

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForFilename("talk.PDF"))
	assert.Equal(t, "application/vnd.oasis.opendocument.presentation", ContentTypeForFilename("talk.odp"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFilename("talk"))
}

func TestNewS3_PresignWithCustomEndpoint(t *testing.T) {
	s, err := NewS3(context.Background(), S3Config{
		Region:            "ap-southeast-2",
		AccessKeyID:       "test",
		SecretAccessKey:   "test",
		Endpoint:          "http://localhost:9000",
		AttachmentsBucket: "zookeepr-attachments",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, s.PresignExpire())

	url, err := s.GeneratePresignedDownloadURL(context.Background(), "attachments/1/x/slides.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/zookeepr-attachments/attachments/1/x/slides.pdf"), url)
}
