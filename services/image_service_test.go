package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestS3ImageService(t *testing.T) {
	mockS3 := NewMockS3Service()
	svc := NewS3ImageService(mockS3)
	ctx := context.Background()

	key, err := svc.UploadImage(ctx, fileHeader(t, "item.jpg", []byte("jpeg bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, itemImagePrefix+"/"))
	assert.True(t, mockS3.FileExists(key))

	url, err := svc.GetImageURL(ctx, key)
	require.NoError(t, err)
	assert.Contains(t, url, key)

	url, err = svc.GetImageURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)

	require.NoError(t, svc.DeleteImage(ctx, key))
	assert.False(t, mockS3.FileExists(key))
}

func TestS3ImageService_RejectsInvalidFile(t *testing.T) {
	mockS3 := NewMockS3Service()
	svc := NewS3ImageService(mockS3)

	_, err := svc.UploadImage(context.Background(), fileHeader(t, "item.gif", []byte("gif")))
	assert.Error(t, err)
	assert.False(t, mockS3.FileExists(itemImagePrefix+"/mock_item.gif"))
}

func TestLocalImageService(t *testing.T) {
	dir := t.TempDir()
	svc := NewLocalImageService(dir)
	ctx := context.Background()

	key, err := svc.UploadImage(ctx, fileHeader(t, "item.png", []byte("png bytes")))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, key))
	require.NoError(t, err)

	url, err := svc.GetImageURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/uploads/"+key, url)

	require.NoError(t, svc.DeleteImage(ctx, key))
	_, err = os.Stat(filepath.Join(dir, key))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, svc.DeleteImage(ctx, key))
}
