package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// MockImageService is an in-memory ImageService for testing
type MockImageService struct {
	images map[string]int64 // image key to size
	mu     sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		images: make(map[string]int64),
	}
}

// UploadImage validates the file and records it
func (m *MockImageService) UploadImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	imageKey := fmt.Sprintf("%s/mock_%s", itemImagePrefix, fileHeader.Filename)

	m.mu.Lock()
	m.images[imageKey] = fileHeader.Size
	m.mu.Unlock()

	return imageKey, nil
}

// GetImageURL returns a fake URL for a recorded key
func (m *MockImageService) GetImageURL(ctx context.Context, imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.images[imageKey]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("image not found in mock storage: %s", imageKey)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", imageKey), nil
}

// DeleteImage forgets a recorded key
func (m *MockImageService) DeleteImage(ctx context.Context, imageKey string) error {
	m.mu.Lock()
	delete(m.images, imageKey)
	m.mu.Unlock()
	return nil
}

// ImageExists checks if an image was recorded (for testing assertions)
func (m *MockImageService) ImageExists(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.images[imageKey]
	return exists
}
