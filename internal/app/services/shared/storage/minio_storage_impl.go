package storage

import (
	"bytes"
	"context"
	"fisioflow-service/internal/app/contracts"
	"fisioflow-service/internal/pkg/exceptions"
	"sync"

	"github.com/minio/minio-go/v7"
)

var (
	minioStorageInstance contracts.StorageService
	onceMinioStorage     sync.Once
)

type minioStorage struct {
	MinioClient *minio.Client
	BucketName  string
}

func NewMinioStorage(minioClient *minio.Client, bucketName string) contracts.StorageService {
	onceMinioStorage.Do(func() {
		minioStorageInstance = &minioStorage{
			MinioClient: minioClient,
			BucketName:  bucketName,
		}
	})
	return minioStorageInstance
}

func (m *minioStorage) PutObject(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := m.MinioClient.PutObject(
		ctx,
		m.BucketName,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return exceptions.ErrMinioCreateObject(err, m.BucketName)
	}
	return nil
}
