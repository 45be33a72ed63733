package contracts

import "context"

// StorageService is the cold-storage port used by the retention sweep to
// export archived audit batches.
type StorageService interface {
	PutObject(ctx context.Context, objectName string, data []byte, contentType string) error
}
