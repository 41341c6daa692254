package interfaces

import "context"

// ReportUploaderInterface writes a JSON document to object storage, refusing to overwrite.
type ReportUploaderInterface interface {
	UploadJSON(ctx context.Context, objectName string, payload interface{}) error
	Close(ctx context.Context)
}
