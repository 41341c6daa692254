package gcs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"cloud.google.com/go/storage"
)

type GCSClient struct {
	Client     *storage.Client
	BucketName string
}

var _ interfaces.ReportUploaderInterface = (*GCSClient)(nil)

func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSClient{
		Client:     client,
		BucketName: bucketName,
	}, nil
}

func (g *GCSClient) Close(ctx context.Context) {
	if g.Client == nil {
		return
	}
	if err := g.Client.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSClient, err)
	}
}

// UploadJSON writes payload as JSON to objectName. Existing objects are never overwritten.
func (g *GCSClient) UploadJSON(ctx context.Context, objectName string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
		return err
	}
	object := g.Client.Bucket(g.BucketName).Object(objectName)
	writer := object.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err = writer.Write(jsonData); err != nil {
		logger.CtxError(ctx, log_messages.ErrorUploadingToGCSBucket, err)
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		logger.CtxError(ctx, log_messages.ErrorClosingGCSWriter, err)
		return err
	}
	logger.CtxInfo(ctx, log_messages.UploadedToGCSBucket, slog.String("objectName", objectName))
	return nil
}
