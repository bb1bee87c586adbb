package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"scan-sync/core/report"
	"scan-sync/core/session"
	"scan-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads report CSVs to a bucket.
type Archiver struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

// NewArchiver creates a report archiver.
func NewArchiver(client storage.Client, bucket string, logger *zap.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureBucket creates the target bucket when it does not exist yet.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("report bucket created", zap.String("bucket", a.bucket))
	return nil
}

// Archive serializes the report to CSV and uploads it. The returned string is
// the stored object name.
func (a *Archiver) Archive(ctx context.Context, sessionID string, catalog *session.Catalog, r *report.Report) (string, error) {
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, catalog, r); err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	object := fmt.Sprintf("reports/%s/%s.csv", sessionID, a.now().UTC().Format("20060102T150405Z"))
	_, err := a.client.PutObject(ctx, a.bucket, object, &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	a.logger.Info("report archived",
		zap.String("session", sessionID),
		zap.String("bucket", a.bucket),
		zap.String("object", object))
	return object, nil
}
