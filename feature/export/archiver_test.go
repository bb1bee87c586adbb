package export

import (
	"context"
	"io"
	"testing"
	"time"

	"scan-sync/core/report"
	"scan-sync/core/session"
	"scan-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testReport() (*session.Catalog, *report.Report) {
	catalog := &session.Catalog{
		Columns:    []string{"Codigo", "Nombre"},
		CodeColumn: "Codigo",
		Items: []session.Item{
			{Code: "A1", Attributes: []session.Field{
				{Name: "Codigo", Value: "A1"},
				{Name: "Nombre", Value: "Mesa"},
			}},
		},
	}
	ledger := &session.Ledger{}
	ledger.Append("A1", time.Now())
	return catalog, report.Generate(catalog, ledger)
}

func TestArchive(t *testing.T) {
	mockClient := new(mocks.Client)
	archiver := NewArchiver(mockClient, "test-bucket", zap.NewNop())
	archiver.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	}

	var uploaded []byte
	mockClient.On("PutObject", mock.Anything, "test-bucket",
		"reports/ABC234/20260314T150926Z.csv", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			data, err := io.ReadAll(args.Get(3).(io.Reader))
			require.NoError(t, err)
			uploaded = data
		}).
		Return(minio.UploadInfo{}, nil)

	catalog, rep := testReport()
	object, err := archiver.Archive(context.Background(), "ABC234", catalog, rep)

	require.NoError(t, err)
	assert.Equal(t, "reports/ABC234/20260314T150926Z.csv", object)
	assert.Contains(t, string(uploaded), "Kind,Code,Nombre")
	assert.Contains(t, string(uploaded), "MATCHED,A1,Mesa")
	mockClient.AssertExpectations(t)
}

func TestArchiveUploadError(t *testing.T) {
	mockClient := new(mocks.Client)
	archiver := NewArchiver(mockClient, "test-bucket", zap.NewNop())

	mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	catalog, rep := testReport()
	_, err := archiver.Archive(context.Background(), "ABC234", catalog, rep)
	assert.Error(t, err)
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	archiver := NewArchiver(mockClient, "test-bucket", zap.NewNop())

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	require.NoError(t, archiver.EnsureBucket(context.Background()))
	mockClient.AssertExpectations(t)
}

func TestEnsureBucketExisting(t *testing.T) {
	mockClient := new(mocks.Client)
	archiver := NewArchiver(mockClient, "test-bucket", zap.NewNop())

	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

	require.NoError(t, archiver.EnsureBucket(context.Background()))
	mockClient.AssertNotCalled(t, "MakeBucket")
}
