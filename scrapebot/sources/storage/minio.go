package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"scrapebot/config"
	"scrapebot/services/ai"
	"scrapebot/services/scraper"
)

// ExportStore keeps combined scrape+analysis artifacts in an object store,
// one JSON object per URL.
type ExportStore struct {
	client *minio.Client
	bucket string
}

func NewExportStore(cfg config.Config) (*ExportStore, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}

	bucket := cfg.MinIOBucket
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &ExportStore{client: client, bucket: bucket}, nil
}

// UploadExport writes the combined artifact for one scrape. The key is
// derived from the URL hash so re-scrapes overwrite the previous artifact.
func (s *ExportStore) UploadExport(ctx context.Context, result *scraper.ScrapingResult, analysis *ai.AnalysisResult) (string, error) {
	key := ExportKey(result.URL)

	data, err := json.Marshal(ai.BuildExport(result, analysis))
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetExport fetches a stored artifact by key.
func (s *ExportStore) GetExport(ctx context.Context, key string) (*ai.CombinedExport, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	var export ai.CombinedExport
	if err := json.NewDecoder(obj).Decode(&export); err != nil {
		return nil, err
	}
	return &export, nil
}

// ExportKey maps a URL to its object key.
func ExportKey(url string) string {
	hash := fmt.Sprintf("%x", md5.Sum([]byte(url)))
	return path.Join("exports", hash+".json")
}
