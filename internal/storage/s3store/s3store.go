package s3store

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/utafrali/catalog/internal/storage"
)

// Config selects the bucket and the public URL objects are served from.
type Config struct {
	Region string
	Bucket string
	// PublicBaseURL is prefixed to object keys, e.g. a CDN in front of the
	// bucket. Empty selects the virtual-hosted bucket endpoint.
	PublicBaseURL string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store implements storage.Uploader on an S3 bucket.
type Store struct {
	api     putObjectAPI
	bucket  string
	baseURL string
}

// New loads the default AWS credential chain and returns a Store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewWithClient returns a Store using api for requests.
func NewWithClient(api putObjectAPI, cfg Config) *Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &Store{api: api, bucket: cfg.Bucket, baseURL: base}
}

// Upload puts the file at localPath under a generated key inside folder.
func (s *Store) Upload(ctx context.Context, localPath, folder string) (*storage.UploadResult, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	key := storage.ObjectKey(folder, localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}
	return &storage.UploadResult{SecureURL: s.baseURL + "/" + key, PublicID: key}, nil
}
