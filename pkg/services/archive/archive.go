package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/runtime/terminal/export"
)

// ObjectStore abstracts the blob storage a rendered report is archived to.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader) error
}

type s3Store struct {
	client *s3.Client
}

// NewS3Store builds an ObjectStore backed by S3 using the ambient AWS
// credential chain.
func NewS3Store(ctx context.Context) (ObjectStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &s3Store{client: s3.NewFromConfig(cfg)}, nil
}

func (s *s3Store) Put(ctx context.Context, bucket, key string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to put object s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// Archiver renders reports into their archival text form and uploads them.
type Archiver struct {
	store ObjectStore
}

func NewArchiver(store ObjectStore) *Archiver {
	return &Archiver{store: store}
}

// Archive renders the report through the table renderer and stores the
// result under bucket/key.
func (a *Archiver) Archive(ctx context.Context, report *domain.Report, bucket, key string) error {
	var buf bytes.Buffer
	if err := export.NewReporter(&buf).Handle(report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := a.store.Put(ctx, bucket, key, &buf); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("bucket", bucket).
		Str("key", key).
		Int("bytes", buf.Len()).
		Msg("report archived")
	return nil
}
