package export

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	interrors "github.com/filament-ui/filament/internal/errors"
)

// S3API is the subset of the S3 client the publisher needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads exported pages to an S3 bucket.
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	pub := export.NewS3Publisher(s3.NewFromConfig(cfg), "my-bucket", "site/")
//	err := pub.Publish(ctx, "index.html", html)
type S3Publisher struct {
	client S3API
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Publisher creates a publisher targeting bucket under prefix.
func NewS3Publisher(client S3API, bucket, prefix string) *S3Publisher {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: slog.Default().With("component", "export"),
	}
}

// Publish uploads one HTML document under the publisher's prefix.
func (p *S3Publisher) Publish(ctx context.Context, path, html string) error {
	key := p.prefix + strings.TrimPrefix(path, "/")

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(html)),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		p.logger.Error("publish failed", "bucket", p.bucket, "key", key, "error", err)
		return interrors.New("F301", interrors.CategoryExport, "upload of %s failed", key).Wrap(err)
	}

	p.logger.Info("published", "bucket", p.bucket, "key", key)
	return nil
}
