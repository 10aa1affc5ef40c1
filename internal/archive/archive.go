// Package archive keeps a copy of generated exports in object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"atenciones-backend/internal/config"
	"atenciones-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores a rendered file and returns the key it was written under
type Archiver interface {
	Store(ctx context.Context, filename, contentType string, content []byte) (string, error)
}

// Nop discards everything
type Nop struct{}

func (Nop) Store(context.Context, string, string, []byte) (string, error) { return "", nil }

// putter is the slice of the S3 client the archiver needs
type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes exports to an S3 compatible bucket (AWS, R2, MinIO)
type S3Archiver struct {
	client putter
	bucket string
	prefix string
}

// New returns Nop when archiving is disabled
func New(ctx context.Context, cfg *config.Config) (Archiver, error) {
	if !cfg.Archive.Enabled {
		return Nop{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Archive.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Archiver(client, cfg.Archive.Bucket, cfg.Archive.Prefix), nil
}

func NewS3Archiver(client putter, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Key groups files by export month: <prefix>/YYYY/MM/<unix-nanos>_<filename>
func (a *S3Archiver) Key(filename string) string {
	now := timeutil.Now()
	name := fmt.Sprintf("%d_%s", now.UnixNano(), path.Base(filename))
	return path.Join(a.prefix, now.Format("2006"), now.Format("01"), name)
}

func (a *S3Archiver) Store(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	key := a.Key(filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}
