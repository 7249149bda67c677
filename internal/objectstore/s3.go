// Package objectstore загружает картинки и страницы в S3 и отдает публичные ссылки.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeHTML = "text/html"
)

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 struct {
	client    putter
	bucket    string
	publicURL string
}

type Config struct {
	Bucket string
	Region string
	// Для S3-совместимых хранилищ (MinIO, R2)
	Endpoint  string
	PublicURL string
}

// NewS3 берет креды из стандартной цепочки AWS (env, shared config, IAM)
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3WithClient(client, cfg.Bucket, cfg.PublicURL), nil
}

func NewS3WithClient(client putter, bucket, publicURL string) *S3 {
	return &S3{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// Upload кладет объект и возвращает его публичный URL. HTML отдается inline
// и без кэша, чтобы браузер открывал страницу, а не скачивал ее
func (s *S3) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}

	if contentType == ContentTypeHTML {
		input.ContentDisposition = aws.String("inline")
		input.CacheControl = aws.String("no-cache")
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put %s to %s: %w", key, s.bucket, err)
	}

	return s.URL(key), nil
}

func (s *S3) URL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

// NewKey - случайное имя объекта: prefix + 16 hex символов + ext
func NewKey(prefix, ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")

	return prefix + id[:16] + ext
}
