package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrKey    = "s3.key"
	otelAttrBucket = "s3.bucket"
	region         = "auto"
)

// S3 stores public objects in the configured bucket. Keys are paths inside the bucket such as
// package/<id>-<uuid>.png.
type S3 interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL reverses Upload, returning an empty key for URLs outside the bucket.
	KeyFromURL(url string) string
}

type s3Impl struct {
	client *s3.Client
	bucket string
	public string
	api    string
	otel   otel.Otel
}

func New(config *config.Config, otel otel.Otel) S3 {
	return NewWithClient(newClient(config), config, otel)
}

// NewWithClient wires an already configured S3 client.
func NewWithClient(client *s3.Client, config *config.Config, otel otel.Otel) S3 {
	cfg := config.External.S3

	return &s3Impl{
		client: client,
		bucket: cfg.BucketName,
		public: strings.TrimSuffix(cfg.PublicDomain, "/"),
		api:    strings.TrimSuffix(cfg.APIEndpoint, "/"),
		otel:   otel,
	}
}

func newClient(config *config.Config) *s3.Client {
	cfg := config.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.APIEndpoint)
		o.UsePathStyle = true
	})
}

func (svc *s3Impl) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+"."+operation)
	scope.SetAttributes(map[string]any{
		otelAttrKey:    key,
		otelAttrBucket: svc.bucket,
	})

	return ctx, scope
}

func (svc *s3Impl) Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.scope(ctx, "Upload", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.public + "/" + key, nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

func (svc *s3Impl) KeyFromURL(url string) string {
	prefixes := []string{svc.public, svc.api + "/" + svc.bucket}

	for _, prefix := range prefixes {
		if prefix == constant.Empty || prefix == "/"+svc.bucket {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix+"/"); ok && key != constant.Empty {
			return key
		}
	}

	return constant.Empty
}
