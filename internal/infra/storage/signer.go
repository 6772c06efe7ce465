package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	TTL             time.Duration
}

type S3Signer struct {
	bucket  string
	ttl     time.Duration
	presign func(ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (string, error)
}

// NewS3Signer はAWSの設定を読み込んでpresignクライアントを作る
// アクセスキーが空なら標準の認証情報チェーンを使う
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	pc := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return newS3Signer(cfg.Bucket, cfg.TTL, func(ctx context.Context, in *s3.GetObjectInput, ttl time.Duration) (string, error) {
		req, err := pc.PresignGetObject(ctx, in, s3.WithPresignExpires(ttl))
		if err != nil {
			return "", err
		}
		return req.URL, nil
	}), nil
}

func newS3Signer(bucket string, ttl time.Duration, presign func(context.Context, *s3.GetObjectInput, time.Duration) (string, error)) *S3Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &S3Signer{bucket: bucket, ttl: ttl, presign: presign}
}

func (s *S3Signer) SignedURL(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	url, err := s.presign(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s.ttl)
	if err != nil {
		return "", false, fmt.Errorf("presign %s: %w", key, err)
	}
	return url, true, nil
}

// バケット未設定のとき用
type NoopSigner struct{}

func (NoopSigner) SignedURL(context.Context, string) (string, bool, error) {
	return "", false, nil
}
