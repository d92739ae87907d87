package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/quangdng/preschool-cms/configs"
)

type R2Storage struct {
	config cfg.R2
}

func NewR2Storage(conf cfg.R2) *R2Storage {
	return &R2Storage{config: conf}
}

func (s *R2Storage) client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.config.AccessKey, s.config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.config.AccountID))
	}), nil
}

func (s *R2Storage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *R2Storage) PublicURL(key string) string {
	return strings.TrimRight(s.config.PublicURL, "/") + "/" + strings.TrimLeft(key, "/")
}

func (s *R2Storage) Name() string { return "r2" }
