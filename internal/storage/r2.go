package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "clinic-backend/internal/config"
)

// R2Store archives generated invoice PDFs to Cloudflare R2 via the S3 API.
// A nil store means archival is disabled.
type R2Store struct {
	client *s3.Client
	bucket string
}

// NewR2Store builds an R2 client from config; returns nil when R2 is not
// configured so callers can skip archival
func NewR2Store(cfg *appconfig.Config) (*R2Store, error) {
	if cfg.R2.AccountID == "" || cfg.R2.AccessKey == "" || cfg.R2.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKey,
			cfg.R2.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure S3 client: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{client: client, bucket: cfg.R2.Bucket}, nil
}

// PutInvoicePDF uploads a rendered invoice under invoices/<tenant>/<number>.pdf
// and returns the object key
func (s *R2Store) PutInvoicePDF(ctx context.Context, tenantID int, invoiceNumber string, data []byte) (string, error) {
	key := fmt.Sprintf("invoices/%d/%s.pdf", tenantID, invoiceNumber)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload invoice pdf: %w", err)
	}
	return key, nil
}
