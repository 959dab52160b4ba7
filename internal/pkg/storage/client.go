package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps the S3 client for storing user-submitted documents and photos.
type Client struct {
	s3Client *s3.Client
	config   *Config
}

// NewClient creates a new object storage client
func NewClient(cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("S3 storage is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services need path-style URLs
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	client := &Client{
		s3Client: s3Client,
		config:   cfg,
	}

	// Test connection
	if err := client.testConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to S3: %w", err)
	}

	log.Printf("[Storage] Successfully initialized S3 client for bucket: %s", cfg.GetBucketName())
	return client, nil
}

func (c *Client) testConnection() error {
	_, err := c.s3Client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(c.config.GetBucketName()),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", c.config.GetBucketName(), err)
	}
	return nil
}

// ObjectKey builds the bucket key for an upload stored at time t.
func (c *Client) ObjectKey(kind, uploadUUID, fileExtension string, t time.Time) string {
	return c.config.GetObjectKey(kind, uploadUUID, fileExtension, t.Year(), int(t.Month()))
}

// PutObject uploads raw file bytes under the given object key.
func (c *Client) PutObject(ctx context.Context, objectKey string, contentType string, data []byte) error {
	_, err := c.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.GetBucketName()),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectKey, err)
	}
	return nil
}

// DeleteObject removes an object; used when a tree or analysis is deleted.
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.GetBucketName()),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", objectKey, err)
	}
	return nil
}

// Global client, initialized at startup when storage is enabled.
var globalClient *Client

// Setup initializes the global storage client. A disabled configuration is
// not an error; uploads are then analyzed in-memory only.
func Setup() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Printf("[Storage] Invalid configuration: %v", err)
		return
	}
	if !cfg.IsEnabled() {
		log.Print("[Storage] S3 storage disabled, uploads will not be persisted")
		return
	}
	client, err := NewClient(cfg)
	if err != nil {
		log.Printf("[Storage] Initialization failed: %v", err)
		return
	}
	globalClient = client
}

// GetClient returns the global storage client, or nil when storage is disabled.
func GetClient() *Client {
	return globalClient
}
