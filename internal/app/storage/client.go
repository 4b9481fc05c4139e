package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"roomrelay/internal/pkg/logx"
)

// MaxObjectSize caps how much ReadObject will download.
const MaxObjectSize = 1 << 20 // 1 MB

var (
	// ErrObjectNotFound is returned when the key does not exist in the bucket.
	ErrObjectNotFound = errors.New("file not found")

	// ErrObjectTooLarge is returned when the object exceeds MaxObjectSize.
	ErrObjectTooLarge = errors.New("file too large")
)

// s3Client implements the StorageService interface against S3-compatible storage.
type s3Client struct {
	cfg        ServiceConfig
	s3Client   *s3.Client
	downloader *manager.Downloader
}

// newS3Client initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Client(ctx context.Context, cfg ServiceConfig) (*s3Client, error) {
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:        cfg,
		s3Client:   client,
		downloader: manager.NewDownloader(client),
	}, nil
}

// ReadObject checks the object's size, then downloads it into memory.
func (c *s3Client) ReadObject(ctx context.Context, key string) ([]byte, error) {
	head, err := c.headObject(ctx, key)
	if err != nil {
		return nil, err
	}

	size := aws.ToInt64(head.ContentLength)
	if size > MaxObjectSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, size)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))
	if _, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	}); err != nil {
		logx.Error(err, "S3 download failed", "key", key)
		return nil, errors.New("failed to download file from S3")
	}

	return buf.Bytes(), nil
}

// GetObjectMetadata retrieves the metadata of an object.
func (c *s3Client) GetObjectMetadata(ctx context.Context, key string) (map[string]string, error) {
	resp, err := c.headObject(ctx, key)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]string)
	if resp.ContentType != nil {
		metadata["Content-Type"] = *resp.ContentType
	}
	if resp.ContentLength != nil {
		metadata["Content-Length"] = strconv.FormatInt(*resp.ContentLength, 10)
	}
	if resp.ETag != nil {
		metadata["ETag"] = *resp.ETag
	}

	return metadata, nil
}

func (c *s3Client) headObject(ctx context.Context, key string) (*s3.HeadObjectOutput, error) {
	resp, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, ErrObjectNotFound
		}
		logx.Error(err, "Failed to get S3 object metadata", "key", key)
		return nil, errors.New("failed to fetch S3 metadata")
	}

	return resp, nil
}
