package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dishubaceh/damprah/internal/common"
)

// Seams for testing the S3 wiring without a live endpoint.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Config carries the settings of the S3-compatible backend (MinIO in the
// default deployment).
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Gateway implements Gateway over aws-sdk-go-v2.
type S3Gateway struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Gateway builds the S3 client pair from static credentials and a base
// endpoint (path-style, so MinIO works out of the box).
func NewS3Gateway(ctx context.Context, cfg S3Config) (*S3Gateway, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Gateway{
		client:  client,
		presign: newS3PresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Put writes the object at path. If-None-Match:* gives no-overwrite
// semantics: a path collision fails instead of replacing the object.
func (g *S3Gateway) Put(ctx context.Context, path string, body io.Reader, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:      &g.bucket,
		Key:         &path,
		Body:        body,
		IfNoneMatch: aws.String("*"),
	}
	if contentType != "" {
		in.ContentType = &contentType
	}
	if _, err := g.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("%w: put %s: %v", common.ErrGateway, path, err)
	}
	return nil
}

// Remove deletes the object at path.
func (g *S3Gateway) Remove(ctx context.Context, path string) error {
	_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &g.bucket,
		Key:    &path,
	})
	if err != nil {
		return fmt.Errorf("%w: remove %s: %v", common.ErrGateway, path, err)
	}
	return nil
}

// List returns the objects under prefix.
func (g *S3Gateway) List(ctx context.Context, prefix string) ([]Entry, error) {
	var entries []Entry

	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: &g.bucket,
		Prefix: &prefix,
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: list %s: %v", common.ErrGateway, prefix, err)
		}
		for _, obj := range page.Contents {
			e := Entry{Path: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)}
			if obj.LastModified != nil {
				e.LastModified = *obj.LastModified
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// SignedURL issues a presigned GET for path valid for ttl.
func (g *S3Gateway) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	req, err := presignGetObject(g.presign, ctx, &s3.GetObjectInput{
		Bucket: &g.bucket,
		Key:    &path,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("%w: sign %s: %v", common.ErrGateway, path, err)
	}
	return req.URL, nil
}
