// Package evidence stores impact evidence in S3-compatible object storage
// under content-addressed keys.
package evidence

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

// PresignTTL is how long a presigned upload URL stays valid.
const PresignTTL = 15 * time.Minute

// Settings locate the bucket and the public gateways serving it.
type Settings struct {
	Region       string
	RootUser     string
	RootPassword string
	BaseEndpoint string
	Bucket       string
	// Gateways are public base URLs; an object is served at gateway + "/" + key.
	// When empty the S3 endpoint itself is used, path-style.
	Gateways []string
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type presignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store pins evidence objects into one bucket.
type S3Store struct {
	objects  objectAPI
	presign  presignAPI
	bucket   string
	gateways []string
}

// NewS3Store builds the S3 clients for s.
func NewS3Store(ctx context.Context, s Settings) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.RootUser,
			s.RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.BaseEndpoint)
		o.UsePathStyle = true
	})

	gateways := append([]string(nil), s.Gateways...)
	if len(gateways) == 0 {
		gateways = []string{strings.TrimRight(s.BaseEndpoint, "/") + "/" + s.Bucket}
	}
	for i := range gateways {
		gateways[i] = strings.TrimRight(gateways[i], "/")
	}

	return &S3Store{
		objects:  client,
		presign:  newS3PresignClient(client),
		bucket:   s.Bucket,
		gateways: gateways,
	}, nil
}

// Put uploads body under key. filename is kept as the download name.
func (s *S3Store) Put(ctx context.Context, key, filename, contentType string, body []byte) error {
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(body),
		ContentType:        aws.String(contentType),
		ContentLength:      aws.Int64(int64(len(body))),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", filename)),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable with the configured credentials.
func (s *S3Store) Ping(ctx context.Context) error {
	_, err := s.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

// URLs returns every gateway URL for key, primary first.
func (s *S3Store) URLs(key string) []string {
	out := make([]string, len(s.gateways))
	for i, g := range s.gateways {
		out[i] = g + "/" + key
	}
	return out
}

// RandomUploadKey names an object a client will upload directly.
func RandomUploadKey(now time.Time) string {
	return fmt.Sprintf("uploads/%d/%d/%d/%v", now.Year(), now.Month(), now.Day(), uuid.New())
}

// PresignPut returns a URL the client may PUT the object at key to.
func (s *S3Store) PresignPut(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}
	return req.URL, nil
}
