package filestore

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Config struct {
	Endpoint  string `json:"endpoint"`
	SecretID  string `json:"secret_id"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	Prefix    string `json:"prefix"`
	PublicURL string `json:"public_url"`
	UseSSL    bool   `json:"use_ssl"`
}

type s3Store struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
	endpoint  string
	useSSL    bool
}

func init() {
	Register("s3", createS3Store)
}

func createS3Store(args interface{}) (Store, error) {
	cfg := &s3Config{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" || cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("s3 endpoint/bucket/secret_id/secret_key are required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.SecretID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		endpoint = scheme + "://" + endpoint
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return &s3Store{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: cfg.PublicURL,
		endpoint:  endpoint,
		useSSL:    cfg.UseSSL,
	}, nil
}

func (s *s3Store) Type() string {
	return "s3"
}

func (s *s3Store) URL(key, baseURL string) string {
	_ = baseURL
	objectKey := strings.TrimPrefix(s.objectKey(key), "/")
	base := strings.TrimSuffix(s.publicURL, "/")
	if base == "" {
		base = s.bucketBaseURL()
	}
	return strings.TrimSuffix(base, "/") + "/" + objectKey
}

func (s *s3Store) Save(ctx context.Context, key string, r ReadSeekCloser, size int64) error {
	if key == "" {
		return fmt.Errorf("asset key is required")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          r,
		ContentLength: aws.Int64(size),
	})
	return err
}

func (s *s3Store) Open(ctx context.Context, key string) (ReadSeekCloser, error) {
	_ = ctx
	_ = key
	return nil, fmt.Errorf("s3 store does not support open; assets are served from the bucket url")
}

func (s *s3Store) objectKey(key string) string {
	if s.prefix != "" {
		return path.Join(s.prefix, key)
	}
	return key
}

func (s *s3Store) bucketBaseURL() string {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return strings.TrimSuffix(s.endpoint, "/") + "/" + s.bucket
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + s.bucket
	return u.String()
}
