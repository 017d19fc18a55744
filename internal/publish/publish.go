// Package publish uploads run outputs to an S3-compatible bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ErrBucketEmpty is returned by New when no bucket is configured.
var ErrBucketEmpty = errors.New("publish bucket must not be empty")

const defaultRegion = "us-east-1"

// Config names the destination. Endpoint and PathStyle serve S3-compatible
// stores such as MinIO.
type Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// PutObjectAPI is the part of the S3 client the publisher needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads files under a key prefix.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	log    *zap.Logger
}

// New builds a publisher from the default AWS credential chain.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketEmpty
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg, log), nil
}

// NewWithClient builds a publisher around an existing client.
func NewWithClient(client PutObjectAPI, cfg Config, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, log: log}
}

var contentTypes = map[string]string{
	".csv":   "text/csv",
	".jsonl": "application/x-ndjson",
	".sql":   "application/sql",
	".db":    "application/vnd.sqlite3",
	".prom":  "text/plain; version=0.0.4",
}

func contentType(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Publish uploads root, a single file or every regular file below a
// directory, and returns the object keys in upload order. Keys are the
// prefix joined with the slash-separated path relative to root; a single
// file keeps its base name.
func (p *Publisher) Publish(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("publishing %s: %w", root, err)
	}
	if !info.IsDir() {
		key := path.Join(p.prefix, filepath.Base(root))
		if err := p.put(ctx, root, key); err != nil {
			return nil, err
		}
		return []string{key}, nil
	}

	var keys []string
	err = filepath.WalkDir(root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return err
		}
		key := path.Join(p.prefix, filepath.ToSlash(rel))
		if err := p.put(ctx, file, key); err != nil {
			return err
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return keys, err
	}
	return keys, nil
}

func (p *Publisher) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to s3://%s/%s: %w", file, p.bucket, key, err)
	}
	p.log.Info("published", zap.String("bucket", p.bucket), zap.String("key", key))
	return nil
}
