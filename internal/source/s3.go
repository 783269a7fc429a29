package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// ObjectGetter is the part of the S3 client the source uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads documents addressed as s3://bucket/key.
type S3Source struct {
	client ObjectGetter
}

func NewS3Source(ctx context.Context, region string) (*S3Source, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Source{client: s3.NewFromConfig(cfg)}, nil
}

func NewS3SourceWithClient(client ObjectGetter) *S3Source {
	return &S3Source{client: client}
}

func (s *S3Source) Load(ctx context.Context, id string) (string, error) {
	bucket, key, err := ParseS3URI(id)
	if err != nil {
		return "", err
	}

	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get s3 object %s: %w", id, err)
	}
	defer obj.Body.Close()

	text, err := Decode(key, obj.Body)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", id, err)
	}
	log.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(text)).Msg("Loaded document from S3")
	return text, nil
}

// ParseS3URI splits s3://bucket/key.
func ParseS3URI(id string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(id, SchemeS3)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", id)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs bucket and key: %q", id)
	}
	return bucket, key, nil
}
