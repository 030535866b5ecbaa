package source

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/y10n/pkg/l10n"
)

const (
	// maxObjectSize caps a single translation object.
	maxObjectSize = 4 << 20
	maxDownloads  = 8
)

// S3Config configures the S3 source.
type S3Config struct {
	Bucket string `env:"S3_BUCKET"`
	// Prefix is stripped from object keys before Pattern is matched.
	Prefix    string `env:"S3_PREFIX" envDefault:"l10n/"`
	Pattern   string `env:"S3_PATTERN" envDefault:"*.yml"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	PathStyle bool   `env:"S3_PATH_STYLE" envDefault:"false"`
}

func (c S3Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	if c.Pattern == "" {
		return fmt.Errorf("%w: pattern is required", ErrInvalidConfig)
	}
	if !doublestar.ValidatePattern(c.Pattern) {
		return fmt.Errorf("%w: malformed pattern %q", ErrInvalidConfig, c.Pattern)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%w: access key and secret key must be set together", ErrInvalidConfig)
	}
	return nil
}

// S3API is the subset of the S3 client the source uses.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 loads translation objects from a bucket.
type S3 struct {
	client S3API
	cfg    S3Config
}

// NewS3 creates an S3 source with a client built from cfg. Without static
// keys requests are sent unsigned, which only works for public buckets.
func NewS3(cfg S3Config) (*S3, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, cfg: cfg}, nil
}

// NewS3WithClient creates an S3 source over an existing client.
func NewS3WithClient(client S3API, cfg S3Config) (*S3, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &S3{client: client, cfg: cfg}, nil
}

func (s *S3) Name() string {
	return "s3://" + s.cfg.Bucket + "/" + s.cfg.Prefix + s.cfg.Pattern
}

// Load lists the objects under the prefix, keeps those whose relative key
// matches the pattern and decodes them in parallel.
func (s *S3) Load(ctx context.Context) ([]l10n.Document, error) {
	keys, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]l10n.Document, len(keys))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDownloads)

	for i, key := range keys {
		g.Go(func() error {
			data, err := s.download(ctx, key)
			if err != nil {
				return err
			}
			doc, err := l10n.DecodeFile(key, data)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *S3) list(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.Bucket),
		Prefix: aws.String(s.cfg.Prefix),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error(err, ErrListFailed)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, s.cfg.Prefix)
			if rel == "" || strings.HasSuffix(key, "/") {
				continue
			}
			if l10n.MatchPattern(s.cfg.Pattern, rel) {
				keys = append(keys, key)
			}
		}
	}

	slices.Sort(keys)
	return keys, nil
}

func (s *S3) download(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrDownloadFailed)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDownloadFailed, key, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("%w: %q", ErrObjectTooLarge, path.Base(key))
	}
	return data, nil
}
