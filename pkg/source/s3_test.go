package source_test

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/y10n/pkg/l10n"
	"github.com/dmitrymomot/y10n/pkg/source"
)

// fakeS3 serves objects from memory, one key per page to exercise paging.
type fakeS3 struct {
	objects map[string]string
	listErr error
	getErr  error
	gets    []string
	mu      sync.Mutex
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}

	out := &s3.ListObjectsV2Output{}
	if start < len(keys) {
		out.Contents = []types.Object{{Key: aws.String(keys[start])}}
	}
	if start+1 < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[start+1])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	key := aws.ToString(in.Key)
	f.mu.Lock()
	f.gets = append(f.gets, key)
	f.mu.Unlock()

	body, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3_Load(t *testing.T) {
	t.Parallel()

	client := &fakeS3{objects: map[string]string{
		"l10n/en.yml":        "greeting: hello",
		"l10n/de.yml":        "greeting: hallo",
		"l10n/de-AT.yml":     "greeting: servus",
		"l10n/notes.txt":     "ignored",
		"l10n/nested/fr.yml": "greeting: bonjour",
		"other/es.yml":       "greeting: hola",
	}}

	src, err := source.NewS3WithClient(client, source.S3Config{
		Bucket:  "translations",
		Prefix:  "l10n/",
		Pattern: "*.yml",
	})
	require.NoError(t, err)
	require.Equal(t, "s3://translations/l10n/*.yml", src.Name())

	docs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"de-AT", "de", "en"}, tags(docs))

	store := l10n.NewStore(docs)
	got := l10n.Localize(l10n.ParsePreferences("de-AT"), store)
	s, _ := l10n.LookupString(got, "greeting")
	require.Equal(t, "servus", s)

	require.Len(t, client.gets, 3)
}

func TestS3_LoadRecursivePattern(t *testing.T) {
	t.Parallel()

	client := &fakeS3{objects: map[string]string{
		"l10n/en.yml":        "greeting: hello",
		"l10n/de.yml":        "greeting: hallo",
		"l10n/nested/fr.yml": "greeting: bonjour",
		"l10n/nested/fr.txt": "ignored",
	}}

	src, err := source.NewS3WithClient(client, source.S3Config{
		Bucket:  "translations",
		Prefix:  "l10n/",
		Pattern: "**/{en,fr}.yml",
	})
	require.NoError(t, err)

	docs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"en", "fr"}, tags(docs))
	require.Len(t, client.gets, 2)
}

func TestS3_Errors(t *testing.T) {
	t.Parallel()

	cfg := source.S3Config{Bucket: "b", Prefix: "l10n/", Pattern: "*.yml"}
	ctx := context.Background()

	t.Run("access denied while listing", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3{listErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}}
		src, err := source.NewS3WithClient(client, cfg)
		require.NoError(t, err)

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, source.ErrAccessDenied)
	})

	t.Run("generic list failure", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3{listErr: &smithy.GenericAPIError{Code: "SlowDown", Message: "later"}}
		src, err := source.NewS3WithClient(client, cfg)
		require.NoError(t, err)

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, source.ErrListFailed)
	})

	t.Run("download failure", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3{
			objects: map[string]string{"l10n/en.yml": "a: b"},
			getErr:  &types.NoSuchKey{Message: aws.String("gone")},
		}
		src, err := source.NewS3WithClient(client, cfg)
		require.NoError(t, err)

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, source.ErrNotFound)
	})

	t.Run("invalid document", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3{objects: map[string]string{"l10n/en.yml": "a: [broken"}}
		src, err := source.NewS3WithClient(client, cfg)
		require.NoError(t, err)

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, l10n.ErrInvalidFile)
	})

	t.Run("object too large", func(t *testing.T) {
		t.Parallel()

		client := &fakeS3{objects: map[string]string{
			"l10n/en.yml": "a: " + strings.Repeat("x", 5<<20),
		}}
		src, err := source.NewS3WithClient(client, cfg)
		require.NoError(t, err)

		_, err = src.Load(ctx)
		require.ErrorIs(t, err, source.ErrObjectTooLarge)
	})
}

func TestNewS3_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  source.S3Config
	}{
		{name: "missing bucket", cfg: source.S3Config{Pattern: "*.yml"}},
		{name: "missing pattern", cfg: source.S3Config{Bucket: "b"}},
		{name: "malformed pattern", cfg: source.S3Config{Bucket: "b", Pattern: "{en,de.yml"}},
		{name: "half credentials", cfg: source.S3Config{Bucket: "b", Pattern: "*.yml", AccessKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := source.NewS3(tt.cfg)
			require.ErrorIs(t, err, source.ErrInvalidConfig)
		})
	}

	_, err := source.NewS3WithClient(nil, source.S3Config{Bucket: "b", Pattern: "*.yml"})
	require.ErrorIs(t, err, source.ErrInvalidConfig)

	src, err := source.NewS3(source.S3Config{
		Bucket:    "b",
		Pattern:   "*.yml",
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "k",
		SecretKey: "s",
		PathStyle: true,
	})
	require.NoError(t, err)
	require.NotNil(t, src)
}
