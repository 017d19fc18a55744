// Tests for uploading outputs to S3.
package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	bucket, contentType, body string
}

// fakeS3 records every PutObject call by key.
type fakeS3 struct {
	objects map[string]object
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string]object)
	}
	f.objects[aws.ToString(in.Key)] = object{
		bucket:      aws.ToString(in.Bucket),
		contentType: aws.ToString(in.ContentType),
		body:        string(b),
	}
	return &s3.PutObjectOutput{}, nil
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestPublish_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "nuclides.csv"), "nuclideId\nCs-137\n")
	writeFile(t, filepath.Join(dir, "sub", "decays.jsonl"), "{}\n")

	fake := &fakeS3{}
	p := NewWithClient(fake, Config{Bucket: "nuclib", Prefix: "runs/2026-10-15"}, nil)
	keys, err := p.Publish(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"runs/2026-10-15/nuclides.csv", "runs/2026-10-15/sub/decays.jsonl"}, keys)
	csv := fake.objects["runs/2026-10-15/nuclides.csv"]
	assert.Equal(t, "nuclib", csv.bucket)
	assert.Equal(t, "text/csv", csv.contentType)
	assert.Equal(t, "nuclideId\nCs-137\n", csv.body)
	assert.Equal(t, "application/x-ndjson", fake.objects["runs/2026-10-15/sub/decays.jsonl"].contentType)
}

func TestPublish_SingleFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nuclib.db")
	writeFile(t, file, "SQLite format 3")

	fake := &fakeS3{}
	keys, err := NewWithClient(fake, Config{Bucket: "nuclib"}, nil).Publish(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, []string{"nuclib.db"}, keys)
	assert.Equal(t, "application/vnd.sqlite3", fake.objects["nuclib.db"].contentType)
}

func TestPublish_Errors(t *testing.T) {
	_, err := NewWithClient(&fakeS3{}, Config{Bucket: "b"}, nil).Publish(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sql"), "COMMIT;\n")
	denied := errors.New("access denied")
	_, err = NewWithClient(&fakeS3{err: denied}, Config{Bucket: "b"}, nil).Publish(context.Background(), dir)
	assert.ErrorIs(t, err, denied)

	_, err = New(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, ErrBucketEmpty)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/sql", contentType("decay.sql"))
	assert.Equal(t, "application/octet-stream", contentType("README"))
}
