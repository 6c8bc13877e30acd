package bucket

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/jsphweid/chordgen/logger"
)

var contentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".wav": "audio/wav",
	".mid": "audio/midi",
}

func ContentType(p string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(p))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ParseURL splits s3://bucket/key. A key that is empty or ends in a slash
// gets the base name of localPath appended.
func ParseURL(raw, localPath string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid upload url %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("upload url must look like s3://bucket/key, got %q", raw)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" || strings.HasSuffix(key, "/") {
		key = path.Join(key, filepath.Base(localPath))
	}
	return u.Host, key, nil
}

type Uploader struct {
	uploader *s3manager.Uploader
}

// NewUploader talks to AWS in region, or to an S3 compatible store when
// endpoint is set.
func NewUploader(region, endpoint string) (*Uploader, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &Uploader{uploader: s3manager.NewUploader(sess)}, nil
}

// Upload copies the file at localPath to the s3:// destination and returns
// the object location.
func (u *Uploader) Upload(ctx context.Context, localPath, dest string) (string, error) {
	bucket, key, err := ParseURL(dest, localPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	out, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	logger.Info("Uploaded", "bucket", bucket, "key", key)
	return out.Location, nil
}
