// Package upload publishes generated reports to S3-compatible storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// S3Config holds uploader parameters for report publishing.
type S3Config struct {
	BucketURL    string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UseSSL       bool
}

// S3Uploader publishes report files with the AWS CLI (`aws s3 cp`), which
// keeps the tool free of an SDK dependency for what is a single copy per
// run. Reports are keyed by generation date so a year of daily runs stays
// browsable: <prefix>/<YYYY>/<MM>/<DD>/<file>.
type S3Uploader struct {
	bucket string
	prefix string
	cfg    S3Config
}

// NewS3Uploader constructs an uploader from an s3://bucket/prefix
// destination and static credentials (prefix optional).
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	bucket, prefix, err := splitBucketURL(cfg.BucketURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("s3: access key and secret key are required")
	}
	if _, err := exec.LookPath("aws"); err != nil {
		return nil, errors.New("s3: aws cli not found in PATH")
	}
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}
	return &S3Uploader{
		bucket: bucket,
		prefix: prefix,
		cfg:    cfg,
	}, nil
}

// ReportKey returns the object key for a report generated at the given
// time.
func (u *S3Uploader) ReportKey(localPath string, generatedAt time.Time) string {
	key := path.Join(generatedAt.Format("2006/01/02"), filepath.Base(localPath))
	if u.prefix != "" {
		key = path.Join(u.prefix, key)
	}
	return key
}

// UploadReport copies localPath to the bucket under the date-based key,
// tagging it with the right content type for browsers and report viewers.
func (u *S3Uploader) UploadReport(ctx context.Context, localPath string, generatedAt time.Time) error {
	dest := "s3://" + u.bucket + "/" + u.ReportKey(localPath, generatedAt)

	args := []string{
		"s3", "cp", localPath, dest,
		"--region", u.cfg.Region,
		"--content-type", contentType(localPath),
		"--only-show-errors",
	}
	if endpoint := endpointURL(u.cfg.Endpoint, u.cfg.UseSSL); endpoint != "" {
		args = append(args, "--endpoint-url", endpoint)
	}

	cmd := exec.CommandContext(ctx, "aws", args...)
	cmd.Env = credentialEnv(u.cfg)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("s3: uploading %s: %w: %s", dest, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func contentType(localPath string) string {
	if strings.EqualFold(filepath.Ext(localPath), ".md") {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func credentialEnv(cfg S3Config) []string {
	env := append(os.Environ(),
		"AWS_ACCESS_KEY_ID="+cfg.AccessKey,
		"AWS_SECRET_ACCESS_KEY="+cfg.SecretKey,
		"AWS_DEFAULT_REGION="+cfg.Region,
	)
	if strings.TrimSpace(cfg.SessionToken) != "" {
		env = append(env, "AWS_SESSION_TOKEN="+cfg.SessionToken)
	}
	return env
}

func endpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	switch {
	case endpoint == "":
		return ""
	case strings.Contains(endpoint, "://"):
		return endpoint
	case useSSL:
		return "https://" + endpoint
	default:
		return "http://" + endpoint
	}
}

func splitBucketURL(raw string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "s3://")
	if !ok {
		return "", "", fmt.Errorf("s3: destination %q must use the s3:// scheme", raw)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", errors.New("s3: destination missing bucket name")
	}
	return bucket, strings.Trim(prefix, "/"), nil
}
