package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"salesflow/config"
	"salesflow/logger"
)

// Uploader pushes export artifacts to S3 under a per-run prefix:
// {prefix}/{date}/{run_id}/{filename}.
type Uploader struct {
	client *s3.Client
	bucket string
	prefix string
	runID  string
	log    *logger.Log
}

func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	log := logger.GetLogger()

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	u := &Uploader{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		runID:  uuid.New().String(),
		log:    log,
	}
	log.WithComponent("export").WithFields(logger.Fields{
		"bucket": cfg.Bucket,
		"region": cfg.Region,
		"run_id": u.runID,
	}).Info("s3 uploader initialized")
	return u, nil
}

// RunID identifies this uploader's run prefix.
func (u *Uploader) RunID() string { return u.runID }

// Upload puts one artifact and returns its object key.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	key := path.Join(u.prefix, time.Now().UTC().Format("2006-01-02"), u.runID, filename)
	log := u.log.WithComponent("export").WithFields(logger.Fields{
		"s3_key":    key,
		"data_size": len(data),
	})

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"salesflow-run-id": u.runID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3 bucket %s: %w", u.bucket, err)
	}

	logger.IncrementExport()
	log.Info("artifact uploaded")
	return key, nil
}
