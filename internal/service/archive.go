package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
)

// ArchiveSink receives every DailyPlan when it becomes historical.
type ArchiveSink interface {
	Archive(ctx context.Context, plan *models.DailyPlan) error
}

// S3PutObjectAPI is the subset of the S3 client used for exports.
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ArchiveSink exports archived daily plans as JSON objects.
type S3ArchiveSink struct {
	client S3PutObjectAPI
	bucket string
}

var _ ArchiveSink = (*S3ArchiveSink)(nil)

func NewS3ArchiveSink(client S3PutObjectAPI, bucket string) *S3ArchiveSink {
	return &S3ArchiveSink{client: client, bucket: bucket}
}

// NewS3ArchiveSinkFromConfig builds the sink from the shared S3 configuration.
func NewS3ArchiveSinkFromConfig(s3cfg *config.S3Config) *S3ArchiveSink {
	return NewS3ArchiveSink(s3cfg.Client, s3cfg.BucketName)
}

// ArchiveObjectKey is the object key of one archived day.
func ArchiveObjectKey(plan *models.DailyPlan) string {
	return fmt.Sprintf("daily-plans/%s/%s.json", plan.UserID, plan.Date)
}

func (s *S3ArchiveSink) Archive(ctx context.Context, plan *models.DailyPlan) error {
	body, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode daily plan: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ArchiveObjectKey(plan)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload daily plan archive: %w", err)
	}
	return nil
}
