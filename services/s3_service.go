package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrInvalidMediaKey is returned for read requests outside the post image area.
var ErrInvalidMediaKey = errors.New("invalid media key")

// PostImagePrefix is where uploaded post images live in the bucket.
const PostImagePrefix = "post-images/"

// Presigner is the subset of *s3.PresignClient the media service uses.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MediaService hands out presigned URLs for post images
type MediaService struct {
	Presigner Presigner
	Bucket    string
	Expires   time.Duration
	Now       func() time.Time
}

// NewS3Presigner builds the presign client the media service signs with.
func NewS3Presigner(cfg aws.Config) *s3.PresignClient {
	return s3.NewPresignClient(s3.NewFromConfig(cfg))
}

func NewMediaService(presigner Presigner, bucket string) *MediaService {
	return &MediaService{
		Presigner: presigner,
		Bucket:    bucket,
		Expires:   5 * time.Minute,
		Now:       time.Now,
	}
}

// GenerateUploadURL generates a presigned URL for uploading an image of userID
func (ms *MediaService) GenerateUploadURL(ctx context.Context, userID, fileName, fileType string) (string, string, error) {
	key := PostImagePrefix + userID + "/" + ms.Now().UTC().Format("20060102150405") + "-" + path.Base(fileName)
	presigned, err := ms.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ms.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(ms.Expires))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presigned.URL, key, nil
}

// GenerateReadURL generates a presigned URL for reading an uploaded image
func (ms *MediaService) GenerateReadURL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, PostImagePrefix) || strings.Contains(key, "..") {
		return "", ErrInvalidMediaKey
	}
	presigned, err := ms.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ms.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ms.Expires))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presigned.URL, nil
}
