package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	sc "github.com/dmitrijs2005/gophbudget/internal/server/config"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ReceiptService hands out presigned S3 URLs for receipt photos. The server
// never sees the bytes.
type ReceiptService struct {
	config *sc.Config
	now    func() time.Time
}

func NewReceiptService(config *sc.Config) *ReceiptService {
	return &ReceiptService{config: config, now: time.Now}
}

func receiptPrefix(userID string) string {
	return "receipts/" + userID + "/"
}

// storageKey is receipts/<user>/<yyyy>/<mm>/<uuid>.
func (s *ReceiptService) storageKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("%s%04d/%02d/%s", receiptPrefix(userID), d.Year(), int(d.Month()), uuid.New())
}

func (s *ReceiptService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a fresh storage key for userID and a PUT URL for it.
func (s *ReceiptService) PresignUpload(ctx context.Context, userID, contentType string) (key, url string, err error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	key = s.storageKey(userID)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(pc, ctx, in, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", err
	}
	return key, req.URL, nil
}

// PresignDownload returns a GET URL for key. Keys outside the caller's
// prefix are common.ErrForbidden.
func (s *ReceiptService) PresignDownload(ctx context.Context, userID, key string) (string, error) {
	if userID == "" || !strings.HasPrefix(key, receiptPrefix(userID)) || strings.Contains(key, "..") {
		return "", common.ErrForbidden
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
