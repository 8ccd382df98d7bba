package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	sc "github.com/dmitrijs2005/placekeeper/internal/server/config"
)

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

	timeNow = time.Now
)

// ImageKinds lists the accepted values of UploadTarget kinds.
var ImageKinds = []string{"place", "user"}

// UploadTarget tells the client where to PUT an image and which URL to
// store as the place or user image afterwards.
type UploadTarget struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	ImageURL  string `json:"imageUrl"`
}

// ImageService hands out presigned S3 PUT URLs for place and user images.
type ImageService struct {
	config *sc.Config
}

func NewImageService(config *sc.Config) *ImageService {
	return &ImageService{config: config}
}

// StorageKey builds "<kind>s/<yyyy>/<mm>/<dd>/<uuid>".
func StorageKey(kind string) string {
	d := timeNow().UTC()
	return fmt.Sprintf("%ss/%d/%02d/%02d/%v", kind, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
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

// PresignUpload returns an upload target for an image of the given kind
// ("place" or "user").
func (s *ImageService) PresignUpload(ctx context.Context, kind string) (*UploadTarget, error) {
	if !isImageKind(kind) {
		return nil, fmt.Errorf("%w: unknown image kind %q", common.ErrorValidation, kind)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: s3 config: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(kind)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.UploadURLTTL))
	if err != nil {
		return nil, fmt.Errorf("%w: presign: %v", common.ErrorInternal, err)
	}

	return &UploadTarget{
		Key:       key,
		UploadURL: req.URL,
		ImageURL:  strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key,
	}, nil
}

func isImageKind(kind string) bool {
	return slices.Contains(ImageKinds, kind)
}
