package utils

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3-compatible object storage for ticket attachments. Credentials and
// endpoint come from the environment so deployments can point at any
// compatible provider.
var (
	accessKey = os.Getenv("S3_ACCESS_KEY")
	secretKey = os.Getenv("S3_SECRET_KEY")
	bucket    = envOr("S3_BUCKET", "prodesk-attachments")
	region    = envOr("S3_REGION", "us-east-1")
	endpoint  = os.Getenv("S3_ENDPOINT")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getS3Client() *s3.S3 {
	cfg := &aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}

// UploadAttachment stores a file under folder/fileName and returns the
// public URL.
func UploadAttachment(file []byte, fileName, folder, contentType string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", folder, fileName)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	s3Client := getS3Client()

	_, err := s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	if endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, bucket, filePath), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, filePath), nil
}
