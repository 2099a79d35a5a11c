// Package storage provides access to the transcript archive in MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"supportmatch-go/internal/config"
	"supportmatch-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is the global MinIO client instance.
var MinioClient *minio.Client

// InitMinIO initializes the MinIO client and ensures the bucket exists.
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("failed to initialize MinIO client", err)
	}

	log.Info("MinIO client initialized successfully")

	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("failed to check MinIO bucket", err)
	}

	if !exists {
		log.Infof("bucket '%s' does not exist, creating...", bucketName)
		err = MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Fatal("failed to create MinIO bucket", err)
		}
		log.Infof("bucket '%s' created successfully", bucketName)
	} else {
		log.Infof("bucket '%s' already exists", bucketName)
	}
}

// transcriptObjectName is the archive key for one conversation's transcript.
func transcriptObjectName(conversationID string) string {
	return fmt.Sprintf("transcripts/%s.txt", conversationID)
}

// PutTranscript archives the full transcript of a conversation.
func PutTranscript(ctx context.Context, bucketName, conversationID, transcript string) error {
	reader := strings.NewReader(transcript)
	_, err := MinioClient.PutObject(ctx, bucketName, transcriptObjectName(conversationID), reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	return err
}

// GetTranscript fetches the archived transcript of a conversation.
func GetTranscript(ctx context.Context, bucketName, conversationID string) (string, error) {
	object, err := MinioClient.GetObject(ctx, bucketName, transcriptObjectName(conversationID), minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get transcript object: %w", err)
	}
	defer object.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, object); err != nil {
		return "", fmt.Errorf("failed to read transcript object: %w", err)
	}
	return buf.String(), nil
}

// GetPresignedURL generates a presigned URL for a given object.
func GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		log.Errorf("error generating presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
