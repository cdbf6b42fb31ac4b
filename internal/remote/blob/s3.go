package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/compose-report/reportsync/internal/common"
)

// partSize is the multipart chunk size. 5 MiB is the S3 minimum part size.
const partSize = 5 * 1024 * 1024

// Config holds the settings needed to reach an S3-compatible endpoint.
type Config struct {
	Region          string
	BaseEndpoint    string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// S3Store implements Store on top of an S3-compatible service (AWS S3,
// MinIO). Resumable sessions map to multipart uploads: the session token
// serializes the bucket/key/uploadID triple, and resuming lists the parts
// already stored to continue from the next one.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Store builds an S3Store from static credentials and an optional
// custom endpoint.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			// MinIO and other self-hosted endpoints need path-style addressing.
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Start uploads the local file at localURI to remotePath. Small files go up
// in a single request. Larger files use a multipart upload; once the
// multipart session exists, any transfer failure is reported as a partial
// outcome carrying the session token rather than an error.
func (s *S3Store) Start(ctx context.Context, remotePath, localURI string) (Outcome, error) {
	f, err := os.Open(localURI)
	if err != nil {
		return Outcome{}, fmt.Errorf("open local image: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Outcome{}, fmt.Errorf("stat local image: %w", err)
	}

	if fi.Size() <= partSize {
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(remotePath),
			Body:   f,
		})
		if err != nil {
			return Outcome{}, fmt.Errorf("put object: %w", err)
		}
		return Outcome{Done: true}, nil
	}

	create, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remotePath),
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("create multipart upload: %w", err)
	}

	sess := session{Bucket: s.bucket, Key: remotePath, UploadID: aws.ToString(create.UploadId)}
	token, err := sess.encode()
	if err != nil {
		return Outcome{}, err
	}

	return s.uploadParts(ctx, f, sess, token, nil, 1)
}

// Resume continues the multipart upload identified by sessionToken. Parts
// already stored are discovered via ListParts, so no local bookkeeping is
// needed between attempts.
func (s *S3Store) Resume(ctx context.Context, sessionToken, localURI string) (Outcome, error) {
	sess, err := decodeSession(sessionToken)
	if err != nil {
		return Outcome{}, err
	}

	completed, err := s.listCompletedParts(ctx, sess)
	if err != nil {
		var noUpload *types.NoSuchUpload
		if errors.As(err, &noUpload) {
			// The upload id is gone. If the object exists the previous
			// attempt completed but the queue row survived.
			if s.objectExists(ctx, sess) {
				return Outcome{Done: true}, nil
			}
		}
		return Outcome{}, fmt.Errorf("list parts: %w", err)
	}

	f, err := os.Open(localURI)
	if err != nil {
		return Outcome{}, fmt.Errorf("open local image: %w", err)
	}
	defer f.Close()

	next := int32(len(completed)) + 1
	return s.uploadParts(ctx, f, sess, sessionToken, completed, next)
}

// uploadParts streams parts starting at part number `from` (1-based) and
// finishes the multipart upload. A transfer failure past this point is a
// partial outcome: the session token stays valid for a later resume.
func (s *S3Store) uploadParts(ctx context.Context, f *os.File, sess session, token string, completed []types.CompletedPart, from int32) (Outcome, error) {
	if _, err := f.Seek(int64(from-1)*partSize, io.SeekStart); err != nil {
		return Outcome{}, fmt.Errorf("seek local image: %w", err)
	}

	buf := make([]byte, partSize)
	part := from
	for {
		n, readErr := io.ReadFull(f, buf)
		if n > 0 {
			out, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
				Bucket:     aws.String(sess.Bucket),
				Key:        aws.String(sess.Key),
				UploadId:   aws.String(sess.UploadID),
				PartNumber: aws.Int32(part),
				Body:       bytes.NewReader(buf[:n]),
			})
			if err != nil {
				return Outcome{SessionToken: token}, nil
			}
			completed = append(completed, types.CompletedPart{
				ETag:       out.ETag,
				PartNumber: aws.Int32(part),
			})
			part++
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return Outcome{SessionToken: token}, nil
		}
	}

	_, err := s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(sess.Bucket),
		Key:             aws.String(sess.Key),
		UploadId:        aws.String(sess.UploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return Outcome{SessionToken: token}, nil
	}
	return Outcome{Done: true}, nil
}

func (s *S3Store) listCompletedParts(ctx context.Context, sess session) ([]types.CompletedPart, error) {
	var completed []types.CompletedPart
	var marker *string
	for {
		out, err := s.client.ListParts(ctx, &s3.ListPartsInput{
			Bucket:           aws.String(sess.Bucket),
			Key:              aws.String(sess.Key),
			UploadId:         aws.String(sess.UploadID),
			PartNumberMarker: marker,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range out.Parts {
			completed = append(completed, types.CompletedPart{ETag: p.ETag, PartNumber: p.PartNumber})
		}
		if !aws.ToBool(out.IsTruncated) {
			return completed, nil
		}
		marker = out.NextPartNumberMarker
	}
}

func (s *S3Store) objectExists(ctx context.Context, sess session) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(sess.Bucket),
		Key:    aws.String(sess.Key),
	})
	return err == nil
}

// Delete removes the blob at remotePath, reporting common.ErrNotFound for
// blobs that are already gone.
func (s *S3Store) Delete(ctx context.Context, remotePath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remotePath),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return common.ErrNotFound
		}
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// FetchURL returns a presigned GET URL for the blob at remotePath.
func (s *S3Store) FetchURL(ctx context.Context, remotePath string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remotePath),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}
