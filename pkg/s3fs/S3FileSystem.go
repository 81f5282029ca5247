// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package s3fs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/navwar/gocopy/pkg/fs"
)

// S3FileSystem is a file system backed by an s3-compatible object store.
// Names are slash-separated paths whose first element is the bucket,
// e.g., "bucket/prefix/file.txt".
type S3FileSystem struct {
	client           *s3.Client
	region           string
	bucketKeyEnabled bool
}

func (s3fs *S3FileSystem) Base(name string) string {
	return path.Base(name)
}

// Chmod is a no-op, as s3 objects do not carry permission bits.
func (s3fs *S3FileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return nil
}

// Chtimes is a no-op, as s3 does not allow modifying last modified.
func (s3fs *S3FileSystem) Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error {
	return nil
}

func (s3fs *S3FileSystem) IsNotExist(err error) bool {
	var responseError *http.ResponseError
	if errors.As(err, &responseError) {
		if responseError.HTTPStatusCode() == 404 {
			return true
		}
	}
	return false
}

func (s3fs *S3FileSystem) Join(name ...string) string {
	return path.Join(name...)
}

// parse returns the bucket and key for the given name
func (s3fs *S3FileSystem) parse(name string) (string, string) {
	nameParts := Split(name)
	if len(nameParts) == 0 {
		return "", ""
	}
	return nameParts[0], path.Join(nameParts[1:]...)
}

// MkdirAll creates a zero-byte directory marker for the key.
// If the name is a bare bucket, then checks the bucket exists instead.
func (s3fs *S3FileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	bucket, key := s3fs.parse(name)
	if len(key) == 0 {
		_, err := s3fs.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(bucket),
		})
		return err
	}
	_, err := s3fs.client.PutObject(ctx, &s3.PutObjectInput{
		ACL:              types.ObjectCannedACLBucketOwnerFullControl,
		Body:             bytes.NewReader([]byte{}),
		Bucket:           aws.String(bucket),
		BucketKeyEnabled: aws.Bool(s3fs.bucketKeyEnabled),
		ContentLength:    aws.Int64(0),
		Key:              aws.String(key + "/"),
	})
	if err != nil {
		return err
	}
	return nil
}

func (s3fs *S3FileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	bucket, key := s3fs.parse(name)
	getObjectOutput, err := s3fs.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return NewS3File(name, getObjectOutput.Body, nil), nil
}

func (s3fs *S3FileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	bucket, key := s3fs.parse(name)
	uploader := NewUploader(ctx, s3fs.client, bucket, s3fs.bucketKeyEnabled, key)
	return NewS3File(name, nil, uploader), nil
}

func (s3fs *S3FileSystem) Size(ctx context.Context, name string) (int64, error) {
	bucket, key := s3fs.parse(name)
	headObjectOutput, err := s3fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return int64(0), err
	}
	return aws.ToInt64(headObjectOutput.ContentLength), nil
}

func (s3fs *S3FileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	bucket, key := s3fs.parse(name)
	if len(key) == 0 {
		_, err := s3fs.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: aws.String(bucket),
		})
		if err != nil {
			return nil, err
		}
		return NewS3FileInfo(name, time.Time{}, true, int64(0)), nil
	}
	headObjectOutput, err := s3fs.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	return NewS3FileInfo(
		name,
		aws.ToTime(headObjectOutput.LastModified),
		false,
		aws.ToInt64(headObjectOutput.ContentLength),
	), nil
}

func NewS3FileSystem(client *s3.Client, region string, bucketKeyEnabled bool) *S3FileSystem {
	return &S3FileSystem{
		client:           client,
		region:           region,
		bucketKeyEnabled: bucketKeyEnabled,
	}
}
