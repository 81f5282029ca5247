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
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader buffers writes and puts the object when closed.
type Uploader struct {
	ctx context.Context
	//
	acl              types.ObjectCannedACL
	client           *s3.Client
	bucket           *string
	bucketKeyEnabled bool
	key              *string
	//
	buffer *bytes.Buffer
	closed bool
}

func (u *Uploader) Write(p []byte) (int, error) {
	if u.closed {
		return 0, io.ErrClosedPipe
	}
	return u.buffer.Write(p)
}

func (u *Uploader) Close() error {
	if u.closed {
		return io.ErrUnexpectedEOF
	}

	u.closed = true

	// create reader
	// a readseeker interface is needed to rewind
	// the reader to the beginning if the first attempt failed
	// and the client retries
	reader := bytes.NewReader(u.buffer.Bytes())

	// put the object
	_, err := u.client.PutObject(u.ctx, &s3.PutObjectInput{
		ACL:              u.acl,
		Body:             reader,
		Bucket:           u.bucket,
		BucketKeyEnabled: aws.Bool(u.bucketKeyEnabled),
		ContentLength:    aws.Int64(int64(reader.Len())),
		Key:              u.key,
	})
	if err != nil {
		return err
	}

	// reset buffer
	u.buffer = bytes.NewBuffer([]byte{})

	return nil
}

func NewUploader(ctx context.Context, client *s3.Client, bucket string, bucketKeyEnabled bool, key string) *Uploader {
	return &Uploader{
		ctx:              ctx,
		acl:              types.ObjectCannedACLBucketOwnerFullControl,
		client:           client,
		bucket:           aws.String(bucket),
		bucketKeyEnabled: bucketKeyEnabled,
		key:              aws.String(key),
		buffer:           bytes.NewBuffer([]byte{}),
	}
}
