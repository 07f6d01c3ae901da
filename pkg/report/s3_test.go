// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and prysm contributors
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = input
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &manager.UploadOutput{}, nil
}

func TestS3UploaderUpload(t *testing.T) {
	fake := &fakeUploader{}
	u := &S3Uploader{bucket: "disk-reports", prefix: "smart", uploader: fake}
	r := &Report{Device: "/dev/sda", NodeName: "node-a", GeneratedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)}

	key, err := u.Upload(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, "smart/node-a/sda/20261018T093000Z.json", key)
	assert.Equal(t, "disk-reports", aws.ToString(fake.input.Bucket))
	assert.Equal(t, key, aws.ToString(fake.input.Key))
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))

	var decoded Report
	require.NoError(t, json.Unmarshal(fake.body, &decoded))
	assert.Equal(t, "/dev/sda", decoded.Device)
}

func TestS3UploaderError(t *testing.T) {
	u := &S3Uploader{bucket: "disk-reports", uploader: &fakeUploader{err: errors.New("AccessDenied")}}
	r := &Report{Device: "/dev/sda", GeneratedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)}

	_, err := u.Upload(context.Background(), r)
	assert.EqualError(t, err, "error uploading report to s3://disk-reports/unknown/sda/20261018T093000Z.json: AccessDenied")
}

func TestNewS3UploaderNeedsBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestNewS3UploaderStaticCredentials(t *testing.T) {
	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket:    "disk-reports",
		Endpoint:  "http://rgw.local:7480",
		AccessKey: "AKIAEXAMPLE",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "disk-reports", u.bucket)
}
