// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tfctl/datdiff/internal/log"
)

// GetObjectAPI is the slice of the S3 client S3Source needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3Source reads documents from Bucket beneath Prefix, for mirrors of the
// manifest repository kept in S3.
type S3Source struct {
	Bucket string
	Prefix string
	client GetObjectAPI
}

// NewS3 returns an S3Source using client.
func NewS3(client GetObjectAPI, bucket, prefix string) *S3Source {
	return &S3Source{Bucket: bucket, Prefix: prefix, client: client}
}

func (s *S3Source) key(p string) string {
	return path.Join(s.Prefix, p)
}

func (s *S3Source) Location(p string) string {
	return "s3://" + s.Bucket + "/" + s.key(p)
}

func (s *S3Source) String() string {
	return "s3://" + path.Join(s.Bucket, s.Prefix)
}

// Fetch reads the object at p. A missing object satisfies
// errors.Is(err, ErrNotFound).
func (s *S3Source) Fetch(ctx context.Context, p string) ([]byte, error) {
	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.Bucket),
		Key:    awsv2.String(s.key(p)),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", s.Location(p), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get S3 object %s: %w", s.Location(p), err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	log.Debugf("s3 get %s: bytes=%d", s.Location(p), len(data))

	return data, nil
}
