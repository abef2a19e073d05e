// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/datdiff/internal/config"
	"github.com/tfctl/datdiff/internal/log"
)

// Settings are the overrides of the s3:// manifest source. The zero value
// inherits the shell's AWS setup (AWS_PROFILE, shared config, env, IMDS).
type Settings struct {
	Profile  string
	Region   string
	Endpoint string
	// Anonymous skips credential resolution, for public buckets.
	Anonymous bool
}

// SettingsFromConfig reads the source.s3.* keys of the config file.
func SettingsFromConfig() Settings {
	var s Settings
	s.Profile, _ = config.GetString("source.s3.profile", "")
	s.Region, _ = config.GetString("source.s3.region", "")
	s.Endpoint, _ = config.GetString("source.s3.endpoint", "")
	s.Anonymous, _ = config.GetBool("source.s3.anonymous", false)
	return s
}

// loadOptions translates s into SDK config load options.
func (s Settings) loadOptions() []func(*awsconfig.LoadOptions) error {
	var opts []func(*awsconfig.LoadOptions) error
	if s.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(s.Profile))
	}
	if s.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.Region))
	}
	if s.Anonymous {
		opts = append(opts, awsconfig.WithCredentialsProvider(awsv2.AnonymousCredentials{}))
	}
	return opts
}

// LoadAWSConfig loads AWS SDK v2 config with the overrides of s applied.
func LoadAWSConfig(ctx context.Context, s Settings) (awsv2.Config, error) {
	log.Debugf("aws settings: profile=%s region=%s anonymous=%t", s.Profile, s.Region, s.Anonymous)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, s.loadOptions()...)
	if err != nil {
		log.Debugf("aws config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	return cfg, nil
}

// NewS3 constructs the client of the manifest source. A custom endpoint
// (MinIO, LocalStack) switches the client to path-style addressing.
func NewS3(cfg awsv2.Config, s Settings) *s3v2.Client {
	client := s3v2.NewFromConfig(cfg, func(o *s3v2.Options) {
		if s.Endpoint == "" {
			return
		}
		o.BaseEndpoint = awsv2.String(s.Endpoint)
		o.UsePathStyle = true
	})
	log.Debugf("s3 client created: region=%s endpoint=%s", cfg.Region, s.Endpoint)
	return client
}

// NewManifestClient loads config and builds the S3 client in one step.
func NewManifestClient(ctx context.Context, s Settings) (*s3v2.Client, error) {
	cfg, err := LoadAWSConfig(ctx, s)
	if err != nil {
		return nil, err
	}
	return NewS3(cfg, s), nil
}
