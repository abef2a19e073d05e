// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/datdiff/internal/config"
)

func TestSettingsFromConfig(t *testing.T) {
	saved := config.Config
	t.Cleanup(func() { config.Config = saved })

	config.Config = config.Type{Data: map[string]interface{}{
		"source": map[string]interface{}{
			"s3": map[string]interface{}{
				"region":    "eu-west-1",
				"endpoint":  "http://localhost:9000",
				"anonymous": true,
			},
		},
	}}

	s := SettingsFromConfig()
	assert.Equal(t, Settings{Region: "eu-west-1", Endpoint: "http://localhost:9000", Anonymous: true}, s)
}

func TestLoadOptions(t *testing.T) {
	assert.Empty(t, Settings{}.loadOptions())
	assert.Len(t, Settings{Profile: "dat-meta", Region: "us-east-1", Anonymous: true}.loadOptions(), 3)
}

// TestLoadAWSConfig needs no network; nothing resolves credentials until a
// request is signed.
func TestLoadAWSConfig(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), Settings{Region: "us-west-2", Anonymous: true})
	require.NoError(t, err)

	assert.Equal(t, "us-west-2", cfg.Region)
	assert.True(t, awsv2.IsCredentialsProvider(cfg.Credentials, awsv2.AnonymousCredentials{}))
}

func TestNewS3(t *testing.T) {
	cfg, err := LoadAWSConfig(context.Background(), Settings{Region: "us-east-1"})
	require.NoError(t, err)

	t.Run("default endpoint", func(t *testing.T) {
		o := NewS3(cfg, Settings{}).Options()
		assert.Nil(t, o.BaseEndpoint)
		assert.False(t, o.UsePathStyle)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		o := NewS3(cfg, Settings{Endpoint: "http://localhost:9000"}).Options()
		require.NotNil(t, o.BaseEndpoint)
		assert.Equal(t, "http://localhost:9000", *o.BaseEndpoint)
		assert.True(t, o.UsePathStyle)
	})
}

func TestNewManifestClient(t *testing.T) {
	client, err := NewManifestClient(context.Background(), Settings{Region: "us-east-1", Anonymous: true})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", client.Options().Region)
}
