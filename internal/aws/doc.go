// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws builds the S3 client behind s3:// manifest sources from the
// source.s3.* settings of the config file.
package aws
