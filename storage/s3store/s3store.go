/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package s3store implements the "s3" fdb-storage-type backend over any
// S3-compatible object store via github.com/minio/minio-go/v7.
package s3store

import (
	"bytes"
	"context"
	"io/ioutil"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/flakedb/ledger/errkind"
	"github.com/flakedb/ledger/storage"
)

// Backend stores each key as one object in Bucket.
type Backend struct {
	client *minio.Client
	bucket string
}

// Config names the endpoint and credentials needed to reach the object
// store; Secure selects https.
type Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// New dials the S3-compatible endpoint described by cfg.
func New(cfg Config) (*Backend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, storage.NewError("open", cfg.Bucket, errkind.InvalidConfiguration, 500, nil, err)
	}
	return &Backend{client: client, bucket: cfg.Bucket}, nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, storage.NewError("read", key, errkind.StorageIO, 500, nil, err)
	}
	defer obj.Close()
	data, err := ioutil.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, storage.NotFound("read", key)
		}
		return nil, storage.NewError("read", key, errkind.StorageIO, 500, nil, err)
	}
	return data, nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		return storage.NewError("write", key, errkind.StorageIO, 500, nil, err)
	}
	return nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, storage.NewError("exists", key, errkind.StorageIO, 500, nil, err)
	}
	return true, nil
}

// Rename has no atomic server-side primitive on S3: it is implemented as
// copy-then-delete, but the façade method stays named and typed Rename,
// never silently aliased to Read (§9 Open Question).
func (b *Backend) Rename(ctx context.Context, oldKey, newKey string) error {
	src := minio.CopySrcOptions{Bucket: b.bucket, Object: oldKey}
	dst := minio.CopyDestOptions{Bucket: b.bucket, Object: newKey}
	if _, err := b.client.CopyObject(ctx, dst, src); err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return storage.NotFound("rename", oldKey)
		}
		return storage.NewError("rename", oldKey, errkind.StorageIO, 500, nil, err)
	}
	return b.Delete(ctx, oldKey)
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return storage.NewError("delete", key, errkind.StorageIO, 500, nil, err)
	}
	return nil
}

// Close is idempotent; minio.Client holds no resources to release
// beyond its idle HTTP connections.
func (b *Backend) Close() error { return nil }
