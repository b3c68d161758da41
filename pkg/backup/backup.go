// Package backup exports the memo store to S3 as JSON snapshots and restores
// it from them.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx, config.WithRegion("us-east-1"))
//	b := backup.New(s3.NewFromConfig(cfg), "my-bucket", "datedmemo/", nil)
//	key, err := b.Export(ctx, store)
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmhodges/clock"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/memo"
)

// S3API is the subset of *s3.Client used for snapshots.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// keyTimeFormat sorts lexically in time order.
const keyTimeFormat = "20060102T150405Z"

// Snapshot is the JSON document written per export.
type Snapshot struct {
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	Memos     []memo.Memo `json:"memos"`
}

// Backup writes and reads snapshots under one bucket prefix.
type Backup struct {
	client S3API
	bucket string
	prefix string
	clock  clock.Clock
}

// New returns a Backup. A nil clk uses the system clock.
func New(client S3API, bucket, prefix string, clk clock.Clock) *Backup {
	if clk == nil {
		clk = clock.New()
	}
	return &Backup{
		client: client,
		bucket: bucket,
		prefix: strings.TrimSuffix(prefix, "/"),
		clock:  clk,
	}
}

// Key returns the object key of a snapshot taken at t.
func (b *Backup) Key(t time.Time) string {
	return path.Join(b.prefix, "memos-"+t.UTC().Format(keyTimeFormat)+".json")
}

// Export writes every memo in store to a new snapshot and returns its key.
func (b *Backup) Export(ctx context.Context, store memo.Store) (string, error) {
	memos, err := store.List(ctx)
	if err != nil {
		return "", err
	}
	if memos == nil {
		memos = []memo.Memo{}
	}

	now := b.clock.Now()
	data, err := json.MarshalIndent(Snapshot{Version: 1, CreatedAt: now.UTC(), Memos: memos}, "", "  ")
	if err != nil {
		return "", errors.New("E500").Wrap(err)
	}

	key := b.Key(now)
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", errors.New("E500").WithDetail(fmt.Sprintf("Writing s3://%s/%s failed.", b.bucket, key)).Wrap(err)
	}
	return key, nil
}

// Read fetches and decodes the snapshot at key.
func (b *Backup) Read(ctx context.Context, key string) (Snapshot, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Snapshot{}, errors.New("E501").WithDetail(fmt.Sprintf("Reading s3://%s/%s failed.", b.bucket, key)).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Snapshot{}, errors.New("E501").Wrap(err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.New("E501").WithDetail(key + " is not a memo snapshot.").Wrap(err)
	}
	return snap, nil
}

// Restore puts every memo of the snapshot at key into store. Memos with the
// same id are replaced; others in store are left alone.
func (b *Backup) Restore(ctx context.Context, store memo.Store, key string) (int, error) {
	snap, err := b.Read(ctx, key)
	if err != nil {
		return 0, err
	}
	for i, m := range snap.Memos {
		if err := store.Put(ctx, m); err != nil {
			return i, err
		}
	}
	return len(snap.Memos), nil
}

// List returns every snapshot key under the prefix, oldest first.
func (b *Backup) List(ctx context.Context) ([]string, error) {
	var (
		keys  []string
		token *string
	)
	for {
		out, err := b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(b.bucket),
			Prefix:            aws.String(path.Join(b.prefix, "memos-")),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, errors.New("E501").Wrap(err)
		}
		for _, obj := range out.Contents {
			if k := aws.ToString(obj.Key); strings.HasSuffix(k, ".json") {
				keys = append(keys, k)
			}
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}
	return keys, nil
}

// Latest returns the newest snapshot key.
func (b *Backup) Latest(ctx context.Context) (string, error) {
	keys, err := b.List(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", errors.New("E502").WithDetail(fmt.Sprintf("s3://%s/%s holds no snapshots.", b.bucket, b.prefix))
	}
	latest := keys[0]
	for _, k := range keys[1:] {
		if k > latest {
			latest = k
		}
	}
	return latest, nil
}
