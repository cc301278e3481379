// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ErrReelNotFound is returned by Get when no ledger row has the id.
var ErrReelNotFound = errors.New("reel not found")

// ReelService reads the reel ledger and signs playback URLs for published
// reels.
type ReelService struct {
	BigqueryClient *bigquery.Client
	StorageClient  *storage.Client
	IAMClient      *credentials.IamCredentialsClient // Optional; signs through IAM when set.
	SignerEmail    string
	DatasetName    string
	ReelTable      string
}

// GetFQN returns the table name in project.dataset.table form.
func (s *ReelService) GetFQN() string {
	fqn := s.BigqueryClient.Dataset(s.DatasetName).Table(s.ReelTable).FullyQualifiedName()
	return strings.Replace(fqn, ":", ".", -1)
}

func (s *ReelService) Get(ctx context.Context, id string) (*model.ReelRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindReelById, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	reel := &model.ReelRecord{}
	if err := itr.Next(reel); err != nil {
		if errors.Is(err, iterator.Done) {
			return nil, ErrReelNotFound
		}
		return nil, err
	}
	return reel, nil
}

// ListRecent returns up to limit reels, newest first.
func (s *ReelService) ListRecent(ctx context.Context, limit int) ([]*model.ReelRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListRecentReels, s.GetFQN()))
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: limit}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.ReelRecord, 0, limit)
	for {
		reel := &model.ReelRecord{}
		err := itr.Next(reel)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, reel)
	}
	return out, nil
}

// GenerateSignedURL returns a V4 GET URL for a gs:// object valid for
// expires. Without a signer email the storage client's own credentials sign.
func (s *ReelService) GenerateSignedURL(ctx context.Context, gcsURI string, expires time.Duration) (string, error) {
	obj, err := cloud.ParseGCSURI(gcsURI)
	if err != nil {
		return "", err
	}

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}
	if s.SignerEmail != "" && s.IAMClient != nil {
		opts.GoogleAccessID = s.SignerEmail
		opts.SignBytes = func(b []byte) ([]byte, error) {
			resp, err := s.IAMClient.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    fmt.Sprintf("projects/-/serviceAccounts/%s", s.SignerEmail),
				Payload: b,
			})
			if err != nil {
				return nil, fmt.Errorf("IAMClient.SignBlob: %w", err)
			}
			return resp.SignedBlob, nil
		}
	}

	u, err := s.StorageClient.Bucket(obj.Bucket).SignedURL(obj.Name, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).SignedURL(%q): %w", obj.Bucket, obj.Name, err)
	}
	return u, nil
}
