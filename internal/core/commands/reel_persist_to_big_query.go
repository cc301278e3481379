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

package commands

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/bigquery"

	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// ReelPersistToBigQuery streams the reel's ledger row into BigQuery. The
// row is built with model.Reel.ToRecord, whose bigquery tags name the
// columns.
type ReelPersistToBigQuery struct {
	cor.BaseCommand
	client  *bigquery.Client
	dataset string
	table   string
}

func NewReelPersistToBigQuery(name string, client *bigquery.Client, dataset string, table string) *ReelPersistToBigQuery {
	out := &ReelPersistToBigQuery{BaseCommand: *cor.NewBaseCommand(name), client: client, dataset: dataset, table: table}
	out.InputParamName = ParamReel
	return out
}

func (s *ReelPersistToBigQuery) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).VideoPath != ""
}

func (s *ReelPersistToBigQuery) Execute(context cor.Context) {
	record := GetReel(context).ToRecord()

	i := s.client.Dataset(s.dataset).Table(s.table).Inserter()
	if err := i.Put(context.GetContext(), record); err != nil {
		s.Fail(context, fmt.Errorf("bigquery insert failed for reel %s: %w", record.Id, err))
		return
	}

	slog.InfoContext(context.GetContext(), "persisted reel", "id", record.Id, "title", record.Title)
	s.Succeed(context, record)
}
