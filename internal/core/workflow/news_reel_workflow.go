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

// Package workflow assembles the reel pipeline from commands and runs it.
// NewsReelWorkflow is the chain itself; Runner serializes runs coming from
// the CLI, HTTP, cron and Pub/Sub triggers.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
	"github.com/rams30/AINewsVideo/internal/core/services"
)

// NewsReelWorkflow runs, in order: news-fetch, script-writer, scene-planner,
// image-supplier, scene-animator, narrator and video-assembler, followed by
// whichever publishing steps are configured.
//
// news-fetch is left out when the request carries its own item, and
// scene-animator when no animator is configured.
type NewsReelWorkflow struct {
	cor.BaseCommand
	config         *cloud.Config
	serviceClients *cloud.ServiceClients
	providers      *Providers
	request        *model.ReelRequest
	scriptTemplate *template.Template
	queryTemplate  *template.Template
	chain          cor.Chain
}

func NewNewsReelWorkflow(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	providers *Providers,
	request *model.ReelRequest) (*NewsReelWorkflow, error) {

	if request == nil {
		request = &model.ReelRequest{}
	}
	if serviceClients == nil {
		serviceClients = &cloud.ServiceClients{}
	}

	scriptTemplate, err := template.New("script").Parse(config.PromptTemplates.ScriptPrompt)
	if err != nil {
		return nil, fmt.Errorf("invalid script prompt template: %w", err)
	}
	queryTemplate, err := template.New("query").Parse(config.PromptTemplates.QueryPrompt)
	if err != nil {
		return nil, fmt.Errorf("invalid query prompt template: %w", err)
	}

	out := &NewsReelWorkflow{
		BaseCommand:    *cor.NewBaseCommand("news-reel-workflow"),
		config:         config,
		serviceClients: serviceClients,
		providers:      providers,
		request:        request,
		scriptTemplate: scriptTemplate,
		queryTemplate:  queryTemplate,
	}
	out.initializeChain()
	return out, nil
}

func (m *NewsReelWorkflow) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil && commands.GetReel(context) != nil
}

func (m *NewsReelWorkflow) Execute(context cor.Context) {
	m.chain.Execute(context)
}

// GetChain exposes the assembled chain, mainly for inspection in tests.
func (m *NewsReelWorkflow) GetChain() cor.Chain {
	return m.chain
}

func (m *NewsReelWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())
	retries := m.config.Application.MaxRetries

	if m.request.Item == nil {
		index := m.config.News.Index
		if m.request.NewsIndex != nil {
			index = *m.request.NewsIndex
		}
		out.AddCommand(commands.NewNewsFetch("news-fetch", m.providers.News, index))
	}
	out.AddCommand(commands.NewScriptWriter("script-writer", m.providers.ScriptModel, m.scriptTemplate, retries))
	out.AddCommand(commands.NewScenePlanner("scene-planner", m.providers.QueryModel, m.queryTemplate, retries))
	out.AddCommand(commands.NewImageSupplier("image-supplier", m.providers.Images))
	if m.providers.Animator != nil {
		out.AddCommand(commands.NewSceneAnimator("scene-animator", m.providers.Animator, m.config.Video.OutputDir, m.config.Animation.Prompt))
	}
	out.AddCommand(commands.NewNarrator("narrator", m.providers.Speech, m.config.Video.OutputDir, m.config.Video.AudioFileName))
	out.AddCommand(commands.NewVideoAssembler("video-assembler", m.providers.Encoder, m.config.Video))

	m.addPublishing(out)
	m.chain = out
}

func (m *NewsReelWorkflow) addPublishing(out cor.Chain) {
	clients := m.serviceClients

	if m.request.Publish {
		published := false
		if clients.StorageClient != nil && m.config.Storage.OutputBucket != "" {
			out.AddCommand(commands.NewGCSFileUpload("reel-upload-gcs", clients.StorageClient, m.config.Storage.OutputBucket, m.config.Storage.ObjectPrefix))
			signer := &services.ReelService{
				StorageClient: clients.StorageClient,
				IAMClient:     clients.IAMClient,
				SignerEmail:   m.config.Application.SignerServiceAccountEmail,
			}
			expires := time.Duration(m.config.Storage.SignedURLMinutes) * time.Minute
			out.AddCommand(commands.NewReelSignURL("reel-sign-url", signer, expires))
			published = true
		}
		if clients.S3Client != nil && m.config.S3.Bucket != "" {
			out.AddCommand(commands.NewS3FileUpload("reel-upload-s3", clients.S3Client, m.config.S3.Bucket, m.config.S3.KeyPrefix))
			published = true
		}
		if !published {
			slog.Warn("publishing requested but no storage target is configured")
		}
	}

	if clients.BiqQueryClient != nil && m.config.BigQueryDataSource.ReelTable != "" {
		out.AddCommand(commands.NewReelPersistToBigQuery("reel-persist-bigquery", clients.BiqQueryClient,
			m.config.BigQueryDataSource.DatasetName, m.config.BigQueryDataSource.ReelTable))
	}

	if topic, ok := m.config.Topics[cloud.ReelPublishedTopic]; ok && topic != "" && clients.PubsubClient != nil {
		out.AddCommand(commands.NewReelNotify("reel-notify", clients.PubsubClient.Topic(topic)))
	}
}

// Run executes the workflow for reel and returns the joined chain errors.
// A request item, when present, takes the place of the news fetch.
func (m *NewsReelWorkflow) Run(ctx context.Context, reel *model.Reel) error {
	chainCtx := cor.NewBaseContext()
	defer chainCtx.Close()
	chainCtx.SetContext(ctx)
	chainCtx.Add(commands.ParamReel, reel)
	chainCtx.Add(commands.ParamRequest, m.request)
	if m.request.Item != nil {
		reel.Item = m.request.Item
		chainCtx.Add(cor.CtxIn, m.request.Item)
	}

	m.Execute(chainCtx)
	return chainCtx.Err()
}
