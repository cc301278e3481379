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

package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// ServiceClients holds every client a pipeline run may need. The Google
// Cloud and S3 clients are optional and nil unless their section of the
// configuration is filled in.
type ServiceClients struct {
	Credentials     *Credentials
	HTTPClient      *http.Client
	GenAIClient     *genai.Client
	AgentModels     map[string]*QuotaAwareGenerativeAIModel
	SpeechClient    *openai.Client
	StorageClient   *storage.Client
	PubsubClient    *pubsub.Client
	BiqQueryClient  *bigquery.Client
	IAMClient       *credentials.IamCredentialsClient
	S3Client        *S3
	PubSubListeners map[string]*PubSubListener
}

func (c *ServiceClients) Close() {
	if c.StorageClient != nil {
		_ = c.StorageClient.Close()
	}
	if c.PubsubClient != nil {
		_ = c.PubsubClient.Close()
	}
	if c.BiqQueryClient != nil {
		_ = c.BiqQueryClient.Close()
	}
	if c.IAMClient != nil {
		_ = c.IAMClient.Close()
	}
}

// NewHTTPClient returns the client used for every provider call; the
// timeout applies to each request.
func NewHTTPClient(config *Config) *http.Client {
	timeout := time.Duration(config.Application.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewCloudServiceClients validates creds against config and then connects
// every configured service. A missing credential yields a *ConfigError
// before any client is created.
func NewCloudServiceClients(ctx context.Context, config *Config, creds *Credentials) (cloud *ServiceClients, err error) {
	if err := creds.Validate(config); err != nil {
		return nil, err
	}

	httpClient := NewHTTPClient(config)

	clientConfig := &genai.ClientConfig{
		APIKey:     creds.GeminiAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if config.Application.GenAIBackend == GenAIBackendVertex {
		clientConfig = &genai.ClientConfig{
			Project:  config.Application.GoogleProjectId,
			Location: config.Application.GoogleLocation,
			Backend:  genai.BackendVertexAI,
		}
	}
	gc, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating genai client: %w", err)
	}

	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		model := &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](values.Temperature),
			TopP:            genai.Ptr[float32](values.TopP),
			TopK:            genai.Ptr[float32](values.TopK),
			MaxOutputTokens: values.MaxTokens,
			SafetySettings:  DefaultSafetySettings,
		}
		if values.SystemInstructions != "" {
			model.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}}
		}
		if values.OutputFormat != "" {
			model.ResponseMIMEType = values.OutputFormat
		}
		agentModels[amKey] = NewQuotaAwareModel(model, values.Model, gc.Models, values.RateLimit)
		slog.Debug("configured agent model", "key", amKey, "model", values.Model)
	}

	speechConfig := openai.DefaultConfig(creds.OpenAIAPIKey)
	speechConfig.HTTPClient = httpClient

	cloud = &ServiceClients{
		Credentials:     creds,
		HTTPClient:      httpClient,
		GenAIClient:     gc,
		AgentModels:     agentModels,
		SpeechClient:    openai.NewClientWithConfig(speechConfig),
		PubSubListeners: make(map[string]*PubSubListener),
	}

	if err := cloud.connectOptional(ctx, config); err != nil {
		cloud.Close()
		return nil, err
	}
	return cloud, nil
}

func (c *ServiceClients) connectOptional(ctx context.Context, config *Config) (err error) {
	projectId := config.Application.GoogleProjectId

	if config.Storage.OutputBucket != "" {
		if c.StorageClient, err = storage.NewClient(ctx); err != nil {
			return fmt.Errorf("error creating storage client: %w", err)
		}
	}

	if config.Application.SignerServiceAccountEmail != "" {
		if c.IAMClient, err = credentials.NewIamCredentialsClient(ctx); err != nil {
			return fmt.Errorf("error creating iam credentials client: %w", err)
		}
	}

	if config.BigQueryDataSource.DatasetName != "" && projectId != "" {
		if c.BiqQueryClient, err = bigquery.NewClient(ctx, projectId); err != nil {
			return fmt.Errorf("error creating bigquery client: %w", err)
		}
	}

	if (len(config.TopicSubscriptions) > 0 || len(config.Topics) > 0) && projectId != "" {
		if c.PubsubClient, err = pubsub.NewClient(ctx, projectId); err != nil {
			return fmt.Errorf("error creating pubsub client: %w", err)
		}
		for subKey, values := range config.TopicSubscriptions {
			listener, err := NewPubSubListener(c.PubsubClient, values.Name, nil)
			if err != nil {
				return err
			}
			c.PubSubListeners[subKey] = listener
		}
	}

	if config.S3.Bucket != "" {
		if c.S3Client, err = NewS3(ctx, config.S3); err != nil {
			return fmt.Errorf("error creating s3 client: %w", err)
		}
	}
	return nil
}
