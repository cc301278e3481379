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
	"io"

	"github.com/sashabaranov/go-openai"
)

// SpeechSynthesizer turns narration text into an audio stream. Callers
// close the returned reader.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

// OpenAISpeech synthesizes with the OpenAI audio/speech endpoint.
type OpenAISpeech struct {
	Client *openai.Client
	Model  string
	Voice  string
	Format string
}

func NewOpenAISpeech(client *openai.Client, model, voice, format string) *OpenAISpeech {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	if format == "" {
		format = string(openai.SpeechResponseFormatMp3)
	}
	return &OpenAISpeech{Client: client, Model: model, Voice: voice, Format: format}
}

func (s *OpenAISpeech) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := s.Client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.Voice),
		ResponseFormat: openai.SpeechResponseFormat(s.Format),
	})
	if err != nil {
		return nil, &ProviderError{Provider: "openai-speech", StatusCode: statusOf(err), Err: err}
	}
	return resp, nil
}

func statusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
