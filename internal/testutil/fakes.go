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

package test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

// FakeGenerator answers every prompt through Respond. Prompts are recorded.
type FakeGenerator struct {
	mu      sync.Mutex
	Respond func(prompt string) (string, error)
	Prompts []string
}

// StaticGenerator always answers text.
func StaticGenerator(text string) *FakeGenerator {
	return &FakeGenerator{Respond: func(string) (string, error) { return text, nil }}
}

// FailingGenerator always fails with err.
func FailingGenerator(err error) *FakeGenerator {
	return &FakeGenerator{Respond: func(string) (string, error) { return "", err }}
}

func (f *FakeGenerator) GenerateContent(_ context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	var prompt strings.Builder
	for _, c := range content {
		for _, p := range c.Parts {
			prompt.WriteString(p.Text)
		}
	}
	f.mu.Lock()
	f.Prompts = append(f.Prompts, prompt.String())
	f.mu.Unlock()

	text, err := f.Respond(prompt.String())
	if err != nil {
		return nil, err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}}},
	}, nil
}

func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Prompts)
}

// FakeSpeech returns Audio for any text, or Err.
type FakeSpeech struct {
	Audio []byte
	Err   error
	Texts []string
}

func (f *FakeSpeech) Synthesize(_ context.Context, text string) (io.ReadCloser, error) {
	f.Texts = append(f.Texts, text)
	if f.Err != nil {
		return nil, f.Err
	}
	return io.NopCloser(bytes.NewReader(f.Audio)), nil
}

// FakeNewsSource returns Items or Err.
type FakeNewsSource struct {
	Items []*model.NewsItem
	Err   error
}

func (f *FakeNewsSource) TopHeadlines(context.Context) ([]*model.NewsItem, error) {
	return f.Items, f.Err
}

// FakeImageSource serves Data for every scene except those listed in Fail.
type FakeImageSource struct {
	Data []byte
	Fail map[int]error
}

func (f *FakeImageSource) FetchImage(_ context.Context, scene *model.Scene, _ *model.NewsItem) (*model.SceneImage, error) {
	if err, ok := f.Fail[scene.Index]; ok {
		return nil, err
	}
	return &model.SceneImage{Data: f.Data, MIMEType: "image/png", Extension: "png"}, nil
}

// FakeEncoder reports Duration for any audio and writes small placeholder
// files instead of encoding. Rendered and Concatenated record the calls.
type FakeEncoder struct {
	Duration     time.Duration
	ProbeErr     error
	RenderErr    map[int]error
	ConcatErr    error
	Rendered     []model.SceneClip
	Concatenated []model.SceneClip
	AudioPath    string
	OutPath      string
}

func (f *FakeEncoder) Probe(context.Context, string) (time.Duration, error) {
	return f.Duration, f.ProbeErr
}

func (f *FakeEncoder) RenderScene(_ context.Context, clip model.SceneClip) error {
	if err, ok := f.RenderErr[clip.Index]; ok {
		return err
	}
	if err := os.WriteFile(clip.OutPath, []byte(fmt.Sprintf("scene %d", clip.Index)), 0644); err != nil {
		return err
	}
	f.Rendered = append(f.Rendered, clip)
	return nil
}

func (f *FakeEncoder) Concat(_ context.Context, clips []model.SceneClip, audioPath string, outPath string) error {
	f.Concatenated = append([]model.SceneClip(nil), clips...)
	f.AudioPath = audioPath
	f.OutPath = outPath
	if f.ConcatErr != nil {
		// Leave a partial file behind as a real encoder would.
		_ = os.WriteFile(outPath, []byte("partial"), 0644)
		return f.ConcatErr
	}
	return os.WriteFile(outPath, []byte("video"), 0644)
}

// TotalDuration sums the durations of the concatenated clips.
func (f *FakeEncoder) TotalDuration() time.Duration {
	var total time.Duration
	for _, c := range f.Concatenated {
		total += c.Duration
	}
	return total
}
