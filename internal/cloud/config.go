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

// Package cloud holds the application configuration and the clients for every
// external service the reel pipeline talks to: the generative text model,
// speech synthesis, and the optional Google Cloud and AWS publishing targets.
//
// Configuration is TOML, loaded in layers by LoadConfig:
//   - <GCP_CONFIG_PREFIX>/.env.toml
//   - <GCP_CONFIG_PREFIX>/.env.<GCP_RUNTIME>.toml
//
// Secrets never live in TOML; see Credentials.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings leave every harm category unblocked. Headlines about
// crime or conflict would otherwise come back empty and force the fallback.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Strategy names accepted by News.Strategy and Images.Strategy.
const (
	NewsStrategyNewsAPI  = "newsapi"
	NewsStrategyRSS      = "rss"
	ImageStrategyPexels  = "pexels"
	ImageStrategyArticle = "article"
)

// GenAI backends accepted by Application.GenAIBackend.
const (
	GenAIBackendGemini = "gemini"
	GenAIBackendVertex = "vertex"
)

// Logical model names used as keys of Config.AgentModels.
const (
	ScriptWriterModel = "script-writer"
	ScenePlannerModel = "scene-planner"
)

type PromptTemplates struct {
	ScriptPrompt string `toml:"script"` // Go template; fields .Title and .Description.
	QueryPrompt  string `toml:"query"`  // Go template; field .Sentence.
}

type VertexAiLLMModel struct {
	Model              string  `toml:"model"`
	SystemInstructions string  `toml:"system_instructions"`
	Temperature        float32 `toml:"temperature"`
	TopP               float32 `toml:"top_p"`
	TopK               float32 `toml:"top_k"`
	MaxTokens          int32   `toml:"max_tokens"`
	OutputFormat       string  `toml:"output_format"`
	RateLimit          int     `toml:"rate_limit"` // Requests per second.
}

type News struct {
	Strategy string `toml:"strategy"`
	Endpoint string `toml:"endpoint"`
	Country  string `toml:"country"`
	PageSize int    `toml:"page_size"`
	Index    int    `toml:"index"` // Which headline to narrate.
	RSSURL   string `toml:"rss_url"`
}

type Images struct {
	Strategy       string `toml:"strategy"`
	PexelsEndpoint string `toml:"pexels_endpoint"`
	Orientation    string `toml:"orientation"`
	PerPage        int    `toml:"per_page"`
}

type Speech struct {
	Model  string `toml:"model"`
	Voice  string `toml:"voice"`
	Format string `toml:"format"`
}

type Video struct {
	OutputDir        string  `toml:"output_dir"`
	AudioFileName    string  `toml:"audio_file_name"`
	OutputFileName   string  `toml:"output_file_name"`
	DownloadsDir     string  `toml:"downloads_dir"` // "~" expands to the home directory.
	DownloadFileName string  `toml:"download_file_name"`
	FFmpegPath       string  `toml:"ffmpeg_path"`
	FPS              int     `toml:"fps"`
	Bitrate          string  `toml:"bitrate"`
	VideoCodec       string  `toml:"video_codec"`
	AudioCodec       string  `toml:"audio_codec"`
	Preset           string  `toml:"preset"`
	Width            int     `toml:"width"`
	Height           int     `toml:"height"`
	CaptionWidth     float64 `toml:"caption_width"`     // Fraction of image width.
	CaptionFontSize  float64 `toml:"caption_font_size"` // Fraction of image height.
	CaptionBoxAlpha  float64 `toml:"caption_box_alpha"`
	CaptionStroke    int     `toml:"caption_stroke"`
	FontFile         string  `toml:"font_file"`
}

type Animation struct {
	Enabled  bool    `toml:"enabled"`
	Endpoint string  `toml:"endpoint"`
	Prompt   string  `toml:"prompt"` // Prefix; the scene sentence is appended.
	Duration int     `toml:"duration"`
	Motion   float64 `toml:"motion"`
	Style    string  `toml:"style"`
}

type Storage struct {
	OutputBucket     string `toml:"output_bucket"`
	ObjectPrefix     string `toml:"object_prefix"`
	SignedURLMinutes int    `toml:"signed_url_minutes"`
}

type S3Config struct {
	Region       string `toml:"region"`
	Profile      string `toml:"profile"`
	Bucket       string `toml:"bucket"`
	KeyPrefix    string `toml:"key_prefix"`
	UsePathStyle bool   `toml:"use_path_style"`
}

type BigQueryDataSource struct {
	DatasetName string `toml:"dataset"`
	ReelTable   string `toml:"reel_table"`
}

type TopicSubscription struct {
	Name             string `toml:"name"`
	DeadLetterTopic  string `toml:"dead_letter_topic"`
	TimeoutInSeconds int    `toml:"timeout_in_seconds"`
}

type Server struct {
	Port     int    `toml:"port"`
	Schedule string `toml:"schedule"` // Cron spec; empty disables scheduled runs.
}

type Config struct {
	Application struct {
		Name                      string `toml:"name"`
		GoogleProjectId           string `toml:"google_project_id"`
		GoogleLocation            string `toml:"location"`
		GenAIBackend              string `toml:"genai_backend"`
		SignerServiceAccountEmail string `toml:"signer_service_account_email"`
		RequestTimeoutSeconds     int    `toml:"request_timeout_seconds"`
		MaxRetries                int    `toml:"max_retries"`
		EnableCloudTelemetry      bool   `toml:"enable_cloud_telemetry"`
	} `toml:"application"`
	News               News                         `toml:"news"`
	Images             Images                       `toml:"images"`
	Speech             Speech                       `toml:"speech"`
	Video              Video                        `toml:"video"`
	Animation          Animation                    `toml:"animation"`
	Storage            Storage                      `toml:"storage"`
	S3                 S3Config                     `toml:"s3"`
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"`
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"` // e.g. "reel_requests".
	Topics             map[string]string            `toml:"topics"`              // e.g. "reel_published".
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`
	Server             Server                       `toml:"server"`
}

// Keys of Config.TopicSubscriptions and Config.Topics.
const (
	ReelRequestSubscription = "reel_requests"
	ReelPublishedTopic      = "reel_published"
)

// NewConfig returns a Config holding the defaults. Loaded TOML overrides
// any of them.
func NewConfig() *Config {
	c := &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		Topics:             make(map[string]string),
		AgentModels:        make(map[string]VertexAiLLMModel),
	}
	c.Application.Name = "ai-news-video"
	c.Application.GenAIBackend = GenAIBackendGemini
	c.Application.RequestTimeoutSeconds = 60

	c.News = News{
		Strategy: NewsStrategyNewsAPI,
		Endpoint: "https://newsapi.org/v2/top-headlines",
		Country:  "us",
		PageSize: 5,
	}
	c.Images = Images{
		Strategy:       ImageStrategyPexels,
		PexelsEndpoint: "https://api.pexels.com/v1/search",
		Orientation:    "landscape",
		PerPage:        1,
	}
	c.Speech = Speech{Model: "tts-1", Voice: "alloy", Format: "mp3"}
	c.Video = Video{
		OutputDir:        "output",
		AudioFileName:    "audio.mp3",
		OutputFileName:   "final_video.mp4",
		DownloadsDir:     "~/Downloads",
		DownloadFileName: "ai_news_video.mp4",
		FFmpegPath:       "ffmpeg",
		FPS:              24,
		Bitrate:          "5000k",
		VideoCodec:       "libx264",
		AudioCodec:       "aac",
		Preset:           "medium",
		Width:            1280,
		Height:           720,
		CaptionWidth:     0.9,
		CaptionFontSize:  0.05,
		CaptionBoxAlpha:  0.7,
		CaptionStroke:    2,
	}
	c.Animation = Animation{
		Endpoint: "https://api.runwayml.com/v1/image-to-video",
		Prompt:   "cinematic news footage,",
		Duration: 3,
		Motion:   0.5,
		Style:    "cinematic",
	}
	c.Storage.SignedURLMinutes = 15
	c.PromptTemplates = PromptTemplates{
		ScriptPrompt: DefaultScriptPrompt,
		QueryPrompt:  DefaultQueryPrompt,
	}
	c.Server = Server{Port: 8080}
	return c
}

// DefaultScriptPrompt asks for roughly thirty seconds of plain narration.
const DefaultScriptPrompt = `Create a concise, engaging 30-second news narration script about:
Title: {{.Title}}
Description: {{.Description}}

The script should:
- Be pure narration without any scene descriptions or markers
- Be engaging and clear
- Be suitable for voiceover
- Be approximately 30 seconds when read aloud
- Focus on the key points of the story

Return only the narration text.`

// DefaultQueryPrompt asks for a stock-photo search phrase for one sentence.
const DefaultQueryPrompt = `Create a detailed search query for finding a relevant news image for this sentence:
"{{.Sentence}}"

The search query should:
- Be concise and specific (2-4 words)
- Focus on the main subject or action
- Use common search terms
- Be in English
- Not include any technical terms

Return only the search query.`
