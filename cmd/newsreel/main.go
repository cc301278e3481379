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

// Command newsreel turns a trending headline into a narrated, captioned
// video. It runs once from the command line, serves an HTTP trigger with an
// optional cron schedule, or listens on a Pub/Sub subscription.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/telemetry"
)

var (
	configDir string
	runtimeID string
	envFile   string
	logFile   string
	debug     bool
)

var rootCmd = &cobra.Command{
	Use:   "newsreel",
	Short: "Generate narrated news videos from trending headlines",
	Long: `newsreel fetches a top headline, writes a short narration with a language model,
finds an image for every sentence, synthesizes the voiceover and renders a captioned MP4.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		state.logCloser = telemetry.SetupLogging(logFile, level)
		return SetupOS()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "configs", "Directory holding the .env*.toml files")
	rootCmd.PersistentFlags().StringVar(&runtimeID, "runtime", "local", "Runtime overlay, loads .env.<runtime>.toml")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with API keys")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "app.log", "Also write logs to this file; empty disables")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listenCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	state.Close(ctx)
	if err != nil {
		var cfgErr *cloud.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\nSee .env.example for the expected variables.\n", cfgErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
