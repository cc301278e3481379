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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rams30/AINewsVideo/internal/core/model"
)

var (
	runNews    string
	runImages  string
	runIndex   int
	runAnimate bool
	runPublish bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Produce one news video and exit",
	Long: `Run fetches the top headlines, narrates the selected one and writes the final
video to the configured output directory. The exit status is non-zero when the run fails.`,
	RunE: runReel,
}

func init() {
	runCmd.Flags().StringVar(&runNews, "news", "", "News source: newsapi or rss (default from config)")
	runCmd.Flags().StringVar(&runImages, "images", "", "Image source: pexels or article (default from config)")
	runCmd.Flags().IntVar(&runIndex, "index", -1, "Headline index to narrate (default from config)")
	runCmd.Flags().BoolVar(&runAnimate, "animate", false, "Animate scene images before assembly")
	runCmd.Flags().BoolVar(&runPublish, "publish", false, "Upload the video to the configured buckets")
}

func runReel(cmd *cobra.Command, _ []string) error {
	config, err := GetConfig()
	if err != nil {
		return err
	}
	// Overrides go into the config so credential validation sees them.
	if runNews != "" {
		config.News.Strategy = runNews
	}
	if runImages != "" {
		config.Images.Strategy = runImages
	}
	if runIndex >= 0 {
		config.News.Index = runIndex
	}
	if runAnimate {
		config.Animation.Enabled = true
	}

	if err := InitState(cmd.Context()); err != nil {
		return err
	}

	reel, err := state.runner.Run(cmd.Context(), &model.ReelRequest{Publish: runPublish})
	if reel == nil {
		return err
	}
	if err != nil {
		for _, e := range unwrapAll(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "- %v\n", e)
		}
		return fmt.Errorf("reel %s failed", reel.Id)
	}

	fmt.Fprintln(cmd.OutOrStdout(), reel.VideoPath)
	if reel.DownloadPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "copied to %s\n", reel.DownloadPath)
	}
	if reel.SignedURL != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "stream: %s\n", reel.SignedURL)
	}
	return nil
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
