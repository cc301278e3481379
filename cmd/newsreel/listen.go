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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rams30/AINewsVideo/internal/cloud"
	"github.com/rams30/AINewsVideo/internal/core/workflow"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run a reel for every message on the request subscription",
	Long: fmt.Sprintf(`Listen consumes the Pub/Sub subscription configured under
topic_subscriptions.%s. Each message body is a JSON reel request; an empty body
runs with the defaults. Messages whose run fails are nacked.`, cloud.ReelRequestSubscription),
	RunE: listen,
}

func listen(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := InitState(ctx); err != nil {
		return err
	}

	listener, ok := state.cloud.PubSubListeners[cloud.ReelRequestSubscription]
	if !ok {
		return fmt.Errorf("no %q subscription configured", cloud.ReelRequestSubscription)
	}
	listener.SetCommand(workflow.NewReelRequestWorkflow(state.runner))

	if err := listener.Listen(ctx); err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	return nil
}
