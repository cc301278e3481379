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
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"

	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// ReelNotify publishes the finished reel's record as JSON to a topic and
// waits for the server to acknowledge it.
type ReelNotify struct {
	cor.BaseCommand
	topic *pubsub.Topic
}

func NewReelNotify(name string, topic *pubsub.Topic) *ReelNotify {
	out := &ReelNotify{BaseCommand: *cor.NewBaseCommand(name), topic: topic}
	out.InputParamName = ParamReel
	return out
}

func (c *ReelNotify) IsExecutable(context cor.Context) bool {
	return hasReel(context) && GetReel(context).VideoPath != ""
}

func (c *ReelNotify) Execute(context cor.Context) {
	ctx := context.GetContext()
	reel := GetReel(context)

	data, err := json.Marshal(reel.ToRecord())
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to marshal reel record: %w", err))
		return
	}

	id, err := c.topic.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"reel_id": reel.Id},
	}).Get(ctx)
	if err != nil {
		c.Fail(context, fmt.Errorf("failed to publish reel %s: %w", reel.Id, err))
		return
	}

	slog.InfoContext(ctx, "published reel notification", "reel", reel.Id, "message", id)
	c.Succeed(context, id)
}
