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
	"strings"

	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ReelRequestReader parses a trigger message into a *model.ReelRequest. An
// empty body is a request for a default run.
type ReelRequestReader struct {
	cor.BaseCommand
}

func NewReelRequestReader(name string) *ReelRequestReader {
	return &ReelRequestReader{BaseCommand: *cor.NewBaseCommand(name)}
}

func (c *ReelRequestReader) Execute(context cor.Context) {
	in := context.Get(c.GetInputParam()).(string)

	req := &model.ReelRequest{}
	if body := strings.TrimSpace(in); body != "" {
		if err := json.Unmarshal([]byte(body), req); err != nil {
			c.Fail(context, fmt.Errorf("failed to unmarshal reel request: %w", err))
			return
		}
	}

	context.Add(ParamRequest, req)
	c.Succeed(context, req)
}
