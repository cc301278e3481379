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

package workflow

import (
	"github.com/rams30/AINewsVideo/internal/core/commands"
	"github.com/rams30/AINewsVideo/internal/core/cor"
	"github.com/rams30/AINewsVideo/internal/core/model"
)

// ReelDispatch hands a parsed request to the Runner and waits for the run.
// A busy runner is an error so the triggering message is redelivered later.
type ReelDispatch struct {
	cor.BaseCommand
	runner *Runner
}

func NewReelDispatch(name string, runner *Runner) *ReelDispatch {
	return &ReelDispatch{BaseCommand: *cor.NewBaseCommand(name), runner: runner}
}

func (c *ReelDispatch) Execute(context cor.Context) {
	req := context.Get(c.GetInputParam()).(*model.ReelRequest)
	reel, err := c.runner.Run(context.GetContext(), req)
	if err != nil {
		c.Fail(context, err)
		return
	}
	context.Add(commands.ParamReel, reel)
	c.Succeed(context, reel)
}

// NewReelRequestWorkflow is the chain fed by the request subscription:
// parse the message body, then run the reel.
func NewReelRequestWorkflow(runner *Runner) cor.Chain {
	out := cor.NewBaseChain("reel-request-workflow")
	out.AddCommand(commands.NewReelRequestReader("reel-request-reader"))
	out.AddCommand(NewReelDispatch("reel-dispatch", runner))
	return out
}
