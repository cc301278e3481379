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

// Package cor is a small Chain of Responsibility toolkit. A Chain runs its
// Commands one after another against a shared Context. Each command reads its
// input from the context, writes its output back, and records failures in the
// context's error map. The chain stops at the first recorded error unless it
// is told to keep going.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	// CtxIn is the default input key. BaseChain moves the previous command's
	// CtxOut value here before running the next command.
	CtxIn = "__IN__"
	// CtxOut is the default output key.
	CtxOut = "__OUT__"
)

// Context is the state shared by every command of a single chain execution.
type Context interface {
	// SetContext replaces the Go context used for cancellation and tracing.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value under key and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records err against key, normally the failing command's name.
	AddError(key string, err error)

	// GetErrors returns every recorded error keyed by command name.
	GetErrors() map[string]error

	// Err joins the recorded errors, or returns nil when there are none.
	Err() error

	Get(key string) interface{}

	Remove(key string)

	HasErrors() bool

	// AddTempFile registers a file that Close should delete.
	AddTempFile(file string)

	GetTempFiles() []string

	// Close deletes the registered temp files. Removal failures are logged
	// and otherwise ignored.
	Close()
}

// Executable is anything that can run against a Context.
type Executable interface {
	Execute(context Context)
}

// Command is a named, instrumented unit of work in a Chain.
type Command interface {
	Executable

	GetName() string

	// GetInputParam is the context key holding the command's primary input.
	GetInputParam() string

	// GetOutputParam is the context key receiving the command's primary output.
	GetOutputParam() string

	// IsExecutable reports whether the context satisfies the command's
	// preconditions. The chain skips commands that return false.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command composed of other commands run in insertion order.
type Chain interface {
	Command

	// ContinueOnFailure keeps the chain running after a command records an error.
	ContinueOnFailure(bool) Chain

	AddCommand(command Command) Chain

	// GetCommands returns the commands in execution order.
	GetCommands() []Command
}
