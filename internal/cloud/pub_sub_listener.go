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

package cloud

import (
	"context"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/rams30/AINewsVideo/internal/core/cor"
)

// PubSubListener feeds each message of a subscription into a command. The
// message body is placed under cor.CtxIn as a string. Messages are handled
// one at a time and acked only when the command records no error.
type PubSubListener struct {
	client       *pubsub.Client
	subscription *pubsub.Subscription
	command      cor.Command
}

func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	command cor.Command,
) (cmd *PubSubListener, err error) {
	sub := pubsubClient.Subscription(subscriptionID)
	sub.ReceiveSettings.MaxOutstandingMessages = 1
	sub.ReceiveSettings.NumGoroutines = 1

	cmd = &PubSubListener{
		client:       pubsubClient,
		subscription: sub,
		command:      command,
	}
	return cmd, nil
}

// SetCommand sets the command once; later calls are ignored.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// Listen blocks until ctx is cancelled or the subscription fails.
func (m *PubSubListener) Listen(ctx context.Context) error {
	slog.InfoContext(ctx, "listening", "subscription", m.subscription.String())
	tracer := otel.Tracer("message-listener")

	return m.subscription.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
		spanCtx, span := tracer.Start(ctx, "receive-message")
		defer span.End()
		span.SetAttributes(attribute.String("msg.id", msg.ID))

		chainCtx := cor.NewBaseContext()
		defer chainCtx.Close()
		chainCtx.SetContext(spanCtx)
		chainCtx.Add(cor.CtxIn, string(msg.Data))

		m.command.Execute(chainCtx)

		if !chainCtx.HasErrors() {
			span.SetStatus(codes.Ok, "success")
			msg.Ack()
			return
		}
		span.SetStatus(codes.Error, "failed")
		slog.ErrorContext(spanCtx, "error executing chain", "error", chainCtx.Err())
		msg.Nack()
	})
}
