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

package model

import (
	"fmt"
	"strings"
)

// FallbackClosing ends every fallback script.
const FallbackClosing = "Stay tuned for more updates on this developing story."

// SentenceTerminator is the only separator SplitSentences cuts on; "!" and
// "?" stay inside their sentence.
const SentenceTerminator = "."

// SplitSentences cuts a narration into its sentences. Terminators are dropped,
// each fragment is trimmed and empty fragments are discarded. Order is kept.
func SplitSentences(script string) []string {
	fragments := strings.Split(script, SentenceTerminator)
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if s := strings.TrimSpace(f); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FallbackScript is the narration used when no model output is available.
// It always contains at least one terminated sentence.
func FallbackScript(title, description string) string {
	return fmt.Sprintf("%s. %s %s", title, description, FallbackClosing)
}
