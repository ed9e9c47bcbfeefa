// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package ai provides abstractions for the AI services respite depends on.
//
// This package defines interfaces for text embeddings and supportive-message
// generation. It follows the dependency inversion principle: the retrieval
// core and the capsule pipeline depend on these abstractions, never on a
// concrete provider, so the ranking algorithm is testable in complete
// isolation from any live model.
//
// The package is designed around three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - MessageGenerator: produces the final supportive message from a prompt
//   - AIProvider: aggregates both for convenient initialization
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert call counts.
//
// Usage:
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "burned out at work")
//	message, err := provider.Generator().GenerateMessage(ctx, prompt)
package ai
