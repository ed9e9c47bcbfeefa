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


// Package profile classifies users into stress types and holds the static
// personalization tables used during query composition.
//
// Classification maps three independent screening flags (depressive mood,
// anxiety, occupational strain) onto one of eight stress types via an
// explicit truth table. The remaining tables (therapy methods per stress
// type, stressor keywords per occupation, age brackets) are constant data:
// every lookup is total and falls back to a generic entry instead of
// returning an error, so query composition can never fail on a malformed
// profile.
package profile
