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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidPassage indicates a Passage failed validation.
	ErrInvalidPassage = errors.New("invalid passage")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptySource indicates the Source field is empty.
	ErrEmptySource = errors.New("source cannot be empty")

	// ErrInvalidStressType indicates a StressType outside the eight defined values.
	ErrInvalidStressType = errors.New("invalid stress type")

	// ErrInvalidProfile indicates a UserProfile failed validation.
	ErrInvalidProfile = errors.New("invalid user profile")

	// ErrInvalidAge indicates an age outside the accepted range.
	ErrInvalidAge = errors.New("age must be between 0 and 150")
)
