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

import "fmt"

// ValidatePassage validates a Passage according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Source must not be empty
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding pipeline runs)
//   - ID (0 is valid before content hashing)
func ValidatePassage(passage *Passage) error {
	if passage == nil {
		return fmt.Errorf("%w: passage is nil", ErrInvalidPassage)
	}

	if passage.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPassage, ErrEmptyContent)
	}

	if passage.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPassage, ErrEmptySource)
	}

	return nil
}

// ValidateStressType validates that a StressType has one of the eight defined values.
func ValidateStressType(stress StressType) error {
	if stress < StressCalm || stress > StressCrisis {
		return fmt.Errorf("%w: %d", ErrInvalidStressType, stress)
	}
	return nil
}

// ValidateUserProfile validates a UserProfile according to domain rules.
//
// Validation rules:
//   - Age must be in [0, 150]
//   - Stress must be a defined StressType
//
// Occupation codes and keywords are NOT validated here: unknown occupations
// degrade to a generic descriptor during query composition rather than
// failing the request.
func ValidateUserProfile(profile *UserProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if profile.Age < 0 || profile.Age > 150 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrInvalidAge)
	}

	if err := ValidateStressType(profile.Stress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	return nil
}
