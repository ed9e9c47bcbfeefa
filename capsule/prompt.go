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


package capsule

import (
	"fmt"
	"strings"

	"github.com/poiesic/respite/core"
	"github.com/poiesic/respite/profile"
)

const promptTemplate = `You are writing a short supportive message for someone under stress.

About them:
- Name: %s
- Age: %d
- Gender: %s
- Occupation: %s
- Stress profile: %s
- Recommended approaches: %s
- Things on their mind: %s

They just said:
"%s"

Reference material from stress-care research:
%s

Write a warm, specific reply in a few sentences. Draw on the reference
material where it fits, speak directly to what they said, and suggest one
small concrete step. Do not diagnose, prescribe, or mention the reference
material explicitly.`

// BuildPrompt renders the generation prompt from the user's input, their
// profile, and the assembled passage context.
func BuildPrompt(input string, userProfile *core.UserProfile, context string) string {
	var (
		nickname   = "friend"
		age        int
		gender     = "unspecified"
		occupation = "unspecified"
		stress     core.StressType
		keywords   = "none"
	)
	if userProfile != nil {
		if userProfile.Nickname != "" {
			nickname = userProfile.Nickname
		}
		age = userProfile.Age
		if userProfile.Gender != "" {
			gender = userProfile.Gender
		}
		if userProfile.Occupation != "" {
			occupation = profile.OccupationDescriptor(userProfile.Occupation)
		}
		stress = userProfile.Stress
		if len(userProfile.Keywords) > 0 {
			keywords = strings.Join(userProfile.Keywords, ", ")
		}
	}

	if context == "" {
		context = "No reference material was found for this request."
	}

	return fmt.Sprintf(promptTemplate,
		nickname,
		age,
		gender,
		occupation,
		stress.String(),
		strings.Join(profile.TherapyNames(stress), ", "),
		keywords,
		strings.TrimSpace(input),
		context,
	)
}
