// Package prompt builds the generative-provider prompts. The field contracts
// spelled out here are mirrored by the validator shapes in the lookup package;
// change one and the other must follow.
package prompt

import (
	"fmt"
	"strings"
)

// Spec is a single generation request: instructions plus sampling knobs.
type Spec struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// platformNoun maps a platform to the term its creators go by in prompts.
var platformNoun = map[string]string{
	"youtube":  "YouTube influencers",
	"twitter":  "influential Twitter creators",
	"facebook": "influential Facebook creator pages",
}

// Discovery asks for exactly two influencer candidates in an industry.
func Discovery(platform, industry string) Spec {
	fields := []string{
		"- name: The account or channel name",
		fmt.Sprintf("- url: Their %s profile URL", title(platform)),
		`- subscribers: Approximate follower or subscriber count (e.g., "1.2M")`,
		"- description: A brief description of their content (around 100-150 characters)",
		fmt.Sprintf("- influence: Why they are influential in the %s industry", industry),
	}
	if platform != "youtube" {
		fields = append(fields, "- username: Their handle as it appears in the URL (without @)")
	}

	user := fmt.Sprintf(`Provide a list of 2 popular %s in the %s industry.

IMPORTANT CRITERIA:
- Focus ONLY on true content creators and social media influencers
- DO NOT include politicians, journalists, business executives, or corporate/brand accounts
- Prioritize individual creators who have built a following through their personal content
- They should be known primarily for their social media presence, not for other professional roles

IMPORTANT: Your response must be a valid JSON array containing exactly 2 objects. Each object must have these exact fields:
%s

Ensure all quotes are properly escaped and the JSON is valid. Respond with the JSON array only.`,
		platformNoun[platform], industry, strings.Join(fields, "\n"))

	return Spec{
		System:      fmt.Sprintf("You are a %s research expert. Always respond with valid JSON arrays containing account information.", title(platform)),
		User:        user,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

// Detail asks for a single account profile record.
func Detail(platform, name string) Spec {
	var fields string
	switch platform {
	case "twitter":
		fields = `- name: The account owner's real name
- username: The Twitter handle (without @)
- url: Their Twitter profile URL
- followers: Approximate follower count (e.g., "1.2M")
- description: Their Twitter bio/description
- engagement: Estimated engagement rate (e.g., "3.2%")
- created: Approximate year they joined
- postFrequency: How often they post (e.g., "Daily")
- contentFocus: What type of content they primarily post about
- verified: Whether the account is verified (true/false)`
	case "facebook":
		fields = `- name: The page name
- url: Their Facebook page URL
- followers: Approximate follower count (e.g., "1.2M")
- likes: Approximate page likes count (e.g., "982K")
- description: A comprehensive description of their content and page
- engagementRate: Estimated engagement rate (e.g., "3.2%")
- pageCreated: Approximate year the page was created
- postFrequency: How often they post (e.g., "Daily")
- contentFocus: What type of content they primarily share
- verified: Whether the page is verified (true/false)`
	default: // youtube
		fields = `- name: The channel name
- url: The channel URL
- subscribers: Approximate subscriber count (e.g., "1.2M")
- description: A comprehensive description of the channel's content
- contentFocus: What type of content they primarily publish
- created: Approximate year the channel was created`
	}

	user := fmt.Sprintf(`Provide detailed information about the %s account with username or name %q.

IMPORTANT: Your response must be a valid JSON object with these exact fields:
%s

Be as accurate as possible with real data. If you cannot find specific information, make a reasonable estimate based on similar accounts in the same industry.

Ensure all quotes are properly escaped and the JSON is valid. Respond with the JSON object only.`,
		title(platform), name, fields)

	return Spec{
		System:      fmt.Sprintf("You are a %s account research expert. Always respond with valid JSON objects containing account information.", title(platform)),
		User:        user,
		Temperature: 0.5,
		MaxTokens:   1000,
	}
}

// AnalysisInput is the resolved profile data an analysis prompt is built over.
type AnalysisInput struct {
	Name         string
	Description  string
	Subscribers  string
	Videos       string
	Views        string
	RecentTitles []string
}

// Analysis asks for a free-form brand-partnership pros/cons assessment. Its
// output is prose, not JSON, and is not schema-validated.
func Analysis(in AnalysisInput) Spec {
	var titles strings.Builder
	for i, t := range in.RecentTitles {
		fmt.Fprintf(&titles, "%d. %s\n", i+1, t)
	}

	user := fmt.Sprintf(`Analyze the following YouTube channel for brand partnership potential:

Channel Name: %s
Subscribers: %s
Total Videos: %s
Total Views: %s

Description: %s

Recent Video Titles:
%s
Create a concise pros and cons list for brands considering partnering with this influencer.

FORMAT YOUR RESPONSE EXACTLY AS FOLLOWS:

1. First, a one-sentence "Partnership Potential" summary with a rating (High/Medium/Low)
2. A list of "PROS:" (5 maximum) - Brief but specific advantages for brands
3. A list of "CONS:" (5 maximum) - Brief but specific disadvantages or risks
4. A short "Best fit for:" list of 3-5 specific brand categories or industries that would be most suitable

Keep explanations brief but informative. Avoid excessive words or marketing jargon.`,
		in.Name, in.Subscribers, in.Videos, in.Views, in.Description, titles.String())

	return Spec{
		System:      "You are an expert marketing analyst specializing in influencer partnerships. You provide concise, actionable pros and cons lists for brands considering influencer partnerships.",
		User:        user,
		Temperature: 0.7,
		MaxTokens:   800,
	}
}

func title(platform string) string {
	switch platform {
	case "youtube":
		return "YouTube"
	case "twitter":
		return "Twitter"
	case "facebook":
		return "Facebook"
	}
	return platform
}
