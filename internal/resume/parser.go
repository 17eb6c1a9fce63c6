// Package resume turns raw resume text into profile hints: known skills,
// the first phone number and a short bio. All functions are best effort and
// never fail; unknown input yields empty results.
package resume

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const bioMaxLen = 300

// skillVocabulary is matched case-insensitively as substrings; output keeps this order.
var skillVocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Golang", "Rust", "Kotlin", "Swift",
	"PHP", "Ruby", "C++", "C#",
	"React", "Angular", "Vue", "Next.js", "Node.js", "Express", "Django", "Flask",
	"Spring", "Laravel", "HTML", "CSS", "Tailwind",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "GraphQL",
	"Docker", "Kubernetes", "AWS", "Azure", "GCP", "Linux", "Git", "CI/CD",
	"Machine Learning", "Data Analysis", "Figma",
}

var (
	phonePattern   = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	bioHeading     = regexp.MustCompile(`(?i)^(summary|professional summary|profile|objective|about me)`)
	bioDisallowed  = regexp.MustCompile(`[^\w\s.,;:!?'"()\-/&%+@#]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Profile is what signup copies onto the user record.
type Profile struct {
	Skills []string
	Phone  string
	Bio    string
}

// Parse runs all extractors over text.
func Parse(text string) Profile {
	return Profile{
		Skills: ExtractSkills(text),
		Phone:  ExtractPhone(text),
		Bio:    ExtractBio(text),
	}
}

// ExtractSkills returns vocabulary terms found in text, in vocabulary order.
func ExtractSkills(text string) []string {
	skills := []string{}
	if strings.TrimSpace(text) == "" {
		return skills
	}

	lower := strings.ToLower(text)
	seen := make(map[string]struct{}, len(skillVocabulary))
	for _, skill := range skillVocabulary {
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		if strings.Contains(lower, key) {
			seen[key] = struct{}{}
			skills = append(skills, skill)
		}
	}
	return skills
}

// ExtractPhone returns the first phone-like match or "".
func ExtractPhone(text string) string {
	return strings.TrimSpace(phonePattern.FindString(text))
}

// ExtractBio takes up to three lines after a summary-style heading, or lines
// 3-6 when there is no heading, then cleans and truncates the result.
func ExtractBio(text string) string {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return ""
	}

	var picked []string
	for i, line := range lines {
		if bioHeading.MatchString(line) {
			picked = window(lines, i+1, 3)
			break
		}
	}
	if len(picked) == 0 {
		picked = window(lines, 2, 4)
	}

	return cleanBio(strings.Join(picked, " "))
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func window(lines []string, from, n int) []string {
	if from >= len(lines) {
		return nil
	}
	to := from + n
	if to > len(lines) {
		to = len(lines)
	}
	return lines[from:to]
}

func cleanBio(s string) string {
	s = bioDisallowed.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
	if utf8.RuneCountInString(s) <= bioMaxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:bioMaxLen]) + "..."
}
