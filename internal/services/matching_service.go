package services

import (
	"strings"

	"github.com/NikitaReddy9/applyFlow/internal/discovery"
	"github.com/NikitaReddy9/applyFlow/internal/models"
)

const (
	baseScore     = 50
	roleBonus     = 20
	techBonus     = 5
	techBonusCap  = 20
	keywordBonus  = 5
	locationBonus = 10
	remoteBonus   = 5
	minScore      = 0
	maxScore      = 100
)

// MatchScore rates a posting against a user's preferences on a 0-100 scale
// using plain substring checks.
//
// A role match counts once no matter how many roles hit, while every
// keyword hit adds.
func MatchScore(p discovery.Posting, prefs models.JobPreferences) int {
	corpus := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
	score := baseScore

	// --- Role: first hit only ---
	for _, role := range prefs.RoleList() {
		if strings.Contains(corpus, strings.ToLower(role)) {
			score += roleBonus
			break
		}
	}

	// --- Tech stack: distinct terms, capped ---
	tech := 0
	seen := make(map[string]bool)
	for _, term := range prefs.TechList() {
		t := strings.ToLower(term)
		if seen[t] {
			continue
		}
		seen[t] = true
		if strings.Contains(corpus, t) {
			tech += techBonus
		}
	}
	if tech > techBonusCap {
		tech = techBonusCap
	}
	score += tech

	// --- Keywords: every hit adds ---
	for _, kw := range prefs.KeywordList() {
		if strings.Contains(corpus, strings.ToLower(kw)) {
			score += keywordBonus
		}
	}

	// --- Location ---
	loc := strings.ToLower(p.Location)
	if city := preferredCity(prefs.Location); city != "" && strings.Contains(loc, city) {
		score += locationBonus
	}
	if strings.Contains(loc, "remote") {
		score += remoteBonus
	}

	return clamp(score, minScore, maxScore)
}

// preferredCity is the first comma-delimited segment of the preferred location.
func preferredCity(location string) string {
	first, _, _ := strings.Cut(location, ",")
	return strings.ToLower(strings.TrimSpace(first))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
