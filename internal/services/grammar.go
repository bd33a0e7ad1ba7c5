package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"speaksure/internal/models"
)

// Rule categories and rule ids that produce noise rather than signal for
// spoken-language transcripts.
var (
	excludedCategories = []string{"PUNCTUATION", "CASING", "TYPOS"}
	excludedRules      = map[string]bool{
		"MORFOLOGIK_RULE_EN_US": true,
		"WHITESPACE_RULE":       true,
	}
)

// GrammarService checks a transcript against the LanguageTool API and returns
// the filtered issue list.
type GrammarService interface {
	Check(ctx context.Context, text string) ([]models.GrammarIssue, error)
}

type grammarService struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

func NewGrammarService(baseURL, language string) GrammarService {
	return &grammarService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type languageToolResponse struct {
	Matches []struct {
		Message      string `json:"message"`
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule struct {
			ID string `json:"id"`
		} `json:"rule"`
	} `json:"matches"`
}

// Check implements GrammarService.
func (g *grammarService) Check(ctx context.Context, text string) ([]models.GrammarIssue, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("language", g.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create grammar check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grammar check request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar check response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("grammar check returned status %d: %s", resp.StatusCode, respBody)
	}

	var result languageToolResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse grammar check response: %w", err)
	}

	var issues []models.GrammarIssue
	for _, match := range result.Matches {
		if excludedRule(match.Rule.ID) {
			continue
		}

		end := match.Offset + match.Length
		if match.Offset < 0 || end > len(text) {
			continue
		}

		var suggestions []string
		for _, r := range match.Replacements {
			suggestions = append(suggestions, r.Value)
		}

		issues = append(issues, models.GrammarIssue{
			RuleID:      match.Rule.ID,
			Message:     match.Message,
			Mistake:     text[match.Offset:end],
			Suggestions: suggestions,
			Position:    [2]int{match.Offset, end},
		})
	}

	return issues, nil
}

func excludedRule(ruleID string) bool {
	if ruleID == "" {
		return false
	}
	if excludedRules[ruleID] {
		return true
	}

	upper := strings.ToUpper(ruleID)
	for _, category := range excludedCategories {
		if strings.Contains(upper, category) {
			return true
		}
	}

	return false
}
