package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"credit-risk/domain"
)

type AdvisorConfig struct {
	APIKey  string
	APIURL  string
	Model   string
	Timeout time.Duration
}

// AdvisorService writes a short narrative around an assessment. Without an
// API key, or when the upstream call fails, it falls back to a fixed text.
// It never alters the rating, the score or the advisory message.
type AdvisorService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const advisorSystemPrompt = "You are a credit analyst. You explain model-based default risk " +
	"assessments to loan officers in plain English. You never change the rating or the score " +
	"you are given, and you do not invent data that is not in the request."

func NewAdvisorService(cfg AdvisorConfig) *AdvisorService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AdvisorService{
		apiKey:  cfg.APIKey,
		apiURL:  cfg.APIURL,
		model:   cfg.Model,
		enabled: cfg.APIKey != "" && cfg.APIURL != "",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *AdvisorService) Enabled() bool {
	return s.enabled
}

// Explain returns a narrative for the evaluation.
func (s *AdvisorService) Explain(ctx context.Context, eval domain.Evaluation) string {
	if !s.enabled {
		return s.fallbackExplanation(eval)
	}

	explanation, err := s.callLLM(ctx, s.prompt(eval))
	if err != nil {
		log.Warn().
			Err(err).
			Str("request_id", eval.RequestID).
			Msg("advisor call failed, using fallback explanation")
		return s.fallbackExplanation(eval)
	}
	return explanation
}

func (s *AdvisorService) prompt(eval domain.Evaluation) string {
	a := eval.Assessment
	var features strings.Builder
	for _, f := range eval.Features.Named() {
		features.WriteString(fmt.Sprintf("- %s: %.4f\n", f.Name, f.Value))
	}
	purpose := string(eval.Purpose)
	if purpose == "" {
		purpose = "unspecified"
	}

	return fmt.Sprintf(`Explain this credit risk assessment in 3-4 sentences.

ASSESSMENT:
- Default probability: %s
- Credit score estimate: %d
- Rating: %s (%s)
- Advisory: %s
- Loan purpose: %s

MODEL INPUTS:
%s
Point out which inputs most plausibly drive the result and what a loan officer should check next.`,
		FormatProbability(a.Probability), a.CreditScoreEstimate, a.Rating, a.RiskLabel.DisplayName(),
		a.AdvisoryMessage, purpose, features.String())
}

func (s *AdvisorService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from advisor")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func (s *AdvisorService) fallbackExplanation(eval domain.Evaluation) string {
	a := eval.Assessment
	f := eval.Features

	var b strings.Builder
	b.WriteString(fmt.Sprintf("An estimated default probability of %s maps to a credit score of %d, rated %s (%s).",
		FormatProbability(a.Probability), a.CreditScoreEstimate, a.Rating, a.RiskLabel.DisplayName()))

	var signals []string
	if f.TotalPastDue > 0 {
		signals = append(signals, fmt.Sprintf("%d past-due events on record", f.TotalPastDue))
	}
	if f.Profile.Times90DaysLate > 0 {
		signals = append(signals, fmt.Sprintf("%d payments 90+ days late", f.Profile.Times90DaysLate))
	}
	if f.Profile.RevolvingUtilization > 1 {
		signals = append(signals, "revolving balances above their credit limits")
	}
	if f.HasRealEstate == 1 {
		signals = append(signals, "real-estate credit on file")
	}
	if len(signals) > 0 {
		b.WriteString(" Notable inputs: " + strings.Join(signals, "; ") + ".")
	}

	b.WriteString(" " + a.AdvisoryMessage)
	return b.String()
}
