package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-risk/domain"
)

func sampleEvaluation(t *testing.T, p float64) domain.Evaluation {
	t.Helper()
	profile := domain.DefaultProfile()
	profile.Times90DaysLate = 2
	profile.RevolvingUtilization = 1.4

	a, err := Classify(p)
	require.NoError(t, err)
	return domain.Evaluation{
		RequestID:  "req-1",
		Purpose:    profile.LoanPurpose,
		Features:   DeriveFeatures(profile),
		Assessment: a,
	}
}

func TestAdvisor_DisabledFallsBack(t *testing.T) {
	advisor := NewAdvisorService(AdvisorConfig{APIURL: "http://unused"})
	assert.False(t, advisor.Enabled())

	text := advisor.Explain(context.Background(), sampleEvaluation(t, 0.65))
	assert.Contains(t, text, "65.00%")
	assert.Contains(t, text, "credit score of 510")
	assert.Contains(t, text, "High Risk")
	assert.Contains(t, text, "2 payments 90+ days late")
	assert.Contains(t, text, "revolving balances above their credit limits")
	assert.Contains(t, text, "loan not recommended")
}

func TestAdvisor_CallsUpstream(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Looks solid. "}}]}`))
	}))
	defer srv.Close()

	advisor := NewAdvisorService(AdvisorConfig{APIKey: "secret", APIURL: srv.URL, Model: "test-model"})
	require.True(t, advisor.Enabled())

	text := advisor.Explain(context.Background(), sampleEvaluation(t, 0.2))
	assert.Equal(t, "Looks solid.", text)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, "Credit score estimate: 780")
	assert.Contains(t, got.Messages[1].Content, domain.FeatureAgeDelinquencyInteraction)
}

func TestAdvisor_UpstreamErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	advisor := NewAdvisorService(AdvisorConfig{APIKey: "secret", APIURL: srv.URL})
	text := advisor.Explain(context.Background(), sampleEvaluation(t, 0.2))
	assert.Contains(t, text, "Strong borrower profile")
}

func TestAdvisor_EmptyChoicesFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	advisor := NewAdvisorService(AdvisorConfig{APIKey: "secret", APIURL: srv.URL})
	text := advisor.Explain(context.Background(), sampleEvaluation(t, 0.45))
	assert.Contains(t, text, "Caution advised")
}

func TestAdvisor_SlowUpstreamFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	advisor := NewAdvisorService(AdvisorConfig{APIKey: "secret", APIURL: srv.URL, Timeout: 50 * time.Millisecond})

	start := time.Now()
	text := advisor.Explain(context.Background(), sampleEvaluation(t, 0.65))
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, text, "credit score of 510")
}
