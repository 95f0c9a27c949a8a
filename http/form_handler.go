package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"credit-risk/domain"
	"credit-risk/service"
)

// FormHandler serves the single-page borrower form.
type FormHandler struct {
	service *service.RiskService
	tmpl    *template.Template
}

type formView struct {
	Profile     domain.BorrowerProfile
	Purposes    []domain.LoanPurpose
	Error       string
	Result      *resultView
	Model       string
	MaxUtilRate float64
}

type resultView struct {
	Probability string
	Score       int
	Rating      domain.Rating
	RiskLabel   string
	RiskClass   string
	Message     string
	Explanation string
	Features    []domain.Feature
}

func NewFormHandler(service *service.RiskService) *FormHandler {
	return &FormHandler{
		service: service,
		tmpl:    template.Must(template.New("form").Parse(formTemplate)),
	}
}

// Show renders the form pre-filled with the default borrower.
func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.view(domain.DefaultProfile()))
}

// Submit evaluates the posted form and renders the result below it.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		view := h.view(domain.DefaultProfile())
		view.Error = "could not read the submitted form"
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	profile, err := parseProfileForm(r)
	if err != nil {
		view := h.view(profile)
		view.Error = err.Error()
		h.render(w, r, http.StatusBadRequest, view)
		return
	}

	view := h.view(profile)
	eval, err := h.service.Evaluate(r.Context(), profile)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrInvalidProfile):
			status = http.StatusBadRequest
			view.Error = err.Error()
		case errors.Is(err, service.ErrScoringUnavailable):
			status = http.StatusServiceUnavailable
			view.Error = "Prediction error: the scoring model is unavailable."
		default:
			status = http.StatusBadGateway
			view.Error = "Prediction error: the scoring model returned an invalid result."
		}
		log.Warn().
			Err(err).
			Str("request_id", service.RequestID(r.Context())).
			Int("status", status).
			Msg("form evaluation failed")
		h.render(w, r, status, view)
		return
	}

	a := eval.Assessment
	view.Result = &resultView{
		Probability: service.FormatProbability(a.Probability),
		Score:       a.CreditScoreEstimate,
		Rating:      a.Rating,
		RiskLabel:   a.RiskLabel.DisplayName(),
		RiskClass:   strings.ToLower(string(a.RiskLabel)),
		Message:     a.AdvisoryMessage,
		Explanation: eval.Explanation,
		Features:    eval.Features.Named(),
	}
	h.render(w, r, http.StatusOK, view)
}

func (h *FormHandler) view(profile domain.BorrowerProfile) formView {
	return formView{
		Profile:     profile,
		Purposes:    domain.LoanPurposes,
		Model:       string(h.service.Model().Format),
		MaxUtilRate: service.MaxRevolvingUtilization,
	}
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, view formView) {
	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("error rendering form")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("error writing form")
	}
}

// parseProfileForm reads every field; the returned profile keeps the values
// that did parse so the form can be re-rendered.
func parseProfileForm(r *http.Request) (domain.BorrowerProfile, error) {
	var (
		p    domain.BorrowerProfile
		errs []string
	)

	intField := func(name string, dst *int) {
		v, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue(name)))
		if err != nil {
			errs = append(errs, name)
			return
		}
		*dst = v
	}
	floatField := func(name string, dst *float64) {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue(name)), 64)
		if err != nil {
			errs = append(errs, name)
			return
		}
		*dst = v
	}

	intField("age", &p.Age)
	floatField("monthly_income", &p.MonthlyIncome)
	intField("number_of_dependents", &p.NumberOfDependents)
	floatField("revolving_utilization", &p.RevolvingUtilization)
	floatField("debt_ratio", &p.DebtRatio)
	intField("open_credit_lines_and_loans", &p.OpenCreditLinesAndLoans)
	intField("times_90_days_late", &p.Times90DaysLate)
	intField("times_30_to_59_days_past_due", &p.Times30To59DaysPastDue)
	intField("times_60_to_89_days_past_due", &p.Times60To89DaysPastDue)
	intField("real_estate_loans_or_lines", &p.RealEstateLoansOrLines)
	p.LoanPurpose = domain.LoanPurpose(r.PostFormValue("loan_purpose"))

	if len(errs) > 0 {
		return p, fmt.Errorf("%w: not a number: %s", service.ErrInvalidProfile, strings.Join(errs, ", "))
	}
	return p, nil
}
