package http

const formTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Credit Risk Estimator</title>
<style>
body { font-family: sans-serif; max-width: 860px; margin: 2em auto; color: #222; }
h1 { text-align: center; color: #2b4b80; }
fieldset { border: 1px solid #ccd; margin-bottom: 1em; }
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: .8em; }
label { display: flex; flex-direction: column; font-size: .9em; }
.error { background: #fde8e8; padding: .8em; }
.metrics { display: grid; grid-template-columns: repeat(3, 1fr); text-align: center; }
.metrics strong { display: block; font-size: 1.6em; }
.low { color: #1e7d32; } .medium { color: #d97706; } .high { color: #b91c1c; }
table { border-collapse: collapse; width: 100%; }
td, th { border-bottom: 1px solid #eee; padding: .3em; text-align: left; }
</style>
</head>
<body>
<h1>Credit Risk Estimator</h1>
<p style="text-align:center">Assess the probability of default with a pre-trained model ({{.Model}}).</p>

{{if .Error}}<div class="error">{{.Error}}</div>{{end}}

<form method="post" action="/">
<fieldset>
<legend>Borrower Information</legend>
<div class="grid">
<label>Age (years)<input type="number" name="age" min="18" max="100" value="{{.Profile.Age}}"></label>
<label>Monthly Income ($)<input type="number" name="monthly_income" min="0" max="100000" step="any" value="{{.Profile.MonthlyIncome}}"></label>
<label>Dependents<input type="number" name="number_of_dependents" min="0" max="10" value="{{.Profile.NumberOfDependents}}"></label>
</div>
</fieldset>
<fieldset>
<legend>Credit History</legend>
<div class="grid">
<label>Revolving Utilization<input type="number" name="revolving_utilization" min="0" max="{{.MaxUtilRate}}" step="0.01" value="{{.Profile.RevolvingUtilization}}"></label>
<label>Debt Ratio<input type="number" name="debt_ratio" min="0" max="10" step="0.01" value="{{.Profile.DebtRatio}}"></label>
<label>Open Credit Lines &amp; Loans<input type="number" name="open_credit_lines_and_loans" min="0" max="50" value="{{.Profile.OpenCreditLinesAndLoans}}"></label>
<label>Times 90+ Days Late<input type="number" name="times_90_days_late" min="0" max="100" value="{{.Profile.Times90DaysLate}}"></label>
<label>Times 30-59 Days Past Due<input type="number" name="times_30_to_59_days_past_due" min="0" max="100" value="{{.Profile.Times30To59DaysPastDue}}"></label>
<label>Times 60-89 Days Past Due<input type="number" name="times_60_to_89_days_past_due" min="0" max="100" value="{{.Profile.Times60To89DaysPastDue}}"></label>
<label>Real Estate Loans/Lines<input type="number" name="real_estate_loans_or_lines" min="0" max="20" value="{{.Profile.RealEstateLoansOrLines}}"></label>
<label>Loan Purpose<select name="loan_purpose">
{{range .Purposes}}<option value="{{.}}"{{if eq . $.Profile.LoanPurpose}} selected{{end}}>{{.}}</option>
{{end}}</select></label>
</div>
</fieldset>
<button type="submit">Evaluate Risk</button>
</form>

{{with .Result}}
<h2>Credit Evaluation Summary</h2>
<div class="metrics">
<div>Default Probability<strong>{{.Probability}}</strong></div>
<div>Credit Score Estimate<strong>{{.Score}}</strong></div>
<div>Rating<strong>{{.Rating}}</strong></div>
</div>
<h3 class="{{.RiskClass}}">{{.RiskLabel}}</h3>
<p>{{.Message}}</p>
{{if .Explanation}}<p><em>{{.Explanation}}</em></p>{{end}}
<details>
<summary>Detailed input data</summary>
<table>
<tr><th>Feature</th><th>Value</th></tr>
{{range .Features}}<tr><td>{{.Name}}</td><td>{{printf "%.2f" .Value}}</td></tr>
{{end}}</table>
</details>
{{end}}
</body>
</html>
`
