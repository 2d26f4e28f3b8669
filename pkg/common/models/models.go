package models

import "time"

// Event is the envelope for everything published to the event bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // metric, artifact
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// PredictionRequest is a single borrower record submitted for scoring.
// All 17 fields are required; typed parsing happens at the serving boundary.
type PredictionRequest struct {
	Age                   int     `json:"Age"`
	Gender                string  `json:"Gender"`
	EmploymentType        string  `json:"Employment_Type"`
	MonthlyIncome         float64 `json:"Monthly_Income"`
	NumDependents         int     `json:"Num_Dependents"`
	LoanAmount            float64 `json:"Loan_Amount"`
	LoanTenure            int     `json:"Loan_Tenure"`
	InterestRate          float64 `json:"Interest_Rate"`
	CollateralValue       float64 `json:"Collateral_Value"`
	OutstandingLoanAmount float64 `json:"Outstanding_Loan_Amount"`
	MonthlyEMI            float64 `json:"Monthly_EMI"`
	PaymentHistory        string  `json:"Payment_History"`
	NumMissedPayments     int     `json:"Num_Missed_Payments"`
	DaysPastDue           int     `json:"Days_Past_Due"`
	CollectionAttempts    int     `json:"Collection_Attempts"`
	CollectionMethod      string  `json:"Collection_Method"`
	LegalActionTaken      string  `json:"Legal_Action_Taken"`
}

// PredictionResponse is the scoring result returned to the caller.
type PredictionResponse struct {
	RiskScore         float64       `json:"risk_score"`
	PredictedHighRisk int           `json:"predicted_high_risk"`
	RecoveryStrategy  string        `json:"recovery_strategy"`
	Latency           time.Duration `json:"-"`
}
