package viewmodel

// PlanCard contains all information needed for displaying a subscription
// plan on the subscription page, including the state of its mandate.
type PlanCard struct {
	// Plan catalog data
	ID           string
	Label        string
	Description  string
	Price        string
	IntervalDays int

	// Mandate state for this session
	HasMandate bool
	Signature  string
	ExpiresAt  string
	Expired    bool

	// Confirmation status (pending / confirmed / failed)
	Status string

	// Execute control only shows once the create transaction is confirmed
	CanExecute       bool
	ExecuteSignature string

	// Create submitted, worker confirmation still pending
	Creating bool
}
