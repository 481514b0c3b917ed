package smartwallet

// Action is the operation a passkey authorization is bound to. The set is
// closed: confusing creation with execution would turn a one-time approval
// into a live pre-authorization, so the variants are distinct types rather
// than strings callers could mix up.
type Action interface {
	ActionName() string
	sealedAction()
}

// CreateMandateAction authorizes recording a new payment mandate.
type CreateMandateAction struct{}

func (CreateMandateAction) ActionName() string { return "create_mandate" }
func (CreateMandateAction) sealedAction()      {}

// ExecuteMandateAction authorizes charging a previously recorded mandate.
type ExecuteMandateAction struct{}

func (ExecuteMandateAction) ActionName() string { return "execute_mandate" }
func (ExecuteMandateAction) sealedAction()      {}
