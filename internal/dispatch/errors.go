package dispatch

import (
	"fmt"
)

// Step names one stage of the shipment creation sequence.
type Step string

const (
	StepValidate         Step = "validate request"
	StepSender           Step = "resolve sender"
	StepRecipientAddress Step = "create recipient address"
	StepRecipientClient  Step = "create recipient client"
	StepShipment         Step = "create shipment"
	StepLedger           Step = "record shipment"
)

// Resource references a remote sub-resource created before a later step
// failed. The sequence performs no compensating rollback, so these are
// surfaced to support manual cleanup.
type Resource struct {
	Kind string // "address", "client", "shipment"
	Ref  string
}

// StepError reports which step of the creation sequence failed and which
// remote sub-resources had already been created by then.
type StepError struct {
	Step    Step
	Created []Resource
	Err     error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error { return e.Err }

func stepErr(step Step, created []Resource, err error) *StepError {
	return &StepError{Step: step, Created: created, Err: err}
}
