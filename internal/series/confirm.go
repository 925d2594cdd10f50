package series

// Confirmer asks the operator to approve a destructive step.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Force approves every prompt. It stands in for a --force flag.
var Force Confirmer = ConfirmFunc(func(string) bool { return true })

// Refuse declines every prompt.
var Refuse Confirmer = ConfirmFunc(func(string) bool { return false })
