package reconcile

// Prompter isolates the interactive behaviors so the reconciler core
// stays testable without a terminal.
type Prompter interface {
	// Token asks the operator for an API token. Called by the CLI when
	// neither the manifest nor the environment provides one.
	Token() (string, error)

	// Confirm asks the operator to approve the run after the summary has
	// been shown. Called at most once per run, before the first mutating
	// call. A false answer aborts the whole run.
	Confirm(summary string) (bool, error)
}
