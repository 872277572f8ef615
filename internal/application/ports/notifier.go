package ports

// Notifier receives the single outcome notification each state-changing
// operation emits after its mutation has settled.
type Notifier interface {
	Notify(message string)
}
