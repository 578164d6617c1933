package provision

// Status is the phase of a provisioning submission.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusRunning:
		return "RUNNING"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// SuccessMessage is reported when every step completed.
const SuccessMessage = "Everything created successfully! (including sections A & B)"

// State is the immutable view of a provisioning form and its progress.
// Step and StepName are only set when Status is StatusFailed. Message holds
// the validation error while Idle, the failure while Failed and the success
// notification once Succeeded. IDs lists the resources created by the last
// run, which after a failure are left in place.
type State struct {
	Status   Status
	Form     Form
	Step     int
	StepName string
	Message  string
	IDs      IDs
}

// NewState returns an Idle state holding form.
func NewState(form Form) State {
	return State{Status: StatusIdle, Form: form}
}

// Event drives State transitions.
type Event interface {
	isEvent()
}

// Edited replaces the form contents.
type Edited struct{ Form Form }

// Invalid reports a validation failure of the current form.
type Invalid struct{ Message string }

// Submitted starts running the chain.
type Submitted struct{}

// StepFailed stops the chain at Step. IDs lists what earlier steps created.
type StepFailed struct {
	Step    int
	Name    string
	Message string
	IDs     IDs
}

// Completed reports that every step succeeded.
type Completed struct{ IDs IDs }

// Reset clears the form.
type Reset struct{}

func (Edited) isEvent()     {}
func (Invalid) isEvent()    {}
func (Submitted) isEvent()  {}
func (StepFailed) isEvent() {}
func (Completed) isEvent()  {}
func (Reset) isEvent()      {}

// Apply returns the state that follows ev. Events that are not valid in the
// current status leave the state unchanged; in particular nothing but
// StepFailed or Completed moves a Running state.
func (s State) Apply(ev Event) State {
	switch e := ev.(type) {
	case Edited:
		if s.Status == StatusRunning {
			return s
		}
		return NewState(e.Form)

	case Invalid:
		if s.Status == StatusRunning {
			return s
		}
		return State{Status: StatusIdle, Form: s.Form, Message: e.Message}

	case Submitted:
		if s.Status == StatusRunning {
			return s
		}
		return State{Status: StatusRunning, Form: s.Form}

	case StepFailed:
		if s.Status != StatusRunning {
			return s
		}
		// the form is kept so the user can correct it and resubmit
		return State{
			Status:   StatusFailed,
			Form:     s.Form,
			Step:     e.Step,
			StepName: e.Name,
			Message:  e.Message,
			IDs:      e.IDs,
		}

	case Completed:
		if s.Status != StatusRunning {
			return s
		}
		return State{
			Status:  StatusSucceeded,
			Form:    DefaultForm(),
			Message: SuccessMessage,
			IDs:     e.IDs,
		}

	case Reset:
		if s.Status == StatusRunning {
			return s
		}
		return NewState(DefaultForm())
	}

	return s
}
