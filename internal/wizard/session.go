package wizard

import (
	"context"
	"strings"

	"bitwill.backend/internal/domain/entities"
)

// Session is one wizard instance: the current step, the accumulated
// draft, and the working row sets of the dynamic collections. Sessions
// are independent of each other; nothing is shared process-wide.
//
// Sessions are not safe for concurrent use. All transitions happen in
// response to a single user action processed to completion.
type Session struct {
	form    FormSource
	backend BackendService

	step  Step
	draft *entities.Will

	wallets           *rowSet
	exchanges         *rowSet
	beneficiaries     *rowSet
	emergencyContacts *rowSet

	acknowledged bool
	completed    bool
	result       *entities.GenerateResult
}

// NewSession creates a session over an empty draft
func NewSession(form FormSource, backend BackendService) *Session {
	s := &Session{
		form:              form,
		backend:           backend,
		step:              StepPersonalInfo,
		draft:             entities.TemplateWill(),
		wallets:           newRowSet(),
		exchanges:         newRowSet(),
		beneficiaries:     newRowSet(),
		emergencyContacts: newRowSet(),
	}
	return s
}

// NewSessionFromTemplate seeds the draft from the backend's template
func NewSessionFromTemplate(ctx context.Context, form FormSource, backend BackendService) (*Session, error) {
	s := NewSession(form, backend)
	template, err := backend.Template(ctx)
	if err != nil {
		return nil, err
	}
	s.hydrate(template)
	return s, nil
}

// NewSessionFromDraft resumes editing of an existing draft
func NewSessionFromDraft(form FormSource, backend BackendService, draft *entities.Will) *Session {
	s := NewSession(form, backend)
	s.hydrate(draft)
	return s
}

// hydrate adopts the draft and creates working rows for its existing
// collection entries, one key per entry in order.
func (s *Session) hydrate(draft *entities.Will) {
	s.draft = draft
	if s.draft.Title == "" {
		s.draft.Title = entities.DefaultWillTitle
	}
	s.wallets.reset(len(draft.BitcoinAssets.Wallets))
	s.exchanges.reset(len(draft.BitcoinAssets.Exchanges))
	s.beneficiaries.reset(len(draft.Beneficiaries))
	s.emergencyContacts.reset(len(draft.Instructions.EmergencyContacts))
}

// CurrentStep returns the active step
func (s *Session) CurrentStep() Step {
	return s.step
}

// Draft returns the accumulated draft. Callers must treat it as
// read-only; all mutation goes through Advance and Retreat.
func (s *Session) Draft() *entities.Will {
	return s.draft
}

// Completed reports whether generation succeeded and the session left
// step editing
func (s *Session) Completed() bool {
	return s.completed
}

// Result returns the generation outcome once Completed is true
func (s *Session) Result() *entities.GenerateResult {
	return s.result
}

// Acknowledged reports the legal notice acknowledgment state
func (s *Session) Acknowledged() bool {
	return s.acknowledged
}

// AddRow appends a fresh working row to the collection and returns its
// surrogate key. Adding a row never touches the draft; only a save
// does.
func (s *Session) AddRow(c Collection) int {
	return s.rows(c).add()
}

// RemoveRow deletes a working row by key. Remaining rows keep their
// keys, so field paths of later rows do not rebind.
func (s *Session) RemoveRow(c Collection, key int) error {
	if !s.rows(c).remove(key) {
		return ErrUnknownRow
	}
	return nil
}

// RowKeys returns the collection's working row keys in display order
func (s *Session) RowKeys(c Collection) []int {
	return s.rows(c).keys()
}

func (s *Session) rows(c Collection) *rowSet {
	switch c {
	case CollectionWallets:
		return s.wallets
	case CollectionExchanges:
		return s.exchanges
	case CollectionBeneficiaries:
		return s.beneficiaries
	case CollectionEmergencyContacts:
		return s.emergencyContacts
	default:
		panic("wizard: unknown collection " + string(c))
	}
}

// Advance validates the current step's required fields, merges its
// edits into the draft, and moves forward. On the final step it runs
// generation instead of a step transition. A validation failure leaves
// both step and draft untouched.
func (s *Session) Advance(ctx context.Context) error {
	if s.completed {
		return ErrCompleted
	}

	values, required, err := s.form.ReadFields(s.step)
	if err != nil {
		return err
	}

	var missing []string
	for _, name := range required {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	s.merge(values)

	if s.step == StepReview {
		return s.generate(ctx)
	}
	s.step++
	return nil
}

// Retreat merges the current step's edits into the draft, then moves
// back one step. No validation applies; in-progress edits are kept.
func (s *Session) Retreat() error {
	if s.completed {
		return ErrCompleted
	}
	if s.step <= StepPersonalInfo {
		return ErrFirstStep
	}

	values, _, err := s.form.ReadFields(s.step)
	if err != nil {
		return err
	}
	s.merge(values)
	s.step--
	return nil
}

// merge applies the current step's replacement rule to the draft
func (s *Session) merge(values map[string]string) {
	switch s.step {
	case StepPersonalInfo:
		s.draft.PersonalInfo = mergePersonalInfo(values)
	case StepBitcoinAssets:
		s.draft.BitcoinAssets = mergeAssets(values, s.wallets.keys(), s.exchanges.keys(), s.draft.BitcoinAssets)
	case StepBeneficiaries:
		s.draft.Beneficiaries = mergeBeneficiaries(values, s.beneficiaries.keys())
	case StepInstructions:
		s.draft.Instructions = mergeInstructions(values, s.emergencyContacts.keys())
	case StepReview:
		if title := values[FieldTitle]; title != "" {
			s.draft.Title = title
		}
		s.acknowledged = truthy(values[FieldAcknowledged])
	}
}

// generate runs the terminal save-then-generate sequence. The
// acknowledgment gate fires before any backend call. A create adopts
// the assigned ID into the draft even when the subsequent generate
// fails, so a retry goes down the update path.
func (s *Session) generate(ctx context.Context) error {
	if !s.acknowledged {
		return ErrAcknowledgmentRequired
	}

	var (
		saved *entities.Will
		err   error
	)
	if s.draft.IsSaved() {
		saved, err = s.backend.UpdateWill(ctx, s.draft)
	} else {
		saved, err = s.backend.CreateWill(ctx, s.draft)
	}
	if err != nil {
		return &GenerationError{Saved: false, Err: err}
	}
	s.draft.ID = saved.ID

	result, err := s.backend.GenerateDocument(ctx, s.draft.ID)
	if err != nil {
		return &GenerationError{Saved: true, Err: err}
	}

	s.result = result
	s.completed = true
	return nil
}

// TotalPercentage sums the currently rendered beneficiary percentage
// fields. Blank or non-numeric values count as 0. The value is a
// display aid only and never blocks Advance.
func (s *Session) TotalPercentage() float64 {
	values, _, err := s.form.ReadFields(StepBeneficiaries)
	if err != nil {
		return 0
	}
	var total float64
	for _, key := range s.beneficiaries.keys() {
		total += parsePercentage(values[BeneficiaryField(key, "percentage")])
	}
	return total
}
