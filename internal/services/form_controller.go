package services

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/entities"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type FormState string

const (
	FormIdle    FormState = "idle"
	FormEditing FormState = "editing"
)

const (
	submitLabelCreate = "✅ Registrer Avgang"
	submitLabelUpdate = "🔁 Oppdater"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// DepartureForm is the registration form as the user filled it in.
type DepartureForm struct {
	UnitNumber  string `json:"unitNumber"`
	Destination string `json:"destination"`
	Time        string `json:"time"`
	Gate        string `json:"gate"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Comment     string `json:"comment"`
}

// FormView is what the form should currently show.
type FormView struct {
	State       FormState     `json:"state"`
	EditingID   *int64        `json:"editingId,omitempty"`
	Form        DepartureForm `json:"form"`
	SubmitLabel string        `json:"submitLabel"`
}

// formField maps one form input to one record field.
type formField struct {
	name     string
	required bool
	input    func(f *DepartureForm) *string
	read     func(d entities.Departure) string
	write    func(d *entities.Departure, v string)
}

var formFields = []formField{
	{
		name:     "unitNumber",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.UnitNumber },
		read:     func(d entities.Departure) string { return d.UnitNumber },
		write:    func(d *entities.Departure, v string) { d.UnitNumber = v },
	},
	{
		name:     "destination",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.Destination },
		read:     func(d entities.Departure) string { return d.Destination },
		write:    func(d *entities.Departure, v string) { d.Destination = v },
	},
	{
		name:     "time",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.Time },
		read:     func(d entities.Departure) string { return d.Time },
		write:    func(d *entities.Departure, v string) { d.Time = v },
	},
	{
		name:     "gate",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.Gate },
		read:     func(d entities.Departure) string { return d.Gate },
		write:    func(d *entities.Departure, v string) { d.Gate = v },
	},
	{
		name:     "type",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.Type },
		read:     func(d entities.Departure) string { return d.Type },
		write:    func(d *entities.Departure, v string) { d.Type = v },
	},
	{
		name:     "status",
		required: true,
		input:    func(f *DepartureForm) *string { return &f.Status },
		read:     func(d entities.Departure) string { return d.Status },
		write:    func(d *entities.Departure, v string) { d.Status = v },
	},
	{
		name:  "comment",
		input: func(f *DepartureForm) *string { return &f.Comment },
		read:  func(d entities.Departure) string { return d.CommentText() },
		write: func(d *entities.Departure, v string) {
			if v == "" {
				d.Comment = nil
				return
			}
			d.Comment = &v
		},
	},
}

// FormController drives the registration form of one client. It is idle or
// editing exactly one record.
type FormController struct {
	repo     *DepartureRepository
	ids      *IDMinter
	notifier Notifier
	now      func() time.Time

	mu        sync.Mutex
	editing   bool
	editingID int64
	form      DepartureForm
}

func NewFormController(repo *DepartureRepository, ids *IDMinter, notifier Notifier) *FormController {
	c := &FormController{
		repo:     repo,
		ids:      ids,
		notifier: notifier,
		now:      time.Now,
	}
	c.reset()
	return c
}

// reset empties the form; the time field starts at the current clock time.
func (c *FormController) reset() {
	c.editing = false
	c.editingID = 0
	c.form = DepartureForm{Time: c.now().Format("15:04")}
}

// State returns the current form view.
func (c *FormController) State() FormView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

func (c *FormController) view() FormView {
	v := FormView{
		State:       FormIdle,
		Form:        c.form,
		SubmitLabel: submitLabelCreate,
	}
	if c.editing {
		id := c.editingID
		v.State = FormEditing
		v.EditingID = &id
		v.SubmitLabel = submitLabelUpdate
	}
	return v
}

// Submit creates a record when idle and updates the edited record when
// editing. Nothing is written when validation fails.
func (c *FormController) Submit(ctx context.Context, input DepartureForm) (*entities.Departure, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	form := normalizeForm(input)
	c.form = form

	if err := validateForm(form); err != nil {
		notifyError(c.notifier, err)
		return nil, err
	}

	editing, editingID := c.editing, c.editingID
	var saved entities.Departure

	err := c.repo.Mutate(ctx, func(current []entities.Departure) ([]entities.Departure, error) {
		if editing {
			idx := indexOfID(current, editingID)
			if idx < 0 {
				return nil, newDepartureError(constants.ErrCodeDepartureNotFound, fmt.Errorf("departure %d", editingID))
			}
			next := slices.Clone(current)
			rec := next[idx]
			applyForm(&rec, form)
			next[idx] = rec
			saved = rec
			return next, nil
		}

		if unitExists(current, form.UnitNumber) {
			return nil, &DepartureError{
				Code:    constants.ErrCodeDuplicateUnit,
				Message: fmt.Sprintf(constants.MsgDuplicateFormat, form.UnitNumber),
				Field:   "unitNumber",
			}
		}
		rec := entities.Departure{ID: c.mintID(current)}
		applyForm(&rec, form)
		saved = rec
		return append(current, rec), nil
	})
	if err != nil {
		if IsCode(err, constants.ErrCodeDepartureNotFound) {
			c.reset()
		}
		notifyError(c.notifier, err)
		return nil, err
	}

	if editing {
		logging.Info("Departure updated", "id", saved.ID, "unit_number", saved.UnitNumber)
		notify(c.notifier, constants.SignalEdit, constants.MsgUpdated)
	} else {
		logging.Info("Departure registered", "id", saved.ID, "unit_number", saved.UnitNumber)
		notify(c.notifier, constants.SignalSuccess, constants.MsgRegistered)
	}
	c.reset()
	return &saved, nil
}

// Edit switches to editing id and fills the form from the record.
func (c *FormController) Edit(id int64) (FormView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.repo.Current()
	idx := indexOfID(current, id)
	if idx < 0 {
		err := newDepartureError(constants.ErrCodeDepartureNotFound, fmt.Errorf("departure %d", id))
		notifyError(c.notifier, err)
		return c.view(), err
	}

	var form DepartureForm
	for _, f := range formFields {
		*f.input(&form) = f.read(current[idx])
	}

	c.editing = true
	c.editingID = id
	c.form = form
	return c.view(), nil
}

// Cancel leaves edit mode and empties the form.
func (c *FormController) Cancel() FormView {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	return c.view()
}

// Delete removes id after the user confirms. Deleting the record under edit
// returns the form to idle.
func (c *FormController) Delete(ctx context.Context, id int64, confirmer Confirmer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	notFound := newDepartureError(constants.ErrCodeDepartureNotFound, fmt.Errorf("departure %d", id))
	if indexOfID(c.repo.Current(), id) < 0 {
		notifyError(c.notifier, notFound)
		return notFound
	}
	if !confirmed(ctx, confirmer, constants.PromptDelete) {
		return newDepartureError(constants.ErrCodeNotConfirmed, nil)
	}

	err := c.repo.Mutate(ctx, func(current []entities.Departure) ([]entities.Departure, error) {
		idx := indexOfID(current, id)
		if idx < 0 {
			return nil, notFound
		}
		return slices.Delete(current, idx, idx+1), nil
	})
	if err != nil {
		notifyError(c.notifier, err)
		return err
	}

	if c.editing && c.editingID == id {
		c.reset()
	}
	logging.Info("Departure deleted", "id", id)
	notify(c.notifier, constants.SignalDelete, constants.MsgDeleted)
	return nil
}

// ClearAll removes every record after the user confirms. An empty
// collection is left alone without asking.
func (c *FormController) ClearAll(ctx context.Context, confirmer Confirmer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.repo.Current()) == 0 {
		notify(c.notifier, constants.SignalInfo, constants.MsgNothingToClear)
		return nil
	}
	if !confirmed(ctx, confirmer, constants.PromptClearAll) {
		return newDepartureError(constants.ErrCodeNotConfirmed, nil)
	}

	cleared := false
	err := c.repo.Mutate(ctx, func(current []entities.Departure) ([]entities.Departure, error) {
		if len(current) == 0 {
			return nil, errNoWrite
		}
		cleared = true
		return []entities.Departure{}, nil
	})
	if err != nil {
		notifyError(c.notifier, err)
		return err
	}
	if !cleared {
		notify(c.notifier, constants.SignalInfo, constants.MsgNothingToClear)
		return nil
	}

	c.reset()
	logging.Info("All departures cleared")
	notify(c.notifier, constants.SignalDelete, constants.MsgCleared)
	return nil
}

// mintID returns a fresh id that is not already used in current.
func (c *FormController) mintID(current []entities.Departure) int64 {
	id := c.ids.Next()
	for indexOfID(current, id) >= 0 {
		id = c.ids.Next()
	}
	return id
}

func normalizeForm(in DepartureForm) DepartureForm {
	out := in
	for _, f := range formFields {
		v := f.input(&out)
		*v = strings.TrimSpace(*v)
	}
	out.UnitNumber = cases.Upper(language.Norwegian).String(out.UnitNumber)
	return out
}

// validateForm checks required fields in form order, then allowed values.
func validateForm(form DepartureForm) error {
	for _, f := range formFields {
		if f.required && *f.input(&form) == "" {
			return newValidationError(f.name, "")
		}
	}

	switch {
	case !constants.IsDestination(form.Destination):
		return newValidationError("destination", constants.MsgBadDestination)
	case !clockPattern.MatchString(form.Time):
		return newValidationError("time", constants.MsgBadTime)
	case !constants.IsDepartureType(form.Type):
		return newValidationError("type", constants.MsgBadType)
	case !constants.IsStatus(form.Status):
		return newValidationError("status", constants.MsgBadStatus)
	}
	return nil
}

func applyForm(d *entities.Departure, form DepartureForm) {
	for _, f := range formFields {
		f.write(d, *f.input(&form))
	}
}

func indexOfID(records []entities.Departure, id int64) int {
	return slices.IndexFunc(records, func(d entities.Departure) bool { return d.ID == id })
}

func unitExists(records []entities.Departure, unit string) bool {
	fold := cases.Fold()
	want := fold.String(unit)
	return slices.ContainsFunc(records, func(d entities.Departure) bool {
		return fold.String(d.UnitNumber) == want
	})
}
