package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/wrkout/internal/app"
	"github.com/balkashynov/wrkout/internal/lifecycle"
	"github.com/balkashynov/wrkout/internal/models"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/workout"
)

const (
	restExtension = 30 * time.Second
	finishTimeout = 2 * time.Minute
)

type exitReason int

const (
	exitNone      exitReason = iota
	exitLeft                 // timer keeps running
	exitSaved                // paused and saved for later
	exitDiscarded
	exitSubmitted
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmSubmit
	confirmDiscard
	confirmRemoveExercise
)

// elapsedTickMsg is the display refresh from the session ticker
type elapsedTickMsg time.Duration

// restTickMsg redraws the rest countdown, which runs even while paused
type restTickMsg struct{}

type submitResultMsg struct {
	log models.WorkoutLog
	err error
}

type exitResultMsg struct {
	err error
}

// SessionModel is the live workout screen
type SessionModel struct {
	svc   *app.Service
	ticks <-chan time.Duration

	width  int
	height int

	setCursor int

	editing    bool
	inputs     []textinput.Model
	focusIndex int

	confirm confirmKind
	busy    bool // submit or exit in flight

	progress progress.Model
	help     help.Model
	keys     keyMap

	status string
	err    error

	exit      exitReason
	submitted models.WorkoutLog

	// Render state, refreshed after every update. View never touches the
	// service, which may be busy in a command goroutine.
	session  models.Session
	elapsed  time.Duration
	state    lifecycle.State
	rest     restView
	degraded bool
}

type restView struct {
	running   bool
	done      bool
	remaining time.Duration
	progress  float64
}

// NewSessionModel creates the screen for the service's bound session
func NewSessionModel(svc *app.Service, ticks <-chan time.Duration) SessionModel {
	inputs := make([]textinput.Model, 2)
	for i := range inputs {
		t := textinput.New()
		t.Cursor.Style = t.Cursor.Style.Foreground(lipgloss.Color(ColorAccentBright))
		t.PromptStyle = t.PromptStyle.Foreground(lipgloss.Color(ColorSecondaryText))
		t.TextStyle = t.TextStyle.Foreground(lipgloss.Color(ColorPrimaryText))
		switch i {
		case 0:
			t.Prompt = "Reps:   "
			t.Placeholder = "8"
			t.CharLimit = 4
		case 1:
			t.Prompt = "Weight: "
			t.Placeholder = "60"
			t.CharLimit = 7
		}
		inputs[i] = t
	}

	m := SessionModel{
		svc:      svc,
		ticks:    ticks,
		inputs:   inputs,
		progress: progress.New(progress.WithGradient(ColorAccentMain, ColorAccentBright), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     defaultKeyMap(),
	}
	m.setCursor = m.nextOpenSet()
	m.refresh()
	return m
}

// Init starts listening for display ticks
func (m SessionModel) Init() tea.Cmd {
	return waitForTick(m.ticks)
}

func waitForTick(ticks <-chan time.Duration) tea.Cmd {
	if ticks == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ticks
		if !ok {
			return nil
		}
		return elapsedTickMsg(d)
	}
}

func restTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return restTickMsg{}
	})
}

// Update handles messages
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if !next.busy {
		next.refresh()
	}
	return next, cmd
}

func (m *SessionModel) refresh() {
	rest := m.svc.Rest()
	m.session = m.svc.Session()
	m.elapsed = m.svc.Elapsed()
	m.state = m.svc.State()
	m.degraded = m.svc.Degraded()
	m.rest = restView{
		running:   rest.Running(),
		done:      rest.Done(),
		remaining: rest.Remaining(),
		progress:  rest.Progress(),
	}
}

func (m SessionModel) update(msg tea.Msg) (SessionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(10, min(msg.Width/2-10, 50))
		return m, nil

	case elapsedTickMsg:
		return m, waitForTick(m.ticks)

	case restTickMsg:
		if !m.busy && m.svc.Rest().Running() && !m.svc.Rest().Done() {
			return m, restTick()
		}
		return m, nil

	case tea.FocusMsg, tea.ResumeMsg:
		if !m.busy {
			m.svc.Foreground()
		}
		return m, nil

	case tea.BlurMsg:
		if !m.busy {
			m.svc.Background()
		}
		return m, nil

	case submitResultMsg:
		m.busy = false
		if errors.Is(msg.err, app.ErrNothingLogged) {
			m.status = "Nothing to submit yet. Complete at least one set first."
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = "Submission failed, the workout is kept. Press s to retry."
			return m, nil
		}
		m.exit = exitSubmitted
		m.submitted = msg.log
		return m, tea.Quit

	case exitResultMsg:
		m.busy = false
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m SessionModel) updateKeys(msg tea.KeyMsg) (SessionModel, tea.Cmd) {
	m.err = nil
	m.status = ""
	session := m.svc.Session()
	current := session.CurrentExerciseIndex

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.setCursor > 0 {
			m.setCursor--
		}

	case key.Matches(msg, m.keys.Down):
		if ex, ok := session.CurrentExercise(); ok && m.setCursor < len(ex.Sets)-1 {
			m.setCursor++
		}

	case key.Matches(msg, m.keys.Prev):
		m.navigate(current - 1)

	case key.Matches(msg, m.keys.Next):
		m.navigate(current + 1)

	case key.Matches(msg, m.keys.Complete):
		if err := m.svc.CompleteSet(current, m.setCursor, workout.Actuals{}); err != nil {
			m.err = err
			return m, nil
		}
		m.setCursor = m.nextOpenSet()
		return m, restTick()

	case key.Matches(msg, m.keys.Uncomplete):
		m.err = m.svc.UncompleteSet(current, m.setCursor)

	case key.Matches(msg, m.keys.Edit):
		return m.startEditing()

	case key.Matches(msg, m.keys.AddSet):
		if err := m.svc.AddSet(current); err != nil {
			m.err = err
			return m, nil
		}
		if ex, ok := m.svc.Session().CurrentExercise(); ok {
			m.setCursor = len(ex.Sets) - 1
		}

	case key.Matches(msg, m.keys.RemoveSet):
		err := m.svc.RemoveSet(current, m.setCursor)
		var lastSet *workout.LastSetError
		if errors.As(err, &lastSet) {
			m.confirm = confirmRemoveExercise
			return m, nil
		}
		m.err = err
		m.clampCursor()

	case key.Matches(msg, m.keys.Toggle):
		m.svc.ToggleTimer()

	case key.Matches(msg, m.keys.ExtendRest):
		m.svc.Rest().Extend(restExtension)

	case key.Matches(msg, m.keys.SkipRest):
		m.svc.Rest().Cancel()

	case key.Matches(msg, m.keys.Submit):
		m.confirm = confirmSubmit

	case key.Matches(msg, m.keys.Discard):
		m.confirm = confirmDiscard

	case key.Matches(msg, m.keys.Save):
		m.exit = exitSaved
		m.busy = true
		return m, m.exitCmd(true)

	case key.Matches(msg, m.keys.Suspend):
		m.svc.Background()
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Quit):
		m.exit = exitLeft
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m SessionModel) updateConfirm(msg tea.KeyMsg) (SessionModel, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone

	if s := msg.String(); s != "y" && s != "Y" {
		m.status = "Cancelled"
		return m, nil
	}

	switch kind {
	case confirmSubmit:
		m.busy = true
		m.status = "Submitting..."
		return m, m.submitCmd()

	case confirmDiscard:
		m.exit = exitDiscarded
		m.busy = true
		return m, m.exitCmd(false)

	case confirmRemoveExercise:
		m.err = m.svc.RemoveExercise(m.svc.Session().CurrentExerciseIndex)
		m.setCursor = m.nextOpenSet()
	}
	return m, nil
}

func (m SessionModel) startEditing() (SessionModel, tea.Cmd) {
	ex, ok := m.svc.Session().CurrentExercise()
	if !ok || m.setCursor >= len(ex.Sets) {
		return m, nil
	}
	set := ex.Sets[m.setCursor]

	m.editing = true
	m.focusIndex = 0
	m.inputs[0].SetValue(strconv.Itoa(set.Reps()))
	m.inputs[1].SetValue(strconv.FormatFloat(set.Weight(), 'f', -1, 64))
	m.inputs[1].Blur()
	return m, m.inputs[0].Focus()
}

func (m SessionModel) updateEditing(msg tea.KeyMsg) (SessionModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopEditing()
		m.status = "Edit cancelled"
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.inputs[m.focusIndex].Blur()
		m.focusIndex = (m.focusIndex + 1) % len(m.inputs)
		return m, m.inputs[m.focusIndex].Focus()

	case "enter":
		actuals, err := m.parseInputs()
		if err != nil {
			m.err = err
			return m, nil
		}
		if err := m.svc.UpdateSet(m.svc.Session().CurrentExerciseIndex, m.setCursor, actuals); err != nil {
			m.err = err
			return m, nil
		}
		m.stopEditing()
		m.err = nil
		m.status = "Set updated"
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *SessionModel) stopEditing() {
	m.editing = false
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].Reset()
	}
}

func (m SessionModel) parseInputs() (workout.Actuals, error) {
	reps, err := strconv.Atoi(strings.TrimSpace(m.inputs[0].Value()))
	if err != nil || reps < 0 {
		return workout.Actuals{}, fmt.Errorf("reps must be a whole number")
	}
	raw := strings.ReplaceAll(strings.TrimSpace(m.inputs[1].Value()), ",", ".")
	weight, err := strconv.ParseFloat(raw, 64)
	if err != nil || weight < 0 {
		return workout.Actuals{}, fmt.Errorf("weight must be a number of kg")
	}
	return workout.Actuals{Reps: &reps, Weight: &weight}, nil
}

func (m *SessionModel) navigate(idx int) {
	if idx < 0 || idx >= len(m.svc.Session().Exercises) {
		return
	}
	nav, err := m.svc.Navigate(idx)
	if err != nil {
		m.err = err
		return
	}
	m.setCursor = m.nextOpenSet()
	if nav.EditingPrior {
		m.status = "Editing an earlier exercise"
	}
}

// nextOpenSet is the first open set of the current exercise, or the last set
func (m SessionModel) nextOpenSet() int {
	ex, ok := m.svc.Session().CurrentExercise()
	if !ok {
		return 0
	}
	if i := workout.NextIncompleteSet(*ex); i >= 0 {
		return i
	}
	return max(0, len(ex.Sets)-1)
}

func (m *SessionModel) clampCursor() {
	ex, ok := m.svc.Session().CurrentExercise()
	if !ok {
		m.setCursor = 0
		return
	}
	m.setCursor = max(0, min(m.setCursor, len(ex.Sets)-1))
}

func (m SessionModel) submitCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
		defer cancel()
		log, err := svc.Submit(ctx)
		return submitResultMsg{log: log, err: err}
	}
}

func (m SessionModel) exitCmd(save bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
		defer cancel()
		return exitResultMsg{err: svc.Exit(ctx, save)}
	}
}

// summary is printed after the screen closes
func (m SessionModel) summary() string {
	switch m.exit {
	case exitSubmitted:
		sets := 0
		for _, ex := range m.submitted.Exercises {
			sets += len(ex.Sets)
		}
		return fmt.Sprintf("✅ Logged %q: %d exercises, %d sets, %d min", m.submitted.Name, len(m.submitted.Exercises), sets, m.submitted.DurationMinutes)
	case exitSaved:
		return "⏸️  Workout paused and saved. Use 'wrkout resume' to continue."
	case exitDiscarded:
		return "🗑️  Workout discarded."
	case exitLeft:
		if m.svc.Bound() && m.svc.State() != lifecycle.Paused {
			return fmt.Sprintf("\n💡 The workout timer is still running (%s).\n   Use 'wrkout resume' to come back or 'wrkout status' to check it.", parser.FormatElapsed(m.svc.Elapsed()))
		}
		return "💡 Workout kept. Use 'wrkout resume' to come back."
	}
	return ""
}
