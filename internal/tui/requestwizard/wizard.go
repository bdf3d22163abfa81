package requestwizard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/skyvaultcloud/skyvault/internal/backend"
	"github.com/skyvaultcloud/skyvault/internal/catalog"
	"github.com/skyvaultcloud/skyvault/internal/config"
	"github.com/skyvaultcloud/skyvault/internal/document"
	"github.com/skyvaultcloud/skyvault/internal/logger"
	"github.com/skyvaultcloud/skyvault/internal/request"
	"github.com/skyvaultcloud/skyvault/internal/session"
	"github.com/skyvaultcloud/skyvault/internal/tiers"
	"github.com/skyvaultcloud/skyvault/internal/tui/theme"
	"github.com/skyvaultcloud/skyvault/internal/tui/wizard"
)

// Modal layout constants
const (
	modalWidth        = 76                                                       // Total modal width including border
	modalPadding      = 2                                                        // Horizontal padding on each side
	modalBorderWidth  = 1                                                        // Border width on each side
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2) // 70
)

// WizardModel is the main Bubble Tea model for the request wizard. It owns
// the step controller and the shared form; step components read and write
// the form and report readiness through their submit messages.
type WizardModel struct {
	ctrl       *request.Controller
	cfg        *config.Config
	identity   *session.Identity
	cat        *catalog.Catalog
	client     *backend.Client
	comparator *tiers.Comparator
	synth      *document.Synthesizer
	ctx        context.Context
	program    ProgramSender

	cancelled bool
	completed bool // completion screen active, controller no longer drives
	width     int
	height    int

	// Step components
	branchStep     *BranchStep
	detailsStep    *DetailsStep
	tierStep       *TierStep
	grantsStep     *GrantsStep
	deliveryStep   *DeliveryStep
	reviewStep     *ReviewStep
	completionStep *CompletionStep

	// Button bar with focus tracking
	buttonBar     *wizard.ButtonBar
	buttonFocused bool
	cachedBars    map[int]*wizard.ButtonBar // per step, so focus survives re-render

	// Modal state
	confirm         *ConfirmRequest // pending tier-upgrade confirmation
	submitError     string
	showSubmitError bool
	submitting      bool
}

// Run is the entry point for the request wizard. It resolves the session
// identity, wires the backend clients and runs a standalone program.
func Run(cfg *config.Config) error {
	identity, err := session.NewFileProvider(session.Path()).Current()
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("loading tier catalog: %w", err)
	}

	client := backend.NewClient(cfg.BackendURL,
		backend.WithToken(identity.Token),
		backend.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second}),
	)

	m := NewWizardModel(cfg, identity, cat, client)

	p := tea.NewProgram(m)
	m.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	wizModel, ok := finalModel.(*WizardModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	if wizModel.cancelled {
		return fmt.Errorf("request cancelled by user")
	}

	return nil
}

// NewWizardModel assembles the wizard with injected dependencies. The
// program sender must be set before the first tier step runs.
func NewWizardModel(cfg *config.Config, identity *session.Identity, cat *catalog.Catalog, client *backend.Client) *WizardModel {
	form := request.NewForm()
	return &WizardModel{
		ctrl:       request.NewController(form),
		cfg:        cfg,
		identity:   identity,
		cat:        cat,
		client:     client,
		synth:      document.New(cfg.NamingPrefix),
		ctx:        context.Background(),
		cachedBars: make(map[int]*wizard.ButtonBar),
	}
}

// SetProgram wires the running program for background-command callbacks
// and builds the comparator's modal confirmer on top of it.
func (m *WizardModel) SetProgram(p ProgramSender) {
	m.program = p
	m.comparator = tiers.New(m.cat, m.client, newModalConfirmer(p), m.identity.Email)
}

func (m *WizardModel) form() *request.Form { return m.ctrl.Form() }

func (m *WizardModel) reporter() document.Reporter {
	return document.Reporter{Name: m.identity.Name, Email: m.identity.Email}
}

// Init initializes the wizard model.
func (m *WizardModel) Init() tea.Cmd {
	m.branchStep = NewBranchStep(m.form())
	return m.branchStep.Init()
}

// Update handles messages for the wizard.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		// The tier-upgrade confirmation modal takes precedence over
		// everything; the comparator goroutine is blocked on the answer.
		if m.confirm != nil {
			switch msg.String() {
			case "y", "Y":
				m.confirm.Resolve(true)
				m.confirm = nil
			case "n", "N", "esc":
				m.confirm.Resolve(false)
				m.confirm = nil
			}
			return m, nil
		}

		if m.showSubmitError {
			switch msg.String() {
			case "y", "Y":
				return m, func() tea.Msg { return RetrySubmitMsg{} }
			case "n", "N", "esc":
				m.showSubmitError = false
				m.submitError = ""
				return m, nil
			}
			return m, nil
		}

		if m.buttonFocused && m.buttonBar != nil {
			switch msg.String() {
			case "tab", "right":
				if !m.buttonBar.FocusNext() {
					m.buttonFocused = false
					m.buttonBar.Blur()
					return m, m.focusStepContentFirst()
				}
				return m, nil
			case "shift+tab", "left":
				if !m.buttonBar.FocusPrev() {
					m.buttonFocused = false
					m.buttonBar.Blur()
					return m, m.focusStepContentLast()
				}
				return m, nil
			case "enter", "space":
				return m.activateButton(m.buttonBar.FocusedButton())
			}
		}

		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			if m.completed {
				return m, nil
			}
			if m.ctrl.Step() == request.StepRequestType {
				m.cancelled = true
				return m, tea.Quit
			}
			// The review step closes its own diff overlay on ESC first.
			if m.ctrl.Step() == request.StepReview && m.reviewStep != nil && m.reviewStep.showDiff {
				break
			}
			return m.goBack()
		case "tab":
			if !m.buttonFocused && m.hasButtons() {
				m.buttonFocused = true
				m.blurStepContent()
				m.ensureButtonBar()
				m.buttonBar.FocusFirst()
				return m, nil
			}
		case "shift+tab":
			if !m.buttonFocused && m.hasButtons() {
				m.buttonFocused = true
				m.blurStepContent()
				m.ensureButtonBar()
				m.buttonBar.FocusLast()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateCurrentStepSize()
		return m, nil

	case BranchChosenMsg:
		prev := m.form().RequestType
		m.ctrl.SelectBranch(msg.Branch)
		if prev != request.BranchUnset && prev != msg.Branch && m.comparator != nil {
			// A branch switch invalidates any in-flight tier result.
			m.comparator.Reset()
		}
		if err := m.ctrl.Advance(); err != nil {
			logger.Debug("Branch step not ready: %v", err)
			return m, nil
		}
		return m, m.enterCurrentStep()

	case DetailsSubmittedMsg, TierSubmittedMsg, GrantsSubmittedMsg, DeliverySubmittedMsg:
		if err := m.ctrl.Advance(); err != nil {
			logger.Debug("Step %d not ready: %v", m.ctrl.Step(), err)
			return m, nil
		}
		return m, m.enterCurrentStep()

	case ConfirmRequestMsg:
		m.confirm = msg.Request
		return m, nil

	case SubmitRequestMsg, RetrySubmitMsg:
		return m, m.submit()

	case SubmittedMsg:
		m.submitting = false
		m.showSubmitError = false
		m.submitError = ""
		m.completed = true
		m.buttonFocused = false
		m.buttonBar = nil
		m.completionStep = NewCompletionStep(msg.TicketID)
		m.updateCurrentStepSize()
		return m, m.completionStep.Init()

	case SubmitErrorMsg:
		m.submitting = false
		m.submitError = msg.Err.Error()
		m.showSubmitError = true
		return m, nil

	case RestartWizardMsg:
		logger.Debug("Restarting request wizard")
		form := request.NewForm()
		m.ctrl = request.NewController(form)
		if m.comparator != nil {
			m.comparator.Reset()
		}
		m.completed = false
		m.completionStep = nil
		m.reviewStep = nil
		m.buttonFocused = false
		m.buttonBar = nil
		m.cachedBars = make(map[int]*wizard.ButtonBar)
		return m, m.enterCurrentStep()

	case wizard.TabExitForwardMsg:
		m.buttonFocused = true
		m.blurStepContent()
		m.ensureButtonBar()
		m.buttonBar.FocusFirst()
		return m, nil

	case wizard.TabExitBackwardMsg:
		if m.ctrl.Step() == request.StepReview {
			// The review step's Back button retreats directly.
			return m.goBack()
		}
		m.buttonFocused = true
		m.blurStepContent()
		m.ensureButtonBar()
		m.buttonBar.FocusLast()
		return m, nil
	}

	return m.updateCurrentStep(msg)
}

// submit files the ticket. Exactly one POST per confirmed submit: a
// repeated message while one is in flight is dropped.
func (m *WizardModel) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	m.showSubmitError = false

	_, payload := m.synth.Synthesize(m.form(), m.reporter(), time.Now())
	if m.reviewStep != nil && m.reviewStep.Edited() {
		payload.BodyOverride = m.reviewStep.Body()
	}

	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		receipt, err := client.SubmitRequest(ctx, payload)
		if err != nil {
			logger.Error("Request submission failed: %v", err)
			return SubmitErrorMsg{Err: err}
		}
		logger.Info("Request filed as ticket %s", receipt.TicketID)
		return SubmittedMsg{TicketID: receipt.TicketID}
	}
}

// View renders the wizard.
func (m *WizardModel) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderCurrentStep()

	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// enterCurrentStep builds the component for the controller's current step
// and returns its init command.
func (m *WizardModel) enterCurrentStep() tea.Cmd {
	m.buttonFocused = false
	m.buttonBar = nil

	var cmd tea.Cmd
	switch m.ctrl.Step() {
	case request.StepRequestType:
		m.branchStep = NewBranchStep(m.form())
		cmd = m.branchStep.Init()
	case request.StepDetails:
		m.detailsStep = NewDetailsStep(m.form())
		cmd = m.detailsStep.Init()
	case request.StepTier:
		m.tierStep = NewTierStep(m.ctx, m.form(), m.comparator, m.cat)
		cmd = m.tierStep.Init()
	case request.StepGrants:
		m.grantsStep = NewGrantsStep(m.form())
		cmd = m.grantsStep.Init()
	case request.StepDelivery:
		m.deliveryStep = NewDeliveryStep(m.form())
		cmd = m.deliveryStep.Init()
	case request.StepReview:
		m.reviewStep = NewReviewStep(m.form(), m.synth, m.reporter())
		cmd = m.reviewStep.Init()
	}
	m.updateCurrentStepSize()
	return cmd
}

// updateCurrentStep forwards a message to the current step component.
func (m *WizardModel) updateCurrentStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.completed {
		if m.completionStep != nil {
			cmd = m.completionStep.Update(msg)
		}
		return m, cmd
	}

	switch m.ctrl.Step() {
	case request.StepRequestType:
		if m.branchStep != nil {
			cmd = m.branchStep.Update(msg)
		}
	case request.StepDetails:
		if m.detailsStep != nil {
			cmd = m.detailsStep.Update(msg)
		}
	case request.StepTier:
		if m.tierStep != nil {
			cmd = m.tierStep.Update(msg)
		}
	case request.StepGrants:
		if m.grantsStep != nil {
			cmd = m.grantsStep.Update(msg)
		}
	case request.StepDelivery:
		if m.deliveryStep != nil {
			cmd = m.deliveryStep.Update(msg)
		}
	case request.StepReview:
		if m.reviewStep != nil {
			cmd = m.reviewStep.Update(msg)
		}
	}

	return m, cmd
}

// getModalContentSize returns the internal content dimensions for the modal.
func (m *WizardModel) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 20 {
		height = 20
	}
	if height > 44 {
		height = 44
	}
	// Subtract modal chrome: padding, border, title and hint lines.
	height = height - 10
	if height < 10 {
		height = 10
	}
	return width, height
}

// updateCurrentStepSize updates the size of the current step.
func (m *WizardModel) updateCurrentStepSize() {
	contentWidth, contentHeight := m.getModalContentSize()

	if m.completed {
		if m.completionStep != nil {
			m.completionStep.SetSize(contentWidth, contentHeight)
		}
		return
	}

	switch m.ctrl.Step() {
	case request.StepRequestType:
		if m.branchStep != nil {
			m.branchStep.SetSize(contentWidth, contentHeight)
		}
	case request.StepDetails:
		if m.detailsStep != nil {
			m.detailsStep.SetSize(contentWidth, contentHeight)
		}
	case request.StepTier:
		if m.tierStep != nil {
			m.tierStep.SetSize(contentWidth, contentHeight)
		}
	case request.StepGrants:
		if m.grantsStep != nil {
			m.grantsStep.SetSize(contentWidth, contentHeight)
		}
	case request.StepDelivery:
		if m.deliveryStep != nil {
			m.deliveryStep.SetSize(contentWidth, contentHeight)
		}
	case request.StepReview:
		if m.reviewStep != nil {
			m.reviewStep.SetSize(contentWidth, contentHeight)
		}
	}
}

// stepTitle names the current step for the modal header.
func (m *WizardModel) stepTitle() string {
	if m.completed {
		return "New Request - Complete"
	}
	branch := ""
	if m.ctrl.Branch() != request.BranchUnset {
		branch = " · " + m.ctrl.Branch().Label()
	}
	switch m.ctrl.Step() {
	case request.StepRequestType:
		return "New Request - Step 1: Request Type"
	case request.StepDetails:
		return "New Request - Step 2: Details" + branch
	case request.StepTier:
		return "New Request - Step 3: Service Tier"
	case request.StepGrants:
		return "New Request - Step 4: Access Grants"
	case request.StepDelivery:
		return "New Request - Step 5: Delivery & Lifecycle"
	case request.StepReview:
		return "New Request - Step 6: Review & Submit"
	}
	return "New Request"
}

// renderCurrentStep renders the content for the current step.
func (m *WizardModel) renderCurrentStep() string {
	currentTheme := theme.Current()

	if m.confirm != nil {
		return renderConfirmModal(m.confirm.Prompt)
	}
	if m.showSubmitError {
		return m.renderSubmitErrorModal()
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(currentTheme.Primary)).
		MarginBottom(1)
	title := titleStyle.Render(m.stepTitle())

	var stepContent string
	if m.completed {
		if m.completionStep != nil {
			stepContent = m.completionStep.View()
		}
	} else {
		switch m.ctrl.Step() {
		case request.StepRequestType:
			if m.branchStep != nil {
				stepContent = m.branchStep.View()
			}
		case request.StepDetails:
			if m.detailsStep != nil {
				stepContent = m.detailsStep.View()
			}
		case request.StepTier:
			if m.tierStep != nil {
				stepContent = m.tierStep.View()
			}
		case request.StepGrants:
			if m.grantsStep != nil {
				stepContent = m.grantsStep.View()
			}
		case request.StepDelivery:
			if m.deliveryStep != nil {
				stepContent = m.deliveryStep.View()
			}
		case request.StepReview:
			if m.reviewStep != nil {
				stepContent = m.reviewStep.View()
			}
		}
	}

	var buttonBarContent string
	if m.hasButtons() {
		m.ensureButtonBar()
		buttonBarContent = m.buttonBar.Render()
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(currentTheme.FgMuted)).
		Render("tab to navigate • esc to go back")

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(currentTheme.BorderDefault))

	// Constrain height on the review step so the preview scrolls.
	if !m.completed && m.ctrl.Step() == request.StepReview {
		modalHeight := m.height - 4
		if modalHeight < 20 {
			modalHeight = 20
		}
		if modalHeight > 44 {
			modalHeight = 44
		}
		modalStyle = modalStyle.Height(modalHeight)
	}

	selfNavigating := m.completed || m.ctrl.Step() == request.StepReview

	var content string
	if buttonBarContent != "" {
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			stepContent,
			"",
			buttonBarContent,
			"",
			hint,
		)
	} else if selfNavigating {
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			stepContent,
		)
	} else {
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			title,
			stepContent,
			"",
			hint,
		)
	}

	return modalStyle.Render(content)
}

// renderConfirmModal renders the blocking tier-upgrade confirmation.
func renderConfirmModal(p tiers.Prompt) string {
	t := theme.Current()

	color := t.Warning
	icon := "⚠"
	switch p.Kind {
	case tiers.PromptInfo:
		color, icon = t.Info, "ℹ"
	case tiers.PromptError:
		color, icon = t.Error, "✗"
	case tiers.PromptSuccess:
		color, icon = t.Success, "✓"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(color)).
		MarginBottom(1)
	titleText := titleStyle.Render(icon + " " + p.Title)

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1)
	messageText := messageStyle.Render(p.Message)

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))
	buttons := buttonStyle.Render("Press Y to confirm, N or ESC to cancel")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		"",
		buttons,
	)

	modalStyle := lipgloss.NewStyle().
		Width(56).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color))

	return modalStyle.Render(content)
}

// renderSubmitErrorModal renders the retry/cancel modal for a failed
// submission.
func (m *WizardModel) renderSubmitErrorModal() string {
	t := theme.Current()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Error)).
		MarginBottom(1)
	titleText := titleStyle.Render("⚠ Submission Failed")

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1)
	messageText := messageStyle.Render(fmt.Sprintf("Could not file the request: %s", m.submitError))

	buttonStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted))
	buttons := buttonStyle.Render("Press Y to retry, N or ESC to cancel")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		"",
		buttons,
	)

	modalStyle := lipgloss.NewStyle().
		Width(60).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Error))

	return modalStyle.Render(content)
}

// hasButtons returns true if the current step needs wizard-level
// navigation buttons. The review and completion steps render their own.
func (m *WizardModel) hasButtons() bool {
	return !m.completed && m.ctrl.Step() != request.StepReview
}

// ensureButtonBar creates the button bar if needed, using the cached
// instance per step so focus state survives re-render.
func (m *WizardModel) ensureButtonBar() {
	if cached, ok := m.cachedBars[m.ctrl.Step()]; ok {
		m.buttonBar = cached
		return
	}

	var buttons []wizard.Button
	if m.ctrl.Step() == request.StepRequestType {
		buttons = wizard.CreateCancelNextButtons(true, "Next →")
	} else {
		buttons = wizard.CreateBackNextButtons(true, true, "Next →")
	}

	newBar := wizard.NewButtonBar(buttons)
	newBar.SetWidth(modalContentWidth)
	m.cachedBars[m.ctrl.Step()] = newBar
	m.buttonBar = newBar
}

// activateButton handles wizard-level button activation.
func (m *WizardModel) activateButton(btnID wizard.ButtonID) (tea.Model, tea.Cmd) {
	switch btnID {
	case wizard.ButtonCancel:
		m.cancelled = true
		return m, tea.Quit
	case wizard.ButtonBack:
		return m.goBack()
	case wizard.ButtonNext:
		return m, m.goNext()
	}
	return m, nil
}

// goBack retreats one step. Back navigation never re-validates.
func (m *WizardModel) goBack() (tea.Model, tea.Cmd) {
	if m.ctrl.Step() == request.StepRequestType {
		return m, nil
	}
	if m.ctrl.Step() == request.StepTier && m.comparator != nil {
		// Leaving the tier step invalidates any in-flight result.
		m.comparator.Reset()
	}
	m.ctrl.Retreat()
	return m, m.enterCurrentStep()
}

// goNext submits the current step; the step validates and emits its
// submitted message, which advances the controller.
func (m *WizardModel) goNext() tea.Cmd {
	switch m.ctrl.Step() {
	case request.StepRequestType:
		if m.branchStep != nil {
			return m.branchStep.Submit()
		}
	case request.StepDetails:
		if m.detailsStep != nil {
			return m.detailsStep.Submit()
		}
	case request.StepTier:
		if m.tierStep != nil {
			return m.tierStep.Submit()
		}
	case request.StepGrants:
		if m.grantsStep != nil {
			return m.grantsStep.Submit()
		}
	case request.StepDelivery:
		if m.deliveryStep != nil {
			return m.deliveryStep.Submit()
		}
	}
	return nil
}

// focusStepContentFirst focuses the first element in step content.
func (m *WizardModel) focusStepContentFirst() tea.Cmd {
	switch m.ctrl.Step() {
	case request.StepRequestType:
		if m.branchStep != nil {
			m.branchStep.Focus()
		}
	case request.StepDetails:
		if m.detailsStep != nil {
			m.detailsStep.Focus()
		}
	case request.StepTier:
		if m.tierStep != nil {
			m.tierStep.Focus()
		}
	case request.StepGrants:
		if m.grantsStep != nil {
			m.grantsStep.Focus()
		}
	case request.StepDelivery:
		if m.deliveryStep != nil {
			m.deliveryStep.Focus()
		}
	}
	return nil
}

// focusStepContentLast focuses the last element in step content.
func (m *WizardModel) focusStepContentLast() tea.Cmd {
	if m.ctrl.Step() == request.StepDetails && m.detailsStep != nil {
		m.detailsStep.FocusLast()
		return nil
	}
	return m.focusStepContentFirst()
}

// blurStepContent blurs all step content.
func (m *WizardModel) blurStepContent() {
	switch m.ctrl.Step() {
	case request.StepRequestType:
		if m.branchStep != nil {
			m.branchStep.Blur()
		}
	case request.StepDetails:
		if m.detailsStep != nil {
			m.detailsStep.Blur()
		}
	case request.StepTier:
		if m.tierStep != nil {
			m.tierStep.Blur()
		}
	case request.StepGrants:
		if m.grantsStep != nil {
			m.grantsStep.Blur()
		}
	case request.StepDelivery:
		if m.deliveryStep != nil {
			m.deliveryStep.Blur()
		}
	}
}
