// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, runs API commands and routes input to child screens

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paumaneja/mythic-companions-cli/internal/account"
	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/clock"
	"github.com/paumaneja/mythic-companions-cli/internal/dependencies/random"
	"github.com/paumaneja/mythic-companions-cli/internal/game"
	"github.com/paumaneja/mythic-companions-cli/internal/game/reward"
	"github.com/paumaneja/mythic-companions-cli/internal/sanctuary"
	"github.com/paumaneja/mythic-companions-cli/internal/session"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/arcade"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/auth"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/companionview"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/dashboard"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/filepicker"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/icons"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/menu"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/pictures"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/profile"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/styles"
	"github.com/paumaneja/mythic-companions-cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenDashboard
	ScreenCreate
	ScreenSanctuary
	ScreenGameMenu
	ScreenGame
	ScreenProfile
	ScreenFilePicker
)

// Layout constants
const (
	minTerminalWidth = 80 // Minimum width before using single-column layout
	panelPadding     = 4  // Total horizontal padding from panel borders (2 each side)
)

// Notices shown on the login screen when a session ends on its own
const (
	MsgInactivityLogout = "You have been logged out due to inactivity."
	MsgSessionExpired   = "Your session has expired. Please log in again."
)

// sessionMsg carries a session store event into the update loop
type sessionMsg struct {
	event session.Event
}

// restoredMsg is sent when the stored session has been checked
type restoredMsg struct {
	ok  bool
	err error
}

// loggedInMsg is sent when a login attempt completes
type loggedInMsg struct {
	username string
	err      error
}

// registeredMsg is sent when a registration attempt completes
type registeredMsg struct {
	err error
}

// dashboardLoadedMsg is sent when the companion list and species are loaded
type dashboardLoadedMsg struct {
	data *sanctuary.Dashboard
	err  error
}

// sanctuaryLoadedMsg is sent when a companion and the inventory are loaded
type sanctuaryLoadedMsg struct {
	companionID int64
	view        *sanctuary.View
	err         error
}

// interactedMsg is sent when a sanctuary interaction completes
type interactedMsg struct {
	action    client.Interaction
	companion *client.Companion
	err       error
}

// itemAppliedMsg is sent when an item use or equip toggle completes
type itemAppliedMsg struct {
	view     *sanctuary.View
	success  string
	fallback string
	err      error
}

// companionCreatedMsg is sent when adoption completes
type companionCreatedMsg struct {
	companion *client.Companion
	err       error
}

// companionDeletedMsg is sent when a companion has been released
type companionDeletedMsg struct {
	err error
}

// profileLoadedMsg is sent when the profile screen's data arrives
type profileLoadedMsg struct {
	profile *client.UserProfile
	err     error
}

// profileSavedMsg is sent when an email or picture change completes
type profileSavedMsg struct {
	profile  *client.UserProfile
	success  string
	fallback string
	err      error
}

// passwordChangedMsg is sent when a password change completes
type passwordChangedMsg struct {
	err error
}

// Deps are the collaborators the TUI runs against
type Deps struct {
	Client      *client.Client
	Session     *session.Store
	Clock       clock.Clock
	Random      random.Random
	Logger      *slog.Logger
	PicturesDir string
	// Schedule overrides how game timers are delivered; nil uses tea.Tick
	Schedule arcade.Scheduler
}

// App is the root model for the TUI
type App struct {
	ctx         context.Context
	client      *client.Client
	session     *session.Store
	sanctuary   *sanctuary.Service
	account     *account.Service
	submitter   *reward.Submitter
	clock       clock.Clock
	random      random.Random
	schedule    arcade.Scheduler
	logger      *slog.Logger
	picturesDir string

	screen      Screen
	width       int
	height      int
	username    string
	companionID int64
	lastUpdate  time.Time
	restoring   bool
	loading     bool
	spinner     spinner.Model

	// Child models
	authForm     *auth.Form
	dashboard    *dashboard.Dashboard
	wizardScreen *wizard.Wizard
	companion    *companionview.CompanionView
	gameMenu     *menu.Menu
	arcade       *arcade.Arcade
	profile      *profile.Profile
	filePicker   *filepicker.FilePicker
}

// New creates a new TUI application
func New(ctx context.Context, deps Deps) *App {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Random == nil {
		deps.Random = random.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.KeyStyle

	a := &App{
		ctx:         ctx,
		client:      deps.Client,
		session:     deps.Session,
		sanctuary:   sanctuary.NewService(deps.Client, deps.Logger),
		submitter:   reward.NewSubmitter(deps.Client, deps.Logger),
		clock:       deps.Clock,
		random:      deps.Random,
		schedule:    deps.Schedule,
		logger:      deps.Logger.With("component", "tui"),
		picturesDir: deps.PicturesDir,
		screen:      ScreenLogin,
		spinner:     s,
		authForm:    auth.NewLogin(""),
	}
	a.account = account.NewService(deps.Client, deps.Session.UpdateProfile, deps.Logger)
	return a
}

// Screen returns the screen being shown
func (a *App) Screen() Screen { return a.screen }

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	a.restoring = true
	return tea.Batch(a.authForm.Init(), a.spinner.Tick, a.restore())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeChildren()
		return a, a.forward(msg)

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.session.Touch()
		return a.handleKey(msg)

	case tea.MouseMsg:
		a.session.Touch()
		return a, a.forward(msg)

	case tea.FocusMsg:
		a.session.Touch()
		return a, nil

	case spinner.TickMsg:
		if a.screen == ScreenGame {
			return a, a.forward(msg)
		}
		if !a.restoring && !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case sessionMsg:
		return a.handleSession(msg.event)

	case restoredMsg:
		return a.handleRestored(msg)

	// Authentication
	case auth.LoginSubmittedMsg:
		return a, a.login(msg)

	case auth.RegisterSubmittedMsg:
		return a, a.register(msg.Registration)

	case auth.SwitchMsg:
		if msg.To == auth.ModeRegister {
			return a, a.showAuth(auth.NewRegister(), ScreenRegister)
		}
		return a, a.showAuth(auth.NewLogin(""), ScreenLogin)

	case loggedInMsg:
		if msg.err != nil {
			if a.authForm == nil {
				return a, nil
			}
			return a, a.authForm.Fail(auth.LoginFailure(msg.err))
		}
		a.username = msg.username
		a.authForm = nil
		return a, a.showDashboard(true)

	case registeredMsg:
		if msg.err != nil {
			if a.authForm == nil {
				return a, nil
			}
			return a, a.authForm.Fail(auth.RegisterFailure(msg.err))
		}
		return a, a.showAuth(auth.NewLogin(auth.MsgRegistered), ScreenLogin)

	// Dashboard and adoption
	case dashboardLoadedMsg:
		return a.handleDashboardLoaded(msg)

	case dashboard.CompanionSelectedMsg:
		return a, a.openSanctuary(msg.Companion.ID)

	case dashboard.CreateRequestedMsg:
		return a, a.runWizard()

	case wizard.WizardCompleteMsg:
		return a, a.createCompanion(msg.Name, msg.SpeciesID)

	case wizard.WizardCancelledMsg:
		a.wizardScreen = nil
		a.screen = ScreenDashboard
		return a, nil

	case companionCreatedMsg:
		if a.wizardScreen == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.wizardScreen.Fail(createFailure(msg.err))
		}
		a.wizardScreen = nil
		return a, tea.Batch(a.openSanctuary(msg.companion.ID), a.loadDashboard())

	// Sanctuary
	case sanctuaryLoadedMsg:
		return a.handleSanctuaryLoaded(msg)

	case companionview.InteractMsg:
		return a, a.interact(msg.Action)

	case interactedMsg:
		if a.companion == nil {
			return a, nil
		}
		if msg.err != nil {
			a.companion.Fail(sanctuary.InteractFailed(msg.err, msg.action))
			return a, nil
		}
		a.companion.SetCompanion(msg.companion)
		a.companion.ShowAction(msg.action)
		a.companion.Succeed(sanctuary.InteractSucceeded(msg.action))
		a.lastUpdate = a.clock.Now()
		return a, nil

	case companionview.UseItemMsg:
		return a, a.applyItem(msg.InventoryItemID, false)

	case companionview.ToggleEquipMsg:
		return a, a.applyItem(msg.InventoryItemID, true)

	case itemAppliedMsg:
		if a.companion == nil {
			return a, nil
		}
		if msg.err != nil {
			a.companion.Fail(client.Describe(msg.err, msg.fallback))
			return a, nil
		}
		a.companion.SetView(msg.view)
		a.companion.Succeed(msg.success)
		a.lastUpdate = a.clock.Now()
		return a, nil

	case companionview.DeleteConfirmedMsg:
		return a, a.deleteCompanion(msg.CompanionID)

	case companionDeletedMsg:
		if a.companion == nil {
			return a, nil
		}
		if msg.err != nil {
			a.companion.Fail(client.Describe(msg.err, sanctuary.MsgDeleteFailed))
			return a, nil
		}
		a.companion = nil
		return a, a.showDashboard(true)

	case companionview.PlayRequestedMsg:
		return a, a.openGameMenu()

	case companionview.BackMsg:
		a.companion = nil
		return a, a.showDashboard(true)

	// Minigames
	case menu.GameSelectedMsg:
		return a, a.startGame(msg)

	case menu.CancelledMsg:
		a.gameMenu = nil
		a.screen = ScreenSanctuary
		return a, nil

	case arcade.QuestionsWantedMsg:
		return a, a.fetchQuestions(msg.Attempt)

	case arcade.FinishedMsg:
		return a, a.submitScore(msg)

	case arcade.ExitMsg:
		a.arcade = nil
		a.screen = ScreenSanctuary
		return a, a.loadSanctuary(a.companionID)

	// Profile
	case profileLoadedMsg:
		if a.profile == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.profile.Fail(account.Failure(msg.err, account.MsgProfileLoadFailed))
		}
		a.profile.SetProfile(msg.profile)
		return a, nil

	case profile.EmailSubmittedMsg:
		return a, a.saveProfile(func(ctx context.Context) (*client.UserProfile, error) {
			return a.account.UpdateEmail(ctx, msg.Email)
		}, account.MsgProfileUpdated, account.MsgProfileFailed)

	case profile.PasswordSubmittedMsg:
		return a, a.changePassword(msg)

	case profile.UploadRequestedMsg:
		return a, a.openFilePicker()

	case profile.RemovePictureMsg:
		return a, a.saveProfile(a.account.RemovePicture, account.MsgPictureRemoved, account.MsgPictureFailed)

	case profile.BackMsg:
		a.profile = nil
		return a, a.showDashboard(a.dashboard == nil)

	case filepicker.FileSelectedMsg:
		a.filePicker = nil
		a.screen = ScreenProfile
		path := msg.Path
		return a, a.saveProfile(func(ctx context.Context) (*client.UserProfile, error) {
			return a.account.UploadPicture(ctx, path)
		}, account.MsgPictureUploaded, account.MsgPictureFailed)

	case filepicker.CancelledMsg:
		a.filePicker = nil
		a.screen = ScreenProfile
		return a, nil

	case profileSavedMsg:
		if a.profile == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.profile.Fail(account.Failure(msg.err, msg.fallback))
		}
		a.profile.SetProfile(msg.profile)
		a.profile.Succeed(msg.success)
		return a, nil

	case passwordChangedMsg:
		if a.profile == nil {
			return a, nil
		}
		if msg.err != nil {
			return a, a.profile.Fail(account.Failure(msg.err, account.MsgPasswordFailed))
		}
		a.profile.Succeed(account.MsgPasswordChanged)
		return a, nil
	}

	// Forward everything else (form internals, game timers, results) to the active screen
	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenDashboard:
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "r":
			return a, a.loadDashboard()
		case "p":
			return a, a.openProfile()
		case "o":
			a.session.Logout()
			return a, a.showLogin("")
		}
		if a.dashboard != nil {
			return a, a.dashboard.HandleKey(msg)
		}
		return a, nil

	case ScreenSanctuary:
		if a.companion != nil {
			return a, a.companion.HandleKey(msg)
		}
		if msg.String() == "esc" || msg.String() == "b" {
			return a, a.showDashboard(true)
		}
		return a, nil
	}
	return a, a.forward(msg)
}

// forward hands msg to the model of the current screen
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var model tea.Model
	var cmd tea.Cmd

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		if a.authForm == nil {
			return nil
		}
		model, cmd = a.authForm.Update(msg)
		a.authForm = model.(*auth.Form)
	case ScreenCreate:
		if a.wizardScreen == nil {
			return nil
		}
		model, cmd = a.wizardScreen.Update(msg)
		a.wizardScreen = model.(*wizard.Wizard)
	case ScreenGameMenu:
		if a.gameMenu == nil {
			return nil
		}
		model, cmd = a.gameMenu.Update(msg)
		a.gameMenu = model.(*menu.Menu)
	case ScreenGame:
		if a.arcade == nil {
			return nil
		}
		model, cmd = a.arcade.Update(msg)
		a.arcade = model.(*arcade.Arcade)
	case ScreenProfile:
		if a.profile == nil {
			return nil
		}
		model, cmd = a.profile.Update(msg)
		a.profile = model.(*profile.Profile)
	case ScreenFilePicker:
		if a.filePicker == nil {
			return nil
		}
		model, cmd = a.filePicker.Update(msg)
		a.filePicker = model.(*filepicker.FilePicker)
	}
	return cmd
}

func (a *App) resizeChildren() {
	if a.dashboard != nil {
		a.dashboard.SetSize(a.dashboardWidth(), a.contentHeight())
	}
	if a.companion != nil {
		a.companion.SetSize(a.contentWidth(), a.contentHeight())
	}
	if a.wizardScreen != nil {
		a.wizardScreen.SetWidth(a.contentWidth())
	}
	if a.arcade != nil {
		a.arcade.SetSize(a.contentWidth(), a.contentHeight())
	}
}

// public reports whether the current screen is reachable without a session
func (a *App) public() bool {
	return a.screen == ScreenLogin || a.screen == ScreenRegister
}

func (a *App) handleSession(ev session.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case session.EventLoggedOut:
		// Events arrive asynchronously; a newer login may already be active
		if a.public() || a.session.Authenticated() {
			return a, nil
		}
		notice := ""
		switch ev.Reason {
		case session.ReasonInactivity:
			notice = MsgInactivityLogout
		case session.ReasonRejected:
			notice = MsgSessionExpired
		}
		a.logger.Info("session ended", "reason", ev.Reason.String())
		return a, a.showLogin(notice)

	case session.EventProfileUpdated:
		if ev.Profile != nil {
			a.username = ev.Profile.Username
			if a.profile != nil && !a.profile.Editing() {
				a.profile.SetProfile(ev.Profile)
			}
		}
	}
	return a, nil
}

func (a *App) handleRestored(msg restoredMsg) (tea.Model, tea.Cmd) {
	a.restoring = false
	if msg.err != nil {
		a.logger.Warn("could not restore session", "error", msg.err)
		if notice := client.Describe(msg.err, ""); notice != "" {
			return a, a.showAuth(auth.NewLogin(notice), ScreenLogin)
		}
	}
	if !msg.ok || !a.public() {
		return a, nil
	}
	if p := a.session.Profile(); p != nil {
		a.username = p.Username
	}
	a.authForm = nil
	return a, a.showDashboard(true)
}

func (a *App) handleDashboardLoaded(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		a.logger.Error("dashboard load failed", "error", msg.err)
		if a.dashboard == nil {
			a.dashboard = dashboard.New(nil, a.username, a.dashboardWidth(), a.contentHeight())
		}
		a.dashboard.SetError(client.Describe(msg.err, sanctuary.MsgDashboardFailed))
		return a, nil
	}
	if a.dashboard == nil {
		a.dashboard = dashboard.New(msg.data, a.username, a.dashboardWidth(), a.contentHeight())
	} else {
		a.dashboard.Update(msg.data)
	}
	a.lastUpdate = a.clock.Now()
	return a, nil
}

func (a *App) handleSanctuaryLoaded(msg sanctuaryLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if a.companion == nil || msg.companionID != a.companionID {
		return a, nil
	}
	if msg.err != nil {
		a.companion.Fail(client.Describe(msg.err, sanctuary.MsgLoadFailed))
		return a, nil
	}
	a.companion.SetView(msg.view)
	a.lastUpdate = a.clock.Now()
	return a, nil
}

// showLogin drops every signed-in screen and shows the login form
func (a *App) showLogin(notice string) tea.Cmd {
	a.dashboard = nil
	a.wizardScreen = nil
	a.companion = nil
	a.gameMenu = nil
	a.arcade = nil
	a.profile = nil
	a.filePicker = nil
	a.username = ""
	a.companionID = 0
	a.loading = false
	a.lastUpdate = time.Time{}
	return a.showAuth(auth.NewLogin(notice), ScreenLogin)
}

func (a *App) showAuth(form *auth.Form, screen Screen) tea.Cmd {
	form.SetWidth(a.width)
	a.authForm = form
	a.screen = screen
	return form.Init()
}

// showDashboard switches to the dashboard, reloading it when asked
func (a *App) showDashboard(reload bool) tea.Cmd {
	a.screen = ScreenDashboard
	if reload || a.dashboard == nil {
		return a.loadDashboard()
	}
	return nil
}

func (a *App) startLoading() tea.Cmd {
	a.loading = true
	return a.spinner.Tick
}

// restore checks for a stored session
func (a *App) restore() tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		ok, err := a.session.Rehydrate(ctx)
		return restoredMsg{ok: ok, err: err}
	}
}

// login authenticates and stores the session
func (a *App) login(msg auth.LoginSubmittedMsg) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		resp, err := a.client.Login(ctx, client.Credentials{Username: msg.Username, Password: msg.Password})
		if err != nil {
			return loggedInMsg{err: err}
		}
		if err := a.session.Login(ctx, resp.Token, strconv.FormatInt(resp.UserID, 10), resp.Role); err != nil {
			return loggedInMsg{err: err}
		}
		return loggedInMsg{username: msg.Username}
	}
}

// register creates an account
func (a *App) register(reg client.Registration) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return registeredMsg{err: a.client.Register(ctx, reg)}
	}
}

// loadDashboard creates a command to fetch the companion list and species
func (a *App) loadDashboard() tea.Cmd {
	userID, err := strconv.ParseInt(a.session.UserID(), 10, 64)
	if err != nil {
		return func() tea.Msg {
			return dashboardLoadedMsg{err: fmt.Errorf("invalid user id %q: %w", a.session.UserID(), err)}
		}
	}
	ctx := a.ctx
	return tea.Batch(a.startLoading(), func() tea.Msg {
		data, err := a.sanctuary.Dashboard(ctx, userID)
		return dashboardLoadedMsg{data: data, err: err}
	})
}

// runWizard transitions to the adoption wizard
func (a *App) runWizard() tea.Cmd {
	if a.dashboard == nil || a.dashboard.Data() == nil {
		return nil
	}
	a.wizardScreen = wizard.New(a.dashboard.Data())
	a.wizardScreen.SetWidth(a.contentWidth())
	a.screen = ScreenCreate
	return a.wizardScreen.Init()
}

func (a *App) createCompanion(name string, speciesID int64) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		c, err := a.sanctuary.Create(ctx, name, speciesID)
		return companionCreatedMsg{companion: c, err: err}
	}
}

func createFailure(err error) string {
	if errors.Is(err, sanctuary.ErrIncomplete) {
		return sanctuary.MsgCreateIncomplete
	}
	return client.Describe(err, sanctuary.MsgCreateFailed)
}

// openSanctuary shows a companion's sanctuary and loads it
func (a *App) openSanctuary(id int64) tea.Cmd {
	a.companionID = id
	a.companion = companionview.New(nil, a.contentWidth(), a.contentHeight())
	a.screen = ScreenSanctuary
	return a.loadSanctuary(id)
}

func (a *App) loadSanctuary(id int64) tea.Cmd {
	ctx := a.ctx
	return tea.Batch(a.startLoading(), func() tea.Msg {
		view, err := a.sanctuary.Load(ctx, id)
		return sanctuaryLoadedMsg{companionID: id, view: view, err: err}
	})
}

func (a *App) interact(action client.Interaction) tea.Cmd {
	if a.companion == nil || a.companion.Companion() == nil {
		return nil
	}
	c := *a.companion.Companion()
	ctx := a.ctx
	return func() tea.Msg {
		updated, err := a.sanctuary.Interact(ctx, &c, action)
		return interactedMsg{action: action, companion: updated, err: err}
	}
}

func (a *App) applyItem(inventoryItemID int64, equip bool) tea.Cmd {
	companionID := a.companionID
	ctx := a.ctx
	return func() tea.Msg {
		if equip {
			view, err := a.sanctuary.ToggleEquip(ctx, companionID, inventoryItemID)
			return itemAppliedMsg{view: view, err: err, success: sanctuary.MsgEquipChanged, fallback: sanctuary.MsgEquipFailed}
		}
		view, err := a.sanctuary.UseItem(ctx, companionID, inventoryItemID)
		return itemAppliedMsg{view: view, err: err, success: sanctuary.MsgItemUsed, fallback: sanctuary.MsgUseFailed}
	}
}

func (a *App) deleteCompanion(id int64) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return companionDeletedMsg{err: a.sanctuary.Delete(ctx, id)}
	}
}

func (a *App) openGameMenu() tea.Cmd {
	if a.companion == nil || a.companion.Companion() == nil {
		return nil
	}
	a.gameMenu = menu.New(a.companion.Companion().Name)
	a.screen = ScreenGameMenu
	return a.gameMenu.Init()
}

func (a *App) startGame(msg menu.GameSelectedMsg) tea.Cmd {
	if a.companion == nil || a.companion.Companion() == nil {
		return nil
	}
	before := *a.companion.Companion()
	host, err := arcade.New(msg.Kind, &before, arcade.Deps{
		Clock:    a.clock,
		Random:   a.random,
		Schedule: a.schedule,
	}, a.contentWidth(), a.contentHeight())
	if err != nil {
		a.logger.Error("could not open game", "game", msg.Kind, "error", err)
		a.screen = ScreenSanctuary
		a.companion.Fail(err.Error())
		return nil
	}
	a.gameMenu = nil
	a.arcade = host
	a.screen = ScreenGame
	return a.arcade.Init()
}

// fetchQuestions loads quiz questions for the companion in play
func (a *App) fetchQuestions(attempt game.AttemptID) tea.Cmd {
	companionID := a.companionID
	ctx := a.ctx
	return func() tea.Msg {
		qs, err := a.client.QuizQuestions(ctx, companionID)
		return arcade.QuestionsMsg{Attempt: attempt, Questions: qs, Err: err}
	}
}

// submitScore hands a finished attempt to the reward service. It runs even
// if the player has already left the game screen.
func (a *App) submitScore(msg arcade.FinishedMsg) tea.Cmd {
	companionID := a.companionID
	ctx := a.ctx
	return func() tea.Msg {
		result, err := a.submitter.Submit(ctx, msg.Outcome, companionID)
		return arcade.RewardMsg{Attempt: msg.Outcome.Attempt, Result: result, Err: err}
	}
}

func (a *App) openProfile() tea.Cmd {
	a.profile = profile.New(a.session.Profile())
	a.screen = ScreenProfile
	ctx := a.ctx
	return tea.Batch(a.profile.Init(), func() tea.Msg {
		p, err := a.account.Profile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	})
}

func (a *App) openFilePicker() tea.Cmd {
	dir := a.picturesDir
	found, err := pictures.Discover(dir)
	if err != nil {
		a.logger.Debug("no pictures found", "dir", dir, "error", err)
	}
	a.filePicker = filepicker.New(dir, found)
	a.screen = ScreenFilePicker
	return a.filePicker.Init()
}

func (a *App) saveProfile(op func(context.Context) (*client.UserProfile, error), success, fallback string) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		p, err := op(ctx)
		return profileSavedMsg{profile: p, success: success, fallback: fallback, err: err}
	}
}

func (a *App) changePassword(msg profile.PasswordSubmittedMsg) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return passwordChangedMsg{err: a.account.ChangePassword(ctx, msg.Current, msg.New, msg.Confirm)}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin, ScreenRegister:
		content = a.viewAuth()
	case ScreenDashboard:
		content = a.viewDashboard()
	case ScreenCreate:
		content = viewOf(a.wizardScreen)
	case ScreenSanctuary:
		content = a.viewSanctuary()
	case ScreenGameMenu:
		content = viewOf(a.gameMenu)
	case ScreenGame:
		content = viewOf(a.arcade)
	case ScreenProfile:
		content = viewOf(a.profile)
	case ScreenFilePicker:
		content = viewOf(a.filePicker)
	}

	return a.wrapWithFrame(content)
}

// viewOf renders a child model, tolerating a nil pointer
func viewOf[M interface {
	comparable
	View() string
}](m M) string {
	var zero M
	if m == zero {
		return ""
	}
	return m.View()
}

// viewAuth renders the login or register screen
func (a *App) viewAuth() string {
	if a.restoring {
		return a.spinner.View() + " Restoring session..."
	}
	return viewOf(a.authForm)
}

// viewDashboard renders the dashboard with actions pane
func (a *App) viewDashboard() string {
	leftPane := ""
	if a.dashboard != nil {
		leftPane = styles.ActivePanel.Width(a.dashboardWidth()).Render(a.dashboard.View())
	} else {
		leftPane = styles.Panel.Width(a.dashboardWidth()).Render(a.spinner.View() + " Loading...")
	}

	// Actions pane on the right - shows available actions
	rightContent := styles.Title.Render(icons.App.String()+" Actions") + "\n\n"
	rightContent += icons.Create.String() + " Adopt a companion\n"
	rightContent += icons.Profile.String() + " Profile\n"
	rightContent += icons.Refresh.String() + " Refresh\n"
	rightContent += icons.Logout.String() + " Log out\n"
	rightContent += icons.Quit.String() + " Quit\n"
	rightPane := styles.Panel.Width(a.actionsWidth()).Render(rightContent)

	if a.width < minTerminalWidth {
		return leftPane
	}
	// Join panes side by side
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

func (a *App) viewSanctuary() string {
	if a.companion == nil {
		return ""
	}
	if a.loading && a.companion.Companion() == nil {
		return a.spinner.View() + " Loading sanctuary..."
	}
	return a.companion.View()
}

// dashboardWidth calculates the width for the dashboard pane
func (a *App) dashboardWidth() int {
	if a.width < minTerminalWidth {
		return a.width - panelPadding
	}
	return (a.width - panelPadding) * 2 / 3
}

// actionsWidth calculates the width for the actions pane
func (a *App) actionsWidth() int {
	return a.width - a.dashboardWidth() - 4
}

// contentWidth is the width available to single-pane screens
func (a *App) contentWidth() int {
	return max(a.width-panelPadding, 0)
}

// contentHeight calculates the height available for screen content
func (a *App) contentHeight() int {
	// Total overhead:
	// - Header: 1 line
	// - Newline after header: 1 line
	// - ActivePanel border+padding: 4 lines (top border, top padding, bottom padding, bottom border)
	// - Newline before footer: 1 line
	// - Footer: 1 line
	// Total: 8 lines overhead
	return a.height - 8
}

// frameWidth is the rendered width of the header and footer. One column is
// left free to prevent wrapping on some terminals.
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	icon := icons.App.String()
	title := "Mythic Companions"

	// Build left content
	leftText := fmt.Sprintf(" %s %s ", icon, titleStyle.Render(title))

	// Build right content (only once signed in)
	rightText := ""
	if a.username != "" && !a.public() {
		rightText = " " + contextStyle.Render(icons.Profile.String()+" "+a.username) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	if leftWidth+rightWidth > width-4 {
		rightText, rightWidth = "", 0
	}

	// Calculate fill needed
	fillWidth := max(width-4-leftWidth-rightWidth, 0) // -4 for ╭─ and ─╮
	fill := strings.Repeat("─", fillWidth)

	header := "╭─" + leftText + fill + rightText + "─╮"

	return borderStyle.Render(header)
}

// shortcuts lists the keyboard shortcuts for the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Enter Submit", "ctrl+r Register", "ctrl+c Quit"}
	case ScreenRegister:
		return []string{"Enter Submit", "Esc Login", "ctrl+c Quit"}
	case ScreenDashboard:
		return []string{"↑↓ Move", "Enter Open", "n Adopt", "p Profile", "r Refresh", "o Logout", "q Quit"}
	case ScreenCreate:
		return []string{"↑↓ Select", "Enter Confirm", "Esc Cancel"}
	case ScreenSanctuary:
		return []string{"g Games", "d Release", "b Back"}
	case ScreenGameMenu:
		return []string{"↑↓ Select", "Enter Play", "Esc Back"}
	case ScreenGame:
		return []string{"Enter Start", "Esc Leave"}
	case ScreenProfile:
		return []string{"e Email", "p Password", "u Upload", "b Back"}
	case ScreenFilePicker:
		return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()

	// Build styled shortcuts
	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ") + " "
	leftPlainText := " " + strings.Join(shortcuts, "  ") + " "

	// Right side status (last update time)
	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && (a.screen == ScreenDashboard || a.screen == ScreenSanctuary) {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	// Calculate widths
	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	if leftWidth+rightWidth > width-4 {
		rightText, rightWidth = "", 0
	}
	fillWidth := max(width-4-leftWidth-rightWidth, 0) // -4 for ╰─ and ─╯

	fill := strings.Repeat("─", fillWidth)

	footer := "╰─" + leftText + fill + rightText + "─╯"

	return borderStyle.Render(footer)
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := a.clock.Now().Sub(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}

	return fmt.Sprintf("%dh ago", int(d.Hours()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until it exits
func Run(ctx context.Context, deps Deps) error {
	app := New(ctx, deps)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		// Hover and focus count as activity for the idle timeout
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	// Listeners fire from inside Update on an explicit logout as well as from
	// the idle timer, so Send must not block the caller.
	deps.Session.Subscribe(func(ev session.Event) {
		go p.Send(sessionMsg{event: ev})
	})
	defer deps.Session.Close()

	_, err := p.Run()
	return err
}
