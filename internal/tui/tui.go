// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui provides the terminal user interface for Railbook.
// This file, tui.go, is the main entry point for the TUI, containing the
// top-level model that acts as a router to all other sub-views.
package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/railbook/internal/booking"
	"github.com/toeirei/railbook/internal/core"
	"github.com/toeirei/railbook/internal/directory"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
	"github.com/toeirei/railbook/internal/security"
)

// viewState represents which part of the UI is currently active.
type viewState int

const (
	welcomeView viewState = iota
	loginView
	signUpView
	languageView
	userMenuView
	searchView
	trainsView
	seatsView
	dateView
	ticketView
	bookingsView
	cancelView
)

// backMsg returns from a sub-view to the menu it was opened from.
type backMsg struct{}

func backCmd() tea.Msg { return backMsg{} }

// mainModel is the top-level model for the TUI. It acts as a state machine
// and router, delegating updates and view rendering to the active sub-model.
// All service calls happen here; sub-models only emit messages.
type mainModel struct {
	app     *core.App
	ctx     context.Context
	now     func() time.Time
	session *booking.Session

	state    viewState
	welcome  menuModel
	userMenu menuModel
	form     formModel
	language languageModel
	trains   trainsModel
	seats    seatsModel
	bookings bookingsModel

	// chosen seat while the travel date is entered
	pendingRow, pendingSeat int
	lastTicket              model.Ticket

	status    string
	statusErr bool
	width     int
	height    int
}

func newMainModel(ctx context.Context, app *core.App) mainModel {
	return mainModel{
		app:      app,
		ctx:      ctx,
		now:      time.Now,
		state:    welcomeView,
		welcome:  newWelcomeMenu(),
		userMenu: newUserMenu(),
	}
}

// Run starts the TUI and blocks until it exits. Log output goes to logFile
// (or is discarded) while the alternate screen is active.
func Run(ctx context.Context, app *core.App, logFile string) error {
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	logging.SetOutput(out)
	defer logging.SetOutput(os.Stderr)

	_, err := tea.NewProgram(newMainModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init is the first function that will be called by the Bubble Tea runtime.
func (m mainModel) Init() tea.Cmd {
	return nil
}

func (m *mainModel) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Update is the main message loop.
func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == welcomeView && msg.String() == "q" {
			return m, tea.Quit
		}
		if m.state == ticketView {
			m.state = userMenuView
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case backMsg:
		return m.back(), nil
	case languageChangedMsg:
		// Rebuild translated menus; session and window size survive.
		m.welcome = newWelcomeMenu()
		m.userMenu = newUserMenu()
		m.state = welcomeView
		m.setStatus("", false)
		return m, nil
	case menuChosenMsg:
		return m.handleMenu(msg.action)
	case formSubmittedMsg:
		return m.handleForm(msg.values)
	case trainChosenMsg:
		t, ok := m.app.Catalog.Get(msg.trainNo)
		if !ok {
			m.setStatus(i18n.T("search.no_trains"), true)
			return m, nil
		}
		m.seats = newSeatsModel(t)
		m.state = seatsView
		return m, nil
	case seatChosenMsg:
		m.pendingRow, m.pendingSeat = msg.row, msg.seat
		m.form = newDateForm()
		m.state = dateView
		return m, m.form.Init()
	case cancelRequestedMsg:
		return m.cancel(msg.ticketID)
	}

	var cmd tea.Cmd
	switch m.state {
	case welcomeView:
		m.welcome, cmd = m.welcome.Update(msg)
	case userMenuView:
		m.userMenu, cmd = m.userMenu.Update(msg)
	case languageView:
		m.language, cmd = m.language.Update(msg)
	case loginView, signUpView, searchView, dateView, cancelView:
		m.form, cmd = m.form.Update(msg)
	case trainsView:
		m.trains, cmd = m.trains.Update(msg)
	case seatsView:
		m.seats, cmd = m.seats.Update(msg)
	case bookingsView:
		m.bookings, cmd = m.bookings.Update(msg)
	}
	return m, cmd
}

func (m mainModel) back() mainModel {
	switch m.state {
	case trainsView:
		m.state = searchView
	case seatsView:
		m.state = trainsView
	case dateView:
		m.state = seatsView
	case loginView, signUpView, languageView:
		m.state = welcomeView
	default:
		if m.session.LoggedIn() {
			m.state = userMenuView
		} else {
			m.state = welcomeView
		}
	}
	return m
}

func (m mainModel) handleMenu(action menuAction) (tea.Model, tea.Cmd) {
	m.setStatus("", false)
	switch action {
	case actionLogin:
		m.form = newLoginForm()
		m.state = loginView
		return m, m.form.Init()
	case actionSignUp:
		m.form = newSignUpForm()
		m.state = signUpView
		return m, m.form.Init()
	case actionLanguage:
		m.language = newLanguageModel()
		m.state = languageView
	case actionQuit:
		return m, tea.Quit
	case actionSearch:
		m.form = newSearchForm()
		m.state = searchView
		return m, m.form.Init()
	case actionBookings:
		m.bookings = newBookingsModel(m.app.Booking.Tickets(m.session))
		m.state = bookingsView
	case actionCancel:
		m.form = newCancelForm()
		m.state = cancelView
		return m, m.form.Init()
	case actionLogout:
		m.session = nil
		m.state = welcomeView
		m.setStatus(i18n.T("logout.success"), false)
	}
	return m, nil
}

func (m mainModel) handleForm(values []string) (tea.Model, tea.Cmd) {
	switch m.state {
	case loginView:
		s, err := m.app.Login(values[0], security.FromString(values[1]))
		if err != nil {
			m.form = m.form.withError(i18n.T("login.invalid"))
			return m, nil
		}
		m.session = s
		m.userMenu = newUserMenu()
		m.state = userMenuView
		m.setStatus(i18n.T("login.welcome", s.User.Name), false)

	case signUpView:
		_, err := m.app.SignUp(m.ctx, values[0], values[1], values[2], security.FromString(values[3]))
		switch {
		case errors.Is(err, directory.ErrDuplicate):
			m.form = m.form.withError(i18n.T("signup.failed"))
		case err != nil:
			m.form = m.form.withError(i18n.T("error.generic", err))
		default:
			m.state = welcomeView
			m.setStatus(i18n.T("signup.success"), false)
		}

	case searchView:
		found := m.app.Catalog.Search(values[0], values[1])
		if len(found) == 0 {
			m.form = m.form.withError(i18n.T("search.no_trains"))
			return m, nil
		}
		m.trains = newTrainsModel(found, m.height)
		m.state = trainsView

	case dateView:
		return m.book(values[0])

	case cancelView:
		return m.cancel(values[0])
	}
	return m, nil
}

func (m mainModel) book(dateInput string) (tea.Model, tea.Cmd) {
	date, ok := booking.NormalizeTravelDate(dateInput, m.now())
	t, err := m.app.Booking.Book(m.ctx, m.session, m.seats.train.TrainNo, m.pendingRow, m.pendingSeat, date)
	if err != nil && t.TicketID == "" {
		// Show the refreshed grid with the reason.
		if fresh, found := m.app.Catalog.Get(m.seats.train.TrainNo); found {
			row, seat := m.seats.row, m.seats.seat
			m.seats = newSeatsModel(fresh)
			m.seats.row, m.seats.seat = row, seat
		}
		m.seats.err = bookingError(err)
		m.state = seatsView
		return m, nil
	}
	m.lastTicket = t
	m.state = ticketView
	switch {
	case err != nil:
		m.setStatus(i18n.T("error.generic", err), true)
	case !ok:
		m.setStatus(i18n.T("booking.invalid_date"), false)
	default:
		m.setStatus("", false)
	}
	return m, nil
}

func bookingError(err error) string {
	switch {
	case errors.Is(err, booking.ErrSeatBooked):
		return i18n.T("booking.seat_booked")
	case errors.Is(err, booking.ErrInvalidSeat):
		return i18n.T("booking.invalid_seat")
	default:
		return i18n.T("booking.failed", err)
	}
}

func (m mainModel) cancel(ticketID string) (tea.Model, tea.Cmd) {
	_, err := m.app.Booking.Cancel(m.ctx, m.session, ticketID)
	if errors.Is(err, booking.ErrTicketNotFound) {
		if m.state == cancelView {
			m.form = m.form.withError(i18n.T("cancel.not_found"))
		} else {
			m.setStatus(i18n.T("cancel.not_found"), true)
		}
		return m, nil
	}
	if err != nil {
		m.setStatus(i18n.T("cancel.failed", err), true)
	} else {
		m.setStatus(i18n.T("cancel.success"), false)
	}
	if m.state == bookingsView {
		cursor := m.bookings.cursor
		m.bookings = newBookingsModel(m.app.Booking.Tickets(m.session))
		if cursor >= len(m.bookings.tickets) {
			cursor = len(m.bookings.tickets) - 1
		}
		m.bookings.cursor = max(cursor, 0)
		return m, nil
	}
	m.state = userMenuView
	return m, nil
}

// View renders the active sub-view with the header and status line.
func (m mainModel) View() string {
	var body string
	switch m.state {
	case welcomeView:
		body = m.welcome.View()
	case userMenuView:
		body = m.userMenu.View()
	case languageView:
		body = m.language.View()
	case loginView, signUpView, searchView, dateView, cancelView:
		body = m.form.View()
	case trainsView:
		body = m.trains.View()
	case seatsView:
		body = m.seats.View()
	case ticketView:
		body = lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Render(i18n.T("booking.success")),
			ticketBoxStyle.Render(m.lastTicket.Info()),
			helpStyle.Render(i18n.T("ticket.continue")),
		)
	case bookingsView:
		body = m.bookings.View()
	}

	header := mainTitleStyle.Render("🚆 " + i18n.T("app.title"))
	if m.session.LoggedIn() {
		header = lipgloss.JoinHorizontal(lipgloss.Center, header, helpStyle.Render(i18n.T("app.signed_in_as", m.session.User.Name)))
	}
	parts := []string{header, body}
	if m.status != "" {
		style := statusMessageStyle
		if m.statusErr {
			style = style.Background(colorError)
		}
		parts = append(parts, "", style.Render(m.status))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
