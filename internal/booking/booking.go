// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package booking reserves seats and issues tickets. A booking touches two
// collections: the train is written first, then the user. There is no
// commit spanning both; a crash in between leaves a booked seat without a
// ticket.
//
// Every operation runs its checks before the first mutation, so a rejected
// request leaves trains and users exactly as they were.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/model"
)

var (
	// ErrInvalidSeat is returned when row or seat is outside the grid.
	ErrInvalidSeat = errors.New("invalid seat index")
	// ErrSeatBooked is returned when the seat is already taken.
	ErrSeatBooked = errors.New("seat already booked")
	// ErrTrainNotFound is returned for an unknown train number.
	ErrTrainNotFound = errors.New("train not found")
	// ErrTicketNotFound is returned by Cancel for an unknown ticket id.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrNotLoggedIn is returned when the session has no user or its user is
	// no longer in the directory.
	ErrNotLoggedIn = errors.New("not logged in")
)

// Trains is the part of the train catalog the coordinator needs.
type Trains interface {
	Get(trainNo string) (model.Train, bool)
	Upsert(ctx context.Context, train model.Train) error
	ReleaseSeat(ctx context.Context, trainNo string, row, seat int) error
}

// Users is the part of the user directory the coordinator needs.
type Users interface {
	Get(userID string) (model.User, bool)
	Replace(user model.User) bool
	Persist(ctx context.Context) error
}

// Session carries the logged-in user between calls. The coordinator keeps
// Session.User in sync with the directory after every change.
type Session struct {
	User model.User
}

// NewSession starts a session for u.
func NewSession(u model.User) *Session { return &Session{User: u} }

// LoggedIn reports whether the session holds a user.
func (s *Session) LoggedIn() bool { return s != nil && s.User.UserID != "" }

// Coordinator books and cancels seats across the catalog and the directory.
type Coordinator struct {
	trains Trains
	users  Users
	// ReleaseSeatOnCancel frees the seat of a cancelled ticket. When false,
	// a cancelled seat stays booked.
	ReleaseSeatOnCancel bool
	newID               func() string
}

// NewCoordinator returns a coordinator over trains and users.
func NewCoordinator(trains Trains, users Users, releaseSeatOnCancel bool) *Coordinator {
	return &Coordinator{
		trains:              trains,
		users:               users,
		ReleaseSeatOnCancel: releaseSeatOnCancel,
		newID:               uuid.NewString,
	}
}

// Book reserves (row, seat) on trainNo for the session user and returns the
// issued ticket. travelDate is stored verbatim.
//
// If the train is saved but the user is not, the ticket is still returned
// alongside the error: it exists in memory and the seat stays booked.
func (c *Coordinator) Book(ctx context.Context, s *Session, trainNo string, row, seat int, travelDate string) (model.Ticket, error) {
	// try phase
	if !s.LoggedIn() {
		return model.Ticket{}, ErrNotLoggedIn
	}
	train, ok := c.trains.Get(strings.TrimSpace(trainNo))
	if !ok {
		return model.Ticket{}, fmt.Errorf("%w: %s", ErrTrainNotFound, trainNo)
	}
	if !train.Seats.InBounds(row, seat) {
		return model.Ticket{}, ErrInvalidSeat
	}
	if !train.Seats.IsFree(row, seat) {
		return model.Ticket{}, ErrSeatBooked
	}
	user, err := c.currentUser(s)
	if err != nil {
		return model.Ticket{}, err
	}

	// do phase
	train.Seats[row][seat] = model.SeatBooked
	if err := c.trains.Upsert(ctx, train); err != nil {
		return model.Ticket{}, fmt.Errorf("reserve seat: %w", err)
	}

	ticket := model.Ticket{
		TicketID:      c.newID(),
		TrainNo:       train.TrainNo,
		TrainName:     train.TrainName,
		Source:        train.Source(),
		Destination:   train.Destination(),
		TravelDate:    travelDate,
		PassengerName: user.Name,
		Row:           row,
		Seat:          seat,
	}
	user.TicketsBooked = append(user.TicketsBooked, ticket)
	c.users.Replace(user)
	s.User = user.Clone()
	logging.Infof("booked %s row %d seat %d as ticket %s", train.TrainNo, row, seat, ticket.TicketID)

	if err := c.users.Persist(ctx); err != nil {
		return ticket, fmt.Errorf("attach ticket: %w", err)
	}
	return ticket, nil
}

// Cancel removes the first ticket with ticketID from the session user and
// returns it. With ReleaseSeatOnCancel the seat is freed and the train is
// saved after the user.
func (c *Coordinator) Cancel(ctx context.Context, s *Session, ticketID string) (model.Ticket, error) {
	// try phase
	if !s.LoggedIn() {
		return model.Ticket{}, ErrNotLoggedIn
	}
	ticketID = strings.TrimSpace(ticketID)
	user, err := c.currentUser(s)
	if err != nil {
		return model.Ticket{}, err
	}
	idx := user.FindTicket(ticketID)
	if ticketID == "" || idx < 0 {
		return model.Ticket{}, ErrTicketNotFound
	}

	// do phase
	ticket := user.TicketsBooked[idx]
	remaining := make([]model.Ticket, 0, len(user.TicketsBooked)-1)
	remaining = append(remaining, user.TicketsBooked[:idx]...)
	user.TicketsBooked = append(remaining, user.TicketsBooked[idx+1:]...)
	c.users.Replace(user)
	s.User = user.Clone()
	logging.Infof("cancelled ticket %s", ticket.TicketID)

	if err := c.users.Persist(ctx); err != nil {
		return ticket, fmt.Errorf("remove ticket: %w", err)
	}
	if c.ReleaseSeatOnCancel {
		if err := c.releaseSeat(ctx, ticket); err != nil {
			return ticket, err
		}
	}
	return ticket, nil
}

func (c *Coordinator) releaseSeat(ctx context.Context, t model.Ticket) error {
	train, ok := c.trains.Get(t.TrainNo)
	if !ok || !train.Seats.InBounds(t.Row, t.Seat) {
		logging.Warnf("cancel %s: seat %d/%d on train %s no longer exists", t.TicketID, t.Row, t.Seat, t.TrainNo)
		return nil
	}
	if err := c.trains.ReleaseSeat(ctx, train.TrainNo, t.Row, t.Seat); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

// Tickets returns the session user's tickets in booking order.
func (c *Coordinator) Tickets(s *Session) []model.Ticket {
	if !s.LoggedIn() {
		return []model.Ticket{}
	}
	u, err := c.currentUser(s)
	if err != nil {
		return []model.Ticket{}
	}
	return u.TicketsBooked
}

// currentUser returns the directory's record of the session user so a stale
// session cannot overwrite newer data. A user missing from the directory
// cannot book or cancel.
func (c *Coordinator) currentUser(s *Session) (model.User, error) {
	u, ok := c.users.Get(s.User.UserID)
	if !ok {
		return model.User{}, fmt.Errorf("%w: user %s is not registered", ErrNotLoggedIn, s.User.UserID)
	}
	return u, nil
}
