// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// package model contains the records Railbook keeps in its collections:
// trains with their seat grids, users, and the tickets users own.
package model

import (
	"fmt"
	"strings"
)

// Seat states stored in a SeatGrid.
const (
	SeatFree   = 0
	SeatBooked = 1
)

// SeatGrid is a rectangular matrix of booking flags, indexed [row][seat].
type SeatGrid [][]int

// NewSeatGrid returns a rows x cols grid with every seat free.
func NewSeatGrid(rows, cols int) SeatGrid {
	g := make(SeatGrid, rows)
	for i := range g {
		g[i] = make([]int, cols)
	}
	return g
}

// Dimensions returns the number of rows and the length of the first row.
func (g SeatGrid) Dimensions() (rows, cols int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g), len(g[0])
}

// InBounds reports whether (row, seat) addresses a cell of the grid.
func (g SeatGrid) InBounds(row, seat int) bool {
	return row >= 0 && row < len(g) && seat >= 0 && seat < len(g[row])
}

// IsFree reports whether the addressed seat exists and is not booked.
func (g SeatGrid) IsFree(row, seat int) bool {
	return g.InBounds(row, seat) && g[row][seat] == SeatFree
}

// IsRectangular reports whether every row has the same length.
func (g SeatGrid) IsRectangular() bool {
	for _, r := range g {
		if len(r) != len(g[0]) {
			return false
		}
	}
	return true
}

// FreeCount returns the number of free seats.
func (g SeatGrid) FreeCount() int {
	n := 0
	for _, r := range g {
		for _, s := range r {
			if s == SeatFree {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g SeatGrid) Clone() SeatGrid {
	if g == nil {
		return nil
	}
	out := make(SeatGrid, len(g))
	for i, r := range g {
		out[i] = append([]int(nil), r...)
	}
	return out
}

// String renders the grid the way the console shows it, one "Row i:" line per row.
func (g SeatGrid) String() string {
	var sb strings.Builder
	for i, r := range g {
		fmt.Fprintf(&sb, "Row %d: ", i)
		for _, s := range r {
			fmt.Fprintf(&sb, "%d ", s)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Train is a catalog entry. TrainNo is the case-insensitive key.
type Train struct {
	TrainNo      string            `json:"trainNo" yaml:"trainNo"`
	TrainName    string            `json:"trainName" yaml:"trainName"`
	Seats        SeatGrid          `json:"seats" yaml:"seats"`
	StationTimes map[string]string `json:"stationTimes,omitempty" yaml:"stationTimes,omitempty"`
	Stations     []string          `json:"stations" yaml:"stations"`
}

// Source returns the first station, or "" for a train without stations.
func (t Train) Source() string {
	if len(t.Stations) == 0 {
		return ""
	}
	return t.Stations[0]
}

// Destination returns the last station, or "" for a train without stations.
func (t Train) Destination() string {
	if len(t.Stations) == 0 {
		return ""
	}
	return t.Stations[len(t.Stations)-1]
}

// Info returns the one-line summary shown in train listings.
func (t Train) Info() string {
	return fmt.Sprintf("Train No: %s | Name: %s", t.TrainNo, t.TrainName)
}

// Clone returns a copy that shares no mutable state with t.
func (t Train) Clone() Train {
	c := t
	c.Seats = t.Seats.Clone()
	c.Stations = append([]string(nil), t.Stations...)
	if t.StationTimes != nil {
		c.StationTimes = make(map[string]string, len(t.StationTimes))
		for k, v := range t.StationTimes {
			c.StationTimes[k] = v
		}
	}
	return c
}

// Ticket is a snapshot of a booking taken at booking time. It lives only
// inside its owning User.
type Ticket struct {
	TicketID      string `json:"ticketId"`
	TrainNo       string `json:"trainNo"`
	TrainName     string `json:"trainName"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	TravelDate    string `json:"travelDate"`
	PassengerName string `json:"passengerName"`
	Row           int    `json:"row"`
	Seat          int    `json:"seat"`
}

// Info renders the ticket card.
func (t Ticket) Info() string {
	return fmt.Sprintf(`-------------------------------
Ticket ID: %s
Train: %s (%s)
Route: %s -> %s
Passenger: %s
Seat: Row %d, Seat %d
Travel Date: %s
-------------------------------
`, t.TicketID, t.TrainName, t.TrainNo, t.Source, t.Destination, t.PassengerName, t.Row, t.Seat, t.TravelDate)
}

// User is a directory entry. HashedPassword never holds the plaintext.
type User struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	PhoneNumber    string   `json:"phoneNumber"`
	HashedPassword string   `json:"hashedPassword"`
	UserID         string   `json:"userId"`
	TicketsBooked  []Ticket `json:"ticketsBooked"`
}

// FindTicket returns the index of the first ticket with the given id, or -1.
func (u User) FindTicket(ticketID string) int {
	for i, t := range u.TicketsBooked {
		if t.TicketID == ticketID {
			return i
		}
	}
	return -1
}

// Clone returns a copy whose ticket list is independent of u's.
func (u User) Clone() User {
	c := u
	c.TicketsBooked = append([]Ticket{}, u.TicketsBooked...)
	return c
}
