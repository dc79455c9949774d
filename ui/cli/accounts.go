// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/railbook/internal/booking"
	"github.com/toeirei/railbook/internal/core"
	"github.com/toeirei/railbook/internal/directory"
	"github.com/toeirei/railbook/internal/i18n"
	"github.com/toeirei/railbook/internal/logging"
	"github.com/toeirei/railbook/internal/security"
	"golang.org/x/term"
)

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// copyToClipboard is replaced in tests so no clipboard tool is needed.
var copyToClipboard = clipboard.WriteAll

// now is the clock used to normalize travel dates.
var now = time.Now

// readPassword obtains a password either from the first line of the
// command's input (--password-stdin) or from an interactive prompt.
func readPassword(cmd *cobra.Command) (security.Secret, error) {
	fromStdin, _ := cmd.Flags().GetBool("password-stdin")
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("read password from stdin: %w", err)
		}
		return security.FromString(strings.TrimRight(line, "\r\n")), nil
	}
	if !isTerminal() {
		return nil, errors.New(i18n.T("cli.password_required"))
	}
	fmt.Fprint(cmd.ErrOrStderr(), i18n.T("cli.password_prompt"))
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return security.FromBytes(b), nil
}

func addAuthFlags(cmd *cobra.Command) {
	cmd.Flags().String("login", "", "Email or phone number of the account")
	cmd.Flags().Bool("password-stdin", false, "Read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("login")
}

// authenticate logs in with --login and the prompted password.
func authenticate(cmd *cobra.Command, app *core.App) (*booking.Session, error) {
	login, _ := cmd.Flags().GetString("login")
	pw, err := readPassword(cmd)
	if err != nil {
		return nil, err
	}
	s, err := app.Login(login, pw)
	if err != nil {
		return nil, errors.New(i18n.T("login.invalid"))
	}
	return s, nil
}

func newSignUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			phone, _ := cmd.Flags().GetString("phone")

			pw, err := readPassword(cmd)
			if err != nil {
				return err
			}
			app, err := openApp(cmd)
			if err != nil {
				pw.Zero()
				return err
			}
			defer func() { _ = app.Close() }()

			u, err := app.SignUp(cmd.Context(), name, email, phone, pw)
			switch {
			case errors.Is(err, directory.ErrDuplicate):
				return errors.New(i18n.T("signup.failed"))
			case err != nil:
				return err
			}
			logging.Debugf("registered user %s", u.UserID)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("signup.success"))
			return err
		},
	}
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().Bool("password-stdin", false, "Read the password from the first line of stdin")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book <train-no> <row> <seat>",
		Short: "Book a seat on a train",
		Long: `Books the seat at the zero-based row and seat index of the given train
for the logged-in user and prints the ticket. The travel date uses the
format "dd-MM-yyyy hh:mm AM"; an empty or invalid date falls back to now.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.New(i18n.T("booking.invalid_seat"))
			}
			seat, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.New(i18n.T("booking.invalid_seat"))
			}
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			s, err := authenticate(cmd, app)
			if err != nil {
				return err
			}

			dateInput, _ := cmd.Flags().GetString("date")
			date, ok := booking.NormalizeTravelDate(dateInput, now())
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("booking.invalid_date"))
			}

			t, err := app.Booking.Book(cmd.Context(), s, args[0], row, seat, date)
			if err != nil && t.TicketID == "" {
				return errors.New(bookingError(err))
			}
			fmt.Fprintln(out, i18n.T("booking.success"))
			fmt.Fprint(out, t.Info())
			if copyID, _ := cmd.Flags().GetBool("copy"); copyID {
				copyTicketID(cmd, t.TicketID)
			}
			// The seat is held even if saving the ticket failed.
			return err
		},
	}
	addAuthFlags(cmd)
	cmd.Flags().String("date", "", `Travel date, e.g. "24-12-2026 09:30 AM"`)
	cmd.Flags().Bool("copy", false, "Copy the new ticket id to the clipboard")
	return cmd
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

func copyTicketID(cmd *cobra.Command, id string) {
	if err := copyToClipboard(id); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("cli.copy_failed", err))
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("cli.copied"))
}

func newTicketsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List the tickets of the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			s, err := authenticate(cmd, app)
			if err != nil {
				return err
			}
			tickets := app.Booking.Tickets(s)
			out := cmd.OutOrStdout()
			if len(tickets) == 0 {
				_, err := fmt.Fprintln(out, i18n.T("bookings.none"))
				return err
			}
			for _, t := range tickets {
				fmt.Fprint(out, t.Info())
			}
			if id, _ := cmd.Flags().GetString("copy"); id != "" {
				if s.User.FindTicket(id) < 0 {
					return errors.New(i18n.T("cancel.not_found"))
				}
				copyTicketID(cmd, id)
			}
			return nil
		},
	}
	addAuthFlags(cmd)
	cmd.Flags().String("copy", "", "Copy the given ticket id to the clipboard")
	return cmd
}

func newCancelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <ticket-id>",
		Short: "Cancel one of your bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			s, err := authenticate(cmd, app)
			if err != nil {
				return err
			}
			_, err = app.Booking.Cancel(cmd.Context(), s, args[0])
			switch {
			case errors.Is(err, booking.ErrTicketNotFound):
				return errors.New(i18n.T("cancel.not_found"))
			case err != nil:
				return errors.New(i18n.T("cancel.failed", err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cancel.success"))
			return err
		},
	}
	addAuthFlags(cmd)
	return cmd
}
