// Package session drives the interactive ATM prompt.
package session

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brainwave-dev/atm/internal/account"
	"github.com/brainwave-dev/atm/internal/store"
)

// User-facing messages.
const (
	msgWelcome       = "Greetings! Welcome to the ATM service."
	msgNewUser       = "Looks like you're a new user or haven't set a password yet."
	msgCreated       = "Your Account has been created successfully!"
	msgExists        = "An Account with this ID already exists."
	msgDenied        = "Access denied. Password mismatch."
	msgResetDisabled = "Password reset is disabled. Goodbye!"
	msgReset         = "Your password has been reset. You can now access your account with the new password."
	msgNoAccount     = "No account exists for this User ID. Kindly create one."
	msgGoodbye       = "Goodbye!"
	msgBadDeposit    = "Please enter a valid amount to deposit."
	msgBadWithdraw   = "Please provide a valid amount to withdraw."
	msgNotNumber     = "Please enter a numeric amount."
	msgDeclined      = "Transaction declined due to low balance."
	msgInvalidChoice = "Invalid selection. Try choosing a valid option."
	msgExit          = "Thank you for using our ATM service. Have a great day!"
	menu             = "\n *** Select an option ***\n1. Deposit Money into Account\n2. Withdraw Money from Account\n3. Display Amount Balance\n4. Review Transaction History\n5. Exit the ATM"
)

// Options configures a Session.
type Options struct {
	// AllowPasswordReset offers an unverified password reset after a failed login.
	AllowPasswordReset bool
	// EngineOptions are passed to account.New.
	EngineOptions []account.Option
}

// Session runs one user's interaction: identify, onboard or log in, then the menu loop.
type Session struct {
	repo store.Repository
	in   Prompter
	out  io.Writer
	opts Options
}

// New creates a Session. Prompts are read through in and results printed to out.
func New(repo store.Repository, in Prompter, out io.Writer, opts Options) *Session {
	return &Session{repo: repo, in: in, out: out, opts: opts}
}

// Run executes the session. It returns nil when the session ends normally,
// including on end of input, and an error for storage or I/O failures.
func (s *Session) Run() error {
	s.println(msgWelcome)

	userID, err := s.in.ReadLine("Provide your User ID to access your account: ")
	if err != nil {
		return endOfInput(err)
	}
	userID = strings.TrimSpace(userID)

	eng, err := account.New(s.repo, userID, s.opts.EngineOptions...)
	if err != nil {
		return err
	}

	if !eng.Exists() {
		return s.onboard(eng)
	}

	password, err := s.in.ReadPassword("Provide your password to log in: ")
	if err != nil {
		return endOfInput(err)
	}
	if !eng.Authenticate(password) {
		return s.offerReset(eng)
	}

	return s.menuLoop(eng)
}

func (s *Session) onboard(eng *account.Engine) error {
	s.println(msgNewUser)
	password, err := s.in.ReadPassword("Set a password for your new account: ")
	if err != nil {
		return endOfInput(err)
	}
	return s.report(eng.CreateAccount(password), msgCreated)
}

// offerReset handles a failed login. The reset asks for no proof of identity.
func (s *Session) offerReset(eng *account.Engine) error {
	s.println(msgDenied)
	if !s.opts.AllowPasswordReset {
		s.println(msgResetDisabled)
		return nil
	}

	answer, err := s.in.ReadLine("Would you like to reset your password? Respond with 'Yes' or 'No': ")
	if err != nil {
		return endOfInput(err)
	}
	if strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		s.println(msgGoodbye)
		return nil
	}

	password, err := s.in.ReadPassword("Set a new password to proceed: ")
	if err != nil {
		return endOfInput(err)
	}
	return s.report(eng.ResetPassword(password), msgReset)
}

func (s *Session) menuLoop(eng *account.Engine) error {
	for {
		s.println(menu)
		choice, err := s.in.ReadLine("Choose an option: ")
		if err != nil {
			return endOfInput(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.deposit(eng)
		case "2":
			err = s.withdraw(eng)
		case "3":
			err = s.balance(eng)
		case "4":
			err = s.history(eng)
		case "5":
			s.println(msgExit)
			return nil
		default:
			s.println(msgInvalidChoice)
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

func (s *Session) deposit(eng *account.Engine) error {
	amount, ok, err := s.readAmount("Enter the amount you wish to deposit: ")
	if err != nil || !ok {
		return err
	}
	rec, err := eng.Deposit(amount)
	if err != nil {
		return s.report(err, "")
	}
	s.println(account.FormatMoney(rec.Amount) + " deposited successfully.")
	return nil
}

func (s *Session) withdraw(eng *account.Engine) error {
	amount, ok, err := s.readAmount("Enter the amount you wish to withdraw: ")
	if err != nil || !ok {
		return err
	}
	rec, err := eng.Withdraw(amount)
	if errors.Is(err, account.ErrInvalidAmount) {
		s.println(msgBadWithdraw)
		return nil
	}
	if err != nil {
		return s.report(err, "")
	}
	s.println(account.FormatMoney(rec.Amount) + " withdrawn successfully.")
	return nil
}

func (s *Session) balance(eng *account.Engine) error {
	bal, err := eng.Balance()
	if err != nil {
		return s.report(err, "")
	}
	s.println("Your current balance is: " + account.FormatMoney(bal))
	return nil
}

func (s *Session) history(eng *account.Engine) error {
	records, err := eng.History()
	if err != nil {
		return s.report(err, "")
	}
	s.println(account.FormatHistory(records))
	return nil
}

// readAmount prompts for a decimal amount. ok is false when the input was not a number.
func (s *Session) readAmount(prompt string) (decimal.Decimal, bool, error) {
	line, err := s.in.ReadLine(prompt)
	if err != nil {
		return decimal.Zero, false, err
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(line), "$"))
	if err != nil {
		s.println(msgNotNumber)
		return decimal.Zero, false, nil
	}
	return amount, true, nil
}

// report prints success on a nil error, or the message for a domain error.
// Errors without a message are returned.
func (s *Session) report(err error, success string) error {
	if err == nil {
		s.println(success)
		return nil
	}
	msg, ok := message(err)
	if !ok {
		return err
	}
	s.println(msg)
	return nil
}

func message(err error) (string, bool) {
	switch {
	case errors.Is(err, account.ErrAccountExists):
		return msgExists, true
	case errors.Is(err, account.ErrNoAccount):
		return msgNoAccount, true
	case errors.Is(err, account.ErrInvalidAmount):
		return msgBadDeposit, true
	case errors.Is(err, account.ErrInsufficientFunds):
		return msgDeclined, true
	default:
		return "", false
	}
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

// endOfInput treats EOF as a normal end of session.
func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
