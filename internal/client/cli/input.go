package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a password prompt to w and reads a password
// from the user's terminal without echo.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetAmount keeps asking until the input is a positive amount.
func GetAmount(reader *bufio.Reader, prompt string, w io.Writer) (decimal.Decimal, error) {
	for {
		s, err := GetSimpleText(reader, prompt, w)
		if err != nil {
			return decimal.Zero, err
		}
		d, err := models.ParseAmount(s)
		if err == nil {
			return d, nil
		}
		fmt.Fprintln(w, err)
	}
}

// GetDate reads a yyyy-mm-dd date; an empty answer means today.
func GetDate(reader *bufio.Reader, prompt string, w io.Writer, now time.Time) (time.Time, error) {
	for {
		s, err := GetSimpleText(reader, prompt+" (yyyy-mm-dd, empty for today)", w)
		if err != nil {
			return time.Time{}, err
		}
		if s == "" {
			return now, nil
		}
		t, err := time.ParseInLocation(time.DateOnly, s, now.Location())
		if err == nil {
			return t, nil
		}
		fmt.Fprintln(w, "invalid date:", s)
	}
}

// ParsePeriod turns a command argument into a period: "" is the month of
// now, "2025" a year, "2025-10" a month and "2025-10-05" a day. The words
// day, week, month and year name the period around now.
func ParsePeriod(arg string, now time.Time) (models.Period, error) {
	if arg != "" {
		if p, err := models.PeriodFor(arg, now); err == nil {
			return p, nil
		}
	}

	loc := now.Location()
	switch len(arg) {
	case 0:
		return models.Monthly(now), nil
	case len("2006"):
		if t, err := time.ParseInLocation("2006", arg, loc); err == nil {
			return models.Yearly(t), nil
		}
	case len("2006-01"):
		if t, err := time.ParseInLocation("2006-01", arg, loc); err == nil {
			return models.Monthly(t), nil
		}
	case len(time.DateOnly):
		if t, err := time.ParseInLocation(time.DateOnly, arg, loc); err == nil {
			return models.Daily(t), nil
		}
	}
	return models.Period{}, fmt.Errorf("%w: %q", errBadPeriod, arg)
}

var errBadPeriod = errors.New("period must look like 2025, 2025-10 or 2025-10-05")
