package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

var (
	errUsageAttach  = errors.New("usage: attach <expense|income> <id> <file>")
	errUsageReceipt = errors.New("usage: receipt <ref>")
)

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return errUsageAttach
	}
	txs, err := a.transactions(models.Kind(strings.ToLower(args[0])))
	if err != nil {
		return errUsageAttach
	}

	ref, err := a.receipts.AttachReceipt(ctx, txs, a.userID(), args[1], args[2])
	if errors.Is(err, client.ErrUnavailable) {
		return errors.New("receipts can only be attached while online")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, green("Receipt attached:"), ref)
	return nil
}

// Receipt prints a short-lived download link for an attached receipt.
func (a *App) Receipt(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsageReceipt
	}
	url, err := a.receipts.ReceiptURL(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, url)
	return nil
}
