package services

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/netx"
)

type ReceiptService interface {
	// AttachReceipt uploads the file at path and stores the object key on
	// the transaction. It needs the server.
	AttachReceipt(ctx context.Context, txs TransactionService, userID, txID, path string) (string, error)
	ReceiptURL(ctx context.Context, ref string) (string, error)
}

type Connectivity interface {
	IsCurrentlyOnline() bool
}

type receiptService struct {
	client client.Client
	conn   Connectivity
	http   *http.Client
}

func NewReceiptService(c client.Client, conn Connectivity, hc *http.Client) ReceiptService {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &receiptService{client: c, conn: conn, http: hc}
}

func contentTypeOf(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *receiptService) AttachReceipt(ctx context.Context, txs TransactionService, userID, txID, path string) (string, error) {
	if !s.conn.IsCurrentlyOnline() {
		return "", client.ErrUnavailable
	}

	tx, found, err := txs.GetTransaction(ctx, userID, txID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%s %s: %w", txs.Kind(), txID, common.ErrNotFound)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read receipt: %w", err)
	}

	ct := contentTypeOf(path)
	url, key, err := s.client.PresignReceiptUpload(ctx, ct)
	if err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	if err := netx.PutPresigned(ctx, s.http, url, ct, body); err != nil {
		return "", err
	}

	tx.ReceiptRef = key
	if _, err := txs.UpdateTransaction(ctx, tx); err != nil {
		return "", err
	}
	return key, nil
}

func (s *receiptService) ReceiptURL(ctx context.Context, ref string) (string, error) {
	return s.client.PresignReceiptDownload(ctx, ref)
}
