package models

import (
	"errors"
	"strings"
)

const (
	OrdersLedgerPath   = "orders"
	ordersTable        = "orders"
	marketerSalesTable = "marketer_sales"
)

var ErrInvalidLedgerPath = errors.New("invalid ledger path")

// Ledger identifies where an order lives: the general orders ledger when
// MarketerID is empty, otherwise that marketer's sales ledger.
type Ledger struct {
	MarketerID string
}

func GeneralLedger() Ledger { return Ledger{} }

func MarketerLedger(marketerID string) Ledger { return Ledger{MarketerID: marketerID} }

func (l Ledger) IsMarketer() bool { return l.MarketerID != "" }

func (l Ledger) Path() string {
	if l.IsMarketer() {
		return "marketers/" + l.MarketerID + "/sales"
	}
	return OrdersLedgerPath
}

func (l Ledger) Table() string {
	if l.IsMarketer() {
		return marketerSalesTable
	}
	return ordersTable
}

// ParseLedgerPath is the inverse of Ledger.Path.
func ParseLedgerPath(path string) (Ledger, error) {
	if path == OrdersLedgerPath {
		return GeneralLedger(), nil
	}
	parts := strings.Split(path, "/")
	if len(parts) == 3 && parts[0] == "marketers" && parts[2] == "sales" && parts[1] != "" {
		return MarketerLedger(parts[1]), nil
	}
	return Ledger{}, ErrInvalidLedgerPath
}

// OrderRef points at one order document.
type OrderRef struct {
	LedgerPath string `json:"ledger_path"`
	OrderID    string `json:"order_id"`
}
