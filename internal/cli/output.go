package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	nodela "github.com/nodela/nodela-go"
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeCreatedInvoice(w io.Writer, inv *nodela.CreatedInvoice) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Invoice:\t%s\n", inv.InvoiceID)
	fmt.Fprintf(tw, "ID:\t%s\n", inv.ID)
	fmt.Fprintf(tw, "Amount:\t%s %s\n", inv.OriginalAmount, inv.OriginalCurrency)
	fmt.Fprintf(tw, "Charge:\t%s %s\n", inv.Amount, inv.Currency)
	if inv.Status != "" {
		fmt.Fprintf(tw, "Status:\t%s\n", inv.Status)
	}
	fmt.Fprintf(tw, "Checkout:\t%s\n", inv.CheckoutURL)
	return tw.Flush()
}

func writeVerifications(w io.Writer, results []*nodela.InvoiceVerification) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "INVOICE\tSTATUS\tPAID\tAMOUNT\tTX")
	for _, v := range results {
		tx := "-"
		if v.Payment != nil && len(v.Payment.TxHash) > 0 {
			tx = strings.Join(v.Payment.TxHash, ",")
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s %s\t%s\n", v.InvoiceID, v.Status, v.Paid, v.Amount, v.Currency, tx)
	}
	return tw.Flush()
}

func writeTransactions(w io.Writer, txs []nodela.Transaction) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tINVOICE\tSTATUS\tAMOUNT\tCUSTOMER\tCREATED")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			tx.ID, tx.InvoiceID, tx.Status, tx.Amount, tx.Currency, tx.Customer.Email, tx.CreatedAt)
	}
	return tw.Flush()
}
