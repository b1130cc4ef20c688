// Package nodela provides a Go client SDK for the Nodela payment API.
//
// The client creates crypto-settled invoices priced in fiat currencies,
// verifies their payment state and lists transactions. Every call goes
// through one request pipeline that authenticates with a bearer token,
// bounds each attempt with a timeout, retries transient failures with
// exponential backoff and validates responses against typed shapes.
//
// Basic usage:
//
//	client, err := nodela.New("your-api-key")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	invoice, err := client.Invoices.Create(ctx, nodela.CreateInvoiceParams{
//	    Amount:   nodela.MustDecimal("49.99"),
//	    Currency: "usd",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Pay at:", invoice.CheckoutURL)
//
// Invoices.WaitForPayment polls an invoice until it is paid, backing off
// while its status does not change.
//
// # Errors
//
// Every error returned by the client is an [*Error]. Its [Kind] tells what
// went wrong and matches one of the sentinel errors:
//
//	if errors.Is(err, nodela.ErrNotFound) {
//	    // unknown invoice
//	}
//
// Rate limit, server and network failures are retried up to the configured
// budget before they are returned. Authentication, validation and not found
// failures are returned at once.
//
// # Forward Compatibility
//
// Response types keep fields they do not declare in their Extra map and
// write them back when marshaled. Monetary amounts are [Decimal] values that
// preserve the exact text sent by the server.
package nodela
