package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	nodela "github.com/nodela/nodela-go"
)

// defaultVerifyParallel bounds concurrent verify requests.
const defaultVerifyParallel = 4

// invoiceCmd creates the invoice command with subcommands.
func invoiceCmd(env *Env, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Create and verify invoices",
	}

	cmd.AddCommand(invoiceCreateCmd(env, g))
	cmd.AddCommand(invoiceVerifyCmd(env, g))
	cmd.AddCommand(invoiceWaitCmd(env, g))

	return cmd
}

// invoiceCreateOptions holds the flags of "invoice create".
type invoiceCreateOptions struct {
	amount        string
	currency      string
	title         string
	description   string
	reference     string
	successURL    string
	cancelURL     string
	webhookURL    string
	customerEmail string
	customerName  string
}

func (o *invoiceCreateOptions) params() (nodela.CreateInvoiceParams, error) {
	amount, err := nodela.ParseDecimal(o.amount)
	if err != nil {
		return nodela.CreateInvoiceParams{}, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}

	p := nodela.CreateInvoiceParams{
		Amount:      amount,
		Currency:    o.currency,
		Title:       o.title,
		Description: o.description,
		Reference:   o.reference,
		SuccessURL:  o.successURL,
		CancelURL:   o.cancelURL,
		WebhookURL:  o.webhookURL,
	}
	if o.customerEmail != "" || o.customerName != "" {
		p.Customer = &nodela.CustomerParams{Email: o.customerEmail, Name: o.customerName}
	}
	return p, nil
}

// invoiceCreateCmd creates the "invoice create" subcommand.
func invoiceCreateCmd(env *Env, g *globalFlags) *cobra.Command {
	opts := &invoiceCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an invoice and print its checkout URL",
		Long: `Create an invoice priced in a fiat currency.

The amount is sent exactly as written. The currency must be one of the
supported ISO 4217 codes; case does not matter.`,
		Example: `  nodela invoice create --amount 49.99 --currency usd --title "Pro plan"
  nodela invoice create --amount 100 --currency EUR --customer-email ada@example.com --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoiceCreate(cmd, env, g, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.amount, "amount", "", "amount in --currency (e.g. 49.99)")
	f.StringVar(&opts.currency, "currency", "", "ISO 4217 currency code")
	f.StringVar(&opts.title, "title", "", "invoice title")
	f.StringVar(&opts.description, "description", "", "invoice description")
	f.StringVar(&opts.reference, "reference", "", "your own reference, e.g. an order ID")
	f.StringVar(&opts.successURL, "success-url", "", "redirect after payment")
	f.StringVar(&opts.cancelURL, "cancel-url", "", "redirect after cancellation")
	f.StringVar(&opts.webhookURL, "webhook-url", "", "payment notification URL")
	f.StringVar(&opts.customerEmail, "customer-email", "", "customer email")
	f.StringVar(&opts.customerName, "customer-name", "", "customer name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("currency")

	return cmd
}

func runInvoiceCreate(cmd *cobra.Command, env *Env, g *globalFlags, opts *invoiceCreateOptions) error {
	params, err := opts.params()
	if err != nil {
		return err
	}

	client, err := g.client(cmd, env)
	if err != nil {
		return err
	}

	invoice, err := client.Invoices.Create(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("create invoice: %w", err)
	}

	if g.json {
		return writeJSON(env.Stdout, invoice)
	}
	return writeCreatedInvoice(env.Stdout, invoice)
}

// invoiceVerifyCmd creates the "invoice verify" subcommand.
func invoiceVerifyCmd(env *Env, g *globalFlags) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "verify <invoice-id>...",
		Short: "Show the payment state of one or more invoices",
		Long: `Show the payment state of one or more invoices.

Invoices are verified concurrently, at most --parallel at a time. Results
are printed in argument order. The first failure cancels the rest.`,
		Example: `  nodela invoice verify INV-123
  nodela invoice verify INV-123 INV-456 --parallel 2 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if parallel < 1 {
				return ErrInvalidParallel
			}
			client, err := g.client(cmd, env)
			if err != nil {
				return err
			}

			results, err := verifyInvoices(cmd.Context(), client, args, parallel)
			if err != nil {
				return err
			}

			if g.json {
				return writeJSON(env.Stdout, results)
			}
			return writeVerifications(env.Stdout, results)
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", defaultVerifyParallel, "maximum concurrent requests")

	return cmd
}

// verifyInvoices verifies ids with at most parallel requests in flight and
// returns the results in the order of ids.
func verifyInvoices(ctx context.Context, client *nodela.Client, ids []string, parallel int) ([]*nodela.InvoiceVerification, error) {
	results := make([]*nodela.InvoiceVerification, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, id := range ids {
		g.Go(func() error {
			v, err := client.Invoices.Verify(ctx, id)
			if err != nil {
				return fmt.Errorf("verify invoice %s: %w", id, err)
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// invoiceWaitCmd creates the "invoice wait" subcommand.
func invoiceWaitCmd(env *Env, g *globalFlags) *cobra.Command {
	var (
		within   time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait <invoice-id>",
		Short: "Wait until an invoice is paid",
		Long: `Verify an invoice repeatedly until it is paid, then print it.

Checks back off while the invoice status stays the same and reset when it
changes. If --within elapses first, the last state is printed and the
command fails.`,
		Example: `  nodela invoice wait INV-123
  nodela invoice wait INV-123 --within 30m --interval 5s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client(cmd, env)
			if err != nil {
				return err
			}

			v, waitErr := client.Invoices.WaitForPayment(cmd.Context(), args[0],
				nodela.WithWaitTimeout(within),
				nodela.WithPollInterval(interval, 0),
			)
			if v != nil {
				var err error
				if g.json {
					err = writeJSON(env.Stdout, v)
				} else {
					err = writeVerifications(env.Stdout, []*nodela.InvoiceVerification{v})
				}
				if err != nil {
					return err
				}
			}
			if waitErr != nil {
				return fmt.Errorf("wait for invoice %s: %w", args[0], waitErr)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.DurationVar(&within, "within", 15*time.Minute, "give up after this long")
	f.DurationVar(&interval, "interval", 2*time.Second, "delay before the second check")

	return cmd
}
