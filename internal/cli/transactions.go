package cli

import (
	"github.com/spf13/cobra"

	nodela "github.com/nodela/nodela-go"
)

// transactionsCmd creates the transactions command with subcommands.
func transactionsCmd(env *Env, g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Inspect transactions",
	}

	cmd.AddCommand(transactionsListCmd(env, g))

	return cmd
}

// transactionsListCmd creates the "transactions list" subcommand.
func transactionsListCmd(env *Env, g *globalFlags) *cobra.Command {
	var (
		page  int
		limit int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long: `List one page of transactions, or every page with --all.

Without --page the first page is shown. Without --limit the server picks
the page size.`,
		Example: `  nodela transactions list
  nodela transactions list --page 2 --limit 50
  nodela transactions list --all --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := g.client(cmd, env)
			if err != nil {
				return err
			}

			var txs []nodela.Transaction
			var pagination *nodela.Pagination
			if all {
				for tx, err := range client.Transactions.All(cmd.Context(), limit) {
					if err != nil {
						return err
					}
					txs = append(txs, tx)
				}
			} else {
				list, err := client.Transactions.List(cmd.Context(), &nodela.ListTransactionsParams{Page: page, Limit: limit})
				if err != nil {
					return err
				}
				txs = list.Transactions
				pagination = &list.Pagination
			}

			if g.json {
				if pagination != nil {
					return writeJSON(env.Stdout, nodela.TransactionList{Transactions: txs, Pagination: *pagination})
				}
				return writeJSON(env.Stdout, txs)
			}
			return writeTransactions(env.Stdout, txs)
		},
	}

	f := cmd.Flags()
	f.IntVar(&page, "page", 0, "page number, starting at 1")
	f.IntVar(&limit, "limit", 0, "transactions per page")
	f.BoolVar(&all, "all", false, "fetch every page")
	cmd.MarkFlagsMutuallyExclusive("page", "all")

	return cmd
}
