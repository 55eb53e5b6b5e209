package cli

import (
	odoocommand "github.com/goliatone/go-odoo/command"
	"github.com/goliatone/go-odoo/core"
	odooquery "github.com/goliatone/go-odoo/query"
	"github.com/spf13/cobra"
)

func (a *app) invoiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Customer invoices (account.move)",
	}

	var msg odooquery.PendingInvoicesMessage
	pendingCmd := &cobra.Command{
		Use:   "pending",
		Short: "List posted customer invoices that are not paid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoices, err := runQuery[odooquery.PendingInvoicesMessage, []core.Record](a, cmd, msg)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("pending_invoices", invoices))
		},
	}
	pendingCmd.Flags().Int64Var(&msg.PartnerID, "partner-id", 0, "partner id")
	_ = pendingCmd.MarkFlagRequired("partner-id")

	cmd.AddCommand(pendingCmd)
	return cmd
}

func (a *app) reportingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reporting",
		Short: "Sales rankings over a date range",
	}

	var customers odooquery.TopCustomersMessage
	customersCmd := &cobra.Command{
		Use:   "top-customers",
		Short: "Rank customers by confirmed order amount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			totals, err := runQuery[odooquery.TopCustomersMessage, []core.CustomerTotal](a, cmd, customers)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("top_customers", totals))
		},
	}
	customersCmd.Flags().StringVar(&customers.Dates.From, "from", "", "start date (inclusive)")
	customersCmd.Flags().StringVar(&customers.Dates.To, "to", "", "end date (inclusive)")
	customersCmd.Flags().IntVar(&customers.Limit, "limit", 10, "number of customers to return")

	var products odooquery.TopSellingProductsMessage
	productsCmd := &cobra.Command{
		Use:   "top-products",
		Short: "Rank products by quantity sold",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sales, err := runQuery[odooquery.TopSellingProductsMessage, []core.ProductSales](a, cmd, products)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("top_selling_products", sales))
		},
	}
	productsCmd.Flags().StringVar(&products.Dates.From, "from", "", "start date (inclusive)")
	productsCmd.Flags().StringVar(&products.Dates.To, "to", "", "end date (inclusive)")
	productsCmd.Flags().IntVar(&products.Limit, "limit", 10, "number of products to return")

	cmd.AddCommand(customersCmd, productsCmd)
	return cmd
}

func (a *app) helpdeskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helpdesk",
		Short: "Support tickets (helpdesk.ticket)",
	}

	var list odooquery.HelpdeskTicketsMessage
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the tickets of a partner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tickets, err := runQuery[odooquery.HelpdeskTicketsMessage, []core.Record](a, cmd, list)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("helpdesk_tickets", tickets))
		},
	}
	listCmd.Flags().Int64Var(&list.PartnerID, "partner-id", 0, "partner id")
	_ = listCmd.MarkFlagRequired("partner-id")

	var create core.CreateTicketInput
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket for a partner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ticket, err := runCommand[odoocommand.CreateHelpdeskTicketMessage, core.Record](
				a, cmd, odoocommand.CreateHelpdeskTicketMessage{Input: create},
			)
			if err != nil {
				return err
			}
			return a.print(successEnvelope("helpdesk_ticket", ticket))
		},
	}
	createCmd.Flags().Int64Var(&create.PartnerID, "partner-id", 0, "partner id")
	createCmd.Flags().StringVar(&create.Name, "name", "", "ticket subject")
	createCmd.Flags().StringVar(&create.Description, "description", "", "ticket description")
	_ = createCmd.MarkFlagRequired("partner-id")
	_ = createCmd.MarkFlagRequired("name")

	cmd.AddCommand(listCmd, createCmd)
	return cmd
}

func (a *app) inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Stock replenishment rules",
	}

	var msg odooquery.ReplenishmentInfoMessage
	replenishmentCmd := &cobra.Command{
		Use:   "replenishment",
		Short: "Show replenishment rules, for one product or all of them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rules, err := runQuery[odooquery.ReplenishmentInfoMessage, []core.Record](a, cmd, msg)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("replenishment_info", rules))
		},
	}
	replenishmentCmd.Flags().Int64Var(&msg.ProductID, "product-id", 0, "product id (0 lists every rule)")

	cmd.AddCommand(replenishmentCmd)
	return cmd
}

func (a *app) activityCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Inspect the local ledger of operation outcomes",
	}

	var (
		filter core.ActivityFilter
		status string
		since  string
		until  string
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded operations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if filter.Since, err = parseTimeFlag("since", since); err != nil {
				return err
			}
			if filter.Until, err = parseTimeFlag("until", until); err != nil {
				return err
			}
			filter.Status = core.ActivityStatus(status)
			page, err := runQuery[odooquery.ListActivityMessage, core.ActivityPage](
				a, cmd, odooquery.ListActivityMessage{Filter: filter},
			)
			if err != nil {
				return err
			}
			return a.print(successEnvelope("activity", page))
		},
	}
	listCmd.Flags().StringVar(&filter.Operation, "operation", "", "only this operation")
	listCmd.Flags().StringVar(&status, "status", "", "only this status (success, failure)")
	listCmd.Flags().StringVar(&since, "since", "", "entries at or after this time")
	listCmd.Flags().StringVar(&until, "until", "", "entries at or before this time")
	listCmd.Flags().IntVar(&filter.Page, "page", 1, "page number")
	listCmd.Flags().IntVar(&filter.PerPage, "per-page", 25, "entries per page")

	cmd.AddCommand(listCmd)
	return cmd
}
