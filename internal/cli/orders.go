package cli

import (
	odoocommand "github.com/goliatone/go-odoo/command"
	"github.com/goliatone/go-odoo/core"
	odooquery "github.com/goliatone/go-odoo/query"
	"github.com/spf13/cobra"
)

func (a *app) orderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Find, price and create sale orders",
	}

	var get odooquery.GetSaleOrdersMessage
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "List sale orders, optionally by id, name or marketplace",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := runQuery[odooquery.GetSaleOrdersMessage, []core.Record](a, cmd, get)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("sale_orders", orders))
		},
	}
	getCmd.Flags().Int64Var(&get.ID, "id", 0, "sale order id")
	getCmd.Flags().StringVar(&get.Name, "name", "", "order name, client reference or origin")
	getCmd.Flags().StringVar(&get.Marketplace, "marketplace", "", "marketplace the order came from")
	getCmd.MarkFlagsMutuallyExclusive("id", "name", "marketplace")

	var byPartner odooquery.SaleOrdersByPartnerMessage
	byPartnerCmd := &cobra.Command{
		Use:   "by-partner",
		Short: "List the sale orders of a partner",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := runQuery[odooquery.SaleOrdersByPartnerMessage, []core.Record](a, cmd, byPartner)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("sale_orders", orders))
		},
	}
	byPartnerCmd.Flags().Int64Var(&byPartner.PartnerID, "partner-id", 0, "partner id")
	_ = byPartnerCmd.MarkFlagRequired("partner-id")

	var byDate odooquery.OrdersByDateMessage
	byDateCmd := &cobra.Command{
		Use:   "by-date",
		Short: "List sale orders placed between two dates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orders, err := runQuery[odooquery.OrdersByDateMessage, []core.Record](a, cmd, byDate)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("orders", orders))
		},
	}
	byDateCmd.Flags().StringVar(&byDate.Dates.From, "from", "", "start date (inclusive)")
	byDateCmd.Flags().StringVar(&byDate.Dates.To, "to", "", "end date (inclusive)")
	_ = byDateCmd.MarkFlagRequired("from")
	_ = byDateCmd.MarkFlagRequired("to")

	var lineProducts []string
	linesCmd := &cobra.Command{
		Use:   "lines",
		Short: "Price order lines for SKU:QTY entries without creating an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			desired, err := parseDesiredProducts(lineProducts)
			if err != nil {
				return err
			}
			lines, err := runQuery[odooquery.BuildOrderLinesMessage, []core.OrderLine](
				a, cmd, odooquery.BuildOrderLinesMessage{Products: desired},
			)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("order_lines", lines))
		},
	}
	linesCmd.Flags().StringArrayVar(&lineProducts, "product", nil, "SKU:QTY entry, repeatable")
	_ = linesCmd.MarkFlagRequired("product")

	cmd.AddCommand(getCmd, byPartnerCmd, byDateCmd, linesCmd, a.orderCreateCommand())
	return cmd
}

func (a *app) orderCreateCommand() *cobra.Command {
	var (
		partnerID int64
		lines     []string
		products  []string
		productID int64
		quantity  float64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a sale order from lines, SKUs or a single product id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				order core.Record
				err   error
			)
			switch {
			case len(lines) > 0:
				parsed, parseErr := parseOrderLines(lines)
				if parseErr != nil {
					return parseErr
				}
				order, err = runCommand[odoocommand.CreateSaleOrderMessage, core.Record](
					a, cmd, odoocommand.CreateSaleOrderMessage{PartnerID: partnerID, Lines: parsed},
				)
			case len(products) > 0:
				desired, parseErr := parseDesiredProducts(products)
				if parseErr != nil {
					return parseErr
				}
				order, err = runCommand[odoocommand.CreateSaleOrderFromProductsMessage, core.Record](
					a, cmd, odoocommand.CreateSaleOrderFromProductsMessage{PartnerID: partnerID, Products: desired},
				)
			default:
				order, err = runCommand[odoocommand.CreateSaleOrderByProductIDMessage, core.Record](
					a, cmd, odoocommand.CreateSaleOrderByProductIDMessage{PartnerID: partnerID, ProductID: productID, Quantity: quantity},
				)
			}
			if err != nil {
				return err
			}
			return a.print(successEnvelope("sale_order", order))
		},
	}
	cmd.Flags().Int64Var(&partnerID, "partner-id", 0, "customer partner id")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "PRODUCT_ID:QTY[:PRICE] line, repeatable")
	cmd.Flags().StringArrayVar(&products, "product", nil, "SKU:QTY entry priced from the catalogue, repeatable")
	cmd.Flags().Int64Var(&productID, "product-id", 0, "single product id")
	cmd.Flags().Float64Var(&quantity, "quantity", 1, "quantity for --product-id")
	_ = cmd.MarkFlagRequired("partner-id")
	cmd.MarkFlagsMutuallyExclusive("line", "product", "product-id")
	cmd.MarkFlagsOneRequired("line", "product", "product-id")
	return cmd
}

func (a *app) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render documents as PDF",
	}

	var msg odooquery.SaleOrderReportMessage
	saleOrderCmd := &cobra.Command{
		Use:   "sale-order",
		Short: "Download the PDF of a sale order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := runQuery[odooquery.SaleOrderReportMessage, core.BinaryPayload](a, cmd, msg)
			if err != nil {
				return err
			}
			saved, err := writePayloads(a.opts.OutputDir, payload)
			if err != nil {
				return err
			}
			return a.print(successEnvelope("report", saved[0]))
		},
	}
	saleOrderCmd.Flags().Int64Var(&msg.OrderID, "order-id", 0, "sale order id")
	saleOrderCmd.Flags().BoolVar(&msg.Raw, "raw", false, "use the raw report variant")
	_ = saleOrderCmd.MarkFlagRequired("order-id")

	cmd.AddCommand(saleOrderCmd)
	return cmd
}
