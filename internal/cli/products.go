package cli

import (
	"strings"

	"github.com/goliatone/go-odoo/core"
	odooquery "github.com/goliatone/go-odoo/query"
	"github.com/spf13/cobra"
)

func (a *app) productCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Look up products, variants and their images",
	}

	var get odooquery.GetProductMessage
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Find one product by id, SKU or name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			product, err := runQuery[odooquery.GetProductMessage, core.Record](a, cmd, get)
			if err != nil {
				return err
			}
			return a.print(successEnvelope("product", product))
		},
	}
	getCmd.Flags().Int64Var(&get.ID, "id", 0, "product id")
	getCmd.Flags().StringVar(&get.SKU, "sku", "", "internal reference (default_code)")
	getCmd.Flags().StringVar(&get.Name, "name", "", "name fragment")
	getCmd.Flags().BoolVar(&get.TemplateFirst, "template-first", false, "search product.template before product.product")
	getCmd.MarkFlagsMutuallyExclusive("id", "sku", "name")

	var search odooquery.SearchProductsByNameMessage
	searchCmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search sellable products by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				search.Name = args[0]
			}
			products, err := runQuery[odooquery.SearchProductsByNameMessage, []core.Record](a, cmd, search)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("products", products))
		},
	}
	searchCmd.Flags().StringVar(&search.Name, "name", "", "name fragment")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List active, stocked and priced products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := runQuery[odooquery.ListProductsMessage, []core.Record](a, cmd, odooquery.ListProductsMessage{})
			if err != nil {
				return err
			}
			return a.print(listEnvelope("products", products))
		},
	}

	var images odooquery.ProductImagesMessage
	imagesCmd := &cobra.Command{
		Use:   "images",
		Short: "Download product images to disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payloads, err := runQuery[odooquery.ProductImagesMessage, []core.BinaryPayload](a, cmd, images)
			if err != nil {
				return err
			}
			saved, err := writePayloads(a.opts.OutputDir, payloads...)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("images", saved))
		},
	}
	imagesCmd.Flags().Int64Var(&images.ProductID, "product-id", 0, "product id")
	imagesCmd.Flags().StringVar(&images.SKU, "sku", "", "internal reference used to name the files")

	cmd.AddCommand(getCmd, searchCmd, listCmd, imagesCmd)
	return cmd
}

func (a *app) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Browse product categories",
	}

	var get odooquery.GetCategoriesMessage
	getCmd := &cobra.Command{
		Use:   "get",
		Short: "List categories, optionally by id, name, parent or child",
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := runQuery[odooquery.GetCategoriesMessage, []core.Record](a, cmd, get)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("categories", categories))
		},
	}
	getCmd.Flags().Int64Var(&get.ID, "id", 0, "category id")
	getCmd.Flags().StringVar(&get.Name, "name", "", "name fragment")
	getCmd.Flags().Int64Var(&get.ParentID, "parent-id", 0, "list the children of this category")
	getCmd.Flags().Int64Var(&get.ChildID, "child-id", 0, "list the parent of this category")
	getCmd.MarkFlagsMutuallyExclusive("id", "name", "parent-id", "child-id")

	var (
		categoryID   int64
		categoryName string
	)
	productsCmd := &cobra.Command{
		Use:   "products",
		Short: "List products in a category and all of its descendants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(categoryName) != "" {
				grouped, err := runQuery[odooquery.ProductsByCategoryNameMessage, map[string][]core.Record](
					a, cmd, odooquery.ProductsByCategoryNameMessage{Name: categoryName},
				)
				if err != nil {
					return err
				}
				if grouped == nil {
					grouped = map[string][]core.Record{}
				}
				return a.print(successEnvelope("products_by_category", grouped))
			}
			products, err := runQuery[odooquery.ProductsByCategoryIDMessage, []core.Record](
				a, cmd, odooquery.ProductsByCategoryIDMessage{CategoryID: categoryID},
			)
			if err != nil {
				return err
			}
			return a.print(listEnvelope("products", products))
		},
	}
	productsCmd.Flags().Int64Var(&categoryID, "id", 0, "category id")
	productsCmd.Flags().StringVar(&categoryName, "name", "", "category name fragment; groups products per matching category")
	productsCmd.MarkFlagsMutuallyExclusive("id", "name")
	productsCmd.MarkFlagsOneRequired("id", "name")

	cmd.AddCommand(getCmd, productsCmd)
	return cmd
}
