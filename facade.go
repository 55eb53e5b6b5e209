package odoo

import (
	"fmt"

	odoocommand "github.com/goliatone/go-odoo/command"
	"github.com/goliatone/go-odoo/core"
	odooquery "github.com/goliatone/go-odoo/query"
)

type CommandQueryService interface {
	odoocommand.MutatingService
	odooquery.PartnerReader
	odooquery.ProductReader
	odooquery.CategoryReader
	odooquery.OrderReader
	odooquery.ReportingReader
	odooquery.SupportReader
	odooquery.ActivityReader
}

type Commands struct {
	CreatePartner               *odoocommand.CreatePartnerCommand
	CreateLead                  *odoocommand.CreateLeadCommand
	CreateAttachment            *odoocommand.CreateAttachmentCommand
	CreateSaleOrder             *odoocommand.CreateSaleOrderCommand
	CreateSaleOrderFromProducts *odoocommand.CreateSaleOrderFromProductsCommand
	CreateSaleOrderByProductID  *odoocommand.CreateSaleOrderByProductIDCommand
	CreateHelpdeskTicket        *odoocommand.CreateHelpdeskTicketCommand
}

type Queries struct {
	GetPartner             *odooquery.GetPartnerQuery
	GetProduct             *odooquery.GetProductQuery
	SearchProductsByName   *odooquery.SearchProductsByNameQuery
	ListProducts           *odooquery.ListProductsQuery
	ProductImages          *odooquery.ProductImagesQuery
	GetCategories          *odooquery.GetCategoriesQuery
	ProductsByCategoryID   *odooquery.ProductsByCategoryIDQuery
	ProductsByCategoryName *odooquery.ProductsByCategoryNameQuery
	GetSaleOrders          *odooquery.GetSaleOrdersQuery
	SaleOrdersByPartner    *odooquery.SaleOrdersByPartnerQuery
	OrdersByDate           *odooquery.OrdersByDateQuery
	BuildOrderLines        *odooquery.BuildOrderLinesQuery
	SaleOrderReport        *odooquery.SaleOrderReportQuery
	PendingInvoices        *odooquery.PendingInvoicesQuery
	TopCustomers           *odooquery.TopCustomersQuery
	TopSellingProducts     *odooquery.TopSellingProductsQuery
	HelpdeskTickets        *odooquery.HelpdeskTicketsQuery
	ReplenishmentInfo      *odooquery.ReplenishmentInfoQuery
	ListActivity           *odooquery.ListActivityQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	activityReader odooquery.ActivityReader
}

// WithActivityReader lists activity from a reader other than the service.
func WithActivityReader(reader odooquery.ActivityReader) FacadeOption {
	return func(options *facadeOptions) {
		options.activityReader = reader
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("odoo: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	var reader odooquery.ActivityReader = service
	if cfg.activityReader != nil {
		reader = cfg.activityReader
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		CreatePartner:               odoocommand.NewCreatePartnerCommand(service),
		CreateLead:                  odoocommand.NewCreateLeadCommand(service),
		CreateAttachment:            odoocommand.NewCreateAttachmentCommand(service),
		CreateSaleOrder:             odoocommand.NewCreateSaleOrderCommand(service),
		CreateSaleOrderFromProducts: odoocommand.NewCreateSaleOrderFromProductsCommand(service),
		CreateSaleOrderByProductID:  odoocommand.NewCreateSaleOrderByProductIDCommand(service),
		CreateHelpdeskTicket:        odoocommand.NewCreateHelpdeskTicketCommand(service),
	}
	facade.queries = Queries{
		GetPartner:             odooquery.NewGetPartnerQuery(service),
		GetProduct:             odooquery.NewGetProductQuery(service),
		SearchProductsByName:   odooquery.NewSearchProductsByNameQuery(service),
		ListProducts:           odooquery.NewListProductsQuery(service),
		ProductImages:          odooquery.NewProductImagesQuery(service),
		GetCategories:          odooquery.NewGetCategoriesQuery(service),
		ProductsByCategoryID:   odooquery.NewProductsByCategoryIDQuery(service),
		ProductsByCategoryName: odooquery.NewProductsByCategoryNameQuery(service),
		GetSaleOrders:          odooquery.NewGetSaleOrdersQuery(service),
		SaleOrdersByPartner:    odooquery.NewSaleOrdersByPartnerQuery(service),
		OrdersByDate:           odooquery.NewOrdersByDateQuery(service),
		BuildOrderLines:        odooquery.NewBuildOrderLinesQuery(service),
		SaleOrderReport:        odooquery.NewSaleOrderReportQuery(service),
		PendingInvoices:        odooquery.NewPendingInvoicesQuery(service),
		TopCustomers:           odooquery.NewTopCustomersQuery(service),
		TopSellingProducts:     odooquery.NewTopSellingProductsQuery(service),
		HelpdeskTickets:        odooquery.NewHelpdeskTicketsQuery(service),
		ReplenishmentInfo:      odooquery.NewReplenishmentInfoQuery(service),
		ListActivity:           odooquery.NewListActivityQuery(reader),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*core.Service)(nil)
