package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-odoo/core"
)

var (
	_ gocmd.Commander[CreatePartnerMessage]               = (*CreatePartnerCommand)(nil)
	_ gocmd.Commander[CreateLeadMessage]                  = (*CreateLeadCommand)(nil)
	_ gocmd.Commander[CreateAttachmentMessage]            = (*CreateAttachmentCommand)(nil)
	_ gocmd.Commander[CreateSaleOrderMessage]             = (*CreateSaleOrderCommand)(nil)
	_ gocmd.Commander[CreateSaleOrderFromProductsMessage] = (*CreateSaleOrderFromProductsCommand)(nil)
	_ gocmd.Commander[CreateSaleOrderByProductIDMessage]  = (*CreateSaleOrderByProductIDCommand)(nil)
	_ gocmd.Commander[CreateHelpdeskTicketMessage]        = (*CreateHelpdeskTicketCommand)(nil)

	_ MutatingService = (*core.Service)(nil)
)
