package command

import (
	"strings"

	"github.com/goliatone/go-odoo/core"
)

const (
	TypeCreatePartner               = "odoo.command.partner.create"
	TypeCreateLead                  = "odoo.command.lead.create"
	TypeCreateAttachment            = "odoo.command.attachment.create"
	TypeCreateSaleOrder             = "odoo.command.sale_order.create"
	TypeCreateSaleOrderFromProducts = "odoo.command.sale_order.create_from_products"
	TypeCreateSaleOrderByProductID  = "odoo.command.sale_order.create_by_product"
	TypeCreateHelpdeskTicket        = "odoo.command.helpdesk_ticket.create"
)

type CreatePartnerMessage struct {
	Input core.CreatePartnerInput
}

func (CreatePartnerMessage) Type() string { return TypeCreatePartner }

func (m CreatePartnerMessage) Validate() error {
	if strings.TrimSpace(m.Input.Name) == "" {
		return commandValidationError("name", "partner name is required")
	}
	if strings.TrimSpace(m.Input.Phone) == "" {
		return commandValidationError("phone", "partner phone is required")
	}
	return nil
}

type CreateLeadMessage struct {
	Input core.CreateLeadInput
}

func (CreateLeadMessage) Type() string { return TypeCreateLead }

func (m CreateLeadMessage) Validate() error {
	if m.Input.PartnerID <= 0 {
		return commandValidationError("partner_id", "partner id must be positive")
	}
	return nil
}

type CreateAttachmentMessage struct {
	Input core.CreateAttachmentInput
}

func (CreateAttachmentMessage) Type() string { return TypeCreateAttachment }

func (m CreateAttachmentMessage) Validate() error {
	if strings.TrimSpace(m.Input.Name) == "" {
		return commandValidationError("name", "attachment name is required")
	}
	if strings.TrimSpace(m.Input.ResModel) == "" {
		return commandValidationError("res_model", "attachment res_model is required")
	}
	if m.Input.ResID <= 0 {
		return commandValidationError("res_id", "attachment res_id must be positive")
	}
	if strings.TrimSpace(m.Input.DataBase64) == "" {
		return commandValidationError("data", "attachment data is required")
	}
	return nil
}

type CreateSaleOrderMessage struct {
	PartnerID int64
	Lines     []core.OrderLine
}

func (CreateSaleOrderMessage) Type() string { return TypeCreateSaleOrder }

func (m CreateSaleOrderMessage) Validate() error {
	if m.PartnerID <= 0 {
		return commandValidationError("partner_id", "partner id must be positive")
	}
	if len(m.Lines) == 0 {
		return commandValidationError("lines", "at least one order line is required")
	}
	for _, line := range m.Lines {
		if line.ProductID <= 0 || line.Quantity <= 0 {
			return commandValidationError("lines", "order lines need a product id and a positive quantity")
		}
	}
	return nil
}

type CreateSaleOrderFromProductsMessage struct {
	PartnerID int64
	Products  []core.DesiredProduct
}

func (CreateSaleOrderFromProductsMessage) Type() string { return TypeCreateSaleOrderFromProducts }

func (m CreateSaleOrderFromProductsMessage) Validate() error {
	if m.PartnerID <= 0 {
		return commandValidationError("partner_id", "partner id must be positive")
	}
	if len(m.Products) == 0 {
		return commandValidationError("products", "at least one product is required")
	}
	return nil
}

type CreateSaleOrderByProductIDMessage struct {
	PartnerID int64
	ProductID int64
	Quantity  float64
}

func (CreateSaleOrderByProductIDMessage) Type() string { return TypeCreateSaleOrderByProductID }

func (m CreateSaleOrderByProductIDMessage) Validate() error {
	if m.PartnerID <= 0 {
		return commandValidationError("partner_id", "partner id must be positive")
	}
	if m.ProductID <= 0 {
		return commandValidationError("product_id", "product id must be positive")
	}
	return nil
}

type CreateHelpdeskTicketMessage struct {
	Input core.CreateTicketInput
}

func (CreateHelpdeskTicketMessage) Type() string { return TypeCreateHelpdeskTicket }

func (m CreateHelpdeskTicketMessage) Validate() error {
	if m.Input.PartnerID <= 0 {
		return commandValidationError("partner_id", "partner id must be positive")
	}
	if strings.TrimSpace(m.Input.Name) == "" {
		return commandValidationError("name", "ticket name is required")
	}
	return nil
}
