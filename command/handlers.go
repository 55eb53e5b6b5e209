package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-odoo/core"
)

// MutatingService is the part of core.Service that creates remote records.
type MutatingService interface {
	CreatePartner(ctx context.Context, input core.CreatePartnerInput) (core.PartnerResult, error)
	CreateLead(ctx context.Context, input core.CreateLeadInput) (core.Record, error)
	CreateAttachment(ctx context.Context, input core.CreateAttachmentInput) (core.Record, error)
	CreateSaleOrder(ctx context.Context, partnerID int64, lines []core.OrderLine) (core.Record, error)
	CreateSaleOrderFromProducts(ctx context.Context, partnerID int64, desired []core.DesiredProduct) (core.Record, error)
	CreateSaleOrderByProductID(ctx context.Context, partnerID int64, productID int64, quantity float64) (core.Record, error)
	CreateHelpdeskTicket(ctx context.Context, input core.CreateTicketInput) (core.Record, error)
}

type CreatePartnerCommand struct {
	service MutatingService
}

func NewCreatePartnerCommand(service MutatingService) *CreatePartnerCommand {
	return &CreatePartnerCommand{service: service}
}

func (c *CreatePartnerCommand) Execute(ctx context.Context, msg CreatePartnerMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: partner service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreatePartner(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateLeadCommand struct {
	service MutatingService
}

func NewCreateLeadCommand(service MutatingService) *CreateLeadCommand {
	return &CreateLeadCommand{service: service}
}

func (c *CreateLeadCommand) Execute(ctx context.Context, msg CreateLeadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: lead service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateLead(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateAttachmentCommand struct {
	service MutatingService
}

func NewCreateAttachmentCommand(service MutatingService) *CreateAttachmentCommand {
	return &CreateAttachmentCommand{service: service}
}

func (c *CreateAttachmentCommand) Execute(ctx context.Context, msg CreateAttachmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: attachment service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateAttachment(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateSaleOrderCommand struct {
	service MutatingService
}

func NewCreateSaleOrderCommand(service MutatingService) *CreateSaleOrderCommand {
	return &CreateSaleOrderCommand{service: service}
}

func (c *CreateSaleOrderCommand) Execute(ctx context.Context, msg CreateSaleOrderMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sale order service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateSaleOrder(ctx, msg.PartnerID, msg.Lines)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateSaleOrderFromProductsCommand struct {
	service MutatingService
}

func NewCreateSaleOrderFromProductsCommand(service MutatingService) *CreateSaleOrderFromProductsCommand {
	return &CreateSaleOrderFromProductsCommand{service: service}
}

func (c *CreateSaleOrderFromProductsCommand) Execute(ctx context.Context, msg CreateSaleOrderFromProductsMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sale order service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateSaleOrderFromProducts(ctx, msg.PartnerID, msg.Products)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateSaleOrderByProductIDCommand struct {
	service MutatingService
}

func NewCreateSaleOrderByProductIDCommand(service MutatingService) *CreateSaleOrderByProductIDCommand {
	return &CreateSaleOrderByProductIDCommand{service: service}
}

func (c *CreateSaleOrderByProductIDCommand) Execute(ctx context.Context, msg CreateSaleOrderByProductIDMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: sale order service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateSaleOrderByProductID(ctx, msg.PartnerID, msg.ProductID, msg.Quantity)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CreateHelpdeskTicketCommand struct {
	service MutatingService
}

func NewCreateHelpdeskTicketCommand(service MutatingService) *CreateHelpdeskTicketCommand {
	return &CreateHelpdeskTicketCommand{service: service}
}

func (c *CreateHelpdeskTicketCommand) Execute(ctx context.Context, msg CreateHelpdeskTicketMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: helpdesk service is required")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	out, err := c.service.CreateHelpdeskTicket(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
