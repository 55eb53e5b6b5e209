package core

import (
	"context"
	"strings"
)

const helpdeskTicketModel = "helpdesk.ticket"

var ticketFields = []string{"id", "name", "create_date", "stage_id", "user_id", "partner_id", "description"}

func (s *Service) HelpdeskTickets(ctx context.Context, partnerID int64) (tickets []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": helpdeskTicketModel, "partner_id": partnerID}
	defer func() {
		fields["count"] = len(tickets)
		s.observeOperation(ctx, startedAt, "helpdesk_tickets", err, fields)
	}()
	if partnerID <= 0 {
		err = s.mapError(BadInputError("partner id must be positive", map[string]any{"partner_id": partnerID}))
		return nil, err
	}
	tickets, err = s.search(ctx, SearchRequest{
		Model:  helpdeskTicketModel,
		Fields: ticketFields,
		Domain: All(Where("partner_id", OpEq, partnerID)),
		Order:  "create_date desc",
	})
	return tickets, s.mapError(err)
}

func (s *Service) CreateHelpdeskTicket(ctx context.Context, input CreateTicketInput) (ticket Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": helpdeskTicketModel, "partner_id": input.PartnerID}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_helpdesk_ticket", err, fields)
	}()
	if input.PartnerID <= 0 {
		err = s.mapError(BadInputError("partner id must be positive", map[string]any{"partner_id": input.PartnerID}))
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		err = s.mapError(BadInputError("ticket name is required", nil))
		return nil, err
	}
	values := Record{"name": name, "partner_id": input.PartnerID}
	if description := strings.TrimSpace(input.Description); description != "" {
		values["description"] = description
	}
	ticket, err = s.create(ctx, helpdeskTicketModel, values)
	return ticket, s.mapError(err)
}
