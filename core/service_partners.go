package core

import (
	"context"
	"fmt"
	"strings"
)

const (
	partnerModel = "res.partner"
	leadModel    = "crm.lead"
)

var partnerFields = []string{
	"id", "name", "company_type", "parent_id", "phone", "email", "website", "mobile",
	"street", "city", "street2", "zip", "country_id", "state_id", "vat", "company_id",
	"customer_rank", "supplier_rank", "credit", "debit", "category_id", "lang",
	"industry_id", "type", "is_company",
}

// GetPartner returns the first partner matching the lookup, or nil.
func (s *Service) GetPartner(ctx context.Context, lookup PartnerLookup) (partner Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": partnerModel}
	defer func() {
		fields["found"] = partner != nil
		s.observeOperation(ctx, startedAt, "get_partner", err, fields)
	}()
	if lookup == nil {
		err = s.mapError(BadInputError("partner lookup is required", nil))
		return nil, err
	}
	for key, value := range lookup.fields() {
		fields[key] = value
	}
	partner, err = s.findPartner(ctx, lookup)
	return partner, s.mapError(err)
}

func (s *Service) findPartner(ctx context.Context, lookup PartnerLookup) (Record, error) {
	domain, err := lookup.partnerDomain()
	if err != nil {
		return nil, err
	}
	return s.first(ctx, SearchRequest{Model: partnerModel, Fields: partnerFields, Domain: domain})
}

// CreatePartner finds a partner by phone or creates one. It is best effort:
// two concurrent calls for the same phone can both create a record.
func (s *Service) CreatePartner(ctx context.Context, input CreatePartnerInput) (result PartnerResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": partnerModel}
	defer func() {
		fields["partner_status"] = string(result.Status)
		s.observeOperation(ctx, startedAt, "create_partner", err, fields)
	}()

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" {
		err = s.mapError(BadInputError("partner name and phone are required", nil))
		return PartnerResult{}, err
	}

	existing, err := s.findPartner(ctx, PartnerByPhone{Phone: phone})
	if err != nil {
		return PartnerResult{}, s.mapError(err)
	}
	if existing != nil {
		return PartnerResult{Partner: existing, Status: PartnerStatusExisting}, nil
	}

	values := Record{"name": name, "phone": phone}
	if email := strings.TrimSpace(input.Email); email != "" {
		values["email"] = email
	}
	if _, err = s.create(ctx, partnerModel, values); err != nil {
		return PartnerResult{}, s.mapError(err)
	}

	created, err := s.findPartner(ctx, PartnerByPhone{Phone: phone})
	if err != nil {
		return PartnerResult{}, s.mapError(err)
	}
	if created == nil {
		s.logWarn(ctx, "created partner could not be read back", map[string]any{"model": partnerModel})
		return PartnerResult{Status: PartnerStatusUnresolved}, nil
	}
	return PartnerResult{Partner: created, Status: PartnerStatusCreated}, nil
}

// CreateLead opens a CRM opportunity for an existing partner.
func (s *Service) CreateLead(ctx context.Context, input CreateLeadInput) (lead Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": leadModel, "partner_id": input.PartnerID}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_lead", err, fields)
	}()

	partner, err := s.findPartner(ctx, PartnerByID{ID: input.PartnerID})
	if err != nil {
		return nil, s.mapError(err)
	}
	if partner == nil {
		err = s.mapError(BadInputError(
			fmt.Sprintf("partner %d does not exist", input.PartnerID),
			map[string]any{"partner_id": input.PartnerID},
		))
		return nil, err
	}

	values := Record{
		"stage_id":    1,
		"type":        "opportunity",
		"name":        fmt.Sprintf("%s - %s", s.config.LeadNamePrefix, partner.String("name")),
		"email_from":  strings.TrimSpace(input.Email),
		"phone":       partner.String("phone"),
		"description": input.Summary,
		"partner_id":  input.PartnerID,
	}
	lead, err = s.create(ctx, leadModel, values)
	return lead, s.mapError(err)
}
