package core

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	productTemplateModel = "product.template"
	productVariantModel  = "product.product"
	productImageModel    = "product.image"
	attachmentModel      = "ir.attachment"
)

func (s *Service) productFields() []string {
	fields := []string{"id", "name", "default_code"}
	if brand := strings.TrimSpace(s.config.CustomFields.Brand); brand != "" {
		fields = append(fields, brand)
	}
	return append(fields,
		"barcode", "categ_id", "qty_available", "list_price", "currency_id", "tax_string",
		"description_sale", "invoice_policy", "taxes_id", "active", "type",
	)
}

func (s *Service) productListFields() []string {
	fields := []string{"id", "name", "default_code"}
	if brand := strings.TrimSpace(s.config.CustomFields.Brand); brand != "" {
		fields = append(fields, brand)
	}
	return append(fields, "barcode", "qty_available", "list_price")
}

func productModels(templateFirst bool) []string {
	if templateFirst {
		return []string{productTemplateModel, productVariantModel}
	}
	return []string{productVariantModel, productTemplateModel}
}

// GetProduct searches the template and variant models in order and returns
// the first match, or nil.
func (s *Service) GetProduct(ctx context.Context, lookup ProductLookup, templateFirst bool) (product Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"template_first": templateFirst}
	defer func() {
		fields["found"] = product != nil
		s.observeOperation(ctx, startedAt, "get_product", err, fields)
	}()
	if lookup == nil {
		err = s.mapError(BadInputError("product lookup is required", nil))
		return nil, err
	}
	for key, value := range lookup.fields() {
		fields[key] = value
	}
	product, err = s.findProduct(ctx, lookup, templateFirst)
	return product, s.mapError(err)
}

func (s *Service) findProduct(ctx context.Context, lookup ProductLookup, templateFirst bool) (Record, error) {
	domain, err := lookup.productDomain()
	if err != nil {
		return nil, err
	}
	for _, model := range productModels(templateFirst) {
		records, searchErr := s.search(ctx, SearchRequest{Model: model, Fields: s.productFields(), Domain: domain})
		if searchErr != nil {
			return nil, searchErr
		}
		if len(records) > 0 {
			return records[0], nil
		}
	}
	return nil, nil
}

// SearchProductsByName matches active products on both models. A failing
// model is skipped. Items without a code or barcode, or without a brand,
// are dropped; the rest are unique by default_code.
func (s *Service) SearchProductsByName(ctx context.Context, name string) (products []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"name": name}
	defer func() {
		fields["count"] = len(products)
		s.observeOperation(ctx, startedAt, "search_products_by_name", err, fields)
	}()
	if strings.TrimSpace(name) == "" {
		err = s.mapError(BadInputError("product name is required", nil))
		return nil, err
	}

	domain := All(NameContains("name", name), Where("active", OpEq, true))
	results := []Record{}
	for _, model := range productModels(true) {
		records, searchErr := s.search(ctx, SearchRequest{Model: model, Fields: s.productFields(), Domain: domain})
		if searchErr != nil {
			if isTerminal(ctx, searchErr) {
				return nil, s.mapError(searchErr)
			}
			s.logWarn(ctx, "product name search skipped model", map[string]any{"model": model, "error": searchErr.Error()})
			continue
		}
		results = append(results, records...)
	}

	brand := s.config.CustomFields.Brand
	eligible := make([]Record, 0, len(results))
	for _, record := range results {
		if !record.Truthy("barcode") && !record.Truthy("default_code") {
			continue
		}
		if brand != "" && !record.Truthy(brand) {
			continue
		}
		eligible = append(eligible, record)
	}
	return DedupByKey(eligible, productCode), nil
}

// ListProducts returns active, priced, in stock products from both models,
// unique by default_code.
func (s *Service) ListProducts(ctx context.Context) (products []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{}
	defer func() {
		fields["count"] = len(products)
		s.observeOperation(ctx, startedAt, "list_products", err, fields)
	}()

	domain := All(
		Where("active", OpEq, true),
		Where("qty_available", OpGt, 0),
		Where("list_price", OpGt, 0),
	)
	models := []string{productVariantModel, productTemplateModel}
	batches := make([][]Record, len(models))
	group, groupCtx := errgroup.WithContext(ctx)
	for index, model := range models {
		group.Go(func() error {
			records, searchErr := s.search(groupCtx, SearchRequest{
				Model:  model,
				Fields: s.productListFields(),
				Domain: domain,
				Order:  "id",
			})
			if searchErr != nil {
				return searchErr
			}
			batches[index] = records
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, s.mapError(err)
	}

	combined := []Record{}
	for _, batch := range batches {
		combined = append(combined, batch...)
	}
	return DedupByKey(combined, productCode), nil
}

func productCode(record Record) string {
	return record.String("default_code")
}

// ProductImages returns the decoded gallery images of a product. When the
// gallery model is unavailable the main image of the template, then of the
// variant, is used instead.
func (s *Service) ProductImages(ctx context.Context, productID int64, sku string) (images []BinaryPayload, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": productImageModel, "product_id": productID, "sku": sku}
	defer func() {
		fields["count"] = len(images)
		s.observeOperation(ctx, startedAt, "product_images", err, fields)
	}()
	if productID <= 0 {
		err = s.mapError(BadInputError("product id must be positive", map[string]any{"product_id": productID}))
		return nil, err
	}
	if strings.TrimSpace(sku) == "" {
		sku = fmt.Sprintf("%d", productID)
	}

	imageFields := []string{"product_tmpl_id", "name", "product_variant_id", "image_1024"}
	records, err := s.search(ctx, SearchRequest{
		Model:  productImageModel,
		Fields: imageFields,
		Domain: All(Where("product_tmpl_id", OpEq, productID)),
	})
	if err == nil && len(records) == 0 {
		records, err = s.search(ctx, SearchRequest{
			Model:  productImageModel,
			Fields: imageFields,
			Domain: All(Where("product_variant_id", OpEq, productID)),
		})
	}
	if err != nil {
		if isTerminal(ctx, err) {
			return nil, s.mapError(err)
		}
		s.logWarn(ctx, "product image gallery unavailable, using main image", map[string]any{
			"product_id": productID,
			"error":      err.Error(),
		})
		fields["fallback"] = true
		images, err = s.mainProductImage(ctx, productID, sku)
		return images, s.mapError(err)
	}

	images = make([]BinaryPayload, 0, len(records))
	for index, record := range records {
		payload, ok := s.decodeImage(ctx, record.String("image_1024"), fmt.Sprintf("%s_%d", sku, index))
		if ok {
			images = append(images, payload)
		}
	}
	return images, nil
}

func (s *Service) mainProductImage(ctx context.Context, productID int64, sku string) ([]BinaryPayload, error) {
	for _, model := range productModels(true) {
		record, err := s.first(ctx, SearchRequest{
			Model:  model,
			Fields: []string{"image_1024"},
			Domain: All(Where("id", OpEq, productID)),
		})
		if err != nil {
			if isTerminal(ctx, err) {
				return nil, err
			}
			s.logWarn(ctx, "main image lookup failed", map[string]any{"model": model, "product_id": productID, "error": err.Error()})
			return []BinaryPayload{}, nil
		}
		if record == nil || !record.Truthy("image_1024") {
			continue
		}
		if payload, ok := s.decodeImage(ctx, record.String("image_1024"), sku+"_0"); ok {
			return []BinaryPayload{payload}, nil
		}
	}
	return []BinaryPayload{}, nil
}

func (s *Service) decodeImage(ctx context.Context, encoded string, name string) (BinaryPayload, bool) {
	if strings.TrimSpace(encoded) == "" {
		s.logWarn(ctx, "product image is empty", map[string]any{"image": name})
		return BinaryPayload{}, false
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.logWarn(ctx, "product image decode failed", map[string]any{"image": name, "error": err.Error()})
		return BinaryPayload{}, false
	}
	fileName := name + ".jpg"
	return BinaryPayload{
		Name:        fileName,
		Path:        filepath.Join(s.config.ImageDir, fileName),
		ContentType: "image/jpeg",
		Content:     content,
	}, true
}

// CreateAttachment binds base64 file content to an existing record.
func (s *Service) CreateAttachment(ctx context.Context, input CreateAttachmentInput) (attachment Record, err error) {
	startedAt := s.now()
	fields := map[string]any{
		"model":     attachmentModel,
		"res_model": input.ResModel,
		"res_id":    input.ResID,
		"size_b64":  len(input.DataBase64),
	}
	defer func() {
		s.observeOperation(ctx, startedAt, "create_attachment", err, fields)
	}()

	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.ResModel) == "" {
		err = s.mapError(BadInputError("attachment name and res_model are required", nil))
		return nil, err
	}
	if input.ResID <= 0 {
		err = s.mapError(BadInputError("attachment res_id must be positive", map[string]any{"res_id": input.ResID}))
		return nil, err
	}
	if strings.TrimSpace(input.DataBase64) == "" {
		err = s.mapError(BadInputError("attachment data is required", nil))
		return nil, err
	}
	if _, decodeErr := base64.StdEncoding.DecodeString(input.DataBase64); decodeErr != nil {
		err = s.mapError(BadInputError("attachment data must be base64 without a data URI prefix", nil))
		return nil, err
	}

	attachment, err = s.create(ctx, attachmentModel, Record{
		"name":      input.Name,
		"datas":     input.DataBase64,
		"res_model": input.ResModel,
		"res_id":    input.ResID,
	})
	return attachment, s.mapError(err)
}
