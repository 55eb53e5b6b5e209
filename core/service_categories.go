package core

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

const productsPerCategoryLimit = 100

func (s *Service) GetCategories(ctx context.Context, lookup CategoryLookup) (categories []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": categoryModel}
	defer func() {
		fields["count"] = len(categories)
		s.observeOperation(ctx, startedAt, "get_categories", err, fields)
	}()
	if lookup == nil {
		lookup = AllCategories{}
	}
	for key, value := range lookup.fields() {
		fields[key] = value
	}
	categories, err = s.findCategories(ctx, lookup)
	return categories, s.mapError(err)
}

func (s *Service) findCategories(ctx context.Context, lookup CategoryLookup) ([]Record, error) {
	domain, err := lookup.categoryDomain()
	if err != nil {
		return nil, err
	}
	return s.search(ctx, SearchRequest{Model: categoryModel, Fields: categoryFields, Domain: domain})
}

// DescendantCategoryIDs exposes the category subtree of rootID.
func (s *Service) DescendantCategoryIDs(ctx context.Context, rootID int64) (ids []int64, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": categoryModel, "category_id": rootID}
	defer func() {
		fields["count"] = len(ids)
		s.observeOperation(ctx, startedAt, "descendant_category_ids", err, fields)
	}()
	ids, err = s.categories.DescendantIDs(ctx, rootID)
	return ids, s.mapError(err)
}

// ProductsByCategoryID lists active variants across the whole category
// subtree. Categories whose product query fails are logged and skipped.
func (s *Service) ProductsByCategoryID(ctx context.Context, categoryID int64) (products []Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": productVariantModel, "category_id": categoryID}
	defer func() {
		fields["count"] = len(products)
		s.observeOperation(ctx, startedAt, "products_by_category_id", err, fields)
	}()
	products, err = s.productsInSubtree(ctx, categoryID)
	return products, s.mapError(err)
}

func (s *Service) productsInSubtree(ctx context.Context, categoryID int64) ([]Record, error) {
	ids, err := s.categories.DescendantIDs(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	batches := make([][]Record, len(ids))
	var (
		mu       sync.Mutex
		terminal error
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.Concurrency())
	for index, id := range ids {
		group.Go(func() error {
			records, searchErr := s.search(groupCtx, SearchRequest{
				Model:  productVariantModel,
				Fields: s.productFields(),
				Domain: All(Where("categ_id", OpEq, id), Where("active", OpEq, true)),
				Limit:  productsPerCategoryLimit,
			})
			if searchErr != nil {
				if isTerminal(groupCtx, searchErr) {
					mu.Lock()
					if terminal == nil {
						terminal = searchErr
					}
					mu.Unlock()
					return searchErr
				}
				s.logWarn(groupCtx, "category products skipped", map[string]any{
					"category_id": id,
					"error":       searchErr.Error(),
				})
				return nil
			}
			batches[index] = records
			return nil
		})
	}
	if waitErr := group.Wait(); waitErr != nil {
		if terminal != nil {
			return nil, terminal
		}
		return nil, waitErr
	}

	products := []Record{}
	for _, batch := range batches {
		products = append(products, batch...)
	}
	return products, nil
}

// ProductsByCategoryName maps every category matching name to the products
// of its subtree.
func (s *Service) ProductsByCategoryName(ctx context.Context, name string) (result map[string][]Record, err error) {
	startedAt := s.now()
	fields := map[string]any{"model": categoryModel, "name": name}
	defer func() {
		fields["count"] = len(result)
		s.observeOperation(ctx, startedAt, "products_by_category_name", err, fields)
	}()

	categories, err := s.findCategories(ctx, CategoryByName{Name: name})
	if err != nil {
		return nil, s.mapError(err)
	}
	result = make(map[string][]Record, len(categories))
	for _, category := range categories {
		id, ok := category.ID()
		if !ok {
			continue
		}
		products, productsErr := s.productsInSubtree(ctx, id)
		if productsErr != nil {
			return nil, s.mapError(productsErr)
		}
		result[category.String("name")] = append(result[category.String("name")], products...)
	}
	return result, nil
}
