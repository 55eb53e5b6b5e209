package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

const categoryModel = "product.category"

var categoryFields = []string{"id", "name", "parent_id", "child_id", "product_count"}

// CategoryTreeResolver computes the transitive closure of the category
// parent to children relation.
type CategoryTreeResolver struct {
	store  RecordStore
	logger Logger
}

func NewCategoryTreeResolver(store RecordStore, logger Logger) *CategoryTreeResolver {
	return &CategoryTreeResolver{store: store, logger: glog.Ensure(logger)}
}

// DescendantIDs returns rootID followed by every category reachable below it,
// each exactly once. A failure fetching the root's children is returned;
// failures below the root drop that subtree.
func (r *CategoryTreeResolver) DescendantIDs(ctx context.Context, rootID int64) ([]int64, error) {
	if r == nil || r.store == nil {
		return nil, DependencyError("category resolver requires a record store")
	}
	if rootID <= 0 {
		return nil, BadInputError("category id must be positive", map[string]any{"category_id": rootID})
	}
	if ctx == nil {
		ctx = context.Background()
	}

	visited := map[int64]struct{}{rootID: {}}
	ids := []int64{rootID}
	queue := []int64{rootID}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parentID := queue[0]
		queue = queue[1:]

		children, err := r.store.Search(ctx, SearchRequest{
			Model:  categoryModel,
			Fields: categoryFields,
			Domain: All(Where("parent_id", OpEq, parentID)),
		})
		if err != nil {
			if parentID == rootID || ctx.Err() != nil {
				return nil, err
			}
			r.logger.Warn("category children lookup failed, subtree skipped",
				"category_id", parentID,
				"error", err.Error(),
			)
			continue
		}

		for _, child := range children {
			childID, ok := child.ID()
			if !ok {
				continue
			}
			if _, seen := visited[childID]; seen {
				continue
			}
			visited[childID] = struct{}{}
			ids = append(ids, childID)
			if child.Truthy("child_id") {
				queue = append(queue, childID)
			}
		}
	}

	r.logger.Debug("category subtree resolved", "category_id", rootID, "count", len(ids))
	return ids, nil
}
