package core

import "context"

// ListActivity pages through recorded operation outcomes when the activity
// sink can be read back.
func (s *Service) ListActivity(ctx context.Context, filter ActivityFilter) (ActivityPage, error) {
	if s == nil || s.activitySink == nil {
		return ActivityPage{}, s.mapError(DependencyError("activity sink is required"))
	}
	reader, ok := s.activitySink.(ActivityReader)
	if !ok {
		return ActivityPage{}, s.mapError(DependencyError("activity sink does not support listing"))
	}
	page, err := reader.List(ctx, filter)
	if err != nil {
		return ActivityPage{}, s.mapError(err)
	}
	return page, nil
}
