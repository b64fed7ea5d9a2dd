package app

import (
	"context"
	"fmt"

	"ticklist/internal/logger"
)

// Bootstrap makes sure the collection carries the required content
// attribute. Safe to call any number of times; the remote check-or-create
// sequence runs exactly once per process.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.bootstrapOnce.Do(func() {
		s.bootstrapErr = s.ensureContentAttribute(ctx)
	})
	return s.bootstrapErr
}

func (s *Service) ensureContentAttribute(ctx context.Context) error {
	databases := s.adminDatabases()

	attributes, err := databases.ListAttributes(ctx)
	if err != nil {
		return fmt.Errorf("list attributes: %w", err)
	}
	for _, attribute := range attributes {
		if attribute.Key == "content" {
			return nil
		}
	}

	logger.FromContext(ctx).Info("creating content attribute on collection")
	if err := databases.CreateStringAttribute(ctx, "content", maxContentLength, true); err != nil {
		return fmt.Errorf("create content attribute: %w", err)
	}
	return nil
}
