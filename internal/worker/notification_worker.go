package worker

import (
	"context"

	"github.com/novelistan/novelistan-api/internal/cache"
	"github.com/novelistan/novelistan-api/internal/events"
	"github.com/novelistan/novelistan-api/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartCatalogInvalidator drops the catalog cache whenever a book changes,
// so the public listing never serves a stale or deleted book past TTL.
func StartCatalogInvalidator(dispatcher events.Dispatcher, catalog *cache.Catalog) {
	if dispatcher == nil || catalog == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		catalog.Invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventBookCreated, invalidate)
	dispatcher.Subscribe(events.EventBookUpdated, invalidate)
	dispatcher.Subscribe(events.EventBookDeleted, invalidate)
}
