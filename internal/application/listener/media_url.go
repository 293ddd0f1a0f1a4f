// Package listener holds the listeners that enrich loaded entities and
// observe dispatched events.
package listener

import (
	"context"
	"time"

	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MediaURLListener resolves a presigned download URL for every loaded media
// file. A signing failure aborts the read.
type MediaURLListener struct {
	generator catalog.MediaURLGenerator
	expiresIn time.Duration
	logger    *zap.Logger
}

// NewMediaURLListener creates the listener; a zero expiresIn uses the
// generator's default lifetime
func NewMediaURLListener(generator catalog.MediaURLGenerator, expiresIn time.Duration, logger *zap.Logger) *MediaURLListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaURLListener{generator: generator, expiresIn: expiresIn, logger: logger}
}

// EventNames returns the events the listener is registered for
func (l *MediaURLListener) EventNames() []string {
	return []string{shared.BasicLoadedEventName(catalog.EntityMedia)}
}

func (l *MediaURLListener) Handle(ctx context.Context, event shared.NestedEvent) error {
	loaded, ok := event.(*shared.LoadedEvent[*catalog.Media])
	if !ok {
		return nil
	}

	for media := range loaded.Collection().All() {
		if media.StorageKey == "" {
			continue
		}
		url, err := l.generator.GenerateDownloadURL(ctx, media.StorageKey, l.expiresIn)
		if err != nil {
			return err
		}
		media.URL = url
	}

	l.logger.Debug("Resolved media URLs", zap.Int("count", loaded.Collection().Count()))
	return nil
}
