package listener

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// UnitTranslationListener picks the translation of every loaded unit that
// fits the reading context. The order of preference is the translation of
// the context shop, the closest locale among the translations' languages
// and finally the translation of the fallback shop. Units without a fitting
// translation keep their base name.
type UnitTranslationListener struct {
	logger *zap.Logger
}

func NewUnitTranslationListener(logger *zap.Logger) *UnitTranslationListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitTranslationListener{logger: logger}
}

// EventNames returns the events the listener is registered for
func (l *UnitTranslationListener) EventNames() []string {
	return []string{shared.BasicLoadedEventName(catalog.EntityUnit)}
}

func (l *UnitTranslationListener) Handle(_ context.Context, event shared.NestedEvent) error {
	loaded, ok := event.(*shared.LoadedEvent[*catalog.Unit])
	if !ok {
		return nil
	}

	tctx := loaded.Context()
	for unit := range loaded.Collection().All() {
		unit.Translated = l.choose(unit, tctx)
	}
	return nil
}

func (l *UnitTranslationListener) choose(unit *catalog.Unit, tctx shared.TranslationContext) *catalog.UnitTranslation {
	if len(unit.Translations) == 0 {
		return nil
	}
	if t := byLanguage(unit.Translations, tctx.ShopUUID()); t != nil {
		return t
	}
	if t := l.byLocale(unit, tctx); t != nil {
		return t
	}
	return byLanguage(unit.Translations, tctx.FallbackShopUUID())
}

func byLanguage(translations []*catalog.UnitTranslation, languageUUID uuid.UUID) *catalog.UnitTranslation {
	if languageUUID == uuid.Nil {
		return nil
	}
	for _, t := range translations {
		if t.LanguageUUID == languageUUID {
			return t
		}
	}
	return nil
}

func (l *UnitTranslationListener) byLocale(unit *catalog.Unit, tctx shared.TranslationContext) *catalog.UnitTranslation {
	var (
		tags       []language.Tag
		candidates []*catalog.UnitTranslation
	)
	for _, t := range unit.Translations {
		if t.Language == nil {
			continue
		}
		tag, err := language.Parse(t.Language.Locale)
		if err != nil {
			l.logger.Warn("Skipping translation with invalid locale",
				zap.String("unit_uuid", unit.UUID.String()),
				zap.String("locale", t.Language.Locale),
			)
			continue
		}
		tags = append(tags, tag)
		candidates = append(candidates, t)
	}
	if len(candidates) == 0 {
		return nil
	}

	preferred := []language.Tag{tctx.Locale()}
	if tctx.FallbackLocale() != language.Und {
		preferred = append(preferred, tctx.FallbackLocale())
	}

	_, index, confidence := language.NewMatcher(tags).Match(preferred...)
	if confidence == language.No {
		return nil
	}
	return candidates[index]
}
