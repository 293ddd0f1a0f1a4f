package listener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/catalog"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shop"
	"github.com/shopcore/backend/internal/infrastructure/event"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/language"
)

type urlGeneratorStub struct {
	calls []string
	err   error
}

func (s *urlGeneratorStub) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, key)
	return "https://cdn.example.com/" + key + "?expires=" + expiresIn.String(), nil
}

func newMedia(key string) *catalog.Media {
	return &catalog.Media{BaseEntity: shared.NewBaseEntity(), FileName: "f.png", MimeType: "image/png", StorageKey: key}
}

func translationContext(shopUUID uuid.UUID, locale language.Tag) shared.TranslationContext {
	return shared.NewTranslationContext(shopUUID, false, locale)
}

func TestMediaURLListener_ThroughNestedDispatch(t *testing.T) {
	gen := &urlGeneratorStub{}
	l := NewMediaURLListener(gen, time.Minute, nil)

	d := event.NewDispatcher(nil)
	d.Register(l, l.EventNames()...)

	cover := newMedia("media/cover.png")
	noKey := newMedia("")
	product := &catalog.Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       "Shirt",
		Media: []*catalog.ProductMedia{
			{BaseEntity: shared.NewBaseEntity(), MediaUUID: cover.UUID, Media: cover, IsCover: true},
			{BaseEntity: shared.NewBaseEntity(), MediaUUID: noKey.UUID, Media: noKey, Position: 1},
		},
	}
	ev := catalog.NewProductBasicLoadedEvent(shared.NewCollection(product), translationContext(uuid.New(), language.English))

	require.NoError(t, d.Dispatch(context.Background(), ev.Name(), ev))
	assert.Equal(t, []string{"media/cover.png"}, gen.calls)
	assert.Equal(t, "https://cdn.example.com/media/cover.png?expires=1m0s", cover.URL)
	assert.Empty(t, noKey.URL)
}

func TestMediaURLListener_ErrorAbortsRead(t *testing.T) {
	boom := errors.New("signing failed")
	l := NewMediaURLListener(&urlGeneratorStub{err: boom}, 0, nil)

	d := event.NewDispatcher(nil)
	d.Register(l, l.EventNames()...)

	ev := catalog.NewMediaBasicLoadedEvent(shared.NewCollection(newMedia("k")), translationContext(uuid.New(), language.English))
	err := d.Dispatch(context.Background(), ev.Name(), ev)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, shared.ErrListener)
}

func TestMediaURLListener_IgnoresOtherEvents(t *testing.T) {
	gen := &urlGeneratorStub{}
	ev := catalog.NewTaxBasicLoadedEvent(shared.NewCollection(&catalog.Tax{BaseEntity: shared.NewBaseEntity()}), shared.TranslationContext{})
	assert.NoError(t, NewMediaURLListener(gen, 0, nil).Handle(context.Background(), ev))
	assert.Empty(t, gen.calls)
}

func TestUnitTranslationListener(t *testing.T) {
	german := &shop.Shop{BaseEntity: shared.NewBaseEntity(), Name: "DE", Locale: "de-DE"}
	english := &shop.Shop{BaseEntity: shared.NewBaseEntity(), Name: "UK", Locale: "en-GB"}
	other := uuid.New()

	newUnit := func() *catalog.Unit {
		u := &catalog.Unit{BaseEntity: shared.NewBaseEntity(), ShortCode: "pcs", Name: "pieces"}
		u.Translations = []*catalog.UnitTranslation{
			{BaseEntity: shared.NewBaseEntity(), UnitUUID: u.UUID, LanguageUUID: german.UUID, Language: german, ShortCode: "Stk", Name: "Stück"},
			{BaseEntity: shared.NewBaseEntity(), UnitUUID: u.UUID, LanguageUUID: english.UUID, Language: english, ShortCode: "pcs", Name: "pieces (en)"},
		}
		return u
	}

	tests := []struct {
		name string
		tctx shared.TranslationContext
		want string
	}{
		{"context shop translation", translationContext(german.UUID, language.English), "Stück"},
		{"closest locale", translationContext(other, language.MustParse("de-AT")), "Stück"},
		{"regional english", translationContext(other, language.AmericanEnglish), "pieces (en)"},
		{"fallback locale", translationContext(other, language.French).WithFallback(uuid.Nil, language.German), "Stück"},
		{"fallback shop", translationContext(other, language.Japanese).WithFallback(english.UUID, language.Und), "pieces (en)"},
		{"no translation fits", translationContext(other, language.Japanese), "pieces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := newUnit()
			ev := catalog.NewUnitBasicLoadedEvent(shared.NewCollection(unit), tt.tctx)

			require.NoError(t, NewUnitTranslationListener(nil).Handle(context.Background(), ev))
			assert.Equal(t, tt.want, unit.DisplayName())
		})
	}
}

func TestUnitTranslationListener_InvalidLocale(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	broken := &shop.Shop{BaseEntity: shared.NewBaseEntity(), Locale: "not a locale!"}
	unit := &catalog.Unit{BaseEntity: shared.NewBaseEntity(), Name: "pieces"}
	unit.Translations = []*catalog.UnitTranslation{
		{BaseEntity: shared.NewBaseEntity(), LanguageUUID: broken.UUID, Language: broken, Name: "x"},
	}

	ev := catalog.NewUnitBasicLoadedEvent(shared.NewCollection(unit), translationContext(uuid.New(), language.English))
	require.NoError(t, NewUnitTranslationListener(zap.New(core)).Handle(context.Background(), ev))

	assert.Nil(t, unit.Translated)
	assert.Equal(t, 1, logs.FilterMessage("Skipping translation with invalid locale").Len())
}

func TestEventLogListener(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewEventLogListener(zap.New(core))

	d := event.NewDispatcher(nil)
	d.RegisterAll(l)

	tax := &catalog.Tax{BaseEntity: shared.NewBaseEntity(), Name: "Standard"}
	product := &catalog.Product{BaseEntity: shared.NewBaseEntity(), TaxUUID: tax.UUID, Tax: tax}
	tctx := translationContext(uuid.New(), language.English)
	ev := catalog.NewProductBasicLoadedEvent(shared.NewCollection(product), tctx)

	require.NoError(t, d.Dispatch(context.Background(), ev.Name(), ev))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "product.basic.loaded", entries[0].ContextMap()["event"])
	assert.Equal(t, int64(1), entries[0].ContextMap()["children"])
	assert.Equal(t, "tax.basic.loaded", entries[1].ContextMap()["event"])
	assert.Equal(t, "tax", entries[1].ContextMap()["entity"])

	written := shared.NewWrittenEvent(catalog.EntityTax, []shared.ChangeRecord{{UUID: tax.UUID}}, tctx)
	require.NoError(t, d.Dispatch(context.Background(), shared.GenericWrittenEventName, shared.NewGenericWrittenEvent(written, tctx)))
	require.Equal(t, 4, logs.Len())
	assert.Equal(t, "tax.written", logs.All()[3].ContextMap()["event"])
	assert.Equal(t, int64(1), logs.All()[3].ContextMap()["count"])
}

func TestEventLogListener_DisabledDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ev := catalog.NewTaxBasicLoadedEvent(shared.NewCollection[*catalog.Tax](), shared.TranslationContext{})
	require.NoError(t, NewEventLogListener(zap.New(core)).Handle(context.Background(), ev))
	assert.Zero(t, logs.Len())
}

func TestEventLogListener_ShopScopedContext(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	shopUUID := uuid.New()
	ctx, _ := logger.WithShop(context.Background(), zap.New(core), shopUUID)

	ev := catalog.NewTaxBasicLoadedEvent(shared.NewCollection[*catalog.Tax](), translationContext(shopUUID, language.English))
	require.NoError(t, NewEventLogListener(zap.NewNop()).Handle(ctx, ev))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, shopUUID.String(), logs.All()[0].ContextMap()["shop_id"])
}
