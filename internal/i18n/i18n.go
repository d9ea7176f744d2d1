// Package i18n provides the localized day and month abbreviations the
// panels render. Names are three letters so they fit the narrow roof
// fonts; the active language follows the config over the bus.
package i18n

import (
	"context"
	"sync"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
	"github.com/dleon/timemachine/internal/logging"
)

// Language tags accepted by the translator.
const (
	LangEN = "en"
	LangES = "es"
)

// unknownName is returned for out-of-range lookups.
const unknownName = "???"

var dayNames = map[string][7]string{
	LangEN: {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	LangES: {"Dom", "Lun", "Mar", "Mie", "Jue", "Vie", "Sab"},
}

var monthNames = map[string][12]string{
	LangEN: {
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
	LangES: {
		"Ene", "Feb", "Mar", "Abr", "May", "Jun",
		"Jul", "Ago", "Sep", "Oct", "Nov", "Dic",
	},
}

// Translator resolves calendar names in the active language. Safe for
// concurrent use; language changes arrive from the bus while panels
// read names during renders.
type Translator struct {
	bus event.Bus
	log *logging.Logger

	mu   sync.RWMutex
	lang string

	sub event.Subscription
}

// NewTranslator creates a Translator with the given default language.
// Unknown tags fall back to English.
func NewTranslator(bus event.Bus, defaultLang string, log *logging.Logger) *Translator {
	if log == nil {
		log = logging.Null
	}
	if _, ok := dayNames[defaultLang]; !ok {
		defaultLang = LangEN
	}
	return &Translator{
		bus:  bus,
		log:  log.WithComponent("i18n"),
		lang: defaultLang,
	}
}

// Start subscribes to language changes.
func (t *Translator) Start() error {
	sub, err := t.bus.SubscribeFunc(events.TopicLanguageChanged, t.onLanguageChanged)
	if err != nil {
		return err
	}
	t.sub = sub
	return nil
}

func (t *Translator) onLanguageChanged(ctx context.Context, ev any) error {
	if changed, ok := ev.(events.LanguageChanged); ok {
		t.setLanguage(changed.Language)
	}
	return nil
}

// Stop removes the language subscription.
func (t *Translator) Stop() {
	if t.sub != nil {
		t.bus.Unsubscribe(t.sub)
		t.sub = nil
	}
}

// Language returns the active language tag.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// DayName returns the three-letter abbreviation for a weekday.
func (t *Translator) DayName(d time.Weekday) string {
	if d < time.Sunday || d > time.Saturday {
		return unknownName
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return dayNames[t.lang][int(d)]
}

// MonthName returns the three-letter abbreviation for a month.
func (t *Translator) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return unknownName
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return monthNames[t.lang][int(m)-1]
}

func (t *Translator) setLanguage(lang string) {
	if _, ok := dayNames[lang]; !ok {
		t.log.Warn("ignoring unknown language %q", lang)
		return
	}
	t.mu.Lock()
	changed := t.lang != lang
	t.lang = lang
	t.mu.Unlock()
	if changed {
		t.log.Info("language changed to %s", lang)
	}
}
