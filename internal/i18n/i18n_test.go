package i18n

import (
	"context"
	"testing"
	"time"

	"github.com/dleon/timemachine/internal/event"
	"github.com/dleon/timemachine/internal/event/events"
)

func startedBus(t *testing.T) event.Bus {
	t.Helper()
	b := event.NewBus()
	if err := b.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = b.Stop(ctx)
	})
	return b
}

func TestTranslator_Names(t *testing.T) {
	tests := []struct {
		lang  string
		day   time.Weekday
		month time.Month
		wantD string
		wantM string
	}{
		{LangEN, time.Sunday, time.January, "Sun", "Jan"},
		{LangEN, time.Saturday, time.December, "Sat", "Dec"},
		{LangES, time.Sunday, time.January, "Dom", "Ene"},
		{LangES, time.Wednesday, time.August, "Mie", "Ago"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.wantD, func(t *testing.T) {
			tr := NewTranslator(startedBus(t), tt.lang, nil)
			if got := tr.DayName(tt.day); got != tt.wantD {
				t.Errorf("DayName(%v) = %q, want %q", tt.day, got, tt.wantD)
			}
			if got := tr.MonthName(tt.month); got != tt.wantM {
				t.Errorf("MonthName(%v) = %q, want %q", tt.month, got, tt.wantM)
			}
		})
	}
}

func TestTranslator_OutOfRange(t *testing.T) {
	tr := NewTranslator(startedBus(t), LangEN, nil)
	if got := tr.DayName(time.Weekday(7)); got != "???" {
		t.Errorf("DayName(7) = %q, want ???", got)
	}
	if got := tr.MonthName(time.Month(0)); got != "???" {
		t.Errorf("MonthName(0) = %q, want ???", got)
	}
	if got := tr.MonthName(time.Month(13)); got != "???" {
		t.Errorf("MonthName(13) = %q, want ???", got)
	}
}

func TestTranslator_UnknownDefaultFallsBackToEnglish(t *testing.T) {
	tr := NewTranslator(startedBus(t), "fr", nil)
	if got := tr.Language(); got != LangEN {
		t.Errorf("Language() = %q, want %q", got, LangEN)
	}
}

func TestTranslator_LanguageChangedEvent(t *testing.T) {
	bus := startedBus(t)
	tr := NewTranslator(bus, LangEN, nil)
	if err := tr.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer tr.Stop()

	if err := bus.Publish(context.Background(), events.LanguageChanged{Language: LangES}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if got := tr.DayName(time.Monday); got != "Lun" {
		t.Errorf("DayName(Monday) after change = %q, want Lun", got)
	}

	// Unknown tags are ignored, keeping the current language.
	if err := bus.Publish(context.Background(), events.LanguageChanged{Language: "de"}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if got := tr.Language(); got != LangES {
		t.Errorf("Language() = %q, want %q", got, LangES)
	}
}
