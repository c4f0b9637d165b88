package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"car-scraper/models"
	"car-scraper/notifier"
)

const shortInfoLimit = 100

var groupPrinter = message.NewPrinter(language.English)

// groupThousands renders n with comma thousands separators: 350000 -> "350,000".
func groupThousands(n int) string {
	return groupPrinter.Sprintf("%d", n)
}

// FormatListing renders the notification for one accepted listing.
func FormatListing(l models.Listing) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🚗 *%s*\n", notifier.StripMarkdown(l.Source.String()))
	fmt.Fprintf(&b, "📌 *%s*\n", notifier.StripMarkdown(l.Title))
	fmt.Fprintf(&b, "💰 *%s* (%s руб.)\n", notifier.StripMarkdown(l.RawPrice), groupThousands(ExtractPrice(l.RawPrice)))

	if owners, ok := ListingOwners(l); ok {
		fmt.Fprintf(&b, "👥 *Владельцев: %d*\n", owners)
	} else {
		b.WriteString("👥 *Информация о владельцах: не указана*\n")
	}

	if l.ShortInfo != "" {
		fmt.Fprintf(&b, "📝 %s\n", notifier.EscapeMarkdown(truncate(l.ShortInfo, shortInfoLimit)))
	}

	fmt.Fprintf(&b, "🔗 [Ссылка на объявление](%s)", l.URL)
	return b.String()
}

// FormatSummary renders the end-of-cycle summary sent after new listings
// were notified.
func FormatSummary(r *models.CycleReport, f models.FilterConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "✅ Найдено %d подходящих объявлений!\n", r.Notified)
	fmt.Fprintf(&b, "Фильтры: цена %s-%s руб., до %d владельцев",
		groupThousands(f.MinPrice), groupThousands(f.MaxPrice), f.MaxOwners)

	for _, src := range []models.Source{models.SourceDrom, models.SourceAutoRu, models.SourceAvito} {
		if n := r.NotifiedBySource[src]; n > 0 {
			fmt.Fprintf(&b, "\n• %s: %d", notifier.EscapeMarkdown(src.String()), n)
		}
	}
	if r.MinPrice > 0 {
		fmt.Fprintf(&b, "\nЦены: %s-%s руб.", groupThousands(r.MinPrice), groupThousands(r.MaxPrice))
	}
	return b.String()
}

// FormatStartup is sent once when the bot starts.
func FormatStartup() string {
	return "🤖 Бот запущен! Начинаю поиск автомобилей..."
}

// FormatCycleError reports a cycle that failed at the top level.
func FormatCycleError(err error) string {
	return "❌ Ошибка при проверке объявлений: " + notifier.EscapeMarkdown(err.Error())
}

// truncate cuts s to max runes and appends "..." when anything was cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
