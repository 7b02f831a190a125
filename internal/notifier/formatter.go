package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TrendScanner/internal/model"
)

// FormatDeltaReport formats the newly qualifying symbols into a Telegram message.
func FormatDeltaReport(delta, full model.SymbolSet, date time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>EMA 趋势扫描</b> | %s\n\n", date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("符合条件: %d | 今日新增: %d\n\n", full.Len(), delta.Len()))

	if delta.Len() == 0 {
		b.WriteString("今日无新增股票")
		return b.String()
	}
	for _, sym := range delta.Sorted() {
		b.WriteString(html.EscapeString(sym))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
