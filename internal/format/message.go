// Package format renders route results into the Telegram summary message.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/pkg/currency"
	"github.com/jotajotaz/bcn-flights/pkg/links"
)

var dayNames = [7]string{"Lun", "Mar", "Mie", "Jue", "Vie", "Sab", "Dom"}

var monthNames = [13]string{"", "ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

func dayName(w time.Weekday) string {
	return dayNames[(int(w)+6)%7]
}

// Message renders the full summary for all searched routes.
func Message(results []*models.RouteResult, dayPairs []models.DayPair, topOptions int) string {
	if len(results) == 0 {
		return ""
	}

	week := results[0].WeekStart
	var b strings.Builder
	fmt.Fprintf(&b, "%s VUELOS BCN - Semana del %d %s\n", headerEmoji(results), week.Day(), monthNames[week.Month()])

	for _, r := range results {
		b.WriteString("\n")
		b.WriteString(formatRoute(r, dayPairs, topOptions))
	}

	return strings.TrimRight(b.String(), "\n")
}

// headerEmoji marks the whole message as a warning when no route produced
// any round-trip option.
func headerEmoji(results []*models.RouteResult) string {
	for _, r := range results {
		if len(r.Candidates) > 0 {
			return "✈️"
		}
	}
	return "⚠️"
}

func formatRoute(r *models.RouteResult, dayPairs []models.DayPair, topOptions int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🛫 %s ↔ %s\n", r.Origin, r.Destination)

	if r.RelaxedFilters {
		b.WriteString("⚠️ Sin opciones en horario estricto, mostrando horarios ampliados\n")
	}

	if len(r.Candidates) == 0 {
		b.WriteString("No se encontraron opciones con los filtros configurados.\n")
		b.WriteString(formatSingleLegs(r))
		b.WriteString(formatErrors(r))
		return b.String()
	}

	for i, c := range r.Candidates {
		if i >= topOptions {
			break
		}
		b.WriteString(formatCandidate(c, i+1))
	}

	fmt.Fprintf(&b, "📊 Resumen por días:\n   %s\n", formatDaySummary(r, dayPairs))
	fmt.Fprintf(&b, "💡 Mejor día: %s\n", bestDays(r))

	best := r.BestCombo()
	fmt.Fprintf(&b, "🔗 %s\n", links.Skyscanner(best.Outbound.Origin, best.Outbound.Destination, best.OutboundDate, &best.ReturnDate))

	b.WriteString(formatSingleLegs(r))
	b.WriteString(formatErrors(r))
	return b.String()
}

var medals = map[int]string{1: "🥇 MEJOR OPCIÓN", 2: "🥈 Segunda", 3: "🥉 Tercera"}

func formatCandidate(c models.TripCandidate, rank int) string {
	medal, ok := medals[rank]
	if !ok {
		medal = fmt.Sprintf("#%d", rank)
	}

	return fmt.Sprintf("%s: %s\n   %s %d → %s %d\n   %s\n   %s\n",
		medal, currency.FormatEUR(c.TotalPrice()),
		dayName(c.OutboundDate.Weekday()), c.OutboundDate.Day(),
		dayName(c.ReturnDate.Weekday()), c.ReturnDate.Day(),
		formatLeg(c.Outbound),
		formatLeg(c.Return))
}

func formatLeg(l models.FareListing) string {
	return fmt.Sprintf("%s→%s %s (%s) %s %s",
		l.Origin, l.Destination, l.DepartureClock(), l.Mode,
		currency.FormatEUR(l.Price), l.CarrierName)
}

func formatDaySummary(r *models.RouteResult, dayPairs []models.DayPair) string {
	best := r.BestByDayPair(dayPairs)

	parts := make([]string, 0, len(dayPairs))
	for _, pair := range dayPairs {
		label := fmt.Sprintf("%c-%c", dayName(pair.Outbound)[0], dayName(pair.Return)[0])
		if c := best[pair]; c != nil {
			parts = append(parts, fmt.Sprintf("%s: desde %s", label, currency.FormatEUR(c.TotalPrice())))
		} else {
			parts = append(parts, label+": -")
		}
	}
	return strings.Join(parts, " | ")
}

func bestDays(r *models.RouteResult) string {
	best := r.BestCombo()
	if best == nil {
		return "Sin datos"
	}
	return dayName(best.OutboundDate.Weekday()) + "-" + dayName(best.ReturnDate.Weekday())
}

// formatSingleLegs renders the standalone one-way recommendations, with a
// Trainline link for the opposite direction when the cities have one.
func formatSingleLegs(r *models.RouteResult) string {
	var b strings.Builder
	if r.BestOutbound != nil {
		fmt.Fprintf(&b, "🧩 Ida suelta %s→%s %s %s (%s)\n",
			r.BestOutbound.Origin, r.BestOutbound.Destination,
			r.BestOutbound.DepartureClock(), currency.FormatEUR(r.BestOutbound.Price),
			r.BestOutbound.CarrierName)
		if url, ok := links.Trainline(r.BestOutbound.Destination, r.BestOutbound.Origin); ok {
			fmt.Fprintf(&b, "   🚆 Vuelta en tren: %s\n", url)
		}
	}
	if r.BestReturn != nil {
		fmt.Fprintf(&b, "🧩 Vuelta suelta %s→%s %s %s (%s)\n",
			r.BestReturn.Origin, r.BestReturn.Destination,
			r.BestReturn.DepartureClock(), currency.FormatEUR(r.BestReturn.Price),
			r.BestReturn.CarrierName)
		if url, ok := links.Trainline(r.BestReturn.Destination, r.BestReturn.Origin); ok {
			fmt.Fprintf(&b, "   🚆 Ida en tren: %s\n", url)
		}
	}
	return b.String()
}

func formatErrors(r *models.RouteResult) string {
	if len(r.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf("⚠️ Hubo %d errores durante la búsqueda\n", len(r.Errors))
}
