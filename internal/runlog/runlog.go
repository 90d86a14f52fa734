// Package runlog writes the per-run plain-text audit trail. The files are
// write-only: nothing in the system ever reads them back.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jotajotaz/bcn-flights/internal/models"
	"github.com/jotajotaz/bcn-flights/pkg/currency"
)

// Write records the search parameters and result summary into a timestamped
// file under dir, creating the directory if needed. Returns the file path.
func Write(dir string, now time.Time, results []*models.RouteResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("runlog dir: %w", err)
	}

	path := filepath.Join(dir, "search_"+now.Format("20060102_150405")+".log")

	var b strings.Builder
	fmt.Fprintf(&b, "Búsqueda realizada: %s\n", now.Format(time.RFC3339))
	if len(results) > 0 {
		fmt.Fprintf(&b, "Semana objetivo: %s\n", results[0].WeekStart.Format("2006-01-02"))
	}
	b.WriteString("\n")

	for _, r := range results {
		fmt.Fprintf(&b, "--- %s ↔ %s ---\n", r.Origin, r.Destination)
		fmt.Fprintf(&b, "Filtros relajados: %t\n", r.RelaxedFilters)

		if best := r.BestCombo(); best != nil {
			fmt.Fprintf(&b, "Mejor combo: %s\n", currency.FormatEUR(best.TotalPrice()))
			fmt.Fprintf(&b, "  Ida: %s→%s %s %s\n",
				best.Outbound.Origin, best.Outbound.Destination,
				best.Outbound.DepartureClock(), currency.FormatEUR(best.Outbound.Price))
			fmt.Fprintf(&b, "  Vuelta: %s→%s %s %s\n",
				best.Return.Origin, best.Return.Destination,
				best.Return.DepartureClock(), currency.FormatEUR(best.Return.Price))
		}
		if r.BestOutbound != nil {
			fmt.Fprintf(&b, "Mejor ida suelta: %s\n", currency.FormatEUR(r.BestOutbound.Price))
		}
		if r.BestReturn != nil {
			fmt.Fprintf(&b, "Mejor vuelta suelta: %s\n", currency.FormatEUR(r.BestReturn.Price))
		}
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "Error: %s\n", e)
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("runlog write: %w", err)
	}
	return path, nil
}
