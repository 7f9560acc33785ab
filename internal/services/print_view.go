package services

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"
)

var norwegianMonths = [...]string{
	"januar", "februar", "mars", "april", "mai", "juni",
	"juli", "august", "september", "oktober", "november", "desember",
}

// NorwegianPrintDate formats t like "5. mars 2025 kl. 09:07".
func NorwegianPrintDate(t time.Time) string {
	return fmt.Sprintf("%d. %s %d kl. %s", t.Day(), norwegianMonths[t.Month()-1], t.Year(), t.Format("15:04"))
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="no">
<head>
<meta charset="utf-8">
<title>Avganger</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 4px 8px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body>
<header class="header">
<h1>Avganger</h1>
<p>Utskrevet {{.PrintDate}}</p>
</header>
<table id="departuresTable">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.UnitNumber}}</td><td>{{.Destination}}</td><td>{{.Time}}</td><td>{{.Gate}}</td><td>{{.Type}}</td><td>{{.Status}}</td><td>{{.CommentText}}</td></tr>
{{- end}}
</tbody>
</table>
<script>window.print();</script>
</body>
</html>
`))

// RenderPrintView renders rows as a printable page. An empty table is
// refused with an info signal.
func RenderPrintView(rows []entities.Departure, at time.Time, notifier Notifier) ([]byte, error) {
	if len(rows) == 0 {
		notify(notifier, constants.SignalInfo, constants.MsgNothingToPrint)
		return nil, &DepartureError{
			Code:    constants.ErrCodeNothingToPrint,
			Message: constants.MsgNothingToPrint,
		}
	}

	var buf bytes.Buffer
	err := printTemplate.Execute(&buf, struct {
		PrintDate string
		Header    []string
		Rows      []entities.Departure
	}{
		PrintDate: NorwegianPrintDate(at),
		Header:    constants.CSVHeader,
		Rows:      rows,
	})
	if err != nil {
		return nil, fmt.Errorf("render print view: %w", err)
	}
	return buf.Bytes(), nil
}
