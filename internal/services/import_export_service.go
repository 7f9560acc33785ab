package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/models/entities"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Avganger"

// ImportResult describes an applied import.
type ImportResult struct {
	Mode  constants.ImportMode `json:"mode"`
	Total int                  `json:"total"`
	Added int                  `json:"added"`
}

// ImportExportService serializes the full collection and reconciles
// uploaded backups with it.
type ImportExportService struct {
	repo    *DepartureRepository
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewImportExportService(repo *DepartureRepository, m *metrics.MetricsRegistry) *ImportExportService {
	return &ImportExportService{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

// Filename returns the dated download name, e.g. avganger_2025-01-31.csv.
func (s *ImportExportService) Filename(prefix, ext string) string {
	return prefix + s.now().Format(constants.ISODateLayout) + "." + ext
}

// ExportCSV writes the whole collection, ignoring any table filter.
func (s *ImportExportService) ExportCSV() []byte {
	return EncodeCSV(s.repo.Current())
}

// EncodeCSV writes the header row unquoted and every data field quoted.
// Rows are separated by "\n" without a trailing newline.
func EncodeCSV(records []entities.Departure) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(constants.CSVHeader, ","))

	for _, d := range records {
		buf.WriteByte('\n')
		for i, v := range csvFields(d) {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(v, `"`, `""`))
			buf.WriteByte('"')
		}
	}
	return buf.Bytes()
}

func csvFields(d entities.Departure) []string {
	return []string{d.UnitNumber, d.Destination, d.Time, d.Gate, d.Type, d.Status, d.CommentText()}
}

// ExportJSON returns the backup file: the collection as an indented array.
func (s *ImportExportService) ExportJSON() ([]byte, error) {
	return EncodeBackup(s.repo.Current())
}

func EncodeBackup(records []entities.Departure) ([]byte, error) {
	if records == nil {
		records = []entities.Departure{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ExportXLSX returns the CSV columns as a spreadsheet.
func (s *ImportExportService) ExportXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]interface{}, len(constants.CSVHeader))
	for i, h := range constants.CSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(constants.CSVHeader))
	if err := f.SetCellStyle(xlsxSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, d := range s.repo.Current() {
		fields := csvFields(d)
		row := make([]interface{}, len(fields))
		for j, v := range fields {
			row[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(xlsxSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(xlsxSheetName, "A", lastCol, 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseImport decodes a backup file. The payload must be an array whose
// elements all carry a non-zero id, a unitNumber and a destination, with no
// id repeated. Legacy status labels are mapped to current values.
func ParseImport(payload []byte) ([]entities.Departure, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, newDepartureError(constants.ErrCodeParse, err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil || elements == nil {
		return nil, newDepartureError(constants.ErrCodeInvalidFormat, errors.New("payload is not an array"))
	}

	records := make([]entities.Departure, 0, len(elements))
	seen := make(map[int64]struct{}, len(elements))
	for i, el := range elements {
		var d entities.Departure
		if err := json.Unmarshal(el, &d); err != nil {
			return nil, newDepartureError(constants.ErrCodeInvalidFormat, fmt.Errorf("element %d: %w", i, err))
		}

		var missing string
		switch {
		case d.ID == 0:
			missing = "id"
		case d.UnitNumber == "":
			missing = "unitNumber"
		case d.Destination == "":
			missing = "destination"
		}
		if missing != "" {
			return nil, newDepartureError(constants.ErrCodeInvalidFormat, fmt.Errorf("element %d: missing %s", i, missing))
		}

		if _, dup := seen[d.ID]; dup {
			return nil, newDepartureError(constants.ErrCodeInvalidFormat, fmt.Errorf("element %d: duplicate id %d", i, d.ID))
		}
		seen[d.ID] = struct{}{}

		if mapped, ok := constants.LegacyStatuses[d.Status]; ok {
			d.Status = mapped
		}
		records = append(records, d)
	}
	return records, nil
}

// Import applies a backup file. chooser picks overwrite or merge; merge adds
// only records whose id is not in the collection yet.
func (s *ImportExportService) Import(ctx context.Context, payload []byte, chooser ImportModeChooser, notifier Notifier) (*ImportResult, error) {
	imported, err := ParseImport(payload)
	if err != nil {
		logging.Warn("Rejected departure import", "error", err.Error())
		notifyError(notifier, err)
		return nil, err
	}

	mode := constants.ImportModeMerge
	if chooser != nil {
		mode = chooser.ChooseImportMode(ctx, fmt.Sprintf(constants.PromptImportFormat, len(imported)))
	}

	result := &ImportResult{Mode: mode, Total: len(imported)}

	switch mode {
	case constants.ImportModeOverwrite:
		err = s.repo.Mutate(ctx, func([]entities.Departure) ([]entities.Departure, error) {
			return imported, nil
		})
		result.Added = len(imported)

	case constants.ImportModeMerge:
		err = s.repo.Mutate(ctx, func(current []entities.Departure) ([]entities.Departure, error) {
			existing := make(map[int64]struct{}, len(current))
			for _, d := range current {
				existing[d.ID] = struct{}{}
			}

			merged := current
			for _, d := range imported {
				if _, ok := existing[d.ID]; ok {
					continue
				}
				existing[d.ID] = struct{}{}
				merged = append(merged, d)
				result.Added++
			}
			if result.Added == 0 {
				return nil, errNoWrite
			}
			return merged, nil
		})

	default:
		err = newValidationError("mode", constants.MsgBadImportMode)
	}
	if err != nil {
		notifyError(notifier, err)
		return nil, err
	}

	if mode == constants.ImportModeMerge {
		notify(notifier, constants.SignalInfo, fmt.Sprintf(constants.MsgMergedFormat, result.Added))
	}
	notify(notifier, constants.SignalSuccess, constants.MsgImported)

	s.metrics.ObserveImport(string(mode))
	logging.Info("Departures imported", "mode", mode, "total", result.Total, "added", result.Added)
	return result, nil
}
