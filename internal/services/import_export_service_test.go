package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"

	"github.com/xuri/excelize/v2"
)

func newTestImportExport(t *testing.T, initial ...entities.Departure) (*ImportExportService, *DepartureRepository, *countingStore) {
	t.Helper()
	repo, st := setupRepo(t, initial...)
	svc := NewImportExportService(repo, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC) }
	return svc, repo, st
}

func TestEncodeCSV(t *testing.T) {
	note := `sa "hei"`
	withComment := dep(2, "B2", "FØRDE", "10:00")
	withComment.Comment = &note

	got := string(EncodeCSV([]entities.Departure{dep(1, "A1", "MOLDE", "08:00"), withComment}))
	want := "Enhetsnummer,Destinasjon,Tid,Luke,Type,Status,Kommentar\n" +
		`"A1","MOLDE","08:00","1","Bil","LAGER",""` + "\n" +
		`"B2","FØRDE","10:00","1","Bil","LAGER","sa ""hei"""`

	if got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestEncodeCSV_EmptyCollectionHasHeaderOnly(t *testing.T) {
	got := string(EncodeCSV(nil))
	if got != strings.Join(constants.CSVHeader, ",") {
		t.Errorf("Expected header only, got %q", got)
	}
}

func TestExportCSV_IgnoresFilters(t *testing.T) {
	svc, _, _ := newTestImportExport(t, dep(1, "A1", "MOLDE", "08:00"), dep(2, "B2", "FØRDE", "09:00"))

	lines := strings.Split(string(svc.ExportCSV()), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected header plus 2 rows, got %d lines", len(lines))
	}
}

func TestFilename(t *testing.T) {
	svc, _, _ := newTestImportExport(t)

	if got := svc.Filename(constants.CSVFilePrefix, "csv"); got != "avganger_2025-01-31.csv" {
		t.Errorf("Expected avganger_2025-01-31.csv, got %s", got)
	}
	if got := svc.Filename(constants.BackupFilePrefix, "json"); got != "backup_2025-01-31.json" {
		t.Errorf("Expected backup_2025-01-31.json, got %s", got)
	}
}

func TestEncodeBackup_IsIndentedWithStableOrder(t *testing.T) {
	data, err := EncodeBackup([]entities.Departure{dep(1, "A1", "ÅLESUND", "08:00")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := `[
  {
    "id": 1,
    "unitNumber": "A1",
    "destination": "ÅLESUND",
    "time": "08:00",
    "gate": "1",
    "type": "Bil",
    "status": "LAGER",
    "comment": null
  }
]`
	if string(data) != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, data)
	}

	empty, _ := EncodeBackup(nil)
	if string(empty) != "[]" {
		t.Errorf("Expected [], got %s", empty)
	}
}

func TestExportXLSX(t *testing.T) {
	svc, _, _ := newTestImportExport(t, dep(1, "A1", "MOLDE", "08:00"))

	data, err := svc.ExportXLSX()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected a readable workbook, got %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheetName)
	if err != nil {
		t.Fatalf("Expected sheet %s, got %v", xlsxSheetName, err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Enhetsnummer" || rows[1][0] != "A1" || rows[1][1] != "MOLDE" {
		t.Errorf("Unexpected rows %v", rows)
	}
}

func TestParseImport(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		code    string
	}{
		{"malformed json", `[{"id": 1,`, constants.ErrCodeParse},
		{"empty payload", ``, constants.ErrCodeParse},
		{"object instead of array", `{"id": 1}`, constants.ErrCodeInvalidFormat},
		{"null", `null`, constants.ErrCodeInvalidFormat},
		{"element not an object", `[1]`, constants.ErrCodeInvalidFormat},
		{"missing id", `[{"unitNumber": "A1", "destination": "MOLDE"}]`, constants.ErrCodeInvalidFormat},
		{"zero id", `[{"id": 0, "unitNumber": "A1", "destination": "MOLDE"}]`, constants.ErrCodeInvalidFormat},
		{"missing unit number", `[{"id": 1, "destination": "MOLDE"}]`, constants.ErrCodeInvalidFormat},
		{"empty destination", `[{"id": 1, "unitNumber": "A1", "destination": ""}]`, constants.ErrCodeInvalidFormat},
		{"duplicate ids", `[{"id": 1, "unitNumber": "A1", "destination": "MOLDE"}, {"id": 1, "unitNumber": "B2", "destination": "MOLDE"}]`, constants.ErrCodeInvalidFormat},
		{"valid", `[{"id": 1, "unitNumber": "A1", "destination": "MOLDE"}]`, ""},
		{"empty array", `[]`, ""},
		{"string id", `[{"id": "17", "unitNumber": "A1", "destination": "MOLDE"}]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseImport([]byte(tt.payload))
			if tt.code == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !IsCode(err, tt.code) {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestParseImport_MapsLegacyStatuses(t *testing.T) {
	records, err := ParseImport([]byte(`[
		{"id": 1, "unitNumber": "A1", "destination": "MOLDE", "status": "I lager"},
		{"id": 2, "unitNumber": "B2", "destination": "MOLDE", "status": "Planlagt"},
		{"id": 3, "unitNumber": "C3", "destination": "MOLDE", "status": "LEVERT"}
	]`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{constants.StatusWarehouse, constants.StatusPlanned, constants.StatusDelivered}
	for i, d := range records {
		if d.Status != want[i] {
			t.Errorf("Record %d: expected %s, got %s", d.ID, want[i], d.Status)
		}
	}
}

func TestImport_OverwriteRoundTrip(t *testing.T) {
	note := "skjør"
	original := []entities.Departure{dep(1, "A1", "MOLDE", "08:00"), dep(2, "B2", "FØRDE", "09:00")}
	original[1].Comment = &note
	original[1].Extra = map[string]json.RawMessage{"driver": json.RawMessage(`{"name":"Kari"}`)}

	source, _, _ := newTestImportExport(t, original...)
	backup, err := source.ExportJSON()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	target, repo, _ := newTestImportExport(t, dep(99, "Z9", "MOLDE", "12:00"))
	signals := NewSignalLog(nil)
	result, err := target.Import(context.Background(), backup, FixedImportMode(constants.ImportModeOverwrite), signals)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Mode != constants.ImportModeOverwrite || result.Total != 2 {
		t.Errorf("Unexpected result %+v", result)
	}

	again, _ := EncodeBackup(repo.Current())
	if !bytes.Equal(again, backup) {
		t.Errorf("Expected identical collection after round trip.\nbefore:\n%s\nafter:\n%s", backup, again)
	}

	got := signals.Drain()
	if len(got) != 1 || got[0].Message != constants.MsgImported {
		t.Errorf("Expected one imported signal, got %+v", got)
	}
}

func TestImport_MergeAddsOnlyNewIDs(t *testing.T) {
	existing := dep(1, "A1", "MOLDE", "08:00")
	svc, repo, _ := newTestImportExport(t, existing)
	signals := NewSignalLog(nil)

	payload := []byte(`[
		{"id": 1, "unitNumber": "CHANGED", "destination": "FØRDE"},
		{"id": 2, "unitNumber": "B2", "destination": "MOLDE"}
	]`)
	result, err := svc.Import(context.Background(), payload, FixedImportMode(constants.ImportModeMerge), signals)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Expected 1 added, got %d", result.Added)
	}

	current := repo.Current()
	if got := ids(current); !equalIDs(got, []int64{1, 2}) {
		t.Fatalf("Expected [1 2], got %v", got)
	}
	if current[0].UnitNumber != "A1" || current[0].Destination != "MOLDE" {
		t.Errorf("Expected original record 1 unchanged, got %+v", current[0])
	}

	got := signals.Drain()
	if len(got) != 2 || got[0].Message != "Lagt til 1 nye avganger." || got[1].Message != constants.MsgImported {
		t.Errorf("Unexpected signals %+v", got)
	}
}

func TestImport_MergeWithNothingNewDoesNotWrite(t *testing.T) {
	svc, _, st := newTestImportExport(t, dep(1, "A1", "MOLDE", "08:00"))

	result, err := svc.Import(context.Background(), []byte(`[{"id": 1, "unitNumber": "A1", "destination": "MOLDE"}]`), FixedImportMode(constants.ImportModeMerge), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Added != 0 {
		t.Errorf("Expected 0 added, got %d", result.Added)
	}
	if st.writeCount() != 0 {
		t.Errorf("Expected no write, got %d", st.writeCount())
	}
}

func TestImport_ParseErrorPerformsNoMutation(t *testing.T) {
	svc, repo, st := newTestImportExport(t, dep(1, "A1", "MOLDE", "08:00"))
	signals := NewSignalLog(nil)

	chooserCalled := false
	chooser := importChooserFunc(func(context.Context, string) constants.ImportMode {
		chooserCalled = true
		return constants.ImportModeOverwrite
	})

	_, err := svc.Import(context.Background(), []byte(`not json`), chooser, signals)
	if !IsCode(err, constants.ErrCodeParse) {
		t.Fatalf("Expected %s, got %v", constants.ErrCodeParse, err)
	}
	if chooserCalled {
		t.Error("Expected no mode prompt for an unreadable file")
	}
	if st.writeCount() != 0 || len(repo.Current()) != 1 {
		t.Error("Expected no mutation")
	}

	got := signals.Drain()
	if len(got) != 1 || got[0].Kind != constants.SignalError || got[0].Message != "Feil ved lesing av JSON-fil!" {
		t.Errorf("Unexpected signals %+v", got)
	}
}

func TestImport_PromptCarriesCount(t *testing.T) {
	svc, _, _ := newTestImportExport(t)

	var prompt string
	chooser := importChooserFunc(func(_ context.Context, p string) constants.ImportMode {
		prompt = p
		return constants.ImportModeOverwrite
	})

	_, err := svc.Import(context.Background(), []byte(`[{"id": 1, "unitNumber": "A1", "destination": "MOLDE"}]`), chooser, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(prompt, "Fant 1 avganger") {
		t.Errorf("Unexpected prompt %q", prompt)
	}
}

func TestImport_UnknownMode(t *testing.T) {
	svc, _, st := newTestImportExport(t)

	_, err := svc.Import(context.Background(), []byte(`[]`), FixedImportMode("append"), nil)
	if !IsCode(err, constants.ErrCodeValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if st.writeCount() != 0 {
		t.Error("Expected no write")
	}
}

type importChooserFunc func(ctx context.Context, prompt string) constants.ImportMode

func (f importChooserFunc) ChooseImportMode(ctx context.Context, prompt string) constants.ImportMode {
	return f(ctx, prompt)
}
