package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"transportsystem/avganger/internal/common"
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/metrics"
	"transportsystem/avganger/internal/services"
)

const maxImportBytes = 10 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportCSVHandler handles GET /api/v1/export/csv
func ExportCSVHandler(svc *services.ImportExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondAttachment(w, svc.Filename(constants.CSVFilePrefix, "csv"), "text/csv; charset=utf-8", constants.MsgExportedCSV, svc.ExportCSV())
	}
}

// ExportJSONHandler handles GET /api/v1/export/json
func ExportJSONHandler(svc *services.ImportExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		data, err := svc.ExportJSON()
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}
		common.RespondAttachment(w, svc.Filename(constants.BackupFilePrefix, "json"), "application/json", constants.MsgBackupReady, data)
	}
}

// ExportXLSXHandler handles GET /api/v1/export/xlsx
func ExportXLSXHandler(svc *services.ImportExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		data, err := svc.ExportXLSX()
		if err != nil {
			handleDepartureError(w, initTime, err, nil)
			return
		}
		common.RespondAttachment(w, svc.Filename(constants.CSVFilePrefix, "xlsx"), xlsxContentType, constants.MsgExportedXLSX, data)
	}
}

var errImportTooLarge = errors.New("import payload exceeds limit")

// readImportPayload accepts a multipart upload in field "file" or a raw body,
// failing with errImportTooLarge past maxImportBytes.
func readImportPayload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			return nil, tooLarge(err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return readAtMost(file)
	}
	return readAtMost(r.Body)
}

func readAtMost(rd io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rd, maxImportBytes+1))
	if err != nil {
		return nil, tooLarge(err)
	}
	if len(data) > maxImportBytes {
		return nil, errImportTooLarge
	}
	return data, nil
}

func tooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errImportTooLarge
	}
	return err
}

// ImportHandler handles POST /api/v1/import?mode=overwrite|merge
//
// Without a mode the payload is only checked and the answer is 428 with the
// question to put to the user.
func ImportHandler(svc *services.ImportExportService, metricsReg *metrics.MetricsRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		signals := services.NewSignalLog(metricsReg)

		payload, err := readImportPayload(w, r)
		if errors.Is(err, errImportTooLarge) {
			signals.Notify(constants.SignalError, constants.MsgImportTooLarge)
			common.RespondErrorWithSignals(w, initTime, err, constants.MsgImportTooLarge, signals.Drain(), http.StatusRequestEntityTooLarge)
			return
		}
		if err != nil {
			common.RespondError(w, initTime, err, "Kunne ikke lese filen", http.StatusBadRequest)
			return
		}

		mode := constants.ImportMode(r.URL.Query().Get("mode"))
		if mode == "" {
			records, err := services.ParseImport(payload)
			if err != nil {
				signals.Notify(constants.SignalError, constants.GetErrorMessage(services.ErrorCode(err)))
				handleDepartureError(w, initTime, err, signals.Drain())
				return
			}
			prompt := fmt.Sprintf(constants.PromptImportFormat, len(records))
			common.RespondError(w, initTime, nil, prompt, http.StatusPreconditionRequired)
			return
		}

		result, err := svc.Import(r.Context(), payload, services.FixedImportMode(mode), signals)
		if err != nil {
			handleDepartureError(w, initTime, err, signals.Drain())
			return
		}
		common.RespondSuccessWithSignals(w, initTime, constants.MsgImported, result, signals.Drain())
	}
}
