package constants

// Departure error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeDuplicateUnit     = "DUPLICATE_UNIT"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeParse             = "PARSE_ERROR"
	ErrCodeDepartureNotFound = "DEPARTURE_NOT_FOUND"
	ErrCodeNotConfirmed      = "NOT_CONFIRMED"
	ErrCodeStoreWrite        = "STORE_WRITE_FAILED"
	ErrCodeSessionNotFound   = "SESSION_NOT_FOUND"
	ErrCodeNothingToPrint    = "NOTHING_TO_PRINT"
)

// ErrorMessages holds the user-facing text for each code.
var ErrorMessages = map[string]string{
	ErrCodeValidation:        "Vennligst fyll ut alle obligatoriske felt.",
	ErrCodeDuplicateUnit:     "Enhetsnummer eksisterer allerede!",
	ErrCodeInvalidFormat:     "Feil ved lesing av JSON-fil! Ugyldig format.",
	ErrCodeParse:             "Feil ved lesing av JSON-fil!",
	ErrCodeDepartureNotFound: "Avgang ikke funnet",
	ErrCodeNotConfirmed:      "Handlingen ble ikke bekreftet.",
	ErrCodeStoreWrite:        "Kunne ikke lagre endringene. Prøv igjen.",
	ErrCodeSessionNotFound:   "Skjemaøkten finnes ikke eller er utløpt.",
	ErrCodeNothingToPrint:    "Ingen data å skrive ut. Vent til tabellen er lastet.",
}

func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "En ukjent feil oppstod"
}

// Toast messages
const (
	MsgRegistered      = "Registrert!"
	MsgUpdated         = "Oppdatert!"
	MsgDeleted         = "Slettet!"
	MsgCleared         = "Alt tømt!"
	MsgNothingToClear  = "Ingen avganger å slette."
	MsgImported        = "Data importert!"
	MsgMergedFormat    = "Lagt til %d nye avganger."
	MsgNothingToPrint  = "Ingen data å skrive ut. Vent til tabellen er lastet."
	MsgExportedCSV     = "Eksportert til CSV!"
	MsgExportedXLSX    = "Eksportert til Excel!"
	MsgBackupReady     = "Backup lastet ned!"
	MsgDuplicateFormat = "Enhetsnummer %s eksisterer allerede!"
	MsgBadDestination  = "Ugyldig destinasjon."
	MsgBadType         = "Ugyldig type."
	MsgBadStatus       = "Ugyldig status."
	MsgBadTime         = "Tid må være på formatet TT:MM."
	MsgBadSortKey      = "Ukjent sorteringskolonne."
	MsgBadImportMode   = "Ukjent importvalg."
	MsgImportTooLarge  = "Filen er for stor (maks 10 MB)."
	PromptDelete       = "Slette denne avgangen?"
	PromptClearAll     = "Slette ALLE avganger?"
	PromptImportFormat = "Fant %d avganger i filen. Erstatte alle eksisterende avganger?"
)
