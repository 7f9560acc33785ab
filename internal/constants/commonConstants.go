package constants

type (
	APIStatus    string
	CachePrefix  string
	StoreBackend string
	SignalKind   string
	ImportMode   string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixFormSession CachePrefix = "FORM_SESSION_"

	StoreBackendMemory   StoreBackend = "memory"
	StoreBackendRedis    StoreBackend = "redis"
	StoreBackendSQLite   StoreBackend = "sqlite"
	StoreBackendPostgres StoreBackend = "postgres"
)

// Toast kinds understood by the browser presentation layer.
const (
	SignalInfo    SignalKind = "info"
	SignalSuccess SignalKind = "success"
	SignalError   SignalKind = "error"
	SignalDelete  SignalKind = "delete"
	SignalEdit    SignalKind = "edit"
)

const (
	ImportModeOverwrite ImportMode = "overwrite"
	ImportModeMerge     ImportMode = "merge"
)

const (
	CSVFilePrefix    = "avganger_"
	BackupFilePrefix = "backup_"
	ISODateLayout    = "2006-01-02"
)
