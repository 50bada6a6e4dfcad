package domain

// FileKind classifies an upload by its sniffed content.
type FileKind string

const (
	FileKindPDF      FileKind = "pdf"
	FileKindImage    FileKind = "image"
	FileKindTemplate FileKind = "docx"
)

// DocxContentType is the MIME type of Word templates and merged output.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// AllowedSourceContentTypes lists the MIME types accepted for extraction.
var AllowedSourceContentTypes = map[string]FileKind{
	"application/pdf": FileKindPDF,
	"image/jpeg":      FileKindImage,
	"image/png":       FileKindImage,
	"image/webp":      FileKindImage,
	"image/heic":      FileKindImage,
	"image/heif":      FileKindImage,
}

// AllowedExtensions maps file extensions (without dot) to the expected content type.
var AllowedExtensions = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"heic": "image/heic",
	"heif": "image/heif",
	"docx": DocxContentType,
}

// ParserMode selects how configured extraction providers are composed.
type ParserMode string

const (
	ParserModeSingle   ParserMode = "single"
	ParserModeFallback ParserMode = "fallback"
	ParserModeMerge    ParserMode = "merge"
)

// ValidationSeverity is how much a failed review check matters.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationRuleType groups review checks by kind.
type ValidationRuleType string

const (
	ValidationRuleFormat   ValidationRuleType = "format"
	ValidationRuleSumCheck ValidationRuleType = "sum_check"
	ValidationRuleLogical  ValidationRuleType = "logical"
)

// ValidationStatus summarises every check run against a record.
type ValidationStatus string

const (
	ValidationStatusValid   ValidationStatus = "valid"
	ValidationStatusWarning ValidationStatus = "warning"
	ValidationStatusInvalid ValidationStatus = "invalid"
)

// FieldValidationStatus is the review state of a single field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusMissing FieldValidationStatus = "missing"
)
