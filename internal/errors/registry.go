package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No datedmemo.json or datedmemo.yaml was found at the given path.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or decoded.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "One or more configuration values are out of range or not allowed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid environment",
		Detail:   "An environment variable or .env file could not be parsed.",
	},

	// ============================================
	// Storage Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryStorage,
		Message:  "Cannot open memo store",
		Detail:   "The configured memo store could not be reached.",
	},
	"E201": {
		Category: CategoryStorage,
		Message:  "Database migration failed",
		Detail:   "The embedded schema migrations could not be applied.",
	},
	"E202": {
		Category: CategoryStorage,
		Message:  "Memo store query failed",
		Detail:   "Reading or writing memos failed in the underlying store.",
	},
	"E203": {
		Category: CategoryStorage,
		Message:  "Unknown store driver",
		Detail:   "Supported drivers are memory, sqlite, postgres and redis.",
	},
	"E204": {
		Category: CategoryStorage,
		Message:  "Corrupt memo record",
		Detail:   "A stored memo could not be decoded.",
	},

	// ============================================
	// Input Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryInput,
		Message:  "Invalid memo date",
		Detail:   "The date must look like 01/15/2024 09:30 AM.",
	},
	"E301": {
		Category: CategoryInput,
		Message:  "Invalid UTC offset",
		Detail:   "The offset must be a whole number of minutes between -720 and 840.",
	},
	"E302": {
		Category: CategoryInput,
		Message:  "Missing memo id",
		Detail:   "The request did not name the memo to act on.",
	},

	// ============================================
	// Binder Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryBinder,
		Message:  "Invalid date format pattern",
		Detail:   "The date format pattern is empty or cannot be compiled.",
	},
	"E401": {
		Category: CategoryBinder,
		Message:  "Today shortcut is hidden",
		Detail:   "The picker was configured without a today button.",
	},
	"E402": {
		Category: CategoryBinder,
		Message:  "Unknown validator kind",
		Detail:   "Field rules may use the notEmpty and date validators.",
	},
	"E403": {
		Category: CategoryBinder,
		Message:  "Invalid validator parameters",
		Detail:   "A field rule is missing a required parameter or names no field.",
	},
	"E404": {
		Category: CategoryBinder,
		Message:  "Form already bound",
		Detail:   "The form binder initializes exactly once per page.",
	},
	"E405": {
		Category: CategoryBinder,
		Message:  "Unknown event kind",
		Detail:   "Picker events are change, dp.change and focusout.",
	},
	"E406": {
		Category: CategoryBinder,
		Message:  "Form not bound",
		Detail:   "Events were dispatched before the form binder initialized.",
	},

	// ============================================
	// Backup Errors (E500-E599)
	// ============================================

	"E500": {
		Category: CategoryBackup,
		Message:  "Snapshot export failed",
		Detail:   "The memo snapshot could not be written to the bucket.",
	},
	"E501": {
		Category: CategoryBackup,
		Message:  "Snapshot restore failed",
		Detail:   "The memo snapshot could not be read from the bucket.",
	},
	"E502": {
		Category: CategoryBackup,
		Message:  "No snapshot found",
		Detail:   "The bucket prefix holds no memo snapshots.",
	},

	// ============================================
	// Protocol Errors (E600-E699)
	// ============================================

	"E600": {
		Category: CategoryProtocol,
		Message:  "Invalid binder message",
		Detail:   "The binder session received a message it could not decode.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes of the given category.
func Codes(category Category) []string {
	var codes []string
	for code, t := range registry {
		if t.Category == category {
			codes = append(codes, code)
		}
	}
	return codes
}
