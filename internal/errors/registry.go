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
	// Configuration Errors (F100-F199)
	// ============================================

	"F101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The configuration or scenario file does not exist or cannot be read.",
	},
	"F102": {
		Category: CategoryConfig,
		Message:  "Invalid YAML",
		Detail:   "The file could not be parsed as YAML. Check indentation and quoting.",
	},
	"F103": {
		Category: CategoryConfig,
		Message:  "Unknown widget kind",
		Detail:   "Widgets must be of kind popover or tooltip.",
	},
	"F104": {
		Category: CategoryConfig,
		Message:  "Invalid placement",
		Detail:   "The positioning placement or strategy is not recognised.",
	},
	"F105": {
		Category: CategoryConfig,
		Message:  "Invalid option value",
		Detail:   "A numeric option is out of range. Sizes, gutters and delays must not be negative.",
	},
	"F106": {
		Category: CategoryConfig,
		Message:  "Duplicate name",
		Detail:   "Widget and element names must be unique within a scenario.",
	},
	"F107": {
		Category: CategoryConfig,
		Message:  "Missing name",
		Detail:   "Every widget and element needs a name so steps can refer to it.",
	},
	"F108": {
		Category: CategoryConfig,
		Message:  "Option not supported by widget",
		Detail:   "The option is only meaningful for another widget kind.",
	},

	// ============================================
	// Scenario Errors (F200-F299)
	// ============================================

	"F201": {
		Category: CategoryScenario,
		Message:  "Unknown element",
		Detail:   "A step or element refers to a name that is not declared in the scenario.",
	},
	"F202": {
		Category: CategoryScenario,
		Message:  "Unknown action",
		Detail:   "Steps support click, key, enter, leave, focus, flush, advance, open, close, remove, set and expect.",
	},
	"F203": {
		Category: CategoryScenario,
		Message:  "Expectation failed",
		Detail:   "The observed state did not match the expectation of a step.",
	},
	"F204": {
		Category: CategoryScenario,
		Message:  "Empty scenario",
		Detail:   "A scenario needs at least one widget and one step.",
	},
	"F205": {
		Category: CategoryScenario,
		Message:  "Invalid step",
		Detail:   "The step is missing a required field or has a malformed value.",
	},
	"F206": {
		Category: CategoryScenario,
		Message:  "Invalid element part",
		Detail:   "Element parts are trigger, content, arrow or close. Tooltips have no close part.",
	},

	// ============================================
	// Server and CLI Errors (F300-F399)
	// ============================================

	"F301": {
		Category: CategoryServer,
		Message:  "Server failed to start",
		Detail:   "The dev server could not listen on the requested address.",
	},
	"F302": {
		Category: CategoryServer,
		Message:  "Invalid session message",
		Detail:   "The live session received a message it could not decode.",
	},
	"F303": {
		Category: CategoryServer,
		Message:  "Session not found",
		Detail:   "The session id is unknown or the session has been closed.",
	},
	"F310": {
		Category: CategoryCLI,
		Message:  "Missing argument",
		Detail:   "The command needs a scenario file argument.",
	},
	"F311": {
		Category: CategoryCLI,
		Message:  "Scenarios failed",
		Detail:   "At least one scenario failed an expectation or could not run.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
