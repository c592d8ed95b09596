package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Construction and render errors (M001-M099)
	"M001": {
		Category: CategoryConstruction,
		Message:  "Invalid operation",
		Detail:   "Self-closing tags cannot have children. Remove the content or use a container tag.",
	},
	"M002": {
		Category: CategoryConstruction,
		Message:  "Assertion violation",
		Detail:   "A tag accepts either children or attributes at construction, not both. Set attributes first and attach children with With().",
	},
	"M003": {
		Category: CategoryBlock,
		Message:  "Block not found",
		Detail:   "No block with this name exists in the tree.",
	},
	"M004": {
		Category: CategoryConstruction,
		Message:  "Unknown tag",
		Detail:   "The tag name is not registered. Register it with markup.Register before building it.",
	},
	"M005": {
		Category: CategoryRender,
		Message:  "Lazy content failed",
		Detail:   "A content or attribute function returned an error during render.",
	},
	"M006": {
		Category: CategoryRender,
		Message:  "Unsupported content",
		Detail:   "The child value has no rendering rule. Functions must take no argument or a markup.Context.",
	},

	// Configuration errors (C001-C099)
	"C001": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The configuration file exists but could not be parsed.",
	},
	"C002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range.",
	},
	"C003": {
		Category: CategoryConfig,
		Message:  "Context data unreadable",
		Detail:   "The context data file could not be read or is not a YAML/JSON mapping.",
	},

	// CLI errors (C100-C199)
	"C100": {
		Category: CategoryCLI,
		Message:  "Unknown page",
		Detail:   "No page with this name is registered.",
	},
	"C101": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command-line argument could not be parsed.",
	},
	"C102": {
		Category: CategoryCLI,
		Message:  "File exists",
		Detail:   "The scaffold would overwrite an existing file.",
	},

	// Publish errors (P001-P099)
	"P001": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "A rendered page could not be written to the publish target.",
	},
	"P002": {
		Category: CategoryPublish,
		Message:  "Invalid object key",
		Detail:   "Page names must map to a key inside the publish directory or prefix.",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
