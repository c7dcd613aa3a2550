package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Routing Errors (R100-R119)
	// ============================================

	"R100": {
		Category: CategoryRouting,
		Message:  "Route not found",
		Detail:   "No registered route matches the requested path, neither exactly nor as a prefix.",
		DocURL:   "https://skiff.dev/docs/errors/R100",
	},
	"R101": {
		Category: CategoryFetch,
		Message:  "View fetch failed",
		Detail:   "The view fragment for the matched route could not be retrieved. The server returned a non-success status or the transport failed.",
		DocURL:   "https://skiff.dev/docs/errors/R101",
	},
	"R102": {
		Category: CategoryLifecycle,
		Message:  "Controller lifecycle hook failed",
		Detail:   "A controller's Init or Uninit hook returned an error. The transition was abandoned and the previous content replaced with an error message.",
		DocURL:   "https://skiff.dev/docs/errors/R102",
	},
	"R103": {
		Category: CategoryRouting,
		Message:  "Invalid navigation path",
		Detail:   "The navigation target is not a relative absolute path. Full URLs and protocol-relative paths are rejected.",
		DocURL:   "https://skiff.dev/docs/errors/R103",
	},

	// ============================================
	// Configuration Errors (C120-C139)
	// ============================================

	"C120": {
		Category: CategoryConfig,
		Message:  "Invalid manifest",
		Detail:   "The skiff.yaml manifest file is malformed or fails validation.",
		DocURL:   "https://skiff.dev/docs/errors/C120",
	},
	"C121": {
		Category: CategoryConfig,
		Message:  "Root element not found",
		Detail:   "The configured root selector did not resolve to an element. The router fell back to the document body.",
		DocURL:   "https://skiff.dev/docs/errors/C121",
	},
	"C122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number is invalid or already in use.",
		DocURL:   "https://skiff.dev/docs/errors/C122",
	},
	"C123": {
		Category: CategoryConfig,
		Message:  "No routes declared",
		Detail:   "The skiff.yaml manifest declares no routes, so the app could never navigate anywhere.",
		DocURL:   "https://skiff.dev/docs/errors/C123",
	},
	"C124": {
		Category: CategoryConfig,
		Message:  "Manifest not found",
		Detail:   "No skiff.yaml manifest could be located.",
		DocURL:   "https://skiff.dev/docs/errors/C124",
	},

	// ============================================
	// CLI Errors (L140-L159)
	// ============================================

	"L140": {
		Category: CategoryCLI,
		Message:  "Deploy failed",
		Detail:   "Uploading the application directory to the object store failed.",
		DocURL:   "https://skiff.dev/docs/errors/L140",
	},
	"L141": {
		Category: CategoryCLI,
		Message:  "App directory not found",
		Detail:   "The application directory does not exist or is not readable.",
		DocURL:   "https://skiff.dev/docs/errors/L141",
	},
	"L142": {
		Category: CategoryCLI,
		Message:  "Dev server failed to start",
		Detail:   "The development server could not bind its address or serve the app directory.",
		DocURL:   "https://skiff.dev/docs/errors/L142",
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
