package domain

// DefaultInputErrorMessage is shown next to a required input left empty.
const DefaultInputErrorMessage = "This field is required, please enter a value."

// ConfigKind discriminates the two shapes a configuration document can take.
type ConfigKind int

const (
	// ConfigRoot maps locales to language configuration files.
	ConfigRoot ConfigKind = iota + 1
	// ConfigLanguage holds the workflows for a single language.
	ConfigLanguage
)

func (k ConfigKind) String() string {
	switch k {
	case ConfigRoot:
		return "root"
	case ConfigLanguage:
		return "language"
	default:
		return "unknown"
	}
}

// Config is a parsed configuration document.
// Only the fields belonging to Kind are populated.
type Config struct {
	Kind ConfigKind `json:"kind"`

	// Languages maps a locale to the path of its language file (ConfigRoot).
	Languages map[string]string `json:"languages,omitempty"`

	// InputErrorMessage is the message for missing required inputs (ConfigLanguage).
	InputErrorMessage string `json:"input_err_msg,omitempty"`
	// Workflows indexed by name (ConfigLanguage).
	Workflows map[string]*Workflow `json:"workflows,omitempty"`
}

// IsRoot reports whether the document is a root (locale index) document.
func (c *Config) IsRoot() bool { return c != nil && c.Kind == ConfigRoot }
