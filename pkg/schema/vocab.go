package schema

// Asset modes. The service treats a missing mode as ModeNormal.
const (
	ModeNormal      = "normal"
	ModeMaintenance = "maintenance"
	ModeDisabled    = "disabled"
)

// Service-side defaults assumed for a freshly created asset.
const (
	DefaultKind        = "Asset"
	DefaultMode        = ModeNormal
	DefaultDescription = ""
)

// Kinds is the fixed asset kind vocabulary.
var Kinds = []string{"Asset", "Host", "Device", "Service"}

// Modes is the fixed asset mode vocabulary.
var Modes = []string{ModeNormal, ModeMaintenance, ModeDisabled}

// ValidKind reports whether kind is in the fixed vocabulary.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ValidMode reports whether mode is in the fixed vocabulary.
func ValidMode(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}
