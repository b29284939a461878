package splash

const (
	DefaultBackgroundColor = "#FFF"
	DefaultThemeColor      = "#000"
	DefaultAppName         = "PWA App"

	// DefaultContrastColor is used when no background color is set.
	DefaultContrastColor = "#000"
)

// StyleInputs are the manifest-derived values a mockup is built from.
// Every field is optional; the empty string means "not set".
type StyleInputs struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	ThemeColor      string `json:"themeColor,omitempty"`
	IconURL         string `json:"iconUrl,omitempty"`
	AppName         string `json:"appName,omitempty"`
}

func (in StyleInputs) background() string {
	return orDefault(in.BackgroundColor, DefaultBackgroundColor)
}

func (in StyleInputs) theme() string {
	return orDefault(in.ThemeColor, DefaultThemeColor)
}

func (in StyleInputs) name() string {
	return orDefault(in.AppName, DefaultAppName)
}

// Merge returns in with every non-empty field of patch applied.
func (in StyleInputs) Merge(patch StyleInputs) StyleInputs {
	out := in
	if patch.BackgroundColor != "" {
		out.BackgroundColor = patch.BackgroundColor
	}
	if patch.ThemeColor != "" {
		out.ThemeColor = patch.ThemeColor
	}
	if patch.IconURL != "" {
		out.IconURL = patch.IconURL
	}
	if patch.AppName != "" {
		out.AppName = patch.AppName
	}
	return out
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
