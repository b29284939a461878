package splash

// Device artwork referenced by the mockups. Paths are relative to the asset
// root (internal/assets).
const (
	AssetWindowsDesktop = "images/windows/desktop.svg"
	AssetAndroidPhone   = "images/android/background.svg"
	AssetAndroidNoIcon  = "images/android/noicon.svg"
	AssetIOSPhone       = "images/ios/iphone.svg"
	AssetIOSStatusBar   = "images/ios/statusbar.svg"
)

var assetPaths = map[string]struct{}{
	AssetWindowsDesktop: {},
	AssetAndroidPhone:   {},
	AssetAndroidNoIcon:  {},
	AssetIOSPhone:       {},
	AssetIOSStatusBar:   {},
}

// IsAsset reports whether src names bundled artwork rather than a
// caller-provided image.
func IsAsset(src string) bool {
	_, ok := assetPaths[src]
	return ok
}

// AssetPaths lists all artwork the mockups can reference.
func AssetPaths() []string {
	return []string{AssetWindowsDesktop, AssetAndroidPhone, AssetAndroidNoIcon, AssetIOSPhone, AssetIOSStatusBar}
}
