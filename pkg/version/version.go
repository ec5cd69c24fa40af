package version

// Version represents the current version of gbooks
const Version = "0.1.0"

// BuildVersion returns the version string for display
func BuildVersion() string {
	return "gbooks version " + Version
}

// UserAgent is sent with API requests.
func UserAgent() string {
	return "gbooks/" + Version
}
