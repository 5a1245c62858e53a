package imp

// Version is the current version of the imp package, in semver form
// without the leading "v".
const Version = "0.2.0"

// Info provides build information about the package.
type Info struct {
	// Version is the package version string.
	Version string

	// Model describes the borrow model enforced by cells.
	Model string

	// Concurrency describes the supported access model.
	Concurrency string
}

// GetInfo returns information about the package.
//
// Example:
//
//	info := imp.GetInfo()
//	fmt.Printf("impcell %s (%s)\n", info.Version, info.Model)
func GetInfo() Info {
	return Info{
		Version:     Version,
		Model:       "single writer or many readers, checked at acquisition",
		Concurrency: "single-threaded",
	}
}
