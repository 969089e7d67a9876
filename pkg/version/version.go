// Package version carries build-time version metadata.
package version

var (
	// overridden during build with ldflags, e.g.
	// -X "github.com/feedcheck/feedcheck/pkg/version.Version=1.0.0"
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the serializable version descriptor.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

// Get returns the build's version information.
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
	}
}
