package bazaar

// Release is the semantic version of this build.
const Release = "v0.1.0-dev"

// GitCommit is injected at link time:
//   go build -ldflags "-X github.com/iov-one/bazaar.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
