package shared

// GenericResult is the machine-readable outcome of one command launch.
type GenericResult struct {
	Args    interface{} `json:"args"`
	Result  interface{} `json:"result"`
	Status  string      `json:"status"`
	Message string      `json:"message"`
}

type GenericLaunchesResult struct {
	Launches []GenericResult `json:"launches"`
}

// Versions describes the build of the binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
}
