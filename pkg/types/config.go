package types

// Config holds backend selection and parameters for opening a Store.
type Config struct {
	Backend string       `json:"backend" yaml:"backend"`
	DataDir string       `json:"data_dir" yaml:"data_dir"`
	Remote  RemoteConfig `json:"remote" yaml:"remote"`
}

// RemoteConfig holds connection parameters for the remote context service.
// An empty URL means no remote is configured; sync degrades to offline.
type RemoteConfig struct {
	URL     string `json:"url" yaml:"url"`
	Token   string `json:"token" yaml:"token"`
	Timeout string `json:"timeout" yaml:"timeout"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
