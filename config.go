package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrPostsDirRequired        = runtimeconfig.ErrPostsDirRequired
	ErrPublicDirRequired       = runtimeconfig.ErrPublicDirRequired
	ErrPublicURLRequired       = runtimeconfig.ErrPublicURLRequired
	ErrPublicURLInvalid        = runtimeconfig.ErrPublicURLInvalid
	ErrFetchModeUnknown        = runtimeconfig.ErrFetchModeUnknown
	ErrFetchConcurrencyInvalid = runtimeconfig.ErrFetchConcurrencyInvalid
	ErrFetchRetriesInvalid     = runtimeconfig.ErrFetchRetriesInvalid
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	FetchModeFS   = runtimeconfig.FetchModeFS
	FetchModeHTTP = runtimeconfig.FetchModeHTTP
)

type (
	Config          = runtimeconfig.Config
	FetchConfig     = runtimeconfig.FetchConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	HighlightConfig = runtimeconfig.HighlightConfig
	ServerConfig    = runtimeconfig.ServerConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the filesystem-backed defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads an optional YAML file and BLOG_* environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
