package rustindexed

import "strings"

// SourceFormat identifies how a documentation source is laid out on disk.
type SourceFormat string

// Supported source formats.
const (
	FormatUnknown  SourceFormat = ""
	FormatMdBook   SourceFormat = "mdbook"
	FormatMarkdown SourceFormat = "markdown"
	FormatHTML     SourceFormat = "html"
)

// ParseSourceFormat converts a configuration value into a SourceFormat.
// Matching is case-insensitive. Returns EINVALID for unknown values.
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch f := SourceFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMdBook, FormatMarkdown, FormatHTML:
		return f, nil
	}
	return FormatUnknown, Errorf(EINVALID, "unknown source format %q (want mdbook, markdown or html)", s)
}

// SourceSpec describes one documentation source to ingest.
type SourceSpec struct {
	Title     string       `json:"title" mapstructure:"title"`
	BaseURL   string       `json:"baseUrl" mapstructure:"base_url"`
	Directory string       `json:"directory" mapstructure:"directory"`
	Format    SourceFormat `json:"format" mapstructure:"format"`
}

// Validate returns an error if the source contains invalid fields.
func (s *SourceSpec) Validate() error {
	if s.Title == "" {
		return Errorf(EINVALID, "source title required")
	}
	if s.Directory == "" {
		return Errorf(EINVALID, "source %q: directory required", s.Title)
	}
	switch s.Format {
	case FormatMdBook, FormatMarkdown, FormatHTML:
	default:
		return Errorf(EINVALID, "source %q: unknown format %q", s.Title, s.Format)
	}
	return nil
}

// URL joins the source base URL and a relative path.
func (s *SourceSpec) URL(rel string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// DocumentTitle builds the indexed title of a page belonging to the source.
func (s *SourceSpec) DocumentTitle(pageTitle string) string {
	return pageTitle + " - " + s.Title
}

// Config is the process configuration.
type Config struct {
	Sources []SourceSpec `mapstructure:"sources"`
	Index   IndexConfig  `mapstructure:"index"`
	Server  ServerConfig `mapstructure:"server"`
}

// IndexConfig locates the on-disk indexes.
type IndexConfig struct {
	// PagePath is the page-text index file.
	PagePath string `mapstructure:"page"`

	// CodePath is the code-block index file.
	CodePath string `mapstructure:"code"`
}

// ServerConfig configures the HTTP search API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`

	// RateLimit is the allowed requests per second per client. Zero disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
}

// Validate returns an error if the configuration is unusable.
func (c *Config) Validate() error {
	for i := range c.Sources {
		if err := c.Sources[i].Validate(); err != nil {
			return err
		}
	}
	if c.Index.PagePath == "" || c.Index.CodePath == "" {
		return Errorf(EINVALID, "index page and code paths required")
	}
	if c.Index.PagePath == c.Index.CodePath {
		return Errorf(EINVALID, "page and code indexes must use different paths")
	}
	return nil
}
