package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/iconbox"
)

// Formatter formats results for output.
type Formatter interface {
	FormatUpload(w io.Writer, results []UploadResult) error
	FormatDownload(w io.Writer, result *DownloadResult) error
	FormatManifest(w io.Writer, manifest *iconbox.Manifest) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatUpload formats upload results as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	if f.Quiet {
		return nil
	}
	for i := range results {
		r := &results[i]
		_, _ = fmt.Fprintf(w, "Uploaded: %s -> %s (%s)\n", r.LocalPath, r.Name, formatSize(r.Size))
		_, _ = fmt.Fprintf(w, "  URL: %s\n", r.URL)
	}
	return nil
}

// FormatDownload formats download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	if f.Quiet {
		return nil
	}
	if result.LocalPath == "-" {
		_, _ = fmt.Fprintf(w, "Downloaded: %s (%s)\n", result.Filename, formatSize(result.Size))
	} else {
		_, _ = fmt.Fprintf(w, "Downloaded: %s -> %s (%s)\n", result.Filename, result.LocalPath, formatSize(result.Size))
	}
	_, _ = fmt.Fprintf(w, "  ETag: %s\n", result.ETag)
	return nil
}

// FormatManifest prints one icon per line with its URL.
func (f *HumanFormatter) FormatManifest(w io.Writer, manifest *iconbox.Manifest) error {
	if len(manifest.Icons) == 0 {
		_, _ = fmt.Fprintln(w, "No icons found")
		return nil
	}

	if f.Quiet {
		for _, icon := range manifest.Icons {
			_, _ = fmt.Fprintln(w, icon.Name)
		}
		return nil
	}

	maxNameLen := 4 // "NAME"
	for _, icon := range manifest.Icons {
		maxNameLen = max(maxNameLen, len(icon.Name))
	}
	maxNameLen = min(maxNameLen, 40)

	_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxNameLen, "NAME", "URL")
	_, _ = fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 3))

	for _, icon := range manifest.Icons {
		name := icon.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxNameLen, name, icon.URL)
	}

	_, _ = fmt.Fprintf(w, "\n%d icon(s)\n", len(manifest.Icons))
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList prints profiles, marking the default with "*".
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	maxNameLen := 4 // "NAME"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
	}

	_, _ = fmt.Fprintf(w, "  %-*s  %s\n", maxNameLen, "NAME", "ENDPOINT")
	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s %-*s  %s\n", marker, maxNameLen, p.Name, p.Endpoint)
	}
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload formats upload results as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, results []UploadResult) error {
	return writeJSON(w, results)
}

// FormatDownload formats download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *DownloadResult) error {
	return writeJSON(w, result)
}

// FormatManifest writes the manifest as the server returned it.
func (f *JSONFormatter) FormatManifest(w io.Writer, manifest *iconbox.Manifest) error {
	return writeJSON(w, manifest)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats profiles as JSON. Passwords are never printed.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string) error {
	type jsonProfile struct {
		Name        string `json:"name"`
		Endpoint    string `json:"endpoint"`
		HasPassword bool   `json:"has_password"`
		Default     bool   `json:"default,omitempty"`
	}

	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		p := &profiles[i]
		output.Profiles[i] = jsonProfile{
			Name:        p.Name,
			Endpoint:    p.Endpoint,
			HasPassword: p.Password != "",
			Default:     p.Name == defaultName,
		}
	}

	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
