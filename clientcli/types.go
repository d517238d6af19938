package clientcli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	// Name is the icon name. Empty derives it from the file name by
	// dropping every character that is not an ASCII letter.
	Name string
	// Raw sends the file as-is instead of normalizing it to a 108x108 PNG.
	Raw bool
}

// UploadResult represents the result of uploading a single icon.
type UploadResult struct {
	LocalPath  string `json:"local_path"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Size       int64  `json:"size_bytes"`
	Normalized bool   `json:"normalized"`
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	// Name is an icon name or a stored filename ("apple" or "apple.png").
	Name      string
	LocalPath string // empty = stored filename, "-" = stdout
}

// DownloadResult represents the result of downloading an icon.
type DownloadResult struct {
	Filename    string `json:"filename"`
	LocalPath   string `json:"local_path"`
	ETag        string `json:"etag"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}
