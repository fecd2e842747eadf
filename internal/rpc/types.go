package rpc

// SearchRequest is the request body for POST /api/search.
type SearchRequest struct {
	Query     string   `json:"query"`
	Libraries []string `json:"libraries,omitempty"`
	Limit     int      `json:"limit,omitempty"`
}

// SearchResponse is the response body for POST /api/search.
type SearchResponse struct {
	Results []DocResult `json:"results"`
}

type DocResult struct {
	URI       string  `json:"uri"`
	Library   string  `json:"library"`
	Path      string  `json:"path"`
	Kind      string  `json:"kind"`
	Signature string  `json:"signature,omitempty"`
	Score     float64 `json:"score"`
	Snippet   string  `json:"snippet"`
}

// GetDocRequest is the request body for POST /api/get-doc.
type GetDocRequest struct {
	Library string `json:"library"`
	Path    string `json:"path"`
}

// GetDocResponse is the response body for POST /api/get-doc.
type GetDocResponse struct {
	Markdown string `json:"markdown"`
}

// BuildResult is the response body for POST /api/rebuild and the summary
// printed by the build command.
type BuildResult struct {
	Library  string `json:"library"`
	Output   string `json:"output"`
	Files    int    `json:"files"`
	Items    int    `json:"items"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// StatusResponse is the response body for GET /api/status.
type StatusResponse struct {
	Libraries []LibraryStatus `json:"libraries"`
	LastBuild *BuildResult    `json:"last_build,omitempty"`
}

type LibraryStatus struct {
	Name    string `json:"name"`
	Dir     string `json:"dir"`
	Items   int    `json:"items"`
	BuiltAt string `json:"built_at,omitempty"`
}
