package ingest

// GPCSyncSummary reports one API sync run.
type GPCSyncSummary struct {
	GPCCode       string  `json:"gpc_code"`
	CurrentPage   int     `json:"current_page"`
	NextPage      *string `json:"next_page"`
	Pages         int     `json:"pages"`
	TotalReceived int     `json:"total_received"`
	Inserted      int     `json:"inserted"`
	Updated       int     `json:"updated"`
	Skipped       int     `json:"skipped"`
}

// FileImportSummary reports one file import run. A run always produces a
// summary, even when it stops early; only a fatal source or checkpoint I/O
// failure interrupts it, and even then the summary so far is returned
// alongside the error.
type FileImportSummary struct {
	LinesRead   int64 `json:"lines_read"`
	ParsedLines int64 `json:"parsed_lines"`
	Candidates  int   `json:"candidates"`
	Mapped      int   `json:"mapped"`
	Inserted    int   `json:"inserted"`
	Rejected    int   `json:"rejected"`
	Skipped     int   `json:"skipped"`
}
