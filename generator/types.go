package generator

// Post is the finished article for one run.
type Post struct {
	Title    string
	Digest   string
	Markdown string

	// Attempts counts the service calls spent producing the body, and
	// Verdict is the final classification of the accepted draft. Both end
	// up in the run log.
	Attempts int
	Verdict  Verdict
}
