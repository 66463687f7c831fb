package pipeline

// UploadedDocument is a file already persisted by the upload gateway.
// The pipeline reads FilePath but never moves or deletes it.
type UploadedDocument struct {
	FilePath          string
	DeclaredExtension string
	OriginalFilename  string
}

// Result is the outcome of a successful extraction.
type Result struct {
	RawText    string
	Identifier string
	Found      bool
}

// IdentifierOrNil returns nil when no ABN was found, for JSON null encoding.
func (r Result) IdentifierOrNil() *string {
	if !r.Found {
		return nil
	}
	id := r.Identifier
	return &id
}
