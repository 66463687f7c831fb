package uploads

// uploadResponse is the body returned for a parsed upload.
type uploadResponse struct {
	Message       string  `json:"message"`
	Filename      string  `json:"filename"`
	ABN           *string `json:"abn"`
	ExtractedText string  `json:"extractedText"`
}
