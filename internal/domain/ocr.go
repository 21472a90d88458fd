package domain

// OCRResult is the text recognized for one image.
type OCRResult struct {
	FileName   string  `json:"fileName,omitempty"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence,omitempty"`
	WordCount  int     `json:"wordCount"`
}

// BatchOCRItem is the per-file outcome of a batch recognition run.
type BatchOCRItem struct {
	FileName string `json:"fileName"`
	Success  bool   `json:"success"`
	Text     string `json:"text,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchOCRSummary aggregates a batch run. One failed image does not
// abort the batch; failures are reported per item.
type BatchOCRSummary struct {
	Total        int            `json:"total"`
	SuccessCount int            `json:"successCount"`
	ErrorCount   int            `json:"errorCount"`
	Items        []BatchOCRItem `json:"items"`
}

// OCRStatus reports whether the external OCR service is configured.
type OCRStatus struct {
	Available bool   `json:"available"`
	Endpoint  string `json:"endpoint,omitempty"`
	Message   string `json:"message"`
}
