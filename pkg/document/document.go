// Package document defines the payload exchanged with the upstream
// document parser. The core never reads bytes off disk; it consumes
// these already-parsed structures and nothing else.
package document

// Metadata describes the parsed document as a whole. Title and Author
// are optional; PageCount and FileSize are never negative.
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	PageCount int    `json:"page_count" validate:"min=0"`
	FileSize  int64  `json:"file_size" validate:"min=0"`
}

// Paragraph is a pre-segmented block of page text. Start and End are
// offsets local to the page's text.
type Paragraph struct {
	ID         string  `json:"id,omitempty"`
	Page       int     `json:"page" validate:"min=1"`
	Content    string  `json:"content"`
	Start      int     `json:"start" validate:"min=0"`
	End        int     `json:"end" validate:"min=0"`
	LineCount  int     `json:"line_count,omitempty"`
	Confidence float64 `json:"confidence,omitempty" validate:"min=0,max=1"`
}

// TextRun is a positioned fragment of page text with layout geometry,
// used for heading detection.
type TextRun struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Page is one ordered page of the parsed document. Paragraphs and Runs
// are optional side data; Text is always the page's raw text.
type Page struct {
	Number     int         `json:"number" validate:"min=1"`
	Text       string      `json:"text"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
	Runs       []TextRun   `json:"runs,omitempty"`
}

// Document is the complete parser output handed to the graph builder.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Pages    []Page   `json:"pages" validate:"dive"`
}

// TableCandidate is an externally supplied table detection for one
// page. Method names the extraction technique that produced it.
type TableCandidate struct {
	Content    string  `json:"content"`
	Page       int     `json:"page" validate:"min=1"`
	Start      int     `json:"start" validate:"min=0"`
	End        int     `json:"end" validate:"min=0"`
	Rows       int     `json:"rows,omitempty"`
	Cols       int     `json:"cols,omitempty"`
	Confidence float64 `json:"confidence,omitempty" validate:"min=0,max=1"`
	Method     string  `json:"method,omitempty"`
}

// ImageCandidate is an externally supplied image detection for one
// page, with pixel dimensions when known.
type ImageCandidate struct {
	Caption    string  `json:"caption"`
	Page       int     `json:"page" validate:"min=1"`
	Start      int     `json:"start" validate:"min=0"`
	End        int     `json:"end" validate:"min=0"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Confidence float64 `json:"confidence,omitempty" validate:"min=0,max=1"`
	Method     string  `json:"method,omitempty"`
}
