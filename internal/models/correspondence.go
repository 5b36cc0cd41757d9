package models

// CorrespondenceRecord is one message block from the correspondence source.
type CorrespondenceRecord struct {
	Sender    string `json:"sender" yaml:"sender"`
	Recipient string `json:"recipient" yaml:"recipient"`
	Date      string `json:"date" yaml:"date"`
	Subject   string `json:"subject" yaml:"subject"`
	Body      string `json:"body" yaml:"body"`
	// RawLowercased is the whole block lowercased; used only for keyword matching.
	RawLowercased string `json:"-" yaml:"-"`
}

// Excerpt returns at most maxRunes runes of the body.
func (c CorrespondenceRecord) Excerpt(maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(c.Body)
	if len(runes) <= maxRunes {
		return c.Body
	}
	return string(runes[:maxRunes])
}
