package domain

// StyleDescriptor is one entry of the style catalog. Catalog order decides
// collage slot order and progress numbering.
type StyleDescriptor struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Prompt string `json:"-" yaml:"prompt"`
}
