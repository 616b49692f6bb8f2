package loam

// StateMetadata is the frontmatter of a state document.
// Keys follow the YAML spelling used in definition files; on0 and on1 name the successors.
type StateMetadata struct {
	ID     string `json:"id" mapstructure:"id"`
	Output string `json:"output" mapstructure:"output"`
	On0    string `json:"on0" mapstructure:"on0"`
	On1    string `json:"on1" mapstructure:"on1"`

	// Order positions the row in listings. Ties keep repository order.
	Order int `json:"order,omitempty" mapstructure:"order"`
}
