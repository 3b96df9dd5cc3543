package config

// Settings is the optional YAML settings file.
type Settings struct {
	DefaultIssueType string          `yaml:"defaultIssueType"`
	IssueURLTemplate string          `yaml:"issueURLTemplate"`
	Features         FeatureSettings `yaml:"features"`
	Tool             ToolSettings    `yaml:"tool"`
}

// FeatureSettings toggles optional issue fields. Unset toggles are filled in by ValidateConfig.
type FeatureSettings struct {
	Estimate    *bool `yaml:"estimate"`
	Assignee    *bool `yaml:"assignee"`
	Epic        *bool `yaml:"epic"`
	LogPayloads *bool `yaml:"logPayloads"`
}

// ToolSettings customizes the advertised tool.
type ToolSettings struct {
	Description string `yaml:"description"`
}
