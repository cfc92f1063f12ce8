package config

// File is the decoded content of a run file.
type File struct {
	ProjectFolders      []string  `hcl:"project_folders,optional"`
	ConnectionFolders   []string  `hcl:"connection_folders,optional"`
	ProjectExtension    string    `hcl:"project_extension,optional"`
	ConnectionExtension string    `hcl:"connection_extension,optional"`
	LogLevel            string    `hcl:"log_level,optional"`
	LogFormat           string    `hcl:"log_format,optional"`
	Report              string    `hcl:"report,optional"`
	Matching            *Matching `hcl:"matching,block"`
}

// Matching overrides the dataset naming convention.
type Matching struct {
	Pattern       string `hcl:"pattern,optional"`
	PatternMarker string `hcl:"pattern_marker,optional"`
	DefaultMarker string `hcl:"default_marker,optional"`
}
