package data

import (
	_ "embed"
)

//go:embed skills.yaml
var skills []byte

// Skills returns the embedded default skills dataset as YAML.
func Skills() []byte {
	return skills
}
