package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/opsrun/internal/command"
)

// MaterialFile is a material test definition read from YAML:
//
//	name: A615 Gr60
//	tag: 1
//	materials:
//	  - type: Steel02
//	    tag: 1
//	    Fy: 415
//	    E: 200000
//	    b: 0.01
type MaterialFile struct {
	Name      string
	Tag       command.Tag
	Materials []command.Command
}

type materialFileYAML struct {
	Name      string           `yaml:"name"`
	Tag       *int             `yaml:"tag"`
	Materials []map[string]any `yaml:"materials"`
}

// LoadMaterialFile reads and validates a material test definition. The
// tested tag defaults to 1 and the name to the file path.
func LoadMaterialFile(path string) (*MaterialFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read material file: %w", err)
	}
	return ParseMaterialFile(path, data)
}

// ParseMaterialFile is LoadMaterialFile for in-memory data.
func ParseMaterialFile(name string, data []byte) (*MaterialFile, error) {
	var raw materialFileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse material file %s: %w", name, err)
	}
	if len(raw.Materials) == 0 {
		return nil, fmt.Errorf("material file %s: no materials", name)
	}
	cmds, err := command.DecodeAll(raw.Materials)
	if err != nil {
		return nil, fmt.Errorf("material file %s: %w", name, err)
	}

	mf := &MaterialFile{Name: raw.Name, Tag: 1, Materials: cmds}
	if raw.Tag != nil {
		mf.Tag = command.Tag(*raw.Tag)
	}
	if mf.Name == "" {
		mf.Name = name
	}
	return mf, nil
}
