package data

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Social is one entry of the socials table. The message fields use the
// act() substitution grammar.
type Social struct {
	Name        string `yaml:"name"`
	CharNoArg   string `yaml:"char_no_arg"`
	OthersNoArg string `yaml:"others_no_arg"`
	CharFound   string `yaml:"char_found"`
	OthersFound string `yaml:"others_found"`
	VictFound   string `yaml:"vict_found"`
	CharAuto    string `yaml:"char_auto"`
	OthersAuto  string `yaml:"others_auto"`
}

type socialFile struct {
	Socials []*Social `yaml:"socials"`
}

// SocialTable holds all socials in file order.
type SocialTable struct {
	socials []*Social
}

// Find matches a social by name prefix.
func (t *SocialTable) Find(verb string) *Social {
	verb = strings.ToLower(verb)
	for _, s := range t.socials {
		if strings.HasPrefix(s.Name, verb) {
			return s
		}
	}
	return nil
}

func (t *SocialTable) Count() int { return len(t.socials) }

func (t *SocialTable) All() []*Social { return t.socials }

// LoadSocialTable loads the socials table from a YAML file.
func LoadSocialTable(path string) (*SocialTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read socials: %w", err)
	}
	var f socialFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse socials: %w", err)
	}
	return &SocialTable{socials: f.Socials}, nil
}
