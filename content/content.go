// Package content holds the hand-authored data shown on the page: the
// profile, the skill categories and the project gallery.
package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const PlaceholderImage = "/static/placeholder.svg"

//go:embed content.yaml
var defaultContent []byte

type Contacts struct {
	Email    string `yaml:"email"`
	Telegram string `yaml:"telegram"`
	Phone    string `yaml:"phone"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
}

type Profile struct {
	Name          string   `yaml:"name"`
	Role          string   `yaml:"role"`
	Photo         string   `yaml:"photo"`
	Intro         string   `yaml:"intro"`
	Resume        string   `yaml:"resume"`
	Contacts      Contacts `yaml:"contacts"`
	CopyrightYear int      `yaml:"copyright_year"`
}

type SkillCategory struct {
	Name   string   `yaml:"name"`
	Icon   string   `yaml:"icon"`
	Accent string   `yaml:"accent"`
	Skills []string `yaml:"skills"`
}

type Project struct {
	Slug         string   `yaml:"slug"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Image        string   `yaml:"image"`
	Technologies []string `yaml:"technologies"`
	GitHubURL    string   `yaml:"github_url"`
	LiveURL      string   `yaml:"live_url"`
}

// Link returns the project's outbound URL for target "github" or "demo".
func (p Project) Link(target string) (string, bool) {
	switch target {
	case "github":
		return p.GitHubURL, p.GitHubURL != ""
	case "demo":
		return p.LiveURL, p.LiveURL != ""
	default:
		return "", false
	}
}

// Site is everything rendered on the page.
type Site struct {
	Profile  Profile         `yaml:"profile"`
	Skills   []SkillCategory `yaml:"skills"`
	Projects []Project       `yaml:"projects"`
}

// Project looks a project up by slug.
func (s *Site) Project(slug string) (Project, bool) {
	for _, p := range s.Projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return Project{}, false
}

// Default returns the content compiled into the binary.
func Default() (*Site, error) {
	return Parse(defaultContent)
}

// LoadFile reads content from a YAML file.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	if err := site.normalize(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) normalize() error {
	if strings.TrimSpace(s.Profile.Name) == "" {
		return fmt.Errorf("content: profile name is required")
	}

	seen := make(map[string]bool, len(s.Projects))
	for i := range s.Projects {
		p := &s.Projects[i]
		if p.Slug == "" {
			return fmt.Errorf("content: project %q has no slug", p.Title)
		}
		if seen[p.Slug] {
			return fmt.Errorf("content: duplicate project slug %q", p.Slug)
		}
		seen[p.Slug] = true

		if p.Image == "" {
			p.Image = PlaceholderImage
		}
	}
	return nil
}
