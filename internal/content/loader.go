package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Nazarious-ucu/listings-footer/internal/models"
)

var ErrInvalidContent = errors.New("invalid footer content")

// KnownIcons lists the social icon identifiers the templates can draw.
var KnownIcons = map[string]struct{}{
	"facebook":  {},
	"twitter":   {},
	"instagram": {},
	"linkedin":  {},
	"youtube":   {},
	"tiktok":    {},
	"whatsapp":  {},
}

// Load reads footer content from a YAML file. An empty path yields Default().
func Load(path string) (models.Content, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return models.Content{}, fmt.Errorf("read footer content: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (models.Content, error) {
	var c models.Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return models.Content{}, fmt.Errorf("parse footer content: %w", err)
	}
	if err := Validate(&c); err != nil {
		return models.Content{}, err
	}
	return c, nil
}

// Validate checks c and fills empty hrefs with models.DefaultHref.
func Validate(c *models.Content) error {
	var errs []error

	if c.Brand.Name == "" {
		errs = append(errs, errors.New("brand name is empty"))
	}

	for i := range c.Socials {
		s := &c.Socials[i]
		if _, ok := KnownIcons[s.Icon]; !ok {
			errs = append(errs, fmt.Errorf("social link %d: unknown icon %q", i, s.Icon))
		}
		if s.Href == "" {
			s.Href = models.DefaultHref
		}
	}

	for i := range c.Sections {
		sec := &c.Sections[i]
		if sec.Title == "" {
			errs = append(errs, fmt.Errorf("section %d: title is empty", i))
		}
		errs = append(errs, validateLinks(fmt.Sprintf("section %q", sec.Title), sec.Links)...)
	}

	errs = append(errs, validateLinks("legal", c.Legal)...)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidContent, errors.Join(errs...))
	}
	return nil
}

func validateLinks(where string, links []models.Link) []error {
	var errs []error
	for i := range links {
		if links[i].Label == "" {
			errs = append(errs, fmt.Errorf("%s link %d: label is empty", where, i))
		}
		if links[i].Href == "" {
			links[i].Href = models.DefaultHref
		}
	}
	return errs
}
