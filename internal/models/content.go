package models

import "gopkg.in/yaml.v3"

// DefaultHref is used for links configured without a target.
const DefaultHref = "#"

type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href"  yaml:"href"`
}

// UnmarshalYAML accepts either a plain label or a {label, href} mapping.
func (l *Link) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		l.Label = node.Value
		l.Href = DefaultHref
		return nil
	}

	type plain Link
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*l = Link(p)
	return nil
}

type LinkSection struct {
	Title string `json:"title" yaml:"title"`
	Links []Link `json:"links" yaml:"links"`
}

type Contact struct {
	Address string `json:"address" yaml:"address"`
	Phone   string `json:"phone"   yaml:"phone"`
	Email   string `json:"email"   yaml:"email"`
}

type SocialLink struct {
	Icon string `json:"icon" yaml:"icon"`
	Href string `json:"href" yaml:"href"`
}

type Brand struct {
	Name      string `json:"name"      yaml:"name"`
	Highlight string `json:"highlight" yaml:"highlight"`
	Tagline   string `json:"tagline"   yaml:"tagline"`
}

type NewsletterCopy struct {
	Heading     string `json:"heading"     yaml:"heading"`
	Subheading  string `json:"subheading"  yaml:"subheading"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
}

// Content is everything the footer shows apart from the newsletter widget state.
type Content struct {
	Brand      Brand          `json:"brand"      yaml:"brand"`
	Newsletter NewsletterCopy `json:"newsletter" yaml:"newsletter"`
	Contact    Contact        `json:"contact"    yaml:"contact"`
	Socials    []SocialLink   `json:"socials"    yaml:"socials"`
	Sections   []LinkSection  `json:"sections"   yaml:"sections"`
	Legal      []Link         `json:"legal"      yaml:"legal"`
	Copyright  string         `json:"copyright"  yaml:"copyright"`
}
