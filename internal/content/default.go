package content

import "github.com/Nazarious-ucu/listings-footer/internal/models"

func labels(items ...string) []models.Link {
	links := make([]models.Link, 0, len(items))
	for _, item := range items {
		links = append(links, models.Link{Label: item, Href: models.DefaultHref})
	}
	return links
}

// Default returns the KenyaHomes footer dataset.
func Default() models.Content {
	return models.Content{
		Brand: models.Brand{
			Name:      "Kenya",
			Highlight: "Homes",
			Tagline: "Kenya's premier real estate platform. Find your dream home from " +
				"thousands of verified listings across the country.",
		},
		Newsletter: models.NewsletterCopy{
			Heading:     "Get New Listings in Your Inbox",
			Subheading:  "Subscribe to receive the latest properties and market insights.",
			Placeholder: "Enter your email",
		},
		Contact: models.Contact{
			Address: "Westlands, Nairobi, Kenya",
			Phone:   "+254 700 123 456",
			Email:   "info@kenyahomes.co.ke",
		},
		Socials: []models.SocialLink{
			{Icon: "facebook", Href: models.DefaultHref},
			{Icon: "twitter", Href: models.DefaultHref},
			{Icon: "instagram", Href: models.DefaultHref},
			{Icon: "linkedin", Href: models.DefaultHref},
		},
		Sections: []models.LinkSection{
			{
				Title: "Property Types",
				Links: labels("Houses", "Apartments", "Land", "Bungalows", "Commercial", "Villas"),
			},
			{
				Title: "Locations",
				Links: labels("Nairobi", "Mombasa", "Kisumu", "Nakuru", "Eldoret", "Thika"),
			},
			{
				Title: "Quick Links",
				Links: labels("About Us", "Our Agents", "Blog", "Careers", "FAQs", "Contact"),
			},
			{
				Title: "Resources",
				Links: labels("Mortgage Calculator", "Property Guide", "Market Insights",
					"Legal Guide", "Investment Tips", "Moving Checklist"),
			},
		},
		Legal:     labels("Privacy Policy", "Terms of Service", "Cookie Policy"),
		Copyright: "© 2026 KenyaHomes. All rights reserved.",
	}
}
