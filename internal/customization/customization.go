// Package customization holds the branded content of a store's booking page
// and the reducer that edits it.
package customization

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrUnknownField is returned when an update names a field that does not exist
	ErrUnknownField = errors.New("customization: unknown field")

	// ErrUnknownList is returned when an update names a list that does not exist
	ErrUnknownList = errors.New("customization: unknown list")

	// ErrIndexOutOfRange is returned when a list index does not address an item
	ErrIndexOutOfRange = errors.New("customization: list index out of range")

	// ErrInvalidColor is returned for a color that is not #rgb or #rrggbb
	ErrInvalidColor = errors.New("customization: color must be #rgb or #rrggbb")

	// ErrUnknownOp is returned when a raw update carries an unsupported op
	ErrUnknownOp = errors.New("customization: unknown update op")
)

// Field names a scalar field of StoreCustomization.
type Field string

const (
	FieldTemplateID   Field = "template_id"
	FieldHeadline     Field = "headline"
	FieldTagline      Field = "tagline"
	FieldPrimaryColor Field = "primary_color"
	FieldAccentColor  Field = "accent_color"
	FieldHeroImageURL Field = "hero_image_url"
)

// List names a list field of StoreCustomization.
type List string

const (
	ListTestimonials List = "testimonials"
	ListGallery      List = "gallery"
)

// Testimonial is one customer quote shown on the page.
type Testimonial struct {
	Author string `json:"author"`
	Quote  string `json:"quote"`
}

// GalleryImage is one picture of the gallery section.
type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// StoreCustomization is the content a store owner can override on top of
// the chosen visual template.
type StoreCustomization struct {
	TemplateID   string         `json:"template_id"`
	Headline     string         `json:"headline"`
	Tagline      string         `json:"tagline"`
	PrimaryColor string         `json:"primary_color"`
	AccentColor  string         `json:"accent_color"`
	HeroImageURL string         `json:"hero_image_url"`
	Testimonials []Testimonial  `json:"testimonials"`
	Gallery      []GalleryImage `json:"gallery"`
}

// Default returns the customization a new store starts with.
func Default() StoreCustomization {
	return StoreCustomization{
		TemplateID:   "classic",
		PrimaryColor: "#1f2937",
		AccentColor:  "#f59e0b",
		Testimonials: []Testimonial{},
		Gallery:      []GalleryImage{},
	}
}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #rgb or #rrggbb hex color.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Validate checks the color fields.
func (c StoreCustomization) Validate() error {
	if c.PrimaryColor != "" && !ValidColor(c.PrimaryColor) {
		return fmt.Errorf("%w: primary_color %q", ErrInvalidColor, c.PrimaryColor)
	}
	if c.AccentColor != "" && !ValidColor(c.AccentColor) {
		return fmt.Errorf("%w: accent_color %q", ErrInvalidColor, c.AccentColor)
	}
	return nil
}

func (c StoreCustomization) clone() StoreCustomization {
	out := c
	out.Testimonials = append([]Testimonial{}, c.Testimonials...)
	out.Gallery = append([]GalleryImage{}, c.Gallery...)
	return out
}
