package customization

import (
	"encoding/json"
	"fmt"
)

// Update is one edit to a StoreCustomization. The concrete types are
// SetField, SetListItem, AppendListItem and RemoveListItem.
type Update interface {
	isUpdate()
}

// SetField replaces a scalar field.
type SetField struct {
	Field Field
	Value string
}

// SetListItem replaces one field of the item at Index in List.
type SetListItem struct {
	List  List
	Index int
	Field string
	Value string
}

// AppendListItem adds an empty item at the end of List.
type AppendListItem struct {
	List List
}

// RemoveListItem deletes the item at Index in List.
type RemoveListItem struct {
	List  List
	Index int
}

func (SetField) isUpdate()       {}
func (SetListItem) isUpdate()    {}
func (AppendListItem) isUpdate() {}
func (RemoveListItem) isUpdate() {}

// Apply returns c with u applied. c itself is never modified.
func Apply(c StoreCustomization, u Update) (StoreCustomization, error) {
	out := c.clone()
	switch u := u.(type) {
	case SetField:
		if err := out.setField(u.Field, u.Value); err != nil {
			return c, err
		}
		return out, nil
	case SetListItem:
		if err := out.setListItem(u.List, u.Index, u.Field, u.Value); err != nil {
			return c, err
		}
		return out, nil
	case AppendListItem:
		switch u.List {
		case ListTestimonials:
			out.Testimonials = append(out.Testimonials, Testimonial{})
		case ListGallery:
			out.Gallery = append(out.Gallery, GalleryImage{})
		default:
			return c, fmt.Errorf("%w: %q", ErrUnknownList, u.List)
		}
		return out, nil
	case RemoveListItem:
		n, err := out.listLen(u.List)
		if err != nil {
			return c, err
		}
		if u.Index < 0 || u.Index >= n {
			return c, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, u.List, u.Index)
		}
		switch u.List {
		case ListTestimonials:
			out.Testimonials = append(out.Testimonials[:u.Index], out.Testimonials[u.Index+1:]...)
		case ListGallery:
			out.Gallery = append(out.Gallery[:u.Index], out.Gallery[u.Index+1:]...)
		}
		return out, nil
	default:
		return c, fmt.Errorf("%w: %T", ErrUnknownOp, u)
	}
}

// ApplyAll applies updates in order and stops at the first error, returning
// the original value untouched in that case.
func ApplyAll(c StoreCustomization, updates []Update) (StoreCustomization, error) {
	out := c
	for i, u := range updates {
		next, err := Apply(out, u)
		if err != nil {
			return c, fmt.Errorf("update %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}

func (c *StoreCustomization) setField(field Field, value string) error {
	switch field {
	case FieldTemplateID:
		c.TemplateID = value
	case FieldHeadline:
		c.Headline = value
	case FieldTagline:
		c.Tagline = value
	case FieldPrimaryColor:
		if !ValidColor(value) {
			return fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		c.PrimaryColor = value
	case FieldAccentColor:
		if !ValidColor(value) {
			return fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		c.AccentColor = value
	case FieldHeroImageURL:
		c.HeroImageURL = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (c *StoreCustomization) listLen(list List) (int, error) {
	switch list {
	case ListTestimonials:
		return len(c.Testimonials), nil
	case ListGallery:
		return len(c.Gallery), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownList, list)
}

func (c *StoreCustomization) setListItem(list List, index int, field, value string) error {
	n, err := c.listLen(list)
	if err != nil {
		return err
	}
	if index < 0 || index >= n {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, list, index)
	}
	switch list {
	case ListTestimonials:
		item := &c.Testimonials[index]
		switch field {
		case "author":
			item.Author = value
		case "quote":
			item.Quote = value
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, list, field)
		}
	case ListGallery:
		item := &c.Gallery[index]
		switch field {
		case "url":
			item.URL = value
		case "caption":
			item.Caption = value
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, list, field)
		}
	}
	return nil
}

// RawUpdate is the JSON shape of an Update:
//
//	{"op": "set_field", "field": "headline", "value": "Fresh cuts"}
//	{"op": "set_list_item", "list": "gallery", "index": 0, "field": "url", "value": "https://..."}
//	{"op": "append_list_item", "list": "testimonials"}
//	{"op": "remove_list_item", "list": "testimonials", "index": 2}
type RawUpdate struct {
	Op    string `json:"op"`
	Field string `json:"field,omitempty"`
	List  string `json:"list,omitempty"`
	Index *int   `json:"index,omitempty"`
	Value string `json:"value,omitempty"`
}

// Decode converts the raw form into a typed Update.
func (r RawUpdate) Decode() (Update, error) {
	switch r.Op {
	case "set_field":
		return SetField{Field: Field(r.Field), Value: r.Value}, nil
	case "set_list_item":
		if r.Index == nil {
			return nil, fmt.Errorf("%w: set_list_item needs an index", ErrIndexOutOfRange)
		}
		return SetListItem{List: List(r.List), Index: *r.Index, Field: r.Field, Value: r.Value}, nil
	case "append_list_item":
		return AppendListItem{List: List(r.List)}, nil
	case "remove_list_item":
		if r.Index == nil {
			return nil, fmt.Errorf("%w: remove_list_item needs an index", ErrIndexOutOfRange)
		}
		return RemoveListItem{List: List(r.List), Index: *r.Index}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, r.Op)
}

// DecodeUpdates parses a JSON array of raw updates.
func DecodeUpdates(data []byte) ([]Update, error) {
	var raws []RawUpdate
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("customization: decode updates: %w", err)
	}
	updates := make([]Update, 0, len(raws))
	for _, raw := range raws {
		u, err := raw.Decode()
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
	return updates, nil
}
