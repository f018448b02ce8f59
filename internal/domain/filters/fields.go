// Package filters describes the event filter form so clients can render it
// without hardcoding field lists or venue options.
package filters

import (
	"fmt"

	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/venues"
)

type Kind string

const (
	KindText     Kind = "text"
	KindSelect   Kind = "select"
	KindDate     Kind = "date"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is tagged by Kind. Options is only meaningful for select and radio.
type Field struct {
	Key         string   `json:"key"`
	Kind        Kind     `json:"type"`
	Label       string   `json:"label"`
	Placeholder string   `json:"placeholder,omitempty"`
	Default     any      `json:"default_value,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

func Text(key, label, placeholder string) Field {
	return Field{Key: key, Kind: KindText, Label: label, Placeholder: placeholder, Default: ""}
}

func Date(key, label, placeholder string) Field {
	return Field{Key: key, Kind: KindDate, Label: label, Placeholder: placeholder}
}

func Select(key, label, placeholder string, opts []Option) Field {
	return Field{Key: key, Kind: KindSelect, Label: label, Placeholder: placeholder, Options: opts}
}

func (f Field) Validate() error {
	switch f.Kind {
	case KindSelect:
	case KindRadio:
		if len(f.Options) == 0 {
			return fmt.Errorf("field %q: radio needs options", f.Key)
		}
	case KindText, KindDate, KindCheckbox:
		if len(f.Options) > 0 {
			return fmt.Errorf("field %q: %s does not take options", f.Key, f.Kind)
		}
	default:
		return fmt.Errorf("field %q: unknown kind %q", f.Key, f.Kind)
	}
	return nil
}

type Tab struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Tabs struct {
	FilterKey  string `json:"filter_key"`
	DefaultKey string `json:"default_active_key"`
	Tabs       []Tab  `json:"tabs"`
}

type Config struct {
	Fields []Field `json:"fields"`
	Tabs   Tabs    `json:"tabs"`
}

// Validate checks every field and that the default tab is one of the tabs.
func (c Config) Validate() error {
	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Key] {
			return fmt.Errorf("field %q: duplicate key", f.Key)
		}
		seen[f.Key] = true
	}
	for _, t := range c.Tabs.Tabs {
		if t.Key == c.Tabs.DefaultKey {
			return nil
		}
	}
	return fmt.Errorf("tabs: default %q is not a tab", c.Tabs.DefaultKey)
}

// EventFilters builds the events page form. Venue options come from the
// venue list in the order given.
func EventFilters(vs []venues.Venue) Config {
	opts := make([]Option, 0, len(vs))
	for _, v := range vs {
		opts = append(opts, Option{Value: v.ID, Label: v.Name})
	}

	return Config{
		Fields: []Field{
			Text("search", "Search", "Search events..."),
			Date("from", "From Date", "Select start date"),
			Date("to", "To Date", "Select end date"),
			Select("venue_id", "Venue", "Select venue", opts),
		},
		Tabs: Tabs{
			FilterKey:  "tab",
			DefaultKey: string(events.TabUpcoming),
			Tabs: []Tab{
				{Key: string(events.TabUpcoming), Label: "Upcoming"},
				{Key: string(events.TabPast), Label: "Past"},
			},
		},
	}
}
