package workflow

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

type onVariant uint8

const (
	onAbsent onVariant = iota
	onSingle
	onMultiple
	onObject
)

// On is the `on` trigger: a single event, a list of events, or a map of
// events to their settings.
//
// Merging widens towards the richer form. Two single events become a list;
// a list merged with anything list-like stays a list; any list merged with a
// map becomes a map whose new events carry no settings; two maps merge event
// by event.
type On struct {
	variant onVariant
	events  collection.Set[string]
	object  collection.OrderedMap[EventConfig]
}

// OnEvent returns the single-event form.
func OnEvent(event string) On {
	return On{variant: onSingle, events: collection.SetOf(event)}
}

// OnEvents returns the list form.
func OnEvents(events ...string) On {
	return On{variant: onMultiple, events: collection.SetOf(events...)}
}

// OnObject returns the map form.
func OnObject(events collection.OrderedMap[EventConfig]) On {
	return On{variant: onObject, object: events}
}

func (o On) IsZero() bool { return o.variant == onAbsent }

func (o On) Variant() string {
	switch o.variant {
	case onSingle:
		return "single"
	case onMultiple:
		return "multiple"
	case onObject:
		return "object"
	default:
		return "absent"
	}
}

// Events returns the event names in order.
func (o On) Events() []string {
	if o.variant == onObject {
		return o.object.Keys()
	}
	return o.events.Items()
}

// Object returns the map form.
func (o On) Object() (collection.OrderedMap[EventConfig], bool) {
	return o.object, o.variant == onObject
}

func (o *On) DecodeTree(v tree.Value, path tree.Path) error {
	switch val := v.(type) {
	case tree.String:
		*o = OnEvent(string(val))
	case tree.Array:
		var events collection.Set[string]
		if err := events.DecodeTree(val, path); err != nil {
			return err
		}
		*o = On{variant: onMultiple, events: events}
	case *tree.Object:
		var events collection.OrderedMap[EventConfig]
		if err := events.DecodeTree(val, path); err != nil {
			return err
		}
		*o = OnObject(events)
	default:
		return schema.TypeError(path, "event, list of events or event map", v)
	}
	return nil
}

func (o On) EncodeTree() (tree.Value, error) {
	switch o.variant {
	case onSingle:
		return tree.String(o.events.Items()[0]), nil
	case onMultiple:
		return o.events.EncodeTree()
	default:
		return o.object.EncodeTree()
	}
}

func (o On) Merge(right any, path tree.Path) (any, error) {
	r := right.(On)
	switch {
	case o.variant == onObject && r.variant == onObject:
		merged, err := o.object.Merge(r.object, path)
		if err != nil {
			return nil, err
		}
		return OnObject(merged.(collection.OrderedMap[EventConfig])), nil
	case o.variant == onObject:
		return OnObject(withEvents(o.object, r.events.Items())), nil
	case r.variant == onObject:
		merged, err := withEvents(collection.NewOrderedMap[EventConfig](), o.events.Items()).Merge(r.object, path)
		if err != nil {
			return nil, err
		}
		return OnObject(merged.(collection.OrderedMap[EventConfig])), nil
	default:
		return On{variant: onMultiple, events: o.events.With(r.events.Items()...)}, nil
	}
}

// withEvents returns a copy of m with each missing event added without
// settings.
func withEvents(m collection.OrderedMap[EventConfig], events []string) collection.OrderedMap[EventConfig] {
	out := m.Clone()
	if out.IsZero() {
		out = collection.NewOrderedMap[EventConfig]()
	}
	for _, e := range events {
		if _, ok := out.Get(e); !ok {
			out.Set(e, EventConfig{})
		}
	}
	return out
}

// EventConfig is the settings of one event: a settings record, or a list of
// cron entries for `schedule`. Two schedules concatenate; two records merge
// field by field; otherwise the right operand wins. The zero value is an event
// without settings.
type EventConfig struct {
	schedule []Schedule
	settings *EventSettings
}

// ScheduleOf returns a cron list.
func ScheduleOf(crons ...string) EventConfig {
	s := make([]Schedule, len(crons))
	for i, c := range crons {
		s[i] = Schedule{Cron: c}
	}
	return EventConfig{schedule: s}
}

// SettingsOf returns a settings record.
func SettingsOf(s EventSettings) EventConfig { return EventConfig{settings: &s} }

func (e EventConfig) IsZero() bool { return e.schedule == nil && e.settings == nil }

func (e EventConfig) Variant() string {
	switch {
	case e.schedule != nil:
		return "schedule"
	case e.settings != nil:
		return "settings"
	default:
		return "empty"
	}
}

// Settings returns the record form.
func (e EventConfig) Settings() (EventSettings, bool) {
	if e.settings == nil {
		return EventSettings{}, false
	}
	return *e.settings, true
}

func (e *EventConfig) DecodeTree(v tree.Value, path tree.Path) error {
	if _, ok := v.(tree.Array); ok {
		var s []Schedule
		if err := schema.Decode(v, &s, path); err != nil {
			return err
		}
		*e = EventConfig{schedule: s}
		return nil
	}
	var s EventSettings
	if err := schema.Decode(v, &s, path); err != nil {
		return err
	}
	*e = SettingsOf(s)
	return nil
}

func (e EventConfig) EncodeTree() (tree.Value, error) {
	if e.schedule != nil {
		return schema.Encode(e.schedule)
	}
	return schema.Encode(*e.settings)
}

func (e EventConfig) Merge(right any, path tree.Path) (any, error) {
	r := right.(EventConfig)
	switch {
	case e.schedule != nil && r.schedule != nil:
		s := make([]Schedule, 0, len(e.schedule)+len(r.schedule))
		s = append(append(s, e.schedule...), r.schedule...)
		return EventConfig{schedule: s}, nil
	case e.settings != nil && r.settings != nil:
		merged, err := merge.At(*e.settings, *r.settings, path)
		if err != nil {
			return nil, err
		}
		return SettingsOf(merged), nil
	default:
		return r, nil
	}
}

// Schedule is a `schedule` entry.
type Schedule struct {
	Cron string `json:"cron"`
}

// InputType is the type of a workflow input.
type InputType string

func (InputType) EnumValues() []string {
	return []string{"string", "boolean", "number", "choice", "environment"}
}

// Input is a workflow_dispatch or workflow_call input.
type Input struct {
	Description string                 `json:"description"`
	Required    *bool                  `json:"required"`
	Default     union.Scalar           `json:"default"`
	Type        InputType              `json:"type"`
	Options     collection.Set[string] `json:"options"`
	Extra       *tree.Object           `schema:"extra"`
}

// EventSettings holds the filters and declarations of an event.
type EventSettings struct {
	Types          collection.Set[string]       `json:"types"`
	Branches       collection.Set[string]       `json:"branches"`
	BranchesIgnore collection.Set[string]       `json:"branches-ignore" alias:"branches_ignore"`
	Tags           collection.Set[string]       `json:"tags"`
	TagsIgnore     collection.Set[string]       `json:"tags-ignore" alias:"tags_ignore"`
	Paths          collection.Set[string]       `json:"paths"`
	PathsIgnore    collection.Set[string]       `json:"paths-ignore" alias:"paths_ignore"`
	Workflows      collection.Set[string]       `json:"workflows"`
	Inputs         collection.OrderedMap[Input] `json:"inputs"`
	Outputs        *tree.Object                 `json:"outputs"`
	Secrets        *tree.Object                 `json:"secrets"`
	Extra          *tree.Object                 `schema:"extra"`
}
