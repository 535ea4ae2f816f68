// Package catalog holds the static reference list of destinations and their
// activity templates. The list is embedded at build time and read-only at runtime.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"globetrotter/pkg/logger"
)

//go:embed places.yaml
var placesYAML []byte

type ActivityType string

const (
	ActivitySightseeing   ActivityType = "SIGHTSEEING"
	ActivityCulture       ActivityType = "CULTURE"
	ActivityAdventure     ActivityType = "ADVENTURE"
	ActivityEntertainment ActivityType = "ENTERTAINMENT"
	ActivityFoodAndDrink  ActivityType = "FOOD_AND_DRINK"
	ActivityShopping      ActivityType = "SHOPPING"
	ActivityRelaxation    ActivityType = "RELAXATION"
	ActivityFestival      ActivityType = "FESTIVAL"
	ActivityOutdoor       ActivityType = "OUTDOOR"
	ActivitySports        ActivityType = "SPORTS"
	ActivityOther         ActivityType = "OTHER"
)

var knownActivityTypes = map[ActivityType]struct{}{
	ActivitySightseeing: {}, ActivityCulture: {}, ActivityAdventure: {}, ActivityEntertainment: {},
	ActivityFoodAndDrink: {}, ActivityShopping: {}, ActivityRelaxation: {}, ActivityFestival: {},
	ActivityOutdoor: {}, ActivitySports: {}, ActivityOther: {},
}

// ParseActivityType maps a raw type onto the enum; anything unknown becomes OTHER.
func ParseActivityType(raw string) ActivityType {
	t := ActivityType(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownActivityTypes[t]; ok {
		return t
	}
	return ActivityOther
}

type Country struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Code     string `yaml:"code" json:"code"`
	Currency string `yaml:"currency" json:"currency"`
}

type PlaceMeta struct {
	Theme           string `yaml:"theme" json:"theme"`
	Description     string `yaml:"description" json:"description"`
	BestTimeToVisit string `yaml:"best_time_to_visit" json:"bestTimeToVisit"`
}

type Image struct {
	URL     string `yaml:"url" json:"url"`
	AltText string `yaml:"alt_text" json:"altText"`
}

type ActivityMeta struct {
	TravelerTips string `yaml:"traveler_tips,omitempty" json:"travelerTips,omitempty"`
}

type Activity struct {
	ID             string       `yaml:"id" json:"id"`
	Title          string       `yaml:"title" json:"title"`
	Description    string       `yaml:"description" json:"description"`
	Type           ActivityType `yaml:"type" json:"type"`
	AvgDurationMin int          `yaml:"avg_duration_min" json:"avgDurationMin"`
	Price          float64      `yaml:"price" json:"price"`
	Images         []Image      `yaml:"images" json:"images"`
	Tags           []string     `yaml:"tags" json:"tags"`
	Meta           ActivityMeta `yaml:"meta" json:"meta"`
}

type Place struct {
	ID         string     `yaml:"id" json:"id"`
	Name       string     `yaml:"name" json:"name"`
	Slug       string     `yaml:"slug" json:"slug"`
	Lat        float64    `yaml:"lat" json:"lat"`
	Lng        float64    `yaml:"lng" json:"lng"`
	CostIndex  float64    `yaml:"cost_index" json:"costIndex"`
	Popularity int        `yaml:"popularity" json:"popularity"`
	Meta       PlaceMeta  `yaml:"meta" json:"meta"`
	Country    Country    `yaml:"country" json:"country"`
	Activities []Activity `yaml:"activities" json:"activities"`
}

// Activity looks up one of the place's own activity templates.
func (p Place) Activity(id string) (Activity, bool) {
	for _, a := range p.Activities {
		if a.ID == id {
			return a, true
		}
	}
	return Activity{}, false
}

type document struct {
	Version int     `yaml:"version"`
	Places  []Place `yaml:"places"`
}

type Catalog struct {
	version int
	places  []Place
	byID    map[string]int
}

// Load decodes the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(placesYAML)
}

// Parse decodes and validates a catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c, err := build(doc.Places)
	if err != nil {
		return nil, err
	}
	c.version = doc.Version
	return c, nil
}

// New builds a catalog from places already in memory, keeping their order.
func New(places []Place) (*Catalog, error) {
	return build(places)
}

func build(places []Place) (*Catalog, error) {
	log := logger.GetLogger()
	c := &Catalog{
		places: make([]Place, 0, len(places)),
		byID:   make(map[string]int, len(places)),
	}
	activityIDs := make(map[string]string)

	for _, p := range places {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("catalog place %q: id and name are required", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog place %q: duplicate id %s", p.Name, p.ID)
		}
		p.Activities = append([]Activity(nil), p.Activities...)
		for i, a := range p.Activities {
			if owner, dup := activityIDs[a.ID]; dup {
				return nil, fmt.Errorf("catalog activity %q: id %s already used by %s", a.Title, a.ID, owner)
			}
			activityIDs[a.ID] = p.Name

			normalized := ParseActivityType(string(a.Type))
			if normalized != a.Type {
				log.Warnw("Unknown activity type, using OTHER", "activity", a.Title, "type", a.Type)
				p.Activities[i].Type = normalized
			}
		}
		c.byID[p.ID] = len(c.places)
		c.places = append(c.places, p)
	}
	return c, nil
}

func (c *Catalog) Version() int {
	return c.version
}

func (c *Catalog) Len() int {
	return len(c.places)
}

// Places returns the catalog in its declared order. Callers must not mutate the result.
func (c *Catalog) Places() []Place {
	return c.places
}

func (c *Catalog) Place(id string) (Place, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Place{}, false
	}
	return c.places[i], true
}

// Activity resolves an activity template that belongs to the given place.
func (c *Catalog) Activity(placeID, activityID string) (Activity, bool) {
	p, ok := c.Place(placeID)
	if !ok {
		return Activity{}, false
	}
	return p.Activity(activityID)
}
