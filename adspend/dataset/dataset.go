// Package dataset decodes the precomputed ad-spending document the dashboard is rendered from.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Top level keys of the dataset document
const (
	KeyPartySpecificData = "party-specific-data"
	KeyAdsPerParty       = "ads-per-party"
	KeySpendingPerParty  = "spending-per-party"
	KeyColors            = "colors"
)

// Errors returned by the dataset accessors
var (
	ErrInvalidDocument = errors.New("invalid dataset document")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrMetricNotFound  = errors.New("metric not found")
	ErrInvalidMetric   = errors.New("metric has an unexpected shape")
)

// NamedSeries is a time series belonging to one category (ie: a region) or entity
type NamedSeries struct {
	Label  string
	Values []float64
}

// Breakdown is a set of values per category, with an explicit display order
type Breakdown struct {
	Order  []string
	Values map[string]float64
}

// Value returns the value for a label, 0 if the label has none
func (b *Breakdown) Value(label string) float64 {
	return b.Values[label]
}

// Total sums the values of the labels present in the order list
func (b *Breakdown) Total() float64 {
	var total float64
	for _, label := range b.Order {
		total += b.Values[label]
	}
	return total
}

// Dataset is a parsed, read-only dataset document
type Dataset struct {
	entities   []string
	entityData map[string]entityMetrics
	topLevel   map[string]json.RawMessage
	colors     map[string]string
}

type entityMetrics struct {
	keys   []string
	values map[string]json.RawMessage
}

// Parse decodes a dataset document. Only the outer structure is validated here, metrics are decoded on access.
func Parse(raw []byte) (*Dataset, error) {
	if !isObject(raw) {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrInvalidDocument)
	}

	_, topLevel, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, err.Error())
	}

	partyData, ok := topLevel[KeyPartySpecificData]
	if !ok || !isObject(partyData) {
		return nil, fmt.Errorf("%w: missing %q object", ErrInvalidDocument, KeyPartySpecificData)
	}

	entities, rawEntities, err := decodeObject(partyData)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidDocument, KeyPartySpecificData, err.Error())
	}

	entityData := make(map[string]entityMetrics, len(entities))
	for _, entity := range entities {
		if !isObject(rawEntities[entity]) {
			return nil, fmt.Errorf("%w: data for entity %q must be an object", ErrInvalidDocument, entity)
		}

		keys, values, err := decodeObject(rawEntities[entity])
		if err != nil {
			return nil, fmt.Errorf("%w: entity %q: %s", ErrInvalidDocument, entity, err.Error())
		}
		entityData[entity] = entityMetrics{keys: keys, values: values}
	}

	var colors map[string]string
	if rawColors, ok := topLevel[KeyColors]; ok {
		if err := json.Unmarshal(rawColors, &colors); err != nil {
			return nil, fmt.Errorf("%w: %q must map labels to colors: %s", ErrInvalidDocument, KeyColors, err.Error())
		}
	}

	return &Dataset{
		entities:   entities,
		entityData: entityData,
		topLevel:   topLevel,
		colors:     colors,
	}, nil
}

// Entities returns the entities (parties) in document order
func (d *Dataset) Entities() []string {
	return append([]string(nil), d.entities...)
}

// HasEntity returns whether the document contains data for entity
func (d *Dataset) HasEntity(entity string) bool {
	_, ok := d.entityData[entity]
	return ok
}

// Colors returns the color table embedded in the document, if any
func (d *Dataset) Colors() map[string]string {
	if d.colors == nil {
		return nil
	}
	copied := make(map[string]string, len(d.colors))
	for label, color := range d.colors {
		copied[label] = color
	}
	return copied
}

// TimeSeries returns the per-date values of an entity metric (ie: "spending-per-date")
func (d *Dataset) TimeSeries(entity string, key string) ([]float64, error) {
	raw, err := d.entityMetric(entity, key)
	if err != nil {
		return nil, err
	}
	return decodeSeries(raw, key)
}

// CategorySeries returns the per-date values of each category of an entity metric
// (ie: "spending-per-region-per-date"), categories in document order
func (d *Dataset) CategorySeries(entity string, key string) ([]NamedSeries, error) {
	raw, err := d.entityMetric(entity, key)
	if err != nil {
		return nil, err
	}

	if !isObject(raw) {
		return nil, fmt.Errorf("%w: %q is not an object of series", ErrInvalidMetric, key)
	}

	labels, values, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidMetric, key, err.Error())
	}

	toReturn := make([]NamedSeries, 0, len(labels))
	for _, label := range labels {
		series, err := decodeSeries(values[label], key+"."+label)
		if err != nil {
			return nil, err
		}
		toReturn = append(toReturn, NamedSeries{Label: label, Values: series})
	}
	return toReturn, nil
}

// EntityBreakdown returns an ordered per-category metric of an entity (ie: "spending-per-region")
func (d *Dataset) EntityBreakdown(entity string, key string) (*Breakdown, error) {
	raw, err := d.entityMetric(entity, key)
	if err != nil {
		return nil, err
	}
	return decodeBreakdown(raw, key)
}

// Breakdown returns an ordered top level metric (ie: "spending-per-party")
func (d *Dataset) Breakdown(key string) (*Breakdown, error) {
	raw, ok := d.topLevel[key]
	if !ok || key == KeyPartySpecificData {
		return nil, fmt.Errorf("%w: %q", ErrMetricNotFound, key)
	}
	return decodeBreakdown(raw, key)
}

// AdsPerParty returns how many ads an entity ran, as listed in "ads-per-party"
func (d *Dataset) AdsPerParty(entity string) (float64, bool) {
	return d.topLevelValue(KeyAdsPerParty, entity)
}

// SpendingPerParty returns the estimated total an entity spent, as listed in "spending-per-party"
func (d *Dataset) SpendingPerParty(entity string) (float64, bool) {
	return d.topLevelValue(KeySpendingPerParty, entity)
}

// Labels returns every category label referenced by the document: entities, breakdown orders and
// category series names. Used to check color coverage.
func (d *Dataset) Labels() []string {
	labels := append([]string(nil), d.entities...)
	collect := func(raw json.RawMessage) {
		if !isObject(raw) {
			return
		}
		keys, values, err := decodeObject(raw)
		if err != nil {
			return
		}
		if isBreakdownShape(keys, values) {
			if b, err := decodeBreakdown(raw, ""); err == nil {
				labels = append(labels, b.Order...)
			}
			return
		}
		for _, key := range keys {
			if !isObject(values[key]) {
				labels = append(labels, key)
			}
		}
	}

	for _, entity := range d.entities {
		metrics := d.entityData[entity]
		for _, key := range metrics.keys {
			collect(metrics.values[key])
		}
	}

	for key, raw := range d.topLevel {
		if key == KeyPartySpecificData || key == KeyColors {
			continue
		}
		collect(raw)
	}
	return labels
}

func (d *Dataset) entityMetric(entity string, key string) (json.RawMessage, error) {
	metrics, ok := d.entityData[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntityNotFound, entity)
	}

	raw, ok := metrics.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q for entity %q", ErrMetricNotFound, key, entity)
	}
	return raw, nil
}

func (d *Dataset) topLevelValue(key string, entity string) (float64, bool) {
	breakdown, err := d.Breakdown(key)
	if err != nil {
		return 0, false
	}
	value, ok := breakdown.Values[entity]
	return value, ok
}

func decodeSeries(raw json.RawMessage, key string) ([]float64, error) {
	if !isArray(raw) {
		return nil, fmt.Errorf("%w: %q is not a list of numbers", ErrInvalidMetric, key)
	}

	var series []float64
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidMetric, key, err.Error())
	}
	return series, nil
}

func isBreakdownShape(keys []string, values map[string]json.RawMessage) bool {
	if len(keys) != 2 {
		return false
	}
	order, hasOrder := values["order"]
	mapping, hasMap := values["map"]
	return hasOrder && hasMap && isArray(order) && isObject(mapping)
}

// decodeBreakdown accepts {"order": [...], "map": {...}} or a plain {"label": n} object (document order)
func decodeBreakdown(raw json.RawMessage, key string) (*Breakdown, error) {
	if !isObject(raw) {
		return nil, fmt.Errorf("%w: %q is not a breakdown", ErrInvalidMetric, key)
	}

	keys, values, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrInvalidMetric, key, err.Error())
	}

	if isBreakdownShape(keys, values) {
		var breakdown Breakdown
		if err := json.Unmarshal(values["order"], &breakdown.Order); err != nil {
			return nil, fmt.Errorf("%w: %q order: %s", ErrInvalidMetric, key, err.Error())
		}
		if err := json.Unmarshal(values["map"], &breakdown.Values); err != nil {
			return nil, fmt.Errorf("%w: %q map: %s", ErrInvalidMetric, key, err.Error())
		}
		if breakdown.Values == nil {
			breakdown.Values = map[string]float64{}
		}
		return &breakdown, nil
	}

	breakdown := Breakdown{Order: keys, Values: make(map[string]float64, len(keys))}
	for _, label := range keys {
		var value float64
		if err := json.Unmarshal(values[label], &value); err != nil {
			return nil, fmt.Errorf("%w: %q.%s is not a number", ErrInvalidMetric, key, label)
		}
		breakdown.Values[label] = value
	}
	return &breakdown, nil
}
