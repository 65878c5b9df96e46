package domain

import "encoding/json"

// Entity types known to Wikibase.
const (
	EntityTypeItem     = "item"
	EntityTypeProperty = "property"
)

// MonolingualText is a string value in a single language.
type MonolingualText struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// SiteLink links an item to a page on another wiki.
type SiteLink struct {
	Site   string   `json:"site"`
	Title  string   `json:"title"`
	Badges []string `json:"badges,omitempty"`
	URL    string   `json:"url,omitempty"`
}

// DataValue is the typed value of a snak. The value itself is kept raw;
// its shape depends on Type.
type DataValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// Snak is a property-value assertion (main snak, qualifier or reference snak).
type Snak struct {
	SnakType  string     `json:"snaktype"`
	Property  string     `json:"property"`
	Hash      string     `json:"hash,omitempty"`
	Datatype  string     `json:"datatype,omitempty"`
	DataValue *DataValue `json:"datavalue,omitempty"`
}

// Reference is a group of snaks supporting a statement.
type Reference struct {
	Hash       string            `json:"hash,omitempty"`
	Snaks      map[string][]Snak `json:"snaks"`
	SnaksOrder []string          `json:"snaks-order,omitempty"`
}

// Statement is a claim with rank, qualifiers and references.
type Statement struct {
	ID              string            `json:"id,omitempty"`
	Type            string            `json:"type"`
	Rank            string            `json:"rank,omitempty"`
	MainSnak        Snak              `json:"mainsnak"`
	Qualifiers      map[string][]Snak `json:"qualifiers,omitempty"`
	QualifiersOrder []string          `json:"qualifiers-order,omitempty"`
	References      []Reference       `json:"references,omitempty"`
}

// EntityDocument is an item or property document with terms, statements
// and site links.
type EntityDocument struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	LastRevID int64  `json:"lastrevid,omitempty"`
	Modified  string `json:"modified,omitempty"`

	// Datatype is only set for properties.
	Datatype string `json:"datatype,omitempty"`

	Labels       map[string]MonolingualText   `json:"labels"`
	Descriptions map[string]MonolingualText   `json:"descriptions"`
	Aliases      map[string][]MonolingualText `json:"aliases"`
	Claims       map[string][]Statement       `json:"claims"`
	Sitelinks    map[string]SiteLink          `json:"sitelinks"`

	// SiteIRI is the prefix of entity IRIs on the originating site, e.g.
	// "http://www.wikidata.org/entity/". It is not part of API payloads.
	SiteIRI string `json:"-"`
}

// EnsureContainers replaces nil term, statement and site link maps with
// empty ones.
func (d *EntityDocument) EnsureContainers() {
	if d.Labels == nil {
		d.Labels = map[string]MonolingualText{}
	}
	if d.Descriptions == nil {
		d.Descriptions = map[string]MonolingualText{}
	}
	if d.Aliases == nil {
		d.Aliases = map[string][]MonolingualText{}
	}
	if d.Claims == nil {
		d.Claims = map[string][]Statement{}
	}
	if d.Sitelinks == nil {
		d.Sitelinks = map[string]SiteLink{}
	}
}

// IRI returns the full IRI of the entity.
func (d *EntityDocument) IRI() string {
	return d.SiteIRI + d.ID
}

// Label returns the label in the given language, if any.
func (d *EntityDocument) Label(lang string) (string, bool) {
	l, ok := d.Labels[lang]
	return l.Value, ok
}

// Description returns the description in the given language, if any.
func (d *EntityDocument) Description(lang string) (string, bool) {
	desc, ok := d.Descriptions[lang]
	return desc.Value, ok
}

// StatementCount returns the number of statements across all properties.
func (d *EntityDocument) StatementCount() int {
	n := 0
	for _, group := range d.Claims {
		n += len(group)
	}
	return n
}
