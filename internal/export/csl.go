package export

import (
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// so search results can be fed to Pandoc or a reference manager.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a CSL date using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records []*types.Record, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = ToCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem maps the ADS fields of r onto a CSL item keyed by bibcode.
func ToCSLItem(r *types.Record) CSLItem {
	title, _ := r.Value("title")
	pub, _ := r.Value("pub")
	abstract, _ := r.Value("abstract")
	doi, _ := r.Value(types.FieldDOI)

	item := CSLItem{
		ID:             r.Bibcode(),
		Type:           "article-journal",
		Title:          firstString(title),
		ContainerTitle: firstString(pub),
		Abstract:       firstString(abstract),
		DOI:            firstString(doi),
	}

	if authors, ok := r.Value("author"); ok {
		if list, ok := authors.([]any); ok {
			for _, a := range list {
				if s, ok := a.(string); ok {
					item.Author = append(item.Author, parseADSName(s))
				}
			}
		}
	}

	if pubdate, ok := r.Value("pubdate"); ok {
		item.Issued = parsePubdate(firstString(pubdate))
	}
	if item.Issued == nil {
		if year, ok := r.Value("year"); ok {
			item.Issued = parsePubdate(Cell(year))
		}
	}
	return item
}

// parseADSName splits an ADS "Family, Given" author string. Names without
// a comma use the literal field.
func parseADSName(name string) CSLName {
	name = strings.TrimSpace(name)
	family, given, ok := strings.Cut(name, ",")
	if !ok {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}

// parsePubdate reads ADS dates of the form YYYY, YYYY-MM-00, or YYYY-MM-DD.
// Zero month or day parts are omitted.
func parsePubdate(s string) *CSLDate {
	var parts []int
	for _, p := range strings.SplitN(strings.TrimSpace(s), "-", 3) {
		n, err := strconv.Atoi(p)
		if err != nil || n == 0 {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return &CSLDate{DateParts: [][]int{parts}}
}
