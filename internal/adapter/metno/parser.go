package metno

import (
	"maps"

	"github.com/couchcryptid/metno-forecast-etl/internal/domain"
)

// ParseDocument parses a classic locationforecast response body.
// A well-formed body without <weatherdata> yields a nil document.
func ParseDocument(body []byte) (*domain.Document, error) {
	root, err := ParseXML(body)
	if err != nil {
		return nil, err
	}
	return DocumentFromTree(root), nil
}

// DocumentFromTree reads weatherdata.product.time from a parsed tree.
func DocumentFromTree(root *Node) *domain.Document {
	if root == nil || root.Name != "weatherdata" {
		return nil
	}

	doc := &domain.Document{}
	product := root.Child("product")
	for _, t := range product.ChildrenNamed("time") {
		doc.Times = append(doc.Times, domain.RawTimePeriod{
			From:     t.Attr("from"),
			To:       t.Attr("to"),
			Location: toLocation(t.Child("location")),
		})
	}
	return doc
}

func toLocation(n *Node) domain.Location {
	loc := domain.Location{Properties: make(map[string]domain.Property)}
	if n == nil {
		return loc
	}
	loc.Attrs = maps.Clone(n.Attrs)
	for _, c := range n.Children {
		// Repeated elements keep the first occurrence.
		if _, seen := loc.Properties[c.Name]; seen {
			continue
		}
		loc.Properties[c.Name] = domain.Property(maps.Clone(c.Attrs))
	}
	return loc
}
