package meta

import (
	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
)

// ResourceAttribute describes one attribute a resource list can report.
type ResourceAttribute struct {
	ID          string
	Name        string
	Type        Type
	DisplaySize int
}

// ResourceListMetaData describes the attributes of a resource list that
// were selected as columns.
type ResourceListMetaData struct {
	columns
	ids []string
}

// NewResourceListMetaData selects columnIDs from the attributes the list
// supports. An unknown ID is an illegal argument.
func NewResourceListMetaData(attributes []ResourceAttribute, columnIDs []string) (*ResourceListMetaData, error) {
	byID := make(map[string]ResourceAttribute, len(attributes))
	for _, a := range attributes {
		byID[a.ID] = a
	}
	md := &ResourceListMetaData{columns: make(columns, len(columnIDs)), ids: append([]string(nil), columnIDs...)}
	for i, id := range columnIDs {
		a, ok := byID[id]
		if !ok {
			return nil, errors.Wrap(errs.IllegalArgument(id, errs.ParameterValueNotValid), "unknown attribute")
		}
		c := newColumn(a.Type)
		c.name = a.ID
		c.label = a.Name
		c.displaySize = a.DisplaySize
		md.columns[i] = c
	}
	return md, nil
}

// AttributeID returns the attribute ID shown in column i.
func (md *ResourceListMetaData) AttributeID(i int) (string, error) {
	if err := checkColumn(i, len(md.ids)); err != nil {
		return "", err
	}
	return md.ids[i], nil
}
