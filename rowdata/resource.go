package rowdata

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
	"github.com/go-data-exporter/hostdata/resource"
)

// ResourceListRowData shows selected attributes of every resource in a
// resource list, one row per resource.
type ResourceListRowData struct {
	list
	resources resource.List
	ids       []string
}

// NewResourceListRowData selects the attributes shown as columns. Call
// Load to read the resources.
func NewResourceListRowData(resources resource.List, columnIDs []string) (*ResourceListRowData, error) {
	if resources == nil {
		return nil, errs.IllegalState("resourceList", errs.PropertyNotSet)
	}
	md, err := meta.NewResourceListMetaData(resources.Attributes(), columnIDs)
	if err != nil {
		return nil, err
	}
	return &ResourceListRowData{list: newList(md), resources: resources, ids: append([]string(nil), columnIDs...)}, nil
}

// Load replaces the rows with the current contents of the resource list.
func (d *ResourceListRowData) Load(ctx context.Context) error {
	if err := d.resources.Open(ctx); err != nil {
		return errs.NewRowDataError("resource list", err)
	}
	defer d.resources.Close()

	length, err := d.resources.Length(ctx)
	if err != nil {
		return errs.NewRowDataError("resource list", err)
	}
	d.clear()
	for i := range length {
		res, err := d.resources.ResourceAt(ctx, i)
		if err != nil {
			return errs.NewRowDataError("resource list", errors.Wrapf(err, "resource %d", i))
		}
		row := make([]any, len(d.ids))
		for c, id := range d.ids {
			if row[c], err = res.AttributeValue(ctx, id); err != nil {
				return errs.NewRowDataError("resource list", errors.Wrap(err, "resource "+strconv.Itoa(i)+" attribute "+id))
			}
		}
		d.appendRow(row)
		d.fire(d, rowAdded, i)
	}
	logger.Debug("loaded ", length, " resources")
	return nil
}
