// Package resource models host resource lists such as user or job lists:
// an ordered list of resources, each reporting a value per attribute ID.
package resource

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/hostdata/errs"
	"github.com/go-data-exporter/hostdata/meta"
)

// Resource reports attribute values of one host object.
type Resource interface {
	AttributeValue(ctx context.Context, id string) (any, error)
}

// List is an ordered list of resources. Length and ResourceAt require Open.
type List interface {
	Open(ctx context.Context) error
	Length(ctx context.Context) (int, error)
	ResourceAt(ctx context.Context, index int) (Resource, error)
	Attributes() []meta.ResourceAttribute
	Close() error
}

// Attributes is a resource backed by a map of attribute values.
type Attributes map[string]any

func (a Attributes) AttributeValue(_ context.Context, id string) (any, error) {
	v, ok := a[id]
	if !ok {
		return nil, errors.Wrap(errs.IllegalArgument(id, errs.ParameterValueNotValid), "attribute not supported")
	}
	return v, nil
}

// StaticList is a List over resources held in memory.
type StaticList struct {
	attributes []meta.ResourceAttribute
	resources  []Resource

	mu     sync.Mutex
	opened bool
}

func NewStaticList(attributes []meta.ResourceAttribute, resources ...Resource) *StaticList {
	return &StaticList{attributes: attributes, resources: resources}
}

func (l *StaticList) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	l.opened = true
	l.mu.Unlock()
	return nil
}

func (l *StaticList) checkOpen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.opened {
		return errs.IllegalState("resourceList", errs.ObjectMustBeOpen)
	}
	return nil
}

func (l *StaticList) Length(ctx context.Context) (int, error) {
	if err := l.checkOpen(); err != nil {
		return 0, err
	}
	return len(l.resources), ctx.Err()
}

func (l *StaticList) ResourceAt(ctx context.Context, index int) (Resource, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(l.resources) {
		return nil, errs.IllegalArgument("index", errs.RangeNotValid)
	}
	return l.resources[index], nil
}

func (l *StaticList) Attributes() []meta.ResourceAttribute {
	return l.attributes
}

func (l *StaticList) Close() error {
	l.mu.Lock()
	l.opened = false
	l.mu.Unlock()
	return nil
}
