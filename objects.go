package tileworld

import (
	"fmt"
	"math"
)

// Object property names required by object classes.
const (
	PropResourceType = "ResourceType"
	PropAmount       = "Amount"
)

// ObjectType is the class of a map object. The set is closed, anything else
// in a map is an import error.
type ObjectType int

const (
	ObjectResources ObjectType = iota + 1
)

var objectTypeNames = map[ObjectType]string{
	ObjectResources: "Resources",
}

func (t ObjectType) String() string {
	if s, ok := objectTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ObjectType(%d)", int(t))
}

// ParseObjectType returns the object type with the given class name.
func ParseObjectType(s string) (ObjectType, error) {
	for t, name := range objectTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownClass, s)
}

// ResourceType is a kind of harvestable resource.
type ResourceType int

const (
	ResourceIron ResourceType = iota + 1
)

var resourceTypeNames = map[ResourceType]string{
	ResourceIron: "Iron",
}

func (t ResourceType) String() string {
	if s, ok := resourceTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ResourceType(%d)", int(t))
}

// ParseResourceType returns the resource type with the given name.
func ParseResourceType(s string) (ResourceType, error) {
	for t, name := range resourceTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown resource type %q", s)
}

// ResourceTypes returns every registered resource type in declaration order.
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceIron}
}

// ObjectRecord is the validated payload of a placed map object.
// The only implementations live in this package.
type ObjectRecord interface {
	// ID is the object id assigned by the map editor
	ID() uint32

	// Type is the class the record was built from
	Type() ObjectType

	// Clone returns an independent copy, used so a world can mutate its
	// records without touching the imported map.
	Clone() ObjectRecord

	objectRecord()
}

// ResourceDeposit is a harvestable pile of a single resource.
type ResourceDeposit struct {
	id       uint32
	Resource ResourceType
	Amount   uint32
}

// NewResourceDeposit returns a deposit record.
func NewResourceDeposit(id uint32, resource ResourceType, amount uint32) *ResourceDeposit {
	return &ResourceDeposit{id: id, Resource: resource, Amount: amount}
}

func (d *ResourceDeposit) ID() uint32 {
	return d.id
}

func (d *ResourceDeposit) Type() ObjectType {
	return ObjectResources
}

func (d *ResourceDeposit) Clone() ObjectRecord {
	c := *d
	return &c
}

// Take removes up to n from the deposit and returns how much was removed.
func (d *ResourceDeposit) Take(n uint32) uint32 {
	if n > d.Amount {
		n = d.Amount
	}
	d.Amount -= n
	return n
}

func (d *ResourceDeposit) String() string {
	return fmt.Sprintf("Resources{id: %d, type: %s, amount: %d}", d.id, d.Resource, d.Amount)
}

func (*ResourceDeposit) objectRecord() {}

// newObjectRecord validates the class of `o` and then the properties that
// class requires.
func newObjectRecord(o *ObjectDoc, props *Properties) (ObjectRecord, error) {
	class, err := ParseObjectType(o.className())
	if err != nil {
		return nil, err
	}

	switch class {
	case ObjectResources:
		name, err := props.RequireString(PropResourceType)
		if err != nil {
			return nil, err
		}
		resource, err := ParseResourceType(name)
		if err != nil {
			return nil, &propertyError{name: PropResourceType, err: fmt.Errorf("%w: %v", ErrInvalidProperty, err)}
		}

		amount, err := props.RequireInt(PropAmount)
		if err != nil {
			return nil, err
		}
		if amount < 0 || int64(amount) > math.MaxUint32 {
			return nil, &propertyError{name: PropAmount, err: fmt.Errorf("%w: %d out of range", ErrInvalidProperty, amount)}
		}

		return NewResourceDeposit(o.ID, resource, uint32(amount)), nil
	}

	return nil, fmt.Errorf("%w %q", ErrUnknownClass, class)
}
