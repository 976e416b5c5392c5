package world

import "github.com/thornvale/server/internal/data"

// Object is a live instance of an object prototype. Exactly one of
// InRoom, CarriedBy, InObj is non-nil while the object is placed.
type Object struct {
	ID    uint64
	Proto *data.ObjProto

	InRoom    *Room
	CarriedBy *Mobile
	InObj     *Object
	Contains  []*Object

	WearLoc int

	Name        string
	ShortDescr  string
	Description string

	ItemType   int
	ExtraFlags data.Bits
	WearFlags  data.Bits
	Values     [5]int
	Weight     int
	Cost       int
	Level      int
	Condition  int
	Timer      int // ticks until decay, 0 = never

	Affects   []*Affect
	Enchanted bool

	extracted bool
}

// Room returns the room an object is ultimately in, walking container
// and carrier chains.
func (o *Object) Room() *Room {
	for o.InObj != nil {
		o = o.InObj
	}
	if o.CarriedBy != nil {
		return o.CarriedBy.Room
	}
	return o.InRoom
}

// TotalWeight is the object's weight plus contents. Container value[4]
// is a weight multiplier percentage.
func (o *Object) TotalWeight() int {
	w := o.Weight
	mult := 100
	if o.ItemType == data.ItemContainer && o.Values[4] > 0 {
		mult = o.Values[4]
	}
	for _, in := range o.Contains {
		w += in.TotalWeight() * mult / 100
	}
	return w
}

// IsClosed reports whether a container or portal is closed.
func (o *Object) IsClosed() bool {
	switch o.ItemType {
	case data.ItemContainer:
		return o.Values[1]&data.ContClosed != 0
	case data.ItemPortal:
		return o.Values[1]&data.ContClosed != 0
	}
	return false
}
