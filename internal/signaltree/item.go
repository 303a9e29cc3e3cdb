// Package signaltree exposes the signals of one message as an editable
// tree: one node per signal, each with a fixed set of property rows.
package signaltree

import "github.com/cristianoliveira/cansig/internal/sparkline"

// Kind identifies what a tree node shows.
type Kind int

const (
	KindRoot Kind = iota
	KindSignal
	KindName
	KindSize
	KindEndian
	KindSigned
	KindOffset
	KindFactor
	KindExtraInfo
	KindUnit
	KindComment
	KindMin
	KindMax
	KindDesc
)

// Row layout of a signal node. Rows ExtraInfoFirstRow through
// ExtraInfoFirstRow+ExtraInfoRowCount-1 are only visible while the
// node's extra info is expanded.
const (
	PropertyRowCount  = int(KindDesc-KindName) + 1
	ExtraInfoFirstRow = int(KindUnit - KindName)
	ExtraInfoRowCount = int(KindDesc - KindExtraInfo)
)

var propertyTitles = [PropertyRowCount]string{
	"Name", "Size", "Little Endian", "Signed", "Offset", "Factor", "Extra Info",
	"Unit", "Comment", "Minimum Value", "Maximum Value", "Value Descriptions",
}

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindSignal:
		return "signal"
	}
	if k >= KindName && k <= KindDesc {
		return propertyTitles[k-KindName]
	}
	return "unknown"
}

// Item is a tree node. Signal nodes own their property rows; property
// rows resolve their signal through Parent.
type Item struct {
	Kind     Kind
	Title    string
	SigName  string
	Parent   *Item
	Children []*Item

	// Display state of signal nodes.
	Value         string
	Highlight     bool
	Sparkline     sparkline.Sparkline
	ExtraExpanded bool
}

func newSignalItem(parent *Item, name string) *Item {
	item := &Item{Kind: KindSignal, Title: name, SigName: name, Parent: parent}
	item.Children = make([]*Item, 0, PropertyRowCount)
	for i, title := range propertyTitles {
		item.Children = append(item.Children, &Item{
			Kind:    KindName + Kind(i),
			Title:   title,
			SigName: name,
			Parent:  item,
		})
	}
	return item
}

func (it *Item) rename(name string) {
	it.Title = name
	it.SigName = name
	for _, c := range it.Children {
		c.SigName = name
	}
}

// Row returns the position of the item within its parent, or -1.
func (it *Item) Row() int {
	if it.Parent == nil {
		return -1
	}
	for i, c := range it.Parent.Children {
		if c == it {
			return i
		}
	}
	return -1
}

// IsExtraInfo reports whether the row belongs to the collapsible group.
func (it *Item) IsExtraInfo() bool {
	return it.Kind >= KindUnit && it.Kind <= KindDesc
}
