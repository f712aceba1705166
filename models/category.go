package models

// AllKey is the filter key that matches every product
const AllKey = "all"

// AllLabel is the label shown for AllKey
const AllLabel = "Todos"

// Category is a filter taxonomy entry discovered from the current snapshot
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// MaterialOption is a material filter entry
type MaterialOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
