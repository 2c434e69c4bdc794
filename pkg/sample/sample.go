// Package sample provides the built-in demo hierarchy dt shows when no
// dataset is given.
package sample

import (
	"fmt"

	"github.com/vanderheijden86/dirtree/pkg/model"
)

// LoadTestSize is the number of children in the load-test container.
const LoadTestSize = 1000

// DefaultExpanded lists the ids expanded when the sample is first shown.
var DefaultExpanded = []string{"root-src", "components"}

func folder(id, name string, children ...model.Node) model.Node {
	if children == nil {
		children = []model.Node{}
	}
	return model.Folder(id, name, children...)
}

// LargeSet returns count empty folders with ids "<parentID>-<i>" and names
// "Test Folder <i+1>".
func LargeSet(count int, parentID string) []model.Node {
	out := make([]model.Node, count)
	for i := range out {
		out[i] = folder(fmt.Sprintf("%s-%d", parentID, i), fmt.Sprintf("Test Folder %d", i+1))
	}
	return out
}

// Data returns a fresh copy of the sample hierarchy.
func Data() []model.Node {
	return []model.Node{
		folder("root-src", "src",
			folder("components", "components",
				folder("ui-folder", "ui"),
				folder("layouts", "layouts"),
				folder("widgets", "widgets"),
			),
			folder("hooks", "hooks"),
			folder("utils", "utils"),
			folder("services", "services"),
		),
		folder("public-folder", "public",
			folder("assets", "assets"),
			folder("images", "images"),
		),
		folder("config", "config"),
		folder("scripts", "scripts"),
		folder("docs", "docs"),
		folder("load-test", fmt.Sprintf("Load Test (%d items)", LoadTestSize), LargeSet(LoadTestSize, "load-test")...),
	}
}
